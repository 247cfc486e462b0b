package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/pokeshop/storefront/internal/client/checkout"
	"github.com/pokeshop/storefront/internal/client/models"
	"github.com/pokeshop/storefront/internal/common"
)

// Add looks up a product by id and puts one unit in the cart. Products with
// variants require the size as the second argument.
func (a *App) Add(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		printlnFn("Log in first.")
		return nil
	}
	if len(args) == 0 {
		printlnFn("Usage: add <product-id> [size]")
		return nil
	}

	product, err := a.findProduct(ctx, args[0])
	if err != nil {
		return err
	}

	size := ""
	if len(args) > 1 {
		size = args[1]
	}
	if product.HasVariants() && size == "" {
		printlnFn("This product comes in sizes; pick one: add " + product.ID + " <size>")
		return nil
	}

	if err := a.cart.AddItem(ctx, *product, size); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			printlnFn("No such size:", size)
			return nil
		}
		return err
	}

	printlnFn(fmt.Sprintf("Added. Cart now holds %d item(s).", a.cart.Count()))
	return nil
}

// ShowCart prints the cart lines with their identity keys, so remove and
// qty can reference them, followed by the total.
func (a *App) ShowCart(ctx context.Context) error {
	items := a.cart.Items()
	if len(items) == 0 {
		printlnFn("Your cart is empty.")
		return nil
	}
	for _, item := range items {
		printlnFn(fmt.Sprintf("%-16s %-30s x%d  $%.2f", item.Key, item.Label(), item.Quantity, item.UnitPrice*float64(item.Quantity)))
	}
	printlnFn(fmt.Sprintf("Total: $%.2f", a.cart.Total()))
	return nil
}

// Remove drops a cart line by its identity key.
func (a *App) Remove(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: remove <line>")
		return nil
	}
	a.cart.RemoveItem(ctx, args[0])
	printlnFn(fmt.Sprintf("Cart now holds %d item(s).", a.cart.Count()))
	return nil
}

// Qty sets the quantity of a cart line. Values below 1 are rejected.
func (a *App) Qty(ctx context.Context, args []string) error {
	if len(args) < 2 {
		printlnFn("Usage: qty <line> <n>")
		return nil
	}
	n, err := strconv.Atoi(args[1])
	if err != nil || n < 1 {
		printlnFn("Quantity must be a positive number.")
		return nil
	}
	a.cart.UpdateQuantity(ctx, args[0], n)
	printlnFn(fmt.Sprintf("Cart now holds %d item(s).", a.cart.Count()))
	return nil
}

// Checkout places an order from the current cart.
func (a *App) Checkout(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Log in first.")
		return nil
	}

	order, err := a.checkout.Submit(ctx)
	defer a.checkout.Reset()
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			printlnFn("Your cart is empty.")
			return nil
		}
		return err
	}

	printlnFn(fmt.Sprintf("Order %s placed, total $%.2f. Thank you!", order.ID, order.Total))
	return nil
}

// findProduct resolves an id against the catalog.
func (a *App) findProduct(ctx context.Context, id string) (*models.Product, error) {
	products, err := a.api.Products(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, fmt.Errorf("product %s: %w", id, common.ErrorNotFound)
}
