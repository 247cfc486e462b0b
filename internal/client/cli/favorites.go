package cli

import (
	"context"
	"fmt"
)

// Fav toggles a product's favorite state by product id.
func (a *App) Fav(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		printlnFn("Log in first.")
		return nil
	}
	if len(args) == 0 {
		printlnFn("Usage: fav <product-id>")
		return nil
	}

	product, err := a.findProduct(ctx, args[0])
	if err != nil {
		return err
	}

	if a.favorites.Toggle(ctx, *product) {
		printlnFn(fmt.Sprintf("%s added to favorites.", product.Name))
	} else {
		printlnFn(fmt.Sprintf("%s removed from favorites.", product.Name))
	}
	return nil
}

// Favs lists the favorites.
func (a *App) Favs(ctx context.Context) error {
	items := a.favorites.Items()
	if len(items) == 0 {
		printlnFn("No favorites yet.")
		return nil
	}
	for _, p := range items {
		printlnFn(fmt.Sprintf("%-8s %-30s $%.2f", p.ID, p.Name, p.Price))
	}
	return nil
}
