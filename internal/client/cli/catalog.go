package cli

import (
	"context"
	"fmt"
	"strings"
)

// Catalog fetches and prints the product catalog.
func (a *App) Catalog(ctx context.Context) error {
	products, err := a.api.Products(ctx)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		printlnFn("The catalog is empty.")
		return nil
	}
	for _, p := range products {
		mark := " "
		if a.favorites.IsFavorite(p.ID) {
			mark = "*"
		}
		printlnFn(fmt.Sprintf("%s %-8s %-30s $%.2f", mark, p.ID, p.Name, p.Price))
	}
	return nil
}

// Types prints the product categories the catalog can be filtered by.
func (a *App) Types(ctx context.Context) error {
	types, err := a.api.ProductTypes(ctx)
	if err != nil {
		return err
	}
	if len(types) == 0 {
		printlnFn("No product types.")
		return nil
	}
	printlnFn(strings.Join(types, ", "))
	return nil
}

// Show prints one product looked up by slug, including its variants.
func (a *App) Show(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: show <slug>")
		return nil
	}

	p, err := a.api.ProductBySlug(ctx, args[0])
	if err != nil {
		return err
	}

	printlnFn(fmt.Sprintf("%s (%s)", p.Name, p.ID))
	if p.Type != "" {
		printlnFn("Type: " + p.Type)
	}
	if p.HasVariants() {
		sizes := make([]string, 0, len(p.Variants))
		for _, v := range p.Variants {
			sizes = append(sizes, fmt.Sprintf("%s $%.2f", v.Size, v.Price))
		}
		printlnFn("Sizes: " + strings.Join(sizes, ", "))
	} else {
		printlnFn(fmt.Sprintf("Price: $%.2f", p.Price))
	}
	return nil
}
