package cli

import (
	"context"
	"fmt"
)

// Prefs without arguments prints the notification preferences; with a
// preference name (orders, promotions, favorites) it flips that toggle.
func (a *App) Prefs(ctx context.Context, args []string) error {
	if len(args) > 0 {
		n, err := a.prefs.Toggle(ctx, args[0])
		if err != nil {
			return err
		}
		printPrefs(n.Orders, n.Promotions, n.Favorites)
		return nil
	}

	n, err := a.prefs.Load(ctx)
	if err != nil {
		return err
	}
	printPrefs(n.Orders, n.Promotions, n.Favorites)
	return nil
}

func printPrefs(orders, promotions, favorites bool) {
	onOff := func(v bool) string {
		if v {
			return "on"
		}
		return "off"
	}
	printlnFn(fmt.Sprintf("orders: %s, promotions: %s, favorites: %s",
		onOff(orders), onOff(promotions), onOff(favorites)))
}
