package cli

import (
	"context"
	"fmt"
)

// Orders prints the user's past orders, newest data as served by the
// backend.
func (a *App) Orders(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Log in first.")
		return nil
	}

	orders, err := a.api.Orders(ctx)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		printlnFn("No orders yet.")
		return nil
	}
	for _, o := range orders {
		printlnFn(fmt.Sprintf("%-12s %-10s $%-8.2f %s", o.ID, o.Status, o.Total, o.CreatedAt.Format("2006-01-02 15:04")))
		for _, item := range o.Items {
			printlnFn(fmt.Sprintf("    %s x%d", item.Name, item.Quantity))
		}
	}
	return nil
}

// Activity prints the recent activity feed, newest first.
func (a *App) Activity(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Log in first.")
		return nil
	}

	if err := a.activity.Refresh(ctx); err != nil {
		a.log.Warn(ctx, "refreshing activity feed", "error", err)
	}

	events := a.activity.Recent()
	if len(events) == 0 {
		printlnFn("No activity yet.")
		return nil
	}
	for _, e := range events {
		printlnFn(fmt.Sprintf("%s  %-20s %s", e.Timestamp.Format("2006-01-02 15:04"), e.Title, e.Description))
	}
	return nil
}
