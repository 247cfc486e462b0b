package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Catalog(ctx context.Context) error
	Types(ctx context.Context) error
	Show(ctx context.Context, args []string) error
	Add(ctx context.Context, args []string) error
	ShowCart(ctx context.Context) error
	Remove(ctx context.Context, args []string) error
	Qty(ctx context.Context, args []string) error
	Fav(ctx context.Context, args []string) error
	Favs(ctx context.Context) error
	Checkout(ctx context.Context) error
	Orders(ctx context.Context) error
	Activity(ctx context.Context) error
	Prefs(ctx context.Context, args []string) error
}

// runREPL starts a simple read–eval–print loop for the storefront CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help             — show available commands
//	  - register         — create an account
//	  - login            — authenticate
//	  - catalog          — browse the product catalog
//	  - types            — list product categories
//	  - show <slug>      — show one product
//	  - exit | quit      — leave the program
//
//	Logged in (in addition):
//	  - add <id> [size]  — add a product to the cart
//	  - cart             — show the cart
//	  - remove <line>    — remove a cart line
//	  - qty <line> <n>   — change a line's quantity
//	  - fav <id>         — toggle a favorite
//	  - favs             — list favorites
//	  - checkout         — place the order
//	  - orders           — list past orders
//	  - activity         — show the activity feed
//	  - prefs [name]     — show or toggle notification preferences
//	  - logout           — log out
//
// Any errors returned by command handlers are reported inline; handlers
// keep their own state consistent. This keeps the REPL loop resilient and
// focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("pokeshop %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		var err error

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: catalog, types, show, add, cart, remove, qty, fav, favs, checkout, orders, activity, prefs, logout, exit")
			} else {
				printlnFn("Available commands: register, login, catalog, types, show, exit")
			}

		case "register":
			err = a.Register(ctx)

		case "login":
			err = a.Login(ctx)

		case "logout":
			err = a.Logout(ctx)

		case "catalog":
			err = a.Catalog(ctx)

		case "types":
			err = a.Types(ctx)

		case "show":
			err = a.Show(ctx, args)

		case "add":
			err = a.Add(ctx, args)

		case "cart":
			err = a.ShowCart(ctx)

		case "remove":
			err = a.Remove(ctx, args)

		case "qty":
			err = a.Qty(ctx, args)

		case "fav":
			err = a.Fav(ctx, args)

		case "favs":
			err = a.Favs(ctx)

		case "checkout":
			err = a.Checkout(ctx)

		case "orders":
			err = a.Orders(ctx)

		case "activity":
			err = a.Activity(ctx)

		case "prefs":
			err = a.Prefs(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err.Error())
		}
	}
}
