// Package cli provides the interactive storefront command-line client.
//
// It wires configuration, the local profile store, the backend API client
// and the state aggregates into an interactive REPL. Typical flow: restore
// a persisted session, browse the catalog, fill the cart and check out.
//
// Key features:
//   - Register / Login / Logout with a locally cached session
//   - Catalog browsing and per-product detail
//   - Cart editing (add, remove, quantity) persisted per user
//   - Favorites, past orders and the activity feed
//   - Notification preference toggles
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
