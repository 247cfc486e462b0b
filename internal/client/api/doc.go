// Package api contains the remote boundary of the storefront client.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) covering
//     the backend endpoints the synchronizer consumes: auth, catalog, orders
//     and the activity feed.
//  2. A concrete REST implementation (see HTTPClient) that speaks JSON over
//     HTTP, injects the access token as a bearer header, transparently
//     refreshes an expired token pair and replays the request once, and maps
//     HTTP statuses to sentinel errors.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors matchable with errors.Is:
// ErrUnavailable (network failure) and ErrUnauthorized (HTTP 401, also
// reachable through the *APIError returned for non-2xx responses).
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept a
// context.Context and honor cancellation/timeouts.
//
// See Also
//
//   - Interface: Client
//   - REST impl: HTTPClient
//   - Errors:    ErrUnavailable, ErrUnauthorized, APIError
package api
