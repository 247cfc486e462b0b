// Package common defines shared constants and sentinel errors used across
// the storefront client layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (

	// store-level errors
	ErrorNotFound = errors.New("not found")

	// service-level errors (generic/internal flow control)
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// session errors
	ErrNotLoggedIn  = errors.New("not logged in")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// cart/product validation errors
	ErrDuplicateVariant = errors.New("duplicate variant size")
	ErrUnknownLine      = errors.New("unknown cart line")
)
