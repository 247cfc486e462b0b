package api

import (
	"context"

	"github.com/pokeshop/storefront/internal/client/models"
)

// TokenPair is the backend's auth response: a short-lived access token and a
// long-lived refresh token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Client is the remote boundary of the synchronizer. Every method suspends
// only for the duration of its network call; there is no client-side queue
// or retry beyond the single token-refresh replay.
type Client interface {
	Close() error

	Login(ctx context.Context, creds models.Credentials) (*TokenPair, error)
	Register(ctx context.Context, reg models.Registration) (*models.User, error)
	CurrentUser(ctx context.Context) (*models.User, error)
	Logout(ctx context.Context) error

	Products(ctx context.Context) ([]models.Product, error)
	ProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	ProductTypes(ctx context.Context) ([]string, error)

	CreateOrder(ctx context.Context, payload models.OrderPayload) (*models.Order, error)
	Orders(ctx context.Context) ([]models.Order, error)

	Activities(ctx context.Context) ([]models.ActivityEvent, error)
	AppendActivity(ctx context.Context, typ, title, description string) (*models.ActivityEvent, error)

	// SetTokens installs (or clears) the auth artifacts used on subsequent
	// requests.
	SetTokens(access, refresh string)

	// AccessToken returns the currently installed access token, which may
	// have been rotated by a transparent refresh.
	AccessToken() string
}
