// Package session owns the client's identity state: the authenticated user
// cached wholesale in the profile store and the auth token artifacts. It is
// the only component allowed to write the current-user key. Cart, favorites
// and activity take the identity from here instead of reading storage ad hoc.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pokeshop/storefront/internal/client/api"
	"github.com/pokeshop/storefront/internal/client/bus"
	"github.com/pokeshop/storefront/internal/client/kv"
	"github.com/pokeshop/storefront/internal/client/models"
	"github.com/pokeshop/storefront/internal/common"
	"github.com/pokeshop/storefront/internal/logging"
)

// storedSession is the JSON layout persisted under kv.CurrentUserKey: the
// user snapshot plus the token pair, replaced wholesale on every login.
type storedSession struct {
	models.User
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	LoggedIn     bool   `json:"loggedIn"`
}

// APIClient is the slice of the remote API the session needs.
type APIClient interface {
	Login(ctx context.Context, creds models.Credentials) (*api.TokenPair, error)
	Register(ctx context.Context, reg models.Registration) (*models.User, error)
	CurrentUser(ctx context.Context) (*models.User, error)
	Logout(ctx context.Context) error
	SetTokens(access, refresh string)
	AccessToken() string
}

// Manager holds the in-memory identity and keeps it in sync with the
// profile store, the remote backend, and sibling tabs.
type Manager struct {
	store  kv.Store
	bus    *bus.Bus
	client APIClient
	log    logging.Logger

	mu   sync.Mutex
	user *models.User
}

// NewManager wires a session manager. Call Load once at startup to pick up
// a previously persisted identity.
func NewManager(store kv.Store, b *bus.Bus, client APIClient, log logging.Logger) *Manager {
	return &Manager{store: store, bus: b, client: client, log: log.With("component", "session")}
}

// Load reads the cached identity from the store. A missing or malformed
// value leaves the session empty; it is never an error.
func (m *Manager) Load(ctx context.Context) {
	stored, ok := m.read(ctx)
	if !ok || !stored.LoggedIn {
		return
	}

	m.client.SetTokens(stored.AccessToken, stored.RefreshToken)

	m.mu.Lock()
	u := stored.User
	m.user = &u
	m.mu.Unlock()
}

func (m *Manager) read(ctx context.Context) (storedSession, bool) {
	raw, ok, err := m.store.Get(ctx, kv.CurrentUserKey)
	if err != nil || !ok {
		return storedSession{}, false
	}
	var stored storedSession
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		m.log.Warn(ctx, "discarding malformed cached identity", "error", err)
		return storedSession{}, false
	}
	return stored, true
}

// Login authenticates against the backend, fetches the profile, and caches
// both wholesale. On success the previous identity (if any) is replaced.
func (m *Manager) Login(ctx context.Context, email, password string) (*models.User, error) {
	pair, err := m.client.Login(ctx, models.Credentials{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}

	m.client.SetTokens(pair.AccessToken, pair.RefreshToken)

	user, err := m.client.CurrentUser(ctx)
	if err != nil {
		m.client.SetTokens("", "")
		return nil, fmt.Errorf("fetching profile: %w", err)
	}
	if user.Name == "" {
		// mirror the UI fallback: the email prefix stands in for a name
		user.Name = strings.SplitN(user.Email, "@", 2)[0]
	}

	stored := storedSession{
		User:         *user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		LoggedIn:     true,
	}
	raw, err := json.Marshal(stored)
	if err != nil {
		return nil, err
	}
	if err := m.store.Set(ctx, kv.CurrentUserKey, string(raw)); err != nil {
		return nil, fmt.Errorf("caching identity: %w", err)
	}

	m.mu.Lock()
	u := *user
	m.user = &u
	m.mu.Unlock()

	m.bus.Publish(bus.TopicUserLoggedIn, nil)
	return user, nil
}

// Register creates an account on the backend. It does not log the user in;
// callers follow up with Login.
func (m *Manager) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	user, err := m.client.Register(ctx, models.Registration{Name: name, Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("register error: %w", err)
	}
	return user, nil
}

// Logout tears the session down. The remote call is best-effort: a failed
// logout endpoint never keeps the user logged in locally. The per-email cart
// and favorites keys are left in place for the next login.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.client.Logout(ctx); err != nil {
		m.log.Warn(ctx, "remote logout failed", "error", err)
	}
	m.teardown(ctx)
}

// HandleUnauthorized implements the 401 policy: the cached identity and the
// token artifacts are dropped, forcing re-login; cart and favorites survive.
func (m *Manager) HandleUnauthorized() {
	m.teardown(context.Background())
}

func (m *Manager) teardown(ctx context.Context) {
	if err := m.store.Remove(ctx, kv.CurrentUserKey); err != nil {
		m.log.Warn(ctx, "removing cached identity", "error", err)
	}
	m.client.SetTokens("", "")

	m.mu.Lock()
	wasLoggedIn := m.user != nil
	m.user = nil
	m.mu.Unlock()

	if wasLoggedIn {
		m.bus.Publish(bus.TopicUserLoggedOut, nil)
	}
}

// Current returns a copy of the authenticated user, or nil.
func (m *Manager) Current() *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// Email returns the authenticated user's email, or "".
func (m *Manager) Email() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return ""
	}
	return m.user.Email
}

// IsLoggedIn reports whether an identity is present.
func (m *Manager) IsLoggedIn() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user != nil
}

// TokenExpired inspects the cached access token's exp claim without
// verifying the signature; the server stays authoritative. Used only to
// pre-empt requests that are certain to fail.
func (m *Manager) TokenExpired(ctx context.Context) (bool, error) {
	token := m.client.AccessToken()
	if token == "" {
		return false, common.ErrNotLoggedIn
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false, common.ErrInvalidToken
	}
	return exp.Before(time.Now()), nil
}

// WatchTab subscribes the session to the cross-tab change signal: when a
// sibling tab rewrites the current-user key, the in-memory identity is
// re-derived from a full re-read. Returns an unsubscribe func.
func (m *Manager) WatchTab(w kv.Watcher) func() {
	return w.Watch(func(key string) {
		if key != kv.CurrentUserKey {
			return
		}
		m.resync(context.Background())
	})
}

// resync re-reads the store and publishes login/logout transitions observed
// from another tab.
func (m *Manager) resync(ctx context.Context) {
	stored, ok := m.read(ctx)

	m.mu.Lock()
	was := m.user != nil
	if ok && stored.LoggedIn {
		u := stored.User
		m.user = &u
		m.client.SetTokens(stored.AccessToken, stored.RefreshToken)
	} else {
		m.user = nil
		m.client.SetTokens("", "")
	}
	is := m.user != nil
	m.mu.Unlock()

	switch {
	case is && !was:
		m.bus.Publish(bus.TopicUserLoggedIn, nil)
	case !is && was:
		m.bus.Publish(bus.TopicUserLoggedOut, nil)
	}
}
