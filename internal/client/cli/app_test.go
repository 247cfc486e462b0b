package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pokeshop/storefront/internal/client/activity"
	"github.com/pokeshop/storefront/internal/client/api"
	"github.com/pokeshop/storefront/internal/client/bus"
	"github.com/pokeshop/storefront/internal/client/cart"
	"github.com/pokeshop/storefront/internal/client/checkout"
	"github.com/pokeshop/storefront/internal/client/config"
	"github.com/pokeshop/storefront/internal/client/favorites"
	"github.com/pokeshop/storefront/internal/client/kv"
	"github.com/pokeshop/storefront/internal/client/models"
	"github.com/pokeshop/storefront/internal/client/prefs"
	"github.com/pokeshop/storefront/internal/client/session"
	"github.com/pokeshop/storefront/internal/logging"
)

// fakeBackend serves the REST surface the commands hit.
func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()

	catalog := []models.Product{
		{ID: "p1", Slug: "pikachu-plush", Name: "Pikachu Plush", Type: "plush", Price: 19.99,
			Variants: []models.Variant{{Size: "20cm", Price: 19.99}, {Size: "40cm", Price: 34.99}}},
		{ID: "p7", Slug: "charizard-figure", Name: "Charizard Figure", Type: "figure", Price: 49.99},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"access_token": "at", "refresh_token": "rt"})
	})
	mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.User{ID: "u1", Name: "Ash", Email: "ash@example.com"})
	})
	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(catalog)
	})
	mux.HandleFunc("GET /products/slug/{slug}", func(w http.ResponseWriter, r *http.Request) {
		for _, p := range catalog {
			if p.Slug == r.PathValue("slug") {
				json.NewEncoder(w).Encode(p)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Product not found"})
	})
	mux.HandleFunc("POST /orders/", func(w http.ResponseWriter, r *http.Request) {
		var payload models.OrderPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		json.NewEncoder(w).Encode(models.Order{ID: "ord-1", Items: payload.Items, Total: payload.Total, Status: models.OrderPending, CreatedAt: time.Now()})
	})
	mux.HandleFunc("GET /orders/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.Order{})
	})
	mux.HandleFunc("GET /activity/user", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.ActivityEvent{})
	})
	mux.HandleFunc("POST /activity/", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Type        string `json:"type"`
			Title       string `json:"title"`
			Description string `json:"description"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		json.NewEncoder(w).Encode(models.ActivityEvent{ID: "a1", Type: body.Type, Title: body.Title, Description: body.Description, Timestamp: time.Now()})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// newTestApp assembles an App on an in-memory store against the fake
// backend, with input and output stubbed.
func newTestApp(t *testing.T, baseURL, input string) (*App, *[]string) {
	t.Helper()

	httpClient := api.NewHTTPClient(baseURL, 5*time.Second)
	tab := kv.NewArena(kv.NewMemoryStore()).OpenTab()
	b := bus.New()
	log := discardLogger()

	a := &App{
		config: &config.Config{BaseURL: baseURL},
		log:    log,
		api:    httpClient,
		store:  tab,
		bus:    b,
		reader: bufio.NewReader(strings.NewReader(input)),
	}
	a.session = session.NewManager(tab, b, httpClient, log)
	httpClient.SetOnUnauthorized(a.session.HandleUnauthorized)
	a.activity = activity.NewLog(httpClient, a.session, b, log)
	a.cart = cart.New(tab, b, a.activity, a.session, log)
	a.favorites = favorites.New(tab, b, a.activity, a.session, log)
	a.checkout = checkout.New(httpClient, a.cart, a.activity, log)
	a.prefs = prefs.NewManager(tab)

	lines := &[]string{}
	origPrint := printlnFn
	printlnFn = func(args ...any) (int, error) {
		*lines = append(*lines, fmt.Sprintln(args...))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = origPrint })

	return a, lines
}

func stubCredentials(t *testing.T, email string, password []byte) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return email, nil }
	getPassword = func(_ io.Writer) ([]byte, error) { return password, nil }
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

func TestApp_LoginThenStatus(t *testing.T) {
	srv := fakeBackend(t)
	a, _ := newTestApp(t, srv.URL, "")
	stubCredentials(t, "ash@example.com", []byte("pikachu"))

	require.NoError(t, a.Login(context.Background()))

	assert.True(t, a.isLoggedIn())
	assert.Contains(t, a.getStatus(), "ash@example.com")

	// the login shows up in the local feed
	events := a.activity.Recent()
	require.NotEmpty(t, events)
	assert.Equal(t, "Inicio de sesión", events[0].Title)
	assert.Equal(t, "Bienvenido al panel, Ash", events[0].Description)
}

func TestApp_AddAndCheckout(t *testing.T) {
	srv := fakeBackend(t)
	a, lines := newTestApp(t, srv.URL, "")
	stubCredentials(t, "ash@example.com", []byte("pikachu"))
	ctx := context.Background()

	require.NoError(t, a.Login(ctx))
	require.NoError(t, a.Add(ctx, []string{"p1", "20cm"}))
	require.NoError(t, a.Add(ctx, []string{"p7"}))
	assert.Equal(t, 2, a.cart.Count())

	require.NoError(t, a.Checkout(ctx))
	assert.Zero(t, a.cart.Count(), "checkout clears the cart")

	joined := strings.Join(*lines, "")
	assert.Contains(t, joined, "Order ord-1 placed")
}

func TestApp_AddRequiresSizeForVariantProducts(t *testing.T) {
	srv := fakeBackend(t)
	a, lines := newTestApp(t, srv.URL, "")
	stubCredentials(t, "ash@example.com", []byte("pikachu"))
	ctx := context.Background()

	require.NoError(t, a.Login(ctx))
	require.NoError(t, a.Add(ctx, []string{"p1"}))

	assert.Zero(t, a.cart.Count())
	assert.Contains(t, strings.Join(*lines, ""), "pick one")
}

func TestApp_CheckoutEmptyCart(t *testing.T) {
	srv := fakeBackend(t)
	a, lines := newTestApp(t, srv.URL, "")
	stubCredentials(t, "ash@example.com", []byte("pikachu"))
	ctx := context.Background()

	require.NoError(t, a.Login(ctx))
	require.NoError(t, a.Checkout(ctx))

	assert.Contains(t, strings.Join(*lines, ""), "cart is empty")
}

func TestApp_FavToggle(t *testing.T) {
	srv := fakeBackend(t)
	a, lines := newTestApp(t, srv.URL, "")
	stubCredentials(t, "ash@example.com", []byte("pikachu"))
	ctx := context.Background()

	require.NoError(t, a.Login(ctx))
	require.NoError(t, a.Fav(ctx, []string{"p7"}))
	assert.True(t, a.favorites.IsFavorite("p7"))

	require.NoError(t, a.Fav(ctx, []string{"p7"}))
	assert.False(t, a.favorites.IsFavorite("p7"))

	joined := strings.Join(*lines, "")
	assert.Contains(t, joined, "added to favorites")
	assert.Contains(t, joined, "removed from favorites")
}

func TestApp_CommandsRequireLogin(t *testing.T) {
	srv := fakeBackend(t)
	a, lines := newTestApp(t, srv.URL, "")
	ctx := context.Background()

	require.NoError(t, a.Add(ctx, []string{"p1", "20cm"}))
	require.NoError(t, a.Checkout(ctx))
	require.NoError(t, a.Orders(ctx))

	assert.Zero(t, a.cart.Count())
	assert.Contains(t, strings.Join(*lines, ""), "Log in first.")
}

func TestApp_LogoutKeepsPersistedCart(t *testing.T) {
	srv := fakeBackend(t)
	a, _ := newTestApp(t, srv.URL, "")
	stubCredentials(t, "ash@example.com", []byte("pikachu"))
	ctx := context.Background()

	require.NoError(t, a.Login(ctx))
	require.NoError(t, a.Add(ctx, []string{"p1", "20cm"}))
	require.NoError(t, a.Logout(ctx))

	assert.False(t, a.isLoggedIn())
	assert.Zero(t, a.cart.Count())

	raw, ok, err := a.store.Get(ctx, kv.CartKey("ash@example.com"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, raw, "p1-20cm")
}
