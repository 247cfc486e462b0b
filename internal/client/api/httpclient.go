package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/pokeshop/storefront/internal/client/models"
)

const refreshPath = "/auth/refresh"

// HTTPClient implements Client against the storefront REST backend.
//
// Auth: the access token rides as a bearer header. On a 401 the client
// transparently calls /auth/refresh with the refresh token and replays the
// request once with the rotated pair; if that fails too, the configured
// OnUnauthorized hook fires so the session can tear itself down.
type HTTPClient struct {
	baseURL string
	httpc   *http.Client

	mu             sync.Mutex
	accessToken    string
	refreshToken   string
	onUnauthorized func()
}

// NewHTTPClient builds a client for the given base URL, e.g.
// "http://127.0.0.1:8000/api/v1".
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: timeout},
	}
}

// SetTokens installs (or clears, with empty strings) the auth artifacts.
func (c *HTTPClient) SetTokens(access, refresh string) {
	c.mu.Lock()
	c.accessToken = access
	c.refreshToken = refresh
	c.mu.Unlock()
}

// AccessToken returns the current access token.
func (c *HTTPClient) AccessToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken
}

// SetOnUnauthorized registers a hook invoked when a request ends in a 401
// that could not be recovered by a token refresh.
func (c *HTTPClient) SetOnUnauthorized(fn func()) {
	c.mu.Lock()
	c.onUnauthorized = fn
	c.mu.Unlock()
}

// Close releases idle connections.
func (c *HTTPClient) Close() error {
	c.httpc.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) tokens() (access, refresh string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken, c.refreshToken
}

// attempt performs one HTTP round trip with the given bearer token.
func (c *HTTPClient) attempt(ctx context.Context, method, path, bearer string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return resp, nil
}

// refresh rotates the token pair using the refresh token. Holding no lock
// during the network call; the pair is swapped atomically afterwards.
func (c *HTTPClient) refresh(ctx context.Context, refreshToken string) error {
	resp, err := c.attempt(ctx, http.MethodPost, refreshPath, refreshToken, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return readAPIError(resp)
	}

	var pair TokenPair
	if err := json.NewDecoder(resp.Body).Decode(&pair); err != nil {
		return fmt.Errorf("decoding refresh response: %w", err)
	}
	c.SetTokens(pair.AccessToken, pair.RefreshToken)
	return nil
}

func readAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		apiErr.Detail = payload.Detail
	}
	return apiErr
}

// do runs a JSON request/response cycle: marshal body (if any), attach the
// bearer token, retry once through a token refresh on 401, decode into out
// (if non-nil).
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var raw []byte
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		if err != nil {
			return err
		}
	}

	access, refreshToken := c.tokens()

	resp, err := c.attempt(ctx, method, path, access, raw)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized && refreshToken != "" {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if err := c.refresh(ctx, refreshToken); err != nil {
			c.fireUnauthorized()
			return err
		}

		access, _ = c.tokens()
		resp, err = c.attempt(ctx, method, path, access, raw)
		if err != nil {
			return err
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.fireUnauthorized()
	}
	if resp.StatusCode >= 400 {
		return readAPIError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *HTTPClient) fireUnauthorized() {
	c.mu.Lock()
	fn := c.onUnauthorized
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (c *HTTPClient) Login(ctx context.Context, creds models.Credentials) (*TokenPair, error) {
	var pair TokenPair
	if err := c.do(ctx, http.MethodPost, "/auth/login", creds, &pair); err != nil {
		return nil, err
	}
	return &pair, nil
}

func (c *HTTPClient) Register(ctx context.Context, reg models.Registration) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodPost, "/auth/register", reg, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *HTTPClient) CurrentUser(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

func (c *HTTPClient) Products(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *HTTPClient) ProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	if err := c.do(ctx, http.MethodGet, "/products/slug/"+slug, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *HTTPClient) ProductTypes(ctx context.Context) ([]string, error) {
	var types []string
	if err := c.do(ctx, http.MethodGet, "/products/types/list", nil, &types); err != nil {
		return nil, err
	}
	return types, nil
}

func (c *HTTPClient) CreateOrder(ctx context.Context, payload models.OrderPayload) (*models.Order, error) {
	var order models.Order
	if err := c.do(ctx, http.MethodPost, "/orders/", payload, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *HTTPClient) Orders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.do(ctx, http.MethodGet, "/orders/", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *HTTPClient) Activities(ctx context.Context) ([]models.ActivityEvent, error) {
	var events []models.ActivityEvent
	if err := c.do(ctx, http.MethodGet, "/activity/user", nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *HTTPClient) AppendActivity(ctx context.Context, typ, title, description string) (*models.ActivityEvent, error) {
	payload := struct {
		Type        string `json:"type"`
		Title       string `json:"title"`
		Description string `json:"description"`
	}{Type: typ, Title: title, Description: description}

	var event models.ActivityEvent
	if err := c.do(ctx, http.MethodPost, "/activity/", payload, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
