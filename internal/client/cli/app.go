package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite"

	"github.com/pokeshop/storefront/internal/client/activity"
	"github.com/pokeshop/storefront/internal/client/api"
	"github.com/pokeshop/storefront/internal/client/bus"
	"github.com/pokeshop/storefront/internal/client/cart"
	"github.com/pokeshop/storefront/internal/client/checkout"
	"github.com/pokeshop/storefront/internal/client/config"
	"github.com/pokeshop/storefront/internal/client/favorites"
	"github.com/pokeshop/storefront/internal/client/kv"
	"github.com/pokeshop/storefront/internal/client/prefs"
	"github.com/pokeshop/storefront/internal/client/session"
	"github.com/pokeshop/storefront/internal/logging"
)

// App wires the profile store, the backend API client and the state
// aggregates behind the interactive prompt.
type App struct {
	config    *config.Config
	log       logging.Logger
	api       *api.HTTPClient
	db        *sql.DB
	store     kv.Store
	bus       *bus.Bus
	session   *session.Manager
	activity  *activity.Log
	cart      *cart.Cart
	favorites *favorites.List
	checkout  *checkout.Orchestrator
	prefs     *prefs.Manager
	reader    *bufio.Reader
	unwatch   []func()
	closers   []func() error
}

// NewApp builds a ready App from configuration. The profile store is SQLite
// by default; with RedisAddr set, the profile lives in Redis instead and
// sibling processes see each other's writes through the change signal.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	a := &App{config: c, log: log, reader: bufio.NewReader(os.Stdin)}

	var watcher kv.Watcher
	if c.RedisAddr != "" {
		rs, err := kv.NewRedisStore(ctx, c.RedisAddr, "storefront:")
		if err != nil {
			return nil, fmt.Errorf("opening redis profile store: %w", err)
		}
		a.store = rs
		watcher = rs
		a.closers = append(a.closers, rs.Close)
	} else {
		store, db, err := kv.OpenSQLite(ctx, c.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("opening profile database: %w", err)
		}
		a.db = db
		a.closers = append(a.closers, db.Close)
		tab := kv.NewArena(store).OpenTab()
		a.store = tab
		watcher = tab
	}

	a.api = api.NewHTTPClient(c.BaseURL, c.RequestTimeout)
	a.closers = append(a.closers, a.api.Close)
	a.bus = bus.New()

	a.session = session.NewManager(a.store, a.bus, a.api, log)
	a.api.SetOnUnauthorized(a.session.HandleUnauthorized)
	a.activity = activity.NewLog(a.api, a.session, a.bus, log)
	a.cart = cart.New(a.store, a.bus, a.activity, a.session, log)
	a.favorites = favorites.New(a.store, a.bus, a.activity, a.session, log)
	a.checkout = checkout.New(a.api, a.cart, a.activity, log)
	a.prefs = prefs.NewManager(a.store)

	a.unwatch = append(a.unwatch,
		a.session.WatchTab(watcher),
		a.cart.WatchTab(watcher),
		a.favorites.WatchTab(watcher),
	)

	return a, nil
}

// Run restores any persisted session and enters the prompt loop, blocking
// until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	a.session.Load(ctx)
	a.cart.Reload(ctx)
	a.favorites.Reload(ctx)
	if a.isLoggedIn() {
		if err := a.activity.Refresh(ctx); err != nil {
			a.log.Warn(ctx, "refreshing activity feed", "error", err)
		}
	}

	printlnFn("Welcome to the PokeShop CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

// Close detaches the tab watchers and releases the store and API client.
func (a *App) Close() {
	for _, fn := range a.unwatch {
		fn()
	}
	a.unwatch = nil
	for _, fn := range a.closers {
		_ = fn()
	}
	a.closers = nil
}

func (a *App) isLoggedIn() bool {
	return a.session.IsLoggedIn()
}

func (a *App) getStatus() string {
	s := ""
	if u := a.session.Current(); u != nil {
		s = u.Email
	}
	if n := a.cart.Count(); n > 0 {
		s = fmt.Sprintf("%s cart:%d", s, n)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}
