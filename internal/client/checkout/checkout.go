// Package checkout turns the current cart into a backend order. The flow is
// a small state machine: snapshot the cart, create the order remotely,
// record the purchase in the feed, then clear the cart. Order creation is
// the only hard dependency; a failed purchase entry degrades silently and
// never rolls the order back.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/pokeshop/storefront/internal/client/models"
	"github.com/pokeshop/storefront/internal/logging"
)

// Submit preconditions.
var (
	ErrEmptyCart         = errors.New("checkout: cart is empty")
	ErrAlreadySubmitting = errors.New("checkout: submission already in progress")
)

// State of the orchestrator.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// APIClient is the remote surface checkout needs. Satisfied by api.Client.
type APIClient interface {
	CreateOrder(ctx context.Context, payload models.OrderPayload) (*models.Order, error)
}

// CartSource provides the lines to purchase and clears them once the order
// exists. Satisfied by cart.Cart.
type CartSource interface {
	Items() models.CartLines
	ClearSilently(ctx context.Context)
}

// ActivityLogger records feed entries best-effort. Satisfied by
// activity.Log.
type ActivityLogger interface {
	Record(ctx context.Context, typ, title, description string)
}

// Orchestrator runs one checkout at a time.
type Orchestrator struct {
	client   APIClient
	cart     CartSource
	activity ActivityLogger
	log      logging.Logger

	mu    sync.Mutex
	state State
}

// New returns an idle Orchestrator.
func New(client APIClient, cart CartSource, activity ActivityLogger, log logging.Logger) *Orchestrator {
	return &Orchestrator{client: client, cart: cart, activity: activity, log: log.With("component", "checkout")}
}

// State returns the current phase of the machine.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Submit snapshots the cart and drives it through order creation. On an
// empty cart it fails before any network traffic. A failed order creation
// leaves the cart untouched so the user can retry; on success the cart is
// cleared silently because the purchase entry already tells the story.
func (o *Orchestrator) Submit(ctx context.Context) (*models.Order, error) {
	o.mu.Lock()
	if o.state == StateSubmitting {
		o.mu.Unlock()
		return nil, ErrAlreadySubmitting
	}
	o.state = StateSubmitting
	o.mu.Unlock()

	order, err := o.submit(ctx)

	o.mu.Lock()
	if err != nil {
		o.state = StateFailed
	} else {
		o.state = StateSucceeded
	}
	o.mu.Unlock()

	return order, err
}

// Reset returns a finished machine to idle. Submitting cannot be reset.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != StateSubmitting {
		o.state = StateIdle
	}
}

func (o *Orchestrator) submit(ctx context.Context) (*models.Order, error) {
	lines := o.cart.Items()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	payload := models.OrderPayload{
		Items: make([]models.OrderItem, 0, len(lines)),
		Total: lines.Total(),
	}
	for _, line := range lines {
		payload.Items = append(payload.Items, models.OrderItemFromCartLine(line))
	}

	order, err := o.client.CreateOrder(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("creating order: %w", err)
	}

	o.activity.Record(ctx, models.ActivityPurchase, "Compra completada",
		fmt.Sprintf("Pedido por un total de $%.2f procesado exitosamente", order.Total))

	o.cart.ClearSilently(ctx)

	o.log.Info(ctx, "order placed", "order_id", order.ID, "total", order.Total)
	return order, nil
}
