// Package checkout orchestrates the single checkout attempt: validate the
// cart, resolve the customer's numeric user id, submit the order with the
// payment capture details, and guard against a duplicate submission while
// one is already in flight.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"storefront/internal/cart"
	"storefront/internal/logger"
	"storefront/internal/pricing"
)

// State is the phase of the current checkout attempt. Transitions are
// Idle -> Resolving -> Submitting -> Succeeded|Failed; the terminal state
// stays observable until the session's next attempt begins.
type State int

const (
	StateIdle State = iota
	StateResolving
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateResolving:
		return "resolving"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

var (
	ErrNotAuthenticated = errors.New("checkout requires a signed-in customer")
	ErrCheckoutInFlight = errors.New("a checkout is already in progress")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrInvalidCartItem  = errors.New("cart contains an item without a product name")
	ErrUserResolution   = errors.New("could not resolve user id")
	ErrTransport        = errors.New("checkout submission failed")
)

// Rejection is a structured refusal from the order backend, e.g.
// insufficient stock. Its message is surfaced to the customer verbatim.
type Rejection struct {
	Message string
}

func (r *Rejection) Error() string { return r.Message }

// Identity is who is checking out. It comes from the session cache and is
// display data, not an authorization proof.
type Identity struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	IsManager bool   `json:"is_manager"`
}

// PaymentDetails is the opaque capture payload handed back by the payment
// widget's approve callback. It is stored with the order untouched.
type PaymentDetails map[string]interface{}

// Line is one order line as submitted, priced at the effective (possibly
// discounted) unit price, not the listed one.
type Line struct {
	ProductID uint    `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// Result reports a successful checkout.
type Result struct {
	OrderID    uint   `json:"order_id"`
	Reference  string `json:"reference"`
	RedirectTo string `json:"redirect_to"`
}

// UserResolver turns a customer email into the numeric user id orders are
// filed under. The canonical response field is userId.
type UserResolver interface {
	ResolveUserID(ctx context.Context, email string) (uint, error)
}

// OrderPlacer persists the order. A *Rejection error means the backend
// refused the order for a business reason; anything else is transport.
type OrderPlacer interface {
	Place(ctx context.Context, userID uint, lines []Line, payment PaymentDetails) (orderID uint, reference string, err error)
}

// EventPublisher announces a completed order, e.g. onto Kafka. Publishing
// is best effort; a failure is logged and does not fail the checkout.
type EventPublisher interface {
	OrderCompleted(ctx context.Context, orderID uint, reference string, lines []Line) error
}

// Coordinator runs at most one checkout attempt per cart session at a time.
type Coordinator struct {
	resolver  UserResolver
	placer    OrderPlacer
	publisher EventPublisher
	carts     cart.Repository
	log       *logger.Logger

	submitTimeout time.Duration
	clearDelay    time.Duration
	now           func() time.Time

	mu    sync.Mutex
	state map[string]State
}

type Option func(*Coordinator)

// WithClock overrides the evaluation instant used for effective prices.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// WithClearDelay overrides how long a successful checkout lingers before
// the cart is cleared (the success message stays visible meanwhile).
func WithClearDelay(d time.Duration) Option {
	return func(c *Coordinator) { c.clearDelay = d }
}

// WithSubmitTimeout bounds the order submission call.
func WithSubmitTimeout(d time.Duration) Option {
	return func(c *Coordinator) { c.submitTimeout = d }
}

func NewCoordinator(resolver UserResolver, placer OrderPlacer, publisher EventPublisher, carts cart.Repository, log *logger.Logger, opts ...Option) *Coordinator {
	c := &Coordinator{
		resolver:      resolver,
		placer:        placer,
		publisher:     publisher,
		carts:         carts,
		log:           log,
		submitTimeout: 30 * time.Second,
		clearDelay:    3 * time.Second,
		now:           time.Now,
		state:         make(map[string]State),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current phase of the attempt for a cart session.
func (c *Coordinator) State(sessionID string) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state[sessionID]
}

// Checkout runs one attempt end to end. A second call for the same session
// while the first is resolving or submitting fails with
// ErrCheckoutInFlight; once an attempt reaches a terminal state the guard
// is released and a new attempt may start.
func (c *Coordinator) Checkout(ctx context.Context, sessionID string, identity Identity, payment PaymentDetails) (*Result, error) {
	if identity.Email == "" {
		return nil, ErrNotAuthenticated
	}

	if err := c.begin(sessionID); err != nil {
		return nil, err
	}
	terminal := StateFailed
	defer func() {
		c.finish(sessionID, terminal)
	}()

	crt, err := c.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	// Validation happens before any collaborator call.
	if crt.Empty() {
		return nil, ErrEmptyCart
	}
	lines, err := c.buildLines(crt)
	if err != nil {
		return nil, err
	}

	userID, err := c.resolver.ResolveUserID(ctx, identity.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUserResolution, err)
	}
	if userID == 0 {
		return nil, fmt.Errorf("%w: no account for %s", ErrUserResolution, identity.Email)
	}

	c.transition(sessionID, StateSubmitting)

	submitCtx, cancel := context.WithTimeout(ctx, c.submitTimeout)
	defer cancel()
	orderID, reference, err := c.placer.Place(submitCtx, userID, lines, payment)
	if err != nil {
		var rej *Rejection
		if errors.As(err, &rej) {
			return nil, rej
		}
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	terminal = StateSucceeded
	if c.publisher != nil {
		if perr := c.publisher.OrderCompleted(ctx, orderID, reference, lines); perr != nil {
			c.log.Error("failed to publish order event: %v", perr)
		}
	}
	c.scheduleClear(sessionID)

	return &Result{OrderID: orderID, Reference: reference, RedirectTo: "/"}, nil
}

func (c *Coordinator) buildLines(crt *cart.Cart) ([]Line, error) {
	asOf := c.now()
	lines := make([]Line, 0, len(crt.Items))
	for i := range crt.Items {
		it := &crt.Items[i]
		if it.Product.Name == "" {
			return nil, ErrInvalidCartItem
		}
		lines = append(lines, Line{
			ProductID: it.Product.ID,
			Name:      it.Product.Name,
			Quantity:  it.Quantity,
			Price:     pricing.EffectivePrice(&it.Product, asOf),
		})
	}
	return lines, nil
}

func (c *Coordinator) begin(sessionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state[sessionID] {
	case StateResolving, StateSubmitting:
		return ErrCheckoutInFlight
	}
	c.state[sessionID] = StateResolving
	return nil
}

func (c *Coordinator) transition(sessionID string, s State) {
	c.mu.Lock()
	c.state[sessionID] = s
	c.mu.Unlock()
}

// finish records the terminal state, which releases the in-flight guard:
// begin only refuses while an attempt is resolving or submitting, so a new
// attempt may start from either terminal state.
func (c *Coordinator) finish(sessionID string, terminal State) {
	c.mu.Lock()
	c.state[sessionID] = terminal
	c.mu.Unlock()
}

// scheduleClear empties the cart after the configured linger so the
// success message has time to display before the cart resets.
func (c *Coordinator) scheduleClear(sessionID string) {
	time.AfterFunc(c.clearDelay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.carts.Save(ctx, sessionID, &cart.Cart{}); err != nil {
			c.log.Error("failed to clear cart after checkout: %v", err)
		}
	})
}
