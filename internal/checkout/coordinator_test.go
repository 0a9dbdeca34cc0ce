package checkout_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/cart"
	"storefront/internal/checkout"
	"storefront/internal/logger"
	"storefront/internal/models"
)

type memCarts struct {
	mu sync.Mutex
	m  map[string]*cart.Cart
}

func newMemCarts() *memCarts {
	return &memCarts{m: make(map[string]*cart.Cart)}
}

func (r *memCarts) Create(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := "session"
	r.m[id] = &cart.Cart{}
	return id, nil
}

func (r *memCarts) Get(ctx context.Context, id string) (*cart.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.m[id]; ok {
		cp := *c
		return &cp, nil
	}
	return &cart.Cart{}, nil
}

func (r *memCarts) Save(ctx context.Context, id string, c *cart.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.m[id] = &cp
	return nil
}

func (r *memCarts) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.m, id)
	return nil
}

type fakeResolver struct {
	mu    sync.Mutex
	calls int
	id    uint
	err   error
}

func (f *fakeResolver) ResolveUserID(ctx context.Context, email string) (uint, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.id, f.err
}

func (f *fakeResolver) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakePlacer struct {
	mu      sync.Mutex
	lines   []checkout.Line
	err     error
	entered chan struct{}
	release chan struct{}
}

func (f *fakePlacer) Place(ctx context.Context, userID uint, lines []checkout.Line, payment checkout.PaymentDetails) (uint, string, error) {
	f.mu.Lock()
	f.lines = lines
	f.mu.Unlock()
	if f.entered != nil {
		close(f.entered)
	}
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return 0, "", f.err
	}
	return 42, "ref-42", nil
}

func (f *fakePlacer) placedLines() []checkout.Line {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lines
}

type fakePublisher struct {
	mu    sync.Mutex
	calls int
}

func (f *fakePublisher) OrderCompleted(ctx context.Context, orderID uint, reference string, lines []checkout.Line) error {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return nil
}

func (f *fakePublisher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

var testIdentity = checkout.Identity{Name: "Dana", Email: "dana@example.com"}

func seedCart(t *testing.T, carts cart.Repository, items ...cart.LineItem) string {
	t.Helper()
	crt := &cart.Cart{Items: items}
	if err := carts.Save(context.Background(), "session", crt); err != nil {
		t.Fatal(err)
	}
	return "session"
}

func gpuLine(qty int) cart.LineItem {
	return cart.LineItem{
		Product:  models.Product{ID: 1, Name: "GPU-X", Price: 100, Quantity: 5},
		Quantity: qty,
	}
}

func newTestCoordinator(resolver *fakeResolver, placer *fakePlacer, publisher *fakePublisher, carts cart.Repository, opts ...checkout.Option) *checkout.Coordinator {
	var pub checkout.EventPublisher
	if publisher != nil {
		pub = publisher
	}
	return checkout.NewCoordinator(resolver, placer, pub, carts, logger.New("error"), opts...)
}

func TestCheckoutRequiresIdentity(t *testing.T) {
	carts := newMemCarts()
	co := newTestCoordinator(&fakeResolver{id: 7}, &fakePlacer{}, nil, carts)

	_, err := co.Checkout(context.Background(), "session", checkout.Identity{}, nil)
	assert.ErrorIs(t, err, checkout.ErrNotAuthenticated)
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	carts := newMemCarts()
	co := newTestCoordinator(&fakeResolver{id: 7}, &fakePlacer{}, nil, carts)

	_, err := co.Checkout(context.Background(), "session", testIdentity, nil)
	assert.ErrorIs(t, err, checkout.ErrEmptyCart)
}

func TestCheckoutValidatesBeforeAnyCollaboratorCall(t *testing.T) {
	carts := newMemCarts()
	resolver := &fakeResolver{id: 7}
	co := newTestCoordinator(resolver, &fakePlacer{}, nil, carts)

	session := seedCart(t, carts, cart.LineItem{
		Product:  models.Product{ID: 9, Price: 10}, // no name
		Quantity: 1,
	})

	_, err := co.Checkout(context.Background(), session, testIdentity, nil)
	assert.ErrorIs(t, err, checkout.ErrInvalidCartItem)
	assert.Equal(t, 0, resolver.callCount(), "resolver called despite invalid cart")
}

func TestCheckoutUserResolutionFailure(t *testing.T) {
	carts := newMemCarts()
	co := newTestCoordinator(&fakeResolver{err: errors.New("lookup down")}, &fakePlacer{}, nil, carts)
	session := seedCart(t, carts, gpuLine(1))

	_, err := co.Checkout(context.Background(), session, testIdentity, nil)
	assert.ErrorIs(t, err, checkout.ErrUserResolution)

	// The attempt ended in Failed, which keeps the session retryable.
	assert.Equal(t, checkout.StateFailed, co.State(session))
}

func TestCheckoutUnknownUser(t *testing.T) {
	carts := newMemCarts()
	co := newTestCoordinator(&fakeResolver{id: 0}, &fakePlacer{}, nil, carts)
	session := seedCart(t, carts, gpuLine(1))

	_, err := co.Checkout(context.Background(), session, testIdentity, nil)
	assert.ErrorIs(t, err, checkout.ErrUserResolution)
}

func TestCheckoutSuccess(t *testing.T) {
	carts := newMemCarts()
	placer := &fakePlacer{}
	publisher := &fakePublisher{}
	co := newTestCoordinator(&fakeResolver{id: 7}, placer, publisher, carts,
		checkout.WithClearDelay(50*time.Millisecond))
	session := seedCart(t, carts, gpuLine(2))

	result, err := co.Checkout(context.Background(), session, testIdentity, checkout.PaymentDetails{"id": "cap-1"})
	require.NoError(t, err)
	assert.Equal(t, uint(42), result.OrderID)
	assert.Equal(t, "ref-42", result.Reference)
	assert.Equal(t, "/", result.RedirectTo)
	assert.Equal(t, 1, publisher.callCount())
	assert.Equal(t, checkout.StateSucceeded, co.State(session))

	// The cart lingers, then clears.
	crt, err := carts.Get(context.Background(), session)
	require.NoError(t, err)
	assert.False(t, crt.Empty(), "cart cleared before the linger elapsed")

	require.Eventually(t, func() bool {
		crt, err := carts.Get(context.Background(), session)
		return err == nil && crt.Empty()
	}, time.Second, 10*time.Millisecond, "cart never cleared")
}

func TestCheckoutSubmitsEffectivePrices(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	inWindow := start.Add(time.Hour)

	discounted := models.Product{
		ID: 1, Name: "GPU-X", Price: 100, Quantity: 5,
		DiscountPercentage: 20, StartDate: &start, EndDate: &end,
	}

	carts := newMemCarts()
	placer := &fakePlacer{}
	co := newTestCoordinator(&fakeResolver{id: 7}, placer, nil, carts,
		checkout.WithClock(func() time.Time { return inWindow }),
		checkout.WithClearDelay(time.Millisecond))
	session := seedCart(t, carts, cart.LineItem{Product: discounted, Quantity: 2})

	_, err := co.Checkout(context.Background(), session, testIdentity, nil)
	require.NoError(t, err)

	lines := placer.placedLines()
	require.Len(t, lines, 1)
	assert.Equal(t, 80.0, lines[0].Price, "submitted listed price instead of effective price")
}

func TestCheckoutInFlightGuard(t *testing.T) {
	carts := newMemCarts()
	placer := &fakePlacer{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	co := newTestCoordinator(&fakeResolver{id: 7}, placer, nil, carts,
		checkout.WithClearDelay(time.Millisecond))
	session := seedCart(t, carts, gpuLine(1))

	done := make(chan error, 1)
	go func() {
		_, err := co.Checkout(context.Background(), session, testIdentity, nil)
		done <- err
	}()

	<-placer.entered
	_, err := co.Checkout(context.Background(), session, testIdentity, nil)
	assert.ErrorIs(t, err, checkout.ErrCheckoutInFlight)

	close(placer.release)
	require.NoError(t, <-done)

	// Once the first attempt finished, a new one is accepted.
	placer.entered = nil
	placer.release = nil
	session2 := seedCart(t, carts, gpuLine(1))
	_, err = co.Checkout(context.Background(), session2, testIdentity, nil)
	assert.NoError(t, err)
}

func TestCheckoutTerminalStateAllowsRetry(t *testing.T) {
	carts := newMemCarts()
	placer := &fakePlacer{err: errors.New("boom")}
	co := newTestCoordinator(&fakeResolver{id: 7}, placer, nil, carts,
		checkout.WithClearDelay(time.Millisecond))
	session := seedCart(t, carts, gpuLine(1))

	_, err := co.Checkout(context.Background(), session, testIdentity, nil)
	require.Error(t, err)
	require.Equal(t, checkout.StateFailed, co.State(session))

	// A terminal state does not block the next attempt.
	placer.err = nil
	_, err = co.Checkout(context.Background(), session, testIdentity, nil)
	require.NoError(t, err)
	assert.Equal(t, checkout.StateSucceeded, co.State(session))
}

func TestCheckoutBusinessRejection(t *testing.T) {
	carts := newMemCarts()
	placer := &fakePlacer{err: &checkout.Rejection{Message: "only 1 of \"GPU-X\" left in stock"}}
	co := newTestCoordinator(&fakeResolver{id: 7}, placer, nil, carts)
	session := seedCart(t, carts, gpuLine(2))

	_, err := co.Checkout(context.Background(), session, testIdentity, nil)
	var rejection *checkout.Rejection
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, "only 1 of \"GPU-X\" left in stock", rejection.Message)
}

func TestCheckoutTransportFailure(t *testing.T) {
	carts := newMemCarts()
	placer := &fakePlacer{err: errors.New("connection refused")}
	co := newTestCoordinator(&fakeResolver{id: 7}, placer, nil, carts)
	session := seedCart(t, carts, gpuLine(1))

	_, err := co.Checkout(context.Background(), session, testIdentity, nil)
	assert.ErrorIs(t, err, checkout.ErrTransport)

	// Guard released on the failure path too.
	assert.Equal(t, checkout.StateFailed, co.State(session))
}
