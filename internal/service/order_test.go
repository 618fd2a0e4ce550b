package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avilaj/tienda/internal/backend"
	"github.com/avilaj/tienda/internal/domain"
	"github.com/avilaj/tienda/internal/email"
	"github.com/avilaj/tienda/internal/payment"
	"github.com/avilaj/tienda/internal/storage"
)

// orderBackend is an httptest commerce backend that records order creations
// and can be told to reject them.
type orderBackend struct {
	mu       sync.Mutex
	orders   []domain.PendingOrder
	failNext bool
}

func (b *orderBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /store/NuevoPedido", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.failNext {
			b.failNext = false
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		var order domain.PendingOrder
		if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		b.orders = append(b.orders, order)
		w.WriteHeader(http.StatusCreated)
	})
	return mux
}

func (b *orderBackend) orderCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.orders)
}

type orderFixture struct {
	orders   domain.OrderService
	cart     domain.CartService
	store    *storage.MockStore
	backend  *orderBackend
	provider *payment.MockProvider
	sender   *email.MockSender
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	ob := &orderBackend{}
	srv := httptest.NewServer(ob.handler())
	t.Cleanup(srv.Close)

	store := storage.NewMockStore()
	cart := NewCartService(store, 0, nil, nil)
	require.NoError(t, cart.Load(context.Background()))

	_, err := cart.AddItem(context.Background(), domain.NewCartItem{
		Name: "Yerba", UnitPrice: 100, Quantity: 2, BarcodeRef: "779123",
	})
	require.NoError(t, err)

	provider := &payment.MockProvider{Session: payment.Session{
		ID:          "pref-1",
		RedirectURL: "https://pay.example/redirect?preference-id=pref-1",
	}}
	sender := &email.MockSender{}

	client := backend.NewClient(srv.URL, backend.DefaultTimeouts())
	orders := NewOrderService(store, cart, provider, client, sender, nil, time.Millisecond, nil)

	return &orderFixture{
		orders:   orders,
		cart:     cart,
		store:    store,
		backend:  ob,
		provider: provider,
		sender:   sender,
	}
}

func deliveryDraft() *domain.OrderDraft {
	return &domain.OrderDraft{
		Name:            "Ana García",
		Email:           "ana@example.com",
		Phone:           "3511234567",
		FulfillmentMode: domain.FulfillmentDelivery,
		AddressSelection: &domain.AddressSelection{
			FormattedAddress: "Av. Colón 1234, Córdoba",
			ShippingCost:     820,
			Source:           domain.AddressSourceInput,
		},
		PaymentMethod: domain.PaymentGateway,
	}
}

func pickupCashDraft() *domain.OrderDraft {
	return &domain.OrderDraft{
		Name:            "Ana García",
		Email:           "ana@example.com",
		Phone:           "3511234567",
		FulfillmentMode: domain.FulfillmentPickup,
		PaymentMethod:   domain.PaymentCash,
	}
}

func TestOrderService_Submit_BuildsPayload(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	_, err := f.orders.Submit(ctx, deliveryDraft())
	require.NoError(t, err)

	pending, err := f.orders.Pending(ctx)
	require.NoError(t, err)

	assert.Equal(t, "Ana García", pending.Customer)
	assert.Equal(t, "Av. Colón 1234, Córdoba", pending.Address)
	assert.Equal(t, 2, pending.ItemCount)
	assert.Equal(t, "200.00", pending.Subtotal)
	assert.Equal(t, "820.00", pending.ShippingCost)
	assert.Equal(t, float64(1020), pending.Total)
	assert.Equal(t, "MercadoPago", pending.PaymentMethod)
	assert.Equal(t, "Pendiente", pending.Status)
	assert.Equal(t, "-", pending.Note)
	require.Len(t, pending.Lines, 1)
	assert.Equal(t, "779123", pending.Lines[0].Code)
	assert.Equal(t, "200.00", pending.Lines[0].LineTotal)
}

func TestOrderService_Submit_ApartmentSuffix(t *testing.T) {
	f := newOrderFixture(t)

	draft := deliveryDraft()
	draft.IsApartment = true
	draft.ApartmentNumber = "4B"

	_, err := f.orders.Submit(context.Background(), draft)
	require.NoError(t, err)

	pending, err := f.orders.Pending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Av. Colón 1234, Córdoba, 4B", pending.Address)
}

func TestOrderService_Submit_PickupUsesLiteralAddress(t *testing.T) {
	f := newOrderFixture(t)

	result, err := f.orders.Submit(context.Background(), pickupCashDraft())
	require.NoError(t, err)
	assert.True(t, result.Confirmed)
	assert.Empty(t, result.RedirectURL)
	assert.Empty(t, f.provider.Calls, "cash must not touch the payment provider")

	pending, err := f.orders.Pending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Retiro en local", pending.Address)
	assert.Equal(t, "0.00", pending.ShippingCost)
	assert.Equal(t, "Efectivo", pending.PaymentMethod)
}

func TestOrderService_Submit_GatewayRedirect(t *testing.T) {
	f := newOrderFixture(t)

	result, err := f.orders.Submit(context.Background(), deliveryDraft())
	require.NoError(t, err)
	assert.False(t, result.Confirmed)
	assert.Equal(t, "https://pay.example/redirect?preference-id=pref-1", result.RedirectURL)

	require.Len(t, f.provider.Calls, 1)
	assert.Equal(t, float64(1020), f.provider.Calls[0].Total)
	assert.Equal(t, "ana@example.com", f.provider.Calls[0].CustomerEmail)
}

func TestOrderService_Submit_PaymentFailureKeepsPending(t *testing.T) {
	f := newOrderFixture(t)
	f.provider.Err = errors.New("gateway down")

	_, err := f.orders.Submit(context.Background(), deliveryDraft())
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.EPAYMENT))

	// The pending record survives for a retry.
	_, err = f.orders.Pending(context.Background())
	assert.NoError(t, err)
}

func TestOrderService_Submit_EmptyCart(t *testing.T) {
	f := newOrderFixture(t)
	require.NoError(t, f.cart.Clear(context.Background()))

	_, err := f.orders.Submit(context.Background(), pickupCashDraft())
	assert.ErrorIs(t, err, domain.ErrCartEmpty)
}

func TestOrderService_Confirm_Success(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	_, err := f.orders.Submit(ctx, pickupCashDraft())
	require.NoError(t, err)

	order, err := f.orders.Confirm(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ana García", order.Customer)
	assert.Equal(t, 1, f.backend.orderCount())

	// Pending record and cart are gone.
	_, err = f.orders.Pending(ctx)
	assert.ErrorIs(t, err, domain.ErrPendingOrderNotFound)
	summary, err := f.cart.Summary(ctx)
	require.NoError(t, err)
	assert.Empty(t, summary.Items)

	// The confirmation email goes out after the paint delay.
	assert.Eventually(t, func() bool { return f.sender.SentCount() == 1 },
		time.Second, 5*time.Millisecond)
}

func TestOrderService_Confirm_OneShotGuard(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	_, err := f.orders.Submit(ctx, pickupCashDraft())
	require.NoError(t, err)

	f.backend.failNext = true
	_, err = f.orders.Confirm(ctx)
	require.Error(t, err)

	// Guard stays armed after a failure until Retry re-arms it.
	_, err = f.orders.Confirm(ctx)
	assert.ErrorIs(t, err, domain.ErrOrderAlreadyHandled)

	// Failure preserved both the pending record and the cart.
	_, err = f.orders.Pending(ctx)
	require.NoError(t, err)
	summary, err := f.cart.Summary(ctx)
	require.NoError(t, err)
	assert.Len(t, summary.Items, 1)

	f.orders.Retry()
	_, err = f.orders.Confirm(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, f.backend.orderCount())
}

func TestOrderService_Confirm_SecondOrderCycle(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	_, err := f.orders.Submit(ctx, pickupCashDraft())
	require.NoError(t, err)
	_, err = f.orders.Confirm(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, f.backend.orderCount())

	// A new cart and submission must get a fresh confirmation cycle; the
	// guard only covers the record it confirmed.
	_, err = f.cart.AddItem(ctx, domain.NewCartItem{
		Name: "Azúcar", UnitPrice: 50, Quantity: 1, BarcodeRef: "779456",
	})
	require.NoError(t, err)

	_, err = f.orders.Submit(ctx, pickupCashDraft())
	require.NoError(t, err)

	order, err := f.orders.Confirm(ctx)
	require.NoError(t, err)
	require.Len(t, order.Lines, 1)
	assert.Equal(t, "779456", order.Lines[0].Code)
	assert.Equal(t, 2, f.backend.orderCount())
}

func TestOrderService_Confirm_NoPendingRearmsGuard(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	_, err := f.orders.Confirm(ctx)
	assert.ErrorIs(t, err, domain.ErrPendingOrderNotFound)

	// A missing record must not leave the guard stuck.
	_, err = f.orders.Confirm(ctx)
	assert.ErrorIs(t, err, domain.ErrPendingOrderNotFound)
}

func TestOrderService_Confirm_EmailFailureIsHarmless(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	f.sender.Err = errors.New("mail relay down")

	_, err := f.orders.Submit(ctx, pickupCashDraft())
	require.NoError(t, err)

	_, err = f.orders.Confirm(ctx)
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return f.sender.SentCount() == 1 },
		time.Second, 5*time.Millisecond)
	// Order stays confirmed: pending record is still gone.
	_, err = f.orders.Pending(ctx)
	assert.ErrorIs(t, err, domain.ErrPendingOrderNotFound)
}
