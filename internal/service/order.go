package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/avilaj/tienda/internal/backend"
	"github.com/avilaj/tienda/internal/domain"
	"github.com/avilaj/tienda/internal/email"
	"github.com/avilaj/tienda/internal/payment"
	"github.com/avilaj/tienda/internal/storage"
	"github.com/avilaj/tienda/internal/telemetry"
)

// pickupAddress is the literal stored when the customer retires the order at
// the store instead of having it delivered.
const pickupAddress = "Retiro en local"

// defaultPaintDelay is how long confirmation waits before dispatching the
// email, so the confirmation response is delivered before the slow mail call
// starts.
const defaultPaintDelay = 2 * time.Second

// orderService implements domain.OrderService.
//
// The pending order is persisted before any network call and survives until
// the backend accepts the order. A one-shot guard keeps a double confirmation
// (double click, page re-entry) from creating the order twice.
type orderService struct {
	store      storage.Store
	cart       domain.CartService
	provider   payment.Provider
	client     *backend.Client
	sender     email.Sender
	metrics    *telemetry.BusinessMetrics
	logger     *slog.Logger
	paintDelay time.Duration

	handled atomic.Bool
}

// NewOrderService creates the submission pipeline. metrics may be nil.
// paintDelay <= 0 uses the default.
func NewOrderService(
	store storage.Store,
	cart domain.CartService,
	provider payment.Provider,
	client *backend.Client,
	sender email.Sender,
	metrics *telemetry.BusinessMetrics,
	paintDelay time.Duration,
	logger *slog.Logger,
) domain.OrderService {
	if paintDelay <= 0 {
		paintDelay = defaultPaintDelay
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &orderService{
		store:      store,
		cart:       cart,
		provider:   provider,
		client:     client,
		sender:     sender,
		metrics:    metrics,
		logger:     logger,
		paintDelay: paintDelay,
	}
}

// Submit builds the order payload, persists it as the pending order, and
// branches on payment method. The cart is left untouched either way.
func (s *orderService) Submit(ctx context.Context, draft *domain.OrderDraft) (*domain.SubmitResult, error) {
	summary, err := s.cart.Summary(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}
	if len(summary.Items) == 0 {
		return nil, domain.ErrCartEmpty
	}

	pending := buildPendingOrder(draft, summary)

	payload, err := json.Marshal(pending)
	if err != nil {
		return nil, fmt.Errorf("failed to encode pending order: %w", err)
	}
	// The pending record is the recovery anchor; without it a gateway return
	// has nothing to confirm. Unlike cart writes, this failure is fatal.
	if err := s.store.Put(ctx, storage.KeyPendingOrder, payload); err != nil {
		return nil, domain.Internal(err, "order.submit", "Could not save the order")
	}

	if s.metrics != nil {
		s.metrics.OrdersSubmitted.WithLabelValues(string(draft.PaymentMethod)).Inc()
		s.metrics.CartValue.Observe(float64(summary.TotalPrice))
	}

	if draft.PaymentMethod == domain.PaymentCash {
		return &domain.SubmitResult{Confirmed: true}, nil
	}

	session, err := s.provider.CreateSession(ctx, payment.SessionParams{
		Total:         pending.Total,
		CustomerEmail: pending.Email,
		Reference:     pending.Customer,
	})
	if err != nil {
		if s.metrics != nil {
			s.metrics.PaymentSessionsFailed.Inc()
		}
		return nil, &domain.Error{
			Code:    domain.EPAYMENT,
			Message: "Could not start the payment. Please try again.",
			Op:      "order.submit",
			Err:     err,
		}
	}
	if s.metrics != nil {
		s.metrics.PaymentSessions.WithLabelValues("gateway").Inc()
	}

	s.logger.Info("order: payment session created", "session_id", session.ID)
	return &domain.SubmitResult{RedirectURL: session.RedirectURL}, nil
}

// Confirm submits the pending order to the backend. On success the pending
// record and the cart are cleared and the confirmation email is scheduled;
// on failure both survive so the user can retry without rebuilding anything.
func (s *orderService) Confirm(ctx context.Context) (*domain.PendingOrder, error) {
	if !s.handled.CompareAndSwap(false, true) {
		return nil, domain.ErrOrderAlreadyHandled
	}

	pending, err := s.Pending(ctx)
	if err != nil {
		s.handled.Store(false)
		return nil, err
	}

	if err := s.client.CreateOrder(ctx, pending); err != nil {
		// Guard stays armed; the caller decides to re-enable via Retry.
		if s.metrics != nil {
			s.metrics.OrdersFailed.Inc()
		}
		s.logger.Error("order: backend rejected order", "error", err)
		return nil, fmt.Errorf("failed to confirm order: %w", err)
	}

	if err := s.store.Delete(ctx, storage.KeyPendingOrder); err != nil {
		s.logger.Error("order: failed to clear pending order", "error", err)
	}
	if err := s.cart.Clear(ctx); err != nil {
		s.logger.Error("order: failed to clear cart", "error", err)
	}

	if s.metrics != nil {
		s.metrics.OrdersCreated.Inc()
		s.metrics.OrderValue.Observe(pending.Total)
	}
	s.logger.Info("order: confirmed",
		"customer", pending.Customer,
		"total", pending.Total,
		"payment_method", pending.PaymentMethod)

	s.scheduleEmail(pending)

	// The guard protects a single pending record. That record is gone now, so
	// the next submission starts a fresh confirmation cycle.
	s.handled.Store(false)
	return pending, nil
}

// Retry re-arms the one-shot guard after a failed confirmation.
func (s *orderService) Retry() {
	s.handled.Store(false)
}

// Pending returns the stored pending order, if any.
func (s *orderService) Pending(ctx context.Context) (*domain.PendingOrder, error) {
	raw, found, err := s.store.Get(ctx, storage.KeyPendingOrder)
	if err != nil {
		return nil, fmt.Errorf("failed to read pending order: %w", err)
	}
	if !found {
		return nil, domain.ErrPendingOrderNotFound
	}

	var pending domain.PendingOrder
	if err := json.Unmarshal(raw, &pending); err != nil {
		return nil, domain.Internal(err, "order.pending", "Stored order is unreadable")
	}
	return &pending, nil
}

// scheduleEmail dispatches the confirmation email on its own goroutine after
// the paint delay. The order is already accepted, so a mail failure is logged
// and counted but never surfaced.
func (s *orderService) scheduleEmail(pending *domain.PendingOrder) {
	go func() {
		time.Sleep(s.paintDelay)

		ctx, cancel := context.WithTimeout(context.Background(), backend.DefaultTimeouts().Email)
		defer cancel()

		if err := s.sender.SendOrderConfirmation(ctx, pending); err != nil {
			if s.metrics != nil {
				s.metrics.EmailFailed.Inc()
			}
			s.logger.Error("order: confirmation email failed", "error", err)
			return
		}
		if s.metrics != nil {
			s.metrics.EmailSent.Inc()
		}
		s.logger.Info("order: confirmation email sent", "client", pending.Email)
	}()
}

// buildPendingOrder flattens the draft and the cart snapshot into the wire
// payload the backend expects.
func buildPendingOrder(draft *domain.OrderDraft, summary *domain.CartSummary) *domain.PendingOrder {
	lines := make([]domain.OrderLine, 0, len(summary.Items))
	for _, it := range summary.Items {
		lines = append(lines, domain.OrderLine{
			Code:      it.BarcodeRef,
			Name:      it.Name,
			Quantity:  it.Quantity,
			LineTotal: fixed2(float64(it.LineTotal)),
		})
	}

	address := pickupAddress
	if draft.FulfillmentMode == domain.FulfillmentDelivery && draft.AddressSelection != nil {
		address = draft.AddressSelection.FormattedAddress
		if draft.IsApartment && draft.ApartmentNumber != "" {
			address += ", " + draft.ApartmentNumber
		}
	}

	note := strings.TrimSpace(draft.Note)
	if note == "" {
		note = "-"
	}

	shipping := draft.ShippingCost()
	total := float64(summary.TotalPrice) + shipping

	return &domain.PendingOrder{
		Customer:      draft.Name,
		Address:       address,
		Phone:         draft.Phone,
		Email:         draft.Email,
		ItemCount:     summary.TotalItems,
		Subtotal:      fixed2(float64(summary.TotalPrice)),
		ShippingCost:  fixed2(shipping),
		Total:         total,
		PaymentMethod: paymentLabel(draft.PaymentMethod),
		Status:        "Pendiente",
		Note:          note,
		Lines:         lines,
	}
}

// paymentLabel maps the payment method to the label the backend stores.
func paymentLabel(m domain.PaymentMethod) string {
	switch m {
	case domain.PaymentCash:
		return "Efectivo"
	case domain.PaymentGateway:
		return "MercadoPago"
	default:
		return string(m)
	}
}

// fixed2 renders a monetary amount with exactly two decimals.
func fixed2(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
