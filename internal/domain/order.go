package domain

import "context"

// FulfillmentMode is how the customer receives the order.
type FulfillmentMode string

const (
	FulfillmentDelivery FulfillmentMode = "delivery"
	FulfillmentPickup   FulfillmentMode = "pickup"
)

// PaymentMethod is how the customer pays.
// Cash is only selectable when the fulfillment mode is pickup.
type PaymentMethod string

const (
	PaymentCash    PaymentMethod = "cash"
	PaymentGateway PaymentMethod = "gateway"
)

// =============================================================================
// ORDER DOMAIN ERRORS
// =============================================================================

var (
	ErrPendingOrderNotFound = &Error{Code: ENOTFOUND, Message: "No pending order found"}
	ErrOrderAlreadyHandled  = &Error{Code: ECONFLICT, Message: "Order confirmation already in progress"}
	ErrCartEmpty            = &Error{Code: EINVALID, Message: "Cart is empty"}
)

// OrderDraft is the multi-field order form, built incrementally as the user
// fills checkout. Validity is tracked per field by the checkout service.
type OrderDraft struct {
	Name             string            `json:"name"`
	Email            string            `json:"email"`
	Phone            string            `json:"phone"`
	FulfillmentMode  FulfillmentMode   `json:"fulfillmentMode"`
	AddressSelection *AddressSelection `json:"addressSelection,omitempty"`
	IsApartment      bool              `json:"isApartment"`
	ApartmentNumber  string            `json:"apartmentNumber,omitempty"`
	PaymentMethod    PaymentMethod     `json:"paymentMethod"`
	Note             string            `json:"note,omitempty"`
}

// ShippingCost returns the draft's shipping cost. Pickup forces 0 regardless
// of any previously resolved address.
func (d *OrderDraft) ShippingCost() float64 {
	if d.FulfillmentMode != FulfillmentDelivery || d.AddressSelection == nil {
		return 0
	}
	return d.AddressSelection.ShippingCost
}

// OrderLine is a cart line flattened for submission.
type OrderLine struct {
	Code      string `json:"codigo_barra"`
	Name      string `json:"nombre_producto"`
	Quantity  int    `json:"cantidad"`
	LineTotal string `json:"precio"`
}

// PendingOrder is the transient record persisted before any network call.
// It is the recovery anchor if the user navigates away mid-submission, and is
// deleted only after the backend confirms the order.
type PendingOrder struct {
	Customer      string      `json:"cliente"`
	Address       string      `json:"direccion_cliente"`
	Phone         string      `json:"telefono_cliente"`
	Email         string      `json:"email_cliente"`
	ItemCount     int         `json:"cantidad_productos"`
	Subtotal      string      `json:"subtotal"`
	ShippingCost  string      `json:"costoEnvio"`
	Total         float64     `json:"monto_total"`
	PaymentMethod string      `json:"medio_pago"`
	Status        string      `json:"estado"`
	Note          string      `json:"notas_local"`
	Lines         []OrderLine `json:"productos"`
}

// SubmitResult is the outcome of starting a submission.
type SubmitResult struct {
	// RedirectURL is set for gateway payments: the browser must leave for the
	// external payment page and return for confirmation.
	RedirectURL string `json:"redirectUrl,omitempty"`

	// Confirmed is true for cash payments, which skip the gateway and go
	// straight to confirmation.
	Confirmed bool `json:"confirmed"`
}

// OrderService is the submission pipeline: it hands a validated draft plus a
// cart snapshot to the backend, keeping the pending record and the cart intact
// until the order is durably created.
type OrderService interface {
	// Submit builds the payload from the draft and the current cart, persists
	// it as the pending order, and branches on payment method: cash proceeds
	// directly, gateway requests a payment preference and returns the
	// redirect URL.
	Submit(ctx context.Context, draft *OrderDraft) (*SubmitResult, error)

	// Confirm submits the pending order to the backend order-creation
	// endpoint. Only after that call succeeds are the pending record and the
	// cart cleared and the notification email scheduled (best effort,
	// never awaited). A one-shot guard makes repeat invocations no-ops.
	Confirm(ctx context.Context) (*PendingOrder, error)

	// Retry re-arms the one-shot guard after a failed confirmation so the
	// user can invoke Confirm again.
	Retry()

	// Pending returns the stored pending order, if any.
	Pending(ctx context.Context) (*PendingOrder, error)
}
