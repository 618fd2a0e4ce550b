package domain

// Checkout form field names, used as keys in field-level error maps.
const (
	FieldName            = "name"
	FieldEmail           = "email"
	FieldPhone           = "phone"
	FieldFulfillment     = "fulfillmentMode"
	FieldAddress         = "address"
	FieldApartmentNumber = "apartmentNumber"
	FieldPaymentMethod   = "paymentMethod"
)

// CheckoutService owns the multi-field order form. The state is not a small
// fixed enum but a record of named fields, each with independent validity,
// plus cross-field constraints:
//
//   - changing the fulfillment mode resets the payment method and the active
//     address selection;
//   - cash is rejected unless the mode is pickup;
//   - any payment selection is rejected until a mode is set.
type CheckoutService interface {
	// SetName, SetEmail, SetPhone and SetNote update identity fields,
	// validating them individually. A validation failure records a field
	// error and returns it; the value is kept so the user can correct it.
	SetName(v string) error
	SetEmail(v string) error
	SetPhone(v string) error
	SetNote(v string)

	// SetFulfillmentMode switches delivery/pickup. Switching away from
	// delivery invalidates any chosen address; switching into delivery
	// requires re-selection. The payment method is reset either way.
	SetFulfillmentMode(m FulfillmentMode) error

	// SetPaymentMethod selects how the customer pays, enforcing the
	// mode-dependent eligibility rules.
	SetPaymentMethod(p PaymentMethod) error

	// SetApartment records whether the address is a multi-unit dwelling and
	// the unit number, required iff IsApartment and delivering.
	SetApartment(isApartment bool, number string) error

	// SetAddress installs a resolved address selection on the draft.
	SetAddress(sel *AddressSelection)

	// Draft returns a copy of the current form state.
	Draft() OrderDraft

	// FieldErrors returns the active per-field validation errors.
	FieldErrors() map[string]string

	// CanSubmit reports whether the confirm action should be enabled: no
	// field has an active error and all required fields are present.
	CanSubmit() bool

	// Validate runs a final full-form pass, a defense against stale
	// per-field validity after async changes. Returns a *ValidationError
	// listing every failing field, or nil.
	Validate() error
}
