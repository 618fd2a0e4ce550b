package service

import (
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/avilaj/tienda/internal/domain"
)

// phoneChars limits phone input to digits plus common separators.
var phoneChars = regexp.MustCompile(`^[0-9+()\-\s]+$`)

// checkoutService implements domain.CheckoutService.
type checkoutService struct {
	mu        sync.Mutex
	draft     domain.OrderDraft
	fieldErrs map[string]string
	validate  *validator.Validate
	addresses domain.AddressService
}

// NewCheckoutService creates the checkout form state machine. addresses may
// be nil; when set, switching fulfillment mode also clears the resolution
// service's active selection so both stay in step.
func NewCheckoutService(addresses domain.AddressService) domain.CheckoutService {
	return &checkoutService{
		fieldErrs: map[string]string{},
		validate:  validator.New(),
		addresses: addresses,
	}
}

func (s *checkoutService) SetName(v string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.Name = v
	return s.checkField(domain.FieldName, s.nameError(v))
}

func (s *checkoutService) SetEmail(v string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.Email = v
	return s.checkField(domain.FieldEmail, s.emailError(v))
}

func (s *checkoutService) SetPhone(v string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.Phone = v
	return s.checkField(domain.FieldPhone, s.phoneError(v))
}

func (s *checkoutService) SetNote(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.Note = strings.TrimSpace(v)
}

// SetFulfillmentMode switches delivery/pickup. The payment method and any
// resolved address are reset: both depend on the mode for their validity.
func (s *checkoutService) SetFulfillmentMode(m domain.FulfillmentMode) error {
	if m != domain.FulfillmentDelivery && m != domain.FulfillmentPickup {
		return domain.NewValidationError("checkout.mode", domain.FieldFulfillment, "Unknown fulfillment mode")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.draft.FulfillmentMode = m
	s.draft.PaymentMethod = ""
	s.draft.AddressSelection = nil
	delete(s.fieldErrs, domain.FieldFulfillment)
	delete(s.fieldErrs, domain.FieldPaymentMethod)
	delete(s.fieldErrs, domain.FieldAddress)
	delete(s.fieldErrs, domain.FieldApartmentNumber)

	if s.addresses != nil {
		s.addresses.ClearSelection()
	}
	return nil
}

// SetPaymentMethod enforces mode-dependent eligibility: nothing is selectable
// before a mode is chosen, and cash requires in-store pickup.
func (s *checkoutService) SetPaymentMethod(p domain.PaymentMethod) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft.FulfillmentMode == "" {
		return s.failField(domain.FieldPaymentMethod,
			"Select a fulfillment mode before choosing a payment method")
	}
	if p == domain.PaymentCash && s.draft.FulfillmentMode != domain.FulfillmentPickup {
		return s.failField(domain.FieldPaymentMethod,
			"Cash payment requires in-store pickup")
	}
	if p != domain.PaymentCash && p != domain.PaymentGateway {
		return s.failField(domain.FieldPaymentMethod, "Unknown payment method")
	}

	s.draft.PaymentMethod = p
	delete(s.fieldErrs, domain.FieldPaymentMethod)
	return nil
}

func (s *checkoutService) SetApartment(isApartment bool, number string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.draft.IsApartment = isApartment
	s.draft.ApartmentNumber = strings.TrimSpace(number)
	return s.checkField(domain.FieldApartmentNumber, s.apartmentError())
}

func (s *checkoutService) SetAddress(sel *domain.AddressSelection) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.draft.AddressSelection = sel
	if sel != nil {
		delete(s.fieldErrs, domain.FieldAddress)
	}
}

func (s *checkoutService) Draft() domain.OrderDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

func (s *checkoutService) FieldErrors() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]string, len(s.fieldErrs))
	for k, v := range s.fieldErrs {
		out[k] = v
	}
	return out
}

// CanSubmit reports whether the confirm action should be enabled.
func (s *checkoutService) CanSubmit() bool {
	return s.Validate() == nil
}

// Validate runs the full-form pass over the current draft.
func (s *checkoutService) Validate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	add := func(field, msg string) {
		if msg != "" {
			err = domain.AddFieldError(err, field, msg)
		}
	}

	add(domain.FieldName, s.nameError(s.draft.Name))
	add(domain.FieldEmail, s.emailError(s.draft.Email))
	add(domain.FieldPhone, s.phoneError(s.draft.Phone))

	if s.draft.FulfillmentMode == "" {
		add(domain.FieldFulfillment, "Select a fulfillment mode")
	}
	if s.draft.FulfillmentMode == domain.FulfillmentDelivery {
		if s.draft.AddressSelection == nil {
			add(domain.FieldAddress, "A resolved delivery address is required")
		}
		add(domain.FieldApartmentNumber, s.apartmentError())
	}

	switch s.draft.PaymentMethod {
	case "":
		add(domain.FieldPaymentMethod, "Select a payment method")
	case domain.PaymentCash:
		if s.draft.FulfillmentMode != domain.FulfillmentPickup {
			add(domain.FieldPaymentMethod, "Cash payment requires in-store pickup")
		}
	}

	return err
}

// Field validators. Each returns an empty string when the value passes.

func (s *checkoutService) nameError(v string) string {
	if len(strings.TrimSpace(v)) < 2 {
		return "Name must be at least 2 characters"
	}
	return ""
}

func (s *checkoutService) emailError(v string) string {
	if strings.TrimSpace(v) == "" {
		return "Email is required"
	}
	if s.validate.Var(v, "email") != nil {
		return "Enter a valid email address"
	}
	return ""
}

func (s *checkoutService) phoneError(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "Phone is required"
	}
	if !phoneChars.MatchString(v) {
		return "Phone may only contain digits, spaces, +, parentheses and hyphens"
	}
	digits := 0
	for _, r := range v {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits < 8 {
		return "Phone must contain at least 8 digits"
	}
	return ""
}

func (s *checkoutService) apartmentError() string {
	if s.draft.FulfillmentMode == domain.FulfillmentDelivery &&
		s.draft.IsApartment && s.draft.ApartmentNumber == "" {
		return "Apartment number is required"
	}
	return ""
}

// checkField records or clears a field error and returns it, if any.
func (s *checkoutService) checkField(field, msg string) error {
	if msg == "" {
		delete(s.fieldErrs, field)
		return nil
	}
	return s.failField(field, msg)
}

func (s *checkoutService) failField(field, msg string) error {
	s.fieldErrs[field] = msg
	return domain.NewValidationError("checkout", field, msg)
}
