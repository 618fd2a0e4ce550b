package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avilaj/tienda/internal/domain"
)

func validDeliveryCheckout(t *testing.T) domain.CheckoutService {
	t.Helper()
	c := NewCheckoutService(nil)
	require.NoError(t, c.SetName("Ana García"))
	require.NoError(t, c.SetEmail("ana@example.com"))
	require.NoError(t, c.SetPhone("+54 351 123-4567"))
	require.NoError(t, c.SetFulfillmentMode(domain.FulfillmentDelivery))
	c.SetAddress(&domain.AddressSelection{
		FormattedAddress: "Av. Colón 1234, Córdoba",
		DistanceKm:       3.2,
		ShippingCost:     820,
		Source:           domain.AddressSourceInput,
	})
	require.NoError(t, c.SetPaymentMethod(domain.PaymentGateway))
	return c
}

func TestCheckoutService_FieldValidators(t *testing.T) {
	tests := []struct {
		name  string
		set   func(c domain.CheckoutService) error
		field string
		ok    bool
	}{
		{"valid name", func(c domain.CheckoutService) error { return c.SetName("Ana") }, domain.FieldName, true},
		{"short name", func(c domain.CheckoutService) error { return c.SetName(" a ") }, domain.FieldName, false},
		{"valid email", func(c domain.CheckoutService) error { return c.SetEmail("a@b.com") }, domain.FieldEmail, true},
		{"bad email", func(c domain.CheckoutService) error { return c.SetEmail("not-an-email") }, domain.FieldEmail, false},
		{"empty email", func(c domain.CheckoutService) error { return c.SetEmail("  ") }, domain.FieldEmail, false},
		{"valid phone", func(c domain.CheckoutService) error { return c.SetPhone("(0351) 456-7890") }, domain.FieldPhone, true},
		{"phone with letters", func(c domain.CheckoutService) error { return c.SetPhone("call me") }, domain.FieldPhone, false},
		{"phone too short", func(c domain.CheckoutService) error { return c.SetPhone("12345") }, domain.FieldPhone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCheckoutService(nil)
			err := tt.set(c)
			if tt.ok {
				assert.NoError(t, err)
				assert.NotContains(t, c.FieldErrors(), tt.field)
			} else {
				assert.True(t, domain.IsValidationError(err))
				assert.Contains(t, c.FieldErrors(), tt.field)
			}
		})
	}
}

func TestCheckoutService_FieldErrorClearsOnCorrection(t *testing.T) {
	c := NewCheckoutService(nil)

	require.Error(t, c.SetEmail("bad"))
	assert.Contains(t, c.FieldErrors(), domain.FieldEmail)

	require.NoError(t, c.SetEmail("good@example.com"))
	assert.NotContains(t, c.FieldErrors(), domain.FieldEmail)
}

func TestCheckoutService_PaymentRequiresMode(t *testing.T) {
	c := NewCheckoutService(nil)

	err := c.SetPaymentMethod(domain.PaymentGateway)
	assert.True(t, domain.IsValidationError(err))
	assert.Empty(t, c.Draft().PaymentMethod)
}

func TestCheckoutService_CashRequiresPickup(t *testing.T) {
	c := NewCheckoutService(nil)
	require.NoError(t, c.SetFulfillmentMode(domain.FulfillmentDelivery))

	err := c.SetPaymentMethod(domain.PaymentCash)
	assert.True(t, domain.IsValidationError(err))
	assert.Empty(t, c.Draft().PaymentMethod)

	require.NoError(t, c.SetFulfillmentMode(domain.FulfillmentPickup))
	require.NoError(t, c.SetPaymentMethod(domain.PaymentCash))
	assert.Equal(t, domain.PaymentCash, c.Draft().PaymentMethod)
}

func TestCheckoutService_ModeSwitchResetsDependents(t *testing.T) {
	c := validDeliveryCheckout(t)

	require.NoError(t, c.SetFulfillmentMode(domain.FulfillmentPickup))

	draft := c.Draft()
	assert.Empty(t, draft.PaymentMethod)
	assert.Nil(t, draft.AddressSelection)
	assert.Equal(t, float64(0), draft.ShippingCost())
}

func TestCheckoutService_ApartmentNumberRequiredOnDelivery(t *testing.T) {
	c := NewCheckoutService(nil)
	require.NoError(t, c.SetFulfillmentMode(domain.FulfillmentDelivery))

	err := c.SetApartment(true, "")
	assert.True(t, domain.IsValidationError(err))

	require.NoError(t, c.SetApartment(true, "4B"))
	assert.Equal(t, "4B", c.Draft().ApartmentNumber)
}

func TestCheckoutService_Validate(t *testing.T) {
	t.Run("complete delivery form passes", func(t *testing.T) {
		c := validDeliveryCheckout(t)
		assert.NoError(t, c.Validate())
		assert.True(t, c.CanSubmit())
	})

	t.Run("empty form lists every missing field", func(t *testing.T) {
		c := NewCheckoutService(nil)
		err := c.Validate()
		require.True(t, domain.IsValidationError(err))

		fields := domain.GetValidationFields(err)
		assert.Contains(t, fields, domain.FieldName)
		assert.Contains(t, fields, domain.FieldEmail)
		assert.Contains(t, fields, domain.FieldPhone)
		assert.Contains(t, fields, domain.FieldFulfillment)
		assert.Contains(t, fields, domain.FieldPaymentMethod)
	})

	t.Run("delivery without address fails", func(t *testing.T) {
		c := validDeliveryCheckout(t)
		c.SetAddress(nil)

		err := c.Validate()
		require.True(t, domain.IsValidationError(err))
		assert.Contains(t, domain.GetValidationFields(err), domain.FieldAddress)
		assert.False(t, c.CanSubmit())
	})
}

func TestCheckoutService_ModeSwitchClearsResolutionState(t *testing.T) {
	addresses := NewAddressService(nil, nil, AddressConfig{}, nil, nil)
	addresses.SelectSuggestion(domain.AddressSuggestion{Formatted: "Calle Falsa 123"})
	require.NotNil(t, addresses.Selection())

	c := NewCheckoutService(addresses)
	require.NoError(t, c.SetFulfillmentMode(domain.FulfillmentPickup))

	assert.Nil(t, addresses.Selection())
}
