package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuantity(t *testing.T) {
	cases := []struct {
		raw  string
		want int
		ok   bool
	}{
		{"1", 1, true},
		{" 3 ", 3, true},
		{"0", 0, false},
		{"-2", 0, false},
		{"1.5", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}

	for _, tc := range cases {
		qty, err := ParseQuantity(tc.raw)
		if tc.ok {
			require.NoError(t, err, tc.raw)
			assert.Equal(t, tc.want, qty)
		} else {
			assert.Error(t, err, tc.raw)
		}
	}
}

func TestParseUnitPrice(t *testing.T) {
	cases := []struct {
		raw string
		ok  bool
	}{
		{"100.00", true},
		{"0", true},
		{"19.9", true},
		{"0.01", true},
		{"-0.01", false},
		{"9.999", false},
		{"ten", false},
		{"", false},
	}

	for _, tc := range cases {
		price, err := ParseUnitPrice(tc.raw)
		if tc.ok {
			require.NoError(t, err, tc.raw)
			assert.True(t, price.GreaterThanOrEqual(decimal.Zero))
		} else {
			assert.Error(t, err, tc.raw)
		}
	}
}

func TestOrderStatusValid(t *testing.T) {
	for _, s := range []OrderStatus{OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, OrderStatus("returned").Valid())
	assert.False(t, OrderStatus("").Valid())
}

func TestShippingInfoValidate(t *testing.T) {
	info := ShippingInfo{Address: "1 Main St", City: "Springfield", PostalCode: "12345"}
	require.NoError(t, info.Validate())

	missing := info
	missing.Address = "   "
	assert.ErrorIs(t, missing.Validate(), ErrShippingAddressRequired)

	missing = info
	missing.City = ""
	assert.ErrorIs(t, missing.Validate(), ErrShippingCityRequired)

	missing = info
	missing.PostalCode = ""
	assert.ErrorIs(t, missing.Validate(), ErrShippingPostalCodeRequired)
}

func TestLineTotal(t *testing.T) {
	line := OrderLine{Quantity: 3, UnitPrice: decimal.RequireFromString("19.99")}
	assert.Equal(t, "59.97", line.LineTotal().StringFixed(2))
}
