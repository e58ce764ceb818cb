package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyPercentDiscount(t *testing.T) {
	tests := []struct {
		name    string
		price   int64
		percent int64
		want    int64
	}{
		{name: "ten percent", price: 2000, percent: 10, want: 1800},
		{name: "rounds down in customer favor", price: 999, percent: 33, want: 670},
		{name: "zero percent", price: 1500, percent: 0, want: 1500},
		{name: "full discount", price: 1500, percent: 100, want: 0},
		{name: "zero price", price: 0, percent: 50, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyDiscount(tt.price, Discount{Type: DiscountPercent, Percent: tt.percent})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyPercentDiscountStaysWithinBounds(t *testing.T) {
	prices := []int64{0, 1, 99, 100, 101, 999, 1000, 123456}
	for _, price := range prices {
		for percent := int64(0); percent <= 100; percent++ {
			got := ApplyDiscount(price, Discount{Type: DiscountPercent, Percent: percent})
			require.Equal(t, price-price*percent/100, got)
			require.LessOrEqual(t, got, price)
			require.GreaterOrEqual(t, got, int64(0))
		}
	}
}

func TestApplyFixedDiscountUsesFirstCurrency(t *testing.T) {
	discount := Discount{
		Type: DiscountFixed,
		Currencies: []DiscountCurrency{
			{Currency: "USD", AmountMinor: 500},
			{Currency: "EUR", AmountMinor: 400},
		},
	}

	assert.Equal(t, int64(1500), ApplyDiscount(2000, discount))
}

func TestApplyFixedDiscountMayGoNegative(t *testing.T) {
	discount := Discount{
		Type:       DiscountFixed,
		Currencies: []DiscountCurrency{{Currency: "USD", AmountMinor: 2500}},
	}

	assert.Equal(t, int64(-500), ApplyDiscount(2000, discount))
}

func TestApplyFixedDiscountWithoutCurrenciesIsNoop(t *testing.T) {
	assert.Equal(t, int64(2000), ApplyDiscount(2000, Discount{Type: DiscountFixed}))
}

func TestApplyUnknownDiscountTypeIsNoop(t *testing.T) {
	assert.Equal(t, int64(2000), ApplyDiscount(2000, Discount{Type: "free_trial", Percent: 50}))
}
