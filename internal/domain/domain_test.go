package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrequencyLabel(t *testing.T) {
	tests := []struct {
		name string
		plan string
		want string
	}{
		{name: "annual normalizes to yearly", plan: "Annual Plan", want: "Yearly"},
		{name: "monthly passes through", plan: "Monthly Plan", want: "Monthly"},
		{name: "single token", plan: "Weekly", want: "Weekly"},
		{name: "empty plan name", plan: "", want: ""},
		{name: "leading whitespace", plan: "  Monthly Plan", want: "Monthly"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FrequencyLabel(tt.plan))
		})
	}
}

func TestAccountDisplayName(t *testing.T) {
	tests := []struct {
		name    string
		account Account
		want    string
	}{
		{name: "both names", account: Account{FirstName: "Ada", LastName: "Lovelace"}, want: "Ada Lovelace"},
		{name: "first name only", account: Account{FirstName: "Ada"}, want: "Ada"},
		{name: "last name only is dropped", account: Account{LastName: "Lovelace"}, want: ""},
		{name: "no names", account: Account{}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.account.DisplayName())
		})
	}
}

func TestParseEndpoint(t *testing.T) {
	for _, raw := range []string{"headers", "accounts", "subscriptions", "redemptions"} {
		endpoint, err := ParseEndpoint(raw)
		require.NoError(t, err)
		assert.Equal(t, Endpoint(raw), endpoint)
	}

	_, err := ParseEndpoint("invoices")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidEndpoint)
}

func TestParseSortOrder(t *testing.T) {
	order, err := ParseSortOrder("desc")
	require.NoError(t, err)
	assert.Equal(t, OrderDesc, order)

	_, err = ParseSortOrder("sideways")
	require.Error(t, err)
}

func TestParseSubscriptionState(t *testing.T) {
	state, err := ParseSubscriptionState("live")
	require.NoError(t, err)
	assert.Equal(t, StateLive, state)

	_, err = ParseSubscriptionState("hibernating")
	require.Error(t, err)
}

func TestRedemptionActive(t *testing.T) {
	assert.True(t, Redemption{State: "active"}.Active())
	assert.False(t, Redemption{State: "inactive"}.Active())
	assert.False(t, Redemption{}.Active())
}
