package domain

import "time"

// Row is one flattened output record. Seq is a strictly increasing 1-based
// sequence number assigned at append time; once written to the sink the row is
// immutable. Nil amount pointers render as blank columns, distinguishing
// "no price" from an actual zero.
type Row struct {
	Seq                     int64
	Email                   string
	Name                    string
	StripeID                string
	CreatedAt               time.Time
	Frequency               string
	PricingAmount           *int64
	DiscountedPricingAmount *int64
	NextBillingDate         time.Time
	CancelDate              time.Time
	ActivePromoCode         string
	PendingChange           *PendingChange
}

// Columns is the fixed CSV header, in the order row fields are emitted.
func Columns() []string {
	return []string{
		"row",
		"email",
		"name",
		"stripe_id",
		"created_at",
		"frequency",
		"pricing_amount",
		"discounted_pricing_amount",
		"next_billing_date",
		"cancel_date",
		"active_promo_code",
		"pending_change",
	}
}
