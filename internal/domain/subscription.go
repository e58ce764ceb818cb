package domain

import (
	"strings"
	"time"
)

// SubscriptionState is a billing lifecycle state accepted by the provider's
// subscription listing.
type SubscriptionState string

const (
	StateActive   SubscriptionState = "active"
	StateCanceled SubscriptionState = "canceled"
	StateExpired  SubscriptionState = "expired"
	StateFuture   SubscriptionState = "future"
	StateInTrial  SubscriptionState = "in_trial"
	StateLive     SubscriptionState = "live"
	StatePastDue  SubscriptionState = "past_due"
)

func ParseSubscriptionState(raw string) (SubscriptionState, error) {
	switch SubscriptionState(raw) {
	case StateActive, StateCanceled, StateExpired, StateFuture, StateInTrial, StateLive, StatePastDue:
		return SubscriptionState(raw), nil
	}
	return "", InvalidSubscriptionStateError{Value: raw}
}

// Subscription is a recurring plan attached to one account. UnitAmountMinor is
// in minor currency units (cents).
type Subscription struct {
	PlanCode          string
	PlanName          string
	UnitAmountMinor   int64
	CurrentTermEndsAt time.Time
	CanceledAt        time.Time
	PendingChange     *PendingChange
}

// PendingChange is the compacted form of a queued plan change, kept nested so
// the sink can serialize it as a structure rather than a flat string.
type PendingChange struct {
	Subject         string
	NewPlanCode     string
	NewPlanName     string
	UnitAmountMinor int64
	ActivateAt      time.Time
	Activated       bool
}

// FrequencyLabel derives a billing frequency label from a plan name: the first
// whitespace-delimited token, with "Annual" normalized to "Yearly".
func FrequencyLabel(planName string) string {
	fields := strings.Fields(planName)
	if len(fields) == 0 {
		return ""
	}
	if fields[0] == "Annual" {
		return "Yearly"
	}
	return fields[0]
}
