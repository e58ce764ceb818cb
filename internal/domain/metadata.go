package domain

import "time"

// RateLimit is the provider's rate-limit state as reported by response
// metadata. It is observed and logged, never actively throttled against.
type RateLimit struct {
	Limit     int64
	Remaining int64
	ResetsAt  time.Time
}

// APIMetadata is the result of a headers probe against the account listing.
type APIMetadata struct {
	TotalRecords int64
	RateLimit    RateLimit
}
