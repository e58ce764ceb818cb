package ports

import (
	"context"

	"github.com/velstream/recurly-export-cli/internal/domain"
)

// BillingAPI is the closed set of operations the exporter needs from the
// billing provider, one method per endpoint.
type BillingAPI interface {
	// Headers probes the account listing resource and returns total-record
	// and rate-limit metadata without transferring any records.
	Headers(ctx context.Context) (domain.APIMetadata, error)

	// Accounts returns a lazy sequence of accounts matching the filter. The
	// sequence is restartable only by calling Accounts again.
	Accounts(ctx context.Context, filter domain.AccountFilter) (AccountIterator, error)

	// Subscriptions lists one account's subscriptions in the given state.
	Subscriptions(ctx context.Context, id domain.AccountID, state domain.SubscriptionState) ([]domain.Subscription, error)

	// Redemptions lists one account's coupon redemptions.
	Redemptions(ctx context.Context, id domain.AccountID) ([]domain.Redemption, error)
}

// AccountIterator walks a paginated account listing. Next reports whether an
// account is available; after it returns false, Err holds the terminal error,
// if any.
type AccountIterator interface {
	Next(ctx context.Context) bool
	Account() domain.Account
	Err() error
}
