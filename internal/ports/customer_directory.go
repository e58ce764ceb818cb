package ports

import "context"

// CustomerDirectory resolves a billing email to an external customer id.
// An empty id with a nil error means no match.
type CustomerDirectory interface {
	LookupByEmail(ctx context.Context, email string) (string, error)
}
