package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidEndpoint    = errors.New("invalid endpoint")
	ErrCheckpointNotFound = errors.New("checkpoint not found")
)

type InvalidSortOrderError struct {
	Value string
}

func (e InvalidSortOrderError) Error() string {
	return fmt.Sprintf("invalid sort order %q (want asc or desc)", e.Value)
}

type InvalidSubscriptionStateError struct {
	Value string
}

func (e InvalidSubscriptionStateError) Error() string {
	return fmt.Sprintf("invalid subscription state %q", e.Value)
}
