package domain

import "time"

type AccountID string

// Account is a customer record owned by the billing provider. Read-only here.
type Account struct {
	ID        AccountID
	Email     string
	FirstName string
	LastName  string
	CreatedAt time.Time
}

// DisplayName is the first name alone, or "first last" when both are present.
func (a Account) DisplayName() string {
	if a.FirstName == "" {
		return ""
	}
	if a.LastName == "" {
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}

type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

func ParseSortOrder(raw string) (SortOrder, error) {
	switch SortOrder(raw) {
	case OrderAsc, OrderDesc:
		return SortOrder(raw), nil
	}
	return "", InvalidSortOrderError{Value: raw}
}

// AccountFilter narrows an account listing. Zero time bounds mean unbounded.
type AccountFilter struct {
	Subscriber bool
	Order      SortOrder
	BeginTime  time.Time
	EndTime    time.Time
}
