package domain

import "fmt"

// Endpoint names one of the typed billing API operations. The set is closed;
// parsing anything else fails before any network call is made.
type Endpoint string

const (
	EndpointHeaders       Endpoint = "headers"
	EndpointAccounts      Endpoint = "accounts"
	EndpointSubscriptions Endpoint = "subscriptions"
	EndpointRedemptions   Endpoint = "redemptions"
)

func ParseEndpoint(raw string) (Endpoint, error) {
	switch Endpoint(raw) {
	case EndpointHeaders, EndpointAccounts, EndpointSubscriptions, EndpointRedemptions:
		return Endpoint(raw), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidEndpoint, raw)
}
