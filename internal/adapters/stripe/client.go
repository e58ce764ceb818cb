package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/velstream/recurly-export-cli/internal/ports"
)

const maxResponseSize = 1 << 20

// Client resolves billing emails to Stripe customer ids through the customer
// search endpoint. It implements ports.CustomerDirectory.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ ports.CustomerDirectory = (*Client)(nil)

func New(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

type customerList struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

// LookupByEmail returns the first customer id matching the email, or an empty
// string when nothing matches.
func (c *Client) LookupByEmail(ctx context.Context, email string) (string, error) {
	params := url.Values{}
	params.Set("email", email)
	params.Set("limit", "1")

	endpoint := c.baseURL + "/v1/customers?" + params.Encode()
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	request.SetBasicAuth(c.apiKey, "")
	request.Header.Set("User-Agent", "rex/export")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return "", fmt.Errorf("perform request: %w", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode > 299 {
		return "", fmt.Errorf("status %d: %s", response.StatusCode, strings.TrimSpace(string(body)))
	}

	var list customerList
	if err := json.Unmarshal(body, &list); err != nil {
		return "", fmt.Errorf("decode payload: %w", err)
	}
	if len(list.Data) == 0 {
		return "", nil
	}

	return list.Data[0].ID, nil
}
