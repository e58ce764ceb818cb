package recurly

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/velstream/recurly-export-cli/internal/domain"
	"github.com/velstream/recurly-export-cli/internal/ports"
)

const (
	apiVersion      = "application/vnd.recurly.v2021-02-25"
	pageSize        = 200
	maxResponseSize = 4 << 20

	headerTotalRecords       = "Recurly-Total-Records"
	headerRateLimitLimit     = "X-RateLimit-Limit"
	headerRateLimitRemaining = "X-RateLimit-Remaining"
	headerRateLimitReset     = "X-RateLimit-Reset"
)

// Client talks to the Recurly v3 REST API. It implements ports.BillingAPI.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        logrus.FieldLogger
}

var _ ports.BillingAPI = (*Client)(nil)

func New(baseURL, apiKey string, httpClient *http.Client, log logrus.FieldLogger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
		log:        log,
	}
}

// Headers probes the account listing without transferring records and captures
// the total-record count and rate-limit state from the response metadata.
func (c *Client) Headers(ctx context.Context) (domain.APIMetadata, error) {
	_, header, err := c.do(ctx, http.MethodHead, "/accounts")
	if err != nil {
		return domain.APIMetadata{}, fmt.Errorf("probe account headers: %w", err)
	}

	meta := domain.APIMetadata{
		TotalRecords: parseHeaderInt(header.Get(headerTotalRecords)),
		RateLimit: domain.RateLimit{
			Limit:     parseHeaderInt(header.Get(headerRateLimitLimit)),
			Remaining: parseHeaderInt(header.Get(headerRateLimitRemaining)),
		},
	}
	if reset := parseHeaderInt(header.Get(headerRateLimitReset)); reset > 0 {
		meta.RateLimit.ResetsAt = time.Unix(reset, 0).UTC()
	}

	c.log.WithFields(logrus.Fields{
		"total_records":        meta.TotalRecords,
		"rate_limit_remaining": meta.RateLimit.Remaining,
	}).Debug("account header probe complete")

	return meta, nil
}

func (c *Client) Accounts(ctx context.Context, filter domain.AccountFilter) (ports.AccountIterator, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("limit", strconv.Itoa(pageSize))
	params.Set("sort", "created_at")
	if filter.Order != "" {
		params.Set("order", string(filter.Order))
	}
	if filter.Subscriber {
		params.Set("subscriber", "true")
	}
	if !filter.BeginTime.IsZero() {
		params.Set("begin_time", filter.BeginTime.UTC().Format(time.RFC3339))
	}
	if !filter.EndTime.IsZero() {
		params.Set("end_time", filter.EndTime.UTC().Format(time.RFC3339))
	}

	return &accountPager{
		client:   c,
		nextPath: "/accounts?" + params.Encode(),
	}, nil
}

func (c *Client) Subscriptions(ctx context.Context, id domain.AccountID, state domain.SubscriptionState) ([]domain.Subscription, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(pageSize))
	if state != "" {
		params.Set("state", string(state))
	}

	path := fmt.Sprintf("/accounts/%s/subscriptions?%s", url.PathEscape(string(id)), params.Encode())
	var page subscriptionsPage
	if err := c.getJSON(ctx, path, &page); err != nil {
		return nil, fmt.Errorf("list subscriptions for account %s: %w", id, err)
	}

	subscriptions := make([]domain.Subscription, 0, len(page.Data))
	for _, entry := range page.Data {
		subscriptions = append(subscriptions, toSubscription(entry))
	}

	return subscriptions, nil
}

func (c *Client) Redemptions(ctx context.Context, id domain.AccountID) ([]domain.Redemption, error) {
	path := fmt.Sprintf("/accounts/%s/coupon_redemptions?limit=%d", url.PathEscape(string(id)), pageSize)
	var page redemptionsPage
	if err := c.getJSON(ctx, path, &page); err != nil {
		return nil, fmt.Errorf("list redemptions for account %s: %w", id, err)
	}

	redemptions := make([]domain.Redemption, 0, len(page.Data))
	for _, entry := range page.Data {
		redemptions = append(redemptions, toRedemption(entry))
	}

	return redemptions, nil
}

func (c *Client) do(ctx context.Context, method, path string) ([]byte, http.Header, error) {
	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("create request: %w", err)
	}
	request.SetBasicAuth(c.apiKey, "")
	request.Header.Set("Accept", apiVersion)
	request.Header.Set("User-Agent", "rex/export")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, nil, fmt.Errorf("perform request: %w", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, maxResponseSize))
	if err != nil {
		return nil, nil, fmt.Errorf("read response: %w", err)
	}

	if response.StatusCode == http.StatusNotFound {
		return nil, nil, fmt.Errorf("%w: %s %s", domain.ErrNotFound, method, path)
	}
	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, nil, fmt.Errorf("status %d: %s", response.StatusCode, strings.TrimSpace(string(body)))
	}

	return body, response.Header, nil
}

func parseHeaderInt(raw string) int64 {
	if raw == "" {
		return 0
	}

	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}

	return value
}
