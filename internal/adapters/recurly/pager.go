package recurly

import (
	"context"
	"fmt"

	"github.com/velstream/recurly-export-cli/internal/domain"
	"github.com/velstream/recurly-export-cli/internal/ports"
)

// accountPager walks the cursor-paginated account listing lazily, fetching the
// next page only when the buffered one is exhausted.
type accountPager struct {
	client   *Client
	nextPath string
	buffer   []domain.Account
	pos      int
	current  domain.Account
	err      error
}

var _ ports.AccountIterator = (*accountPager)(nil)

func (p *accountPager) Next(ctx context.Context) bool {
	if p.err != nil {
		return false
	}

	// Checked before serving buffered accounts too, so cancellation stops the
	// walk mid-page rather than draining the current buffer.
	if err := ctx.Err(); err != nil {
		p.err = err
		return false
	}

	for {
		if p.pos < len(p.buffer) {
			p.current = p.buffer[p.pos]
			p.pos++
			return true
		}

		if p.nextPath == "" {
			return false
		}

		if err := p.fetchPage(ctx); err != nil {
			p.err = err
			return false
		}
	}
}

func (p *accountPager) Account() domain.Account {
	return p.current
}

func (p *accountPager) Err() error {
	return p.err
}

func (p *accountPager) fetchPage(ctx context.Context) error {
	var page accountsPage
	if err := p.client.getJSON(ctx, p.nextPath, &page); err != nil {
		return fmt.Errorf("fetch accounts page: %w", err)
	}

	p.buffer = p.buffer[:0]
	for _, entry := range page.Data {
		p.buffer = append(p.buffer, toAccount(entry))
	}
	p.pos = 0

	if page.HasMore && page.Next != "" {
		p.nextPath = page.Next
	} else {
		p.nextPath = ""
	}

	return nil
}
