package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/velstream/recurly-export-cli/internal/domain"
	"github.com/velstream/recurly-export-cli/internal/ports"
)

// Progress describes one extracted row, for a progress display.
type Progress struct {
	Extracted int64
	Email     string
	Elapsed   time.Duration
}

type ProgressFunc func(Progress)

// Options controls a single export run.
type Options struct {
	// RunID keys the checkpoint entry, typically the output file's base name.
	RunID      string
	Limit      int
	State      domain.SubscriptionState
	Order      domain.SortOrder
	BeginTime  time.Time
	EndTime    time.Time
	StartSeq   int64
	OnProgress ProgressFunc
}

// Result reports what an export run produced. Rows are also flushed to the
// sink before Export returns, including on interruption.
type Result struct {
	Rows        []domain.Row
	Interrupted bool
	Metadata    domain.APIMetadata
}

// Exporter walks the billing provider's accounts, joins subscription,
// redemption, and customer-directory data into flat rows, and flushes them to
// the sink. Per-account failures are logged and contribute blank fields;
// they never abort the run.
type Exporter struct {
	billing     ports.BillingAPI
	directory   ports.CustomerDirectory
	sink        ports.RowSink
	checkpoints ports.CheckpointStore
	clock       ports.Clock
	log         logrus.FieldLogger
}

func NewExporter(
	billing ports.BillingAPI,
	directory ports.CustomerDirectory,
	sink ports.RowSink,
	checkpoints ports.CheckpointStore,
	clock ports.Clock,
	log logrus.FieldLogger,
) *Exporter {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &Exporter{
		billing:     billing,
		directory:   directory,
		sink:        sink,
		checkpoints: checkpoints,
		clock:       clock,
		log:         log,
	}
}

func (e *Exporter) Export(ctx context.Context, opts Options) (Result, error) {
	started := e.clock.Now()
	result := Result{}

	meta, err := e.billing.Headers(ctx)
	if err != nil {
		e.log.WithError(err).Warn("header probe failed, continuing without metadata")
	} else {
		result.Metadata = meta
		e.log.WithFields(logrus.Fields{
			"total_records":        meta.TotalRecords,
			"rate_limit_remaining": meta.RateLimit.Remaining,
		}).Info("starting export")
	}

	iterator, err := e.billing.Accounts(ctx, domain.AccountFilter{
		Subscriber: true,
		Order:      opts.Order,
		BeginTime:  opts.BeginTime,
		EndTime:    opts.EndTime,
	})
	if err != nil {
		return result, fmt.Errorf("list accounts: %w", err)
	}

	for iterator.Next(ctx) {
		// Cancellation between iterations must not turn the remaining
		// buffered accounts into blank rows.
		if ctx.Err() != nil {
			break
		}
		if opts.Limit > 0 && len(result.Rows) >= opts.Limit {
			break
		}

		row := e.buildRow(ctx, iterator.Account(), opts.State)
		row.Seq = opts.StartSeq + int64(len(result.Rows)) + 1
		result.Rows = append(result.Rows, row)

		if opts.OnProgress != nil {
			opts.OnProgress(Progress{
				Extracted: int64(len(result.Rows)),
				Email:     row.Email,
				Elapsed:   e.clock.Now().Sub(started),
			})
		}
	}

	listErr := iterator.Err()
	if listErr != nil && errors.Is(listErr, context.Canceled) {
		result.Interrupted = true
		listErr = nil
	}
	if err := ctx.Err(); err != nil {
		result.Interrupted = true
	}

	// Rows extracted so far are flushed even when the run was cut short.
	flushCtx := context.WithoutCancel(ctx)
	if err := e.flush(flushCtx, opts, result.Rows); err != nil {
		return result, err
	}

	if listErr != nil {
		return result, fmt.Errorf("list accounts: %w", listErr)
	}

	return result, nil
}

func (e *Exporter) buildRow(ctx context.Context, account domain.Account, state domain.SubscriptionState) domain.Row {
	row := domain.Row{
		Email:     account.Email,
		Name:      account.DisplayName(),
		CreatedAt: account.CreatedAt,
	}

	if e.directory != nil {
		stripeID, err := e.directory.LookupByEmail(ctx, account.Email)
		if err != nil {
			e.log.WithError(err).WithField("email", account.Email).Warn("customer directory lookup failed")
		} else {
			row.StripeID = stripeID
		}
	}

	subscriptions, err := e.billing.Subscriptions(ctx, account.ID, state)
	if err != nil {
		e.logAccountError(account, "subscriptions", err)
	} else if len(subscriptions) > 0 {
		first := subscriptions[0]
		amount := first.UnitAmountMinor
		row.Frequency = domain.FrequencyLabel(first.PlanName)
		row.PricingAmount = &amount
		row.NextBillingDate = first.CurrentTermEndsAt
		row.CancelDate = first.CanceledAt
		row.PendingChange = first.PendingChange
	}

	redemptions, err := e.billing.Redemptions(ctx, account.ID)
	if err != nil {
		e.logAccountError(account, "redemptions", err)
	} else {
		for _, redemption := range redemptions {
			if !redemption.Active() {
				continue
			}
			row.ActivePromoCode = redemption.Coupon.Code
			// A redemption seen before any priced subscription leaves the
			// discounted amount blank.
			if row.PricingAmount != nil {
				discounted := domain.ApplyDiscount(*row.PricingAmount, redemption.Coupon.Discount)
				row.DiscountedPricingAmount = &discounted
			}
			break
		}
	}

	return row
}

func (e *Exporter) logAccountError(account domain.Account, resource string, err error) {
	entry := e.log.WithError(err).WithFields(logrus.Fields{
		"account":  string(account.ID),
		"resource": resource,
	})
	if errors.Is(err, domain.ErrNotFound) {
		entry.Debug("account sub-resource missing")
		return
	}
	entry.Error("account sub-resource fetch failed")
}

func (e *Exporter) flush(ctx context.Context, opts Options, rows []domain.Row) error {
	if len(rows) == 0 {
		return nil
	}

	if err := e.sink.Write(rows); err != nil {
		return fmt.Errorf("flush rows: %w", err)
	}

	if e.checkpoints == nil || opts.RunID == "" {
		return nil
	}

	last := rows[len(rows)-1]
	set := domain.CheckpointSet{
		opts.RunID: {
			Direction:     opts.Order,
			LastCreatedAt: last.CreatedAt,
			Rows:          last.Seq,
			UpdatedAt:     e.clock.Now(),
		},
	}
	if err := e.checkpoints.Save(ctx, set); err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}

	return nil
}
