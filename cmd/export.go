package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	csvsink "github.com/velstream/recurly-export-cli/internal/adapters/sink/csv"
	"github.com/velstream/recurly-export-cli/internal/application"
	"github.com/velstream/recurly-export-cli/internal/domain"
	"github.com/velstream/recurly-export-cli/internal/ports"
)

const defaultOutputFile = "recurly_data.csv"

func newExportCmd(app *app) *cobra.Command {
	var (
		limit     int
		file      string
		beginTime string
		endTime   string
		order     string
		state     string
		resume    bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Extract billing records and write them to a CSV file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.requireRecurlyKey(); err != nil {
				return err
			}

			parsedOrder, err := domain.ParseSortOrder(order)
			if err != nil {
				return err
			}
			parsedState, err := domain.ParseSubscriptionState(state)
			if err != nil {
				return err
			}
			begin, err := parseTimeFlag(beginTime)
			if err != nil {
				return fmt.Errorf("parse --begin-time: %w", err)
			}
			end, err := parseTimeFlag(endTime)
			if err != nil {
				return fmt.Errorf("parse --end-time: %w", err)
			}

			path, err := filepath.Abs(os.ExpandEnv(file))
			if err != nil {
				return fmt.Errorf("resolve output path: %w", err)
			}

			opts := application.Options{
				RunID:     filepath.Base(path),
				Limit:     limit,
				State:     parsedState,
				Order:     parsedOrder,
				BeginTime: begin,
				EndTime:   end,
			}

			if resume {
				bounds, err := application.InferResumeBounds(path)
				switch {
				case errors.Is(err, os.ErrNotExist), errors.Is(err, application.ErrNoResumeData):
					app.tel.Logger().Debug("nothing to resume from, starting fresh")
				case err != nil:
					return fmt.Errorf("resume from %s: %w", path, err)
				default:
					if !bounds.BeginTime.IsZero() {
						opts.BeginTime = bounds.BeginTime
					}
					if !bounds.EndTime.IsZero() {
						opts.EndTime = bounds.EndTime
					}
					opts.StartSeq = bounds.Rows
					app.tel.Logger().WithField("rows", bounds.Rows).Info("resuming previous run")
				}
			}

			store, err := app.checkpointStore()
			if err != nil {
				return err
			}

			exporter := application.NewExporter(
				app.billingAPI(),
				app.customerDirectory(),
				csvsink.New(path),
				store,
				ports.SystemClock{},
				app.tel.Logger(),
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			var result application.Result
			if app.flags.quiet {
				result, err = exporter.Export(ctx, opts)
			} else {
				result, err = runExportWithProgress(ctx, cmd.ErrOrStderr(), exporter, opts, app.flags.verbosity > 0)
			}
			if err != nil {
				app.tel.CaptureError(err)
				return err
			}

			if result.Interrupted {
				fmt.Fprintf(cmd.OutOrStdout(), "Interrupted: %d rows flushed to %s\n", len(result.Rows), path)
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Extracted %d rows to %s\n", len(result.Rows), path)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Cap the number of extracted rows (0 = no limit)")
	cmd.Flags().StringVarP(&file, "file", "f", defaultOutputFile, "Output CSV path; created if it doesn't exist, appended to otherwise")
	cmd.Flags().StringVar(&beginTime, "begin-time", "", "Lower creation-time bound (RFC3339 or YYYY-MM-DD)")
	cmd.Flags().StringVar(&endTime, "end-time", "", "Upper creation-time bound (RFC3339 or YYYY-MM-DD)")
	cmd.Flags().StringVar(&order, "order", string(domain.OrderAsc), "Account ordering by creation time (asc|desc)")
	cmd.Flags().StringVar(&state, "subscription-state", string(domain.StateLive), "Subscription lifecycle state to extract")
	cmd.Flags().BoolVar(&resume, "resume", false, "Continue from an existing output file without reprocessing")

	return cmd
}

func parseTimeFlag(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}

	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return parsed.UTC(), nil
	}

	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q (want RFC3339 or YYYY-MM-DD)", raw)
	}

	return parsed.UTC(), nil
}
