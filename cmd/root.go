package cmd

import (
	"github.com/spf13/cobra"
	"github.com/velstream/recurly-export-cli/internal/version"
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	app := wireApp()

	rootCmd := &cobra.Command{
		Use:           "rex",
		Short:         "Recurly export CLI (rex): dump billing records to CSV",
		Long:          "rex exports subscription records from the Recurly API, cross-references customers against Stripe by email, and writes the flattened result to a resumable CSV file.",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.initTelemetry(cmd.ErrOrStderr())
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			app.closeTelemetry()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&app.flags.quiet, "quiet", "q", false, "Silence output")
	flags.CountVarP(&app.flags.verbosity, "verbose", "v", "Increase output verbosity (repeatable)")
	flags.StringVar(&app.flags.recurlyKey, "recurly-key", app.cfg.RecurlyKey, "Recurly API key (env RECURLY_KEY)")
	flags.StringVar(&app.flags.stripeKey, "stripe-key", app.cfg.StripeKey, "Stripe API key (env STRIPE_KEY)")
	flags.StringVar(&app.flags.recurlyAPI, "recurly-api", app.cfg.RecurlyAPI, "Recurly API base URL (env RECURLY_API)")
	flags.StringVar(&app.flags.stripeAPI, "stripe-api", app.cfg.StripeAPI, "Stripe API base URL (env STRIPE_API)")
	flags.StringVar(&app.flags.sentryDSN, "sentry", app.cfg.SentryDSN, "Error-reporting DSN (env SENTRY)")
	flags.StringVar(&app.flags.checkpointPath, "checkpoint", app.cfg.CheckpointPath, "Checkpoint file path (env REX_CHECKPOINT_FILE)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newExportCmd(app),
		newProbeCmd(app),
		newCheckpointCmd(app),
	)

	return rootCmd
}
