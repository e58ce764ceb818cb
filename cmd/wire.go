package cmd

import (
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/viper"
	checkpointstore "github.com/velstream/recurly-export-cli/internal/adapters/checkpoint/toml"
	"github.com/velstream/recurly-export-cli/internal/adapters/recurly"
	"github.com/velstream/recurly-export-cli/internal/adapters/stripe"
	"github.com/velstream/recurly-export-cli/internal/config"
	"github.com/velstream/recurly-export-cli/internal/ports"
	"github.com/velstream/recurly-export-cli/internal/telemetry"
)

type rootFlags struct {
	quiet          bool
	verbosity      int
	recurlyKey     string
	stripeKey      string
	recurlyAPI     string
	stripeAPI      string
	sentryDSN      string
	checkpointPath string
}

type app struct {
	cfg        *config.Config
	flags      rootFlags
	tel        *telemetry.Telemetry
	httpClient *http.Client
}

func wireApp() *app {
	return &app{
		cfg:        config.Load(),
		tel:        telemetry.NewNop(),
		httpClient: http.DefaultClient,
	}
}

func (a *app) initTelemetry(output io.Writer) error {
	tel, err := telemetry.New(telemetry.Options{
		Quiet:     a.flags.quiet,
		Verbosity: a.flags.verbosity,
		SentryDSN: a.flags.sentryDSN,
		Output:    output,
	})
	if err != nil {
		return fmt.Errorf("wire telemetry: %w", err)
	}

	a.tel = tel
	return nil
}

func (a *app) closeTelemetry() {
	a.tel.Close()
}

func (a *app) requireRecurlyKey() error {
	if a.flags.recurlyKey == "" {
		return fmt.Errorf("recurly API key is required (set RECURLY_KEY or pass --recurly-key)")
	}
	return nil
}

func (a *app) billingAPI() *recurly.Client {
	return recurly.New(a.flags.recurlyAPI, a.flags.recurlyKey, a.httpClient, a.tel.Logger())
}

// customerDirectory is nil when Stripe is unconfigured; lookups then resolve
// to an empty customer id.
func (a *app) customerDirectory() ports.CustomerDirectory {
	if a.flags.stripeKey == "" || a.flags.stripeAPI == "" {
		return nil
	}
	return stripe.New(a.flags.stripeAPI, a.flags.stripeKey, a.httpClient)
}

func (a *app) checkpointStore() (*checkpointstore.Store, error) {
	cfg := viper.New()
	if a.flags.checkpointPath != "" {
		cfg.Set("checkpoints.path", a.flags.checkpointPath)
	}

	store, err := checkpointstore.NewStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire checkpoint store: %w", err)
	}

	return store, nil
}
