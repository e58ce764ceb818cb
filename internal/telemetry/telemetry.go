package telemetry

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

// Options selects log verbosity and the optional error-reporting endpoint.
type Options struct {
	Quiet     bool
	Verbosity int
	SentryDSN string
	Output    io.Writer
}

// Telemetry bundles the structured logger and error reporting as an explicit,
// injectable collaborator instead of import-time globals.
type Telemetry struct {
	log       logrus.FieldLogger
	sentryOn  bool
	flushWait time.Duration
}

func New(opts Options) (*Telemetry, error) {
	logger := logrus.New()

	output := opts.Output
	if output == nil {
		output = os.Stderr
	}
	logger.SetOutput(output)

	switch {
	case opts.Quiet:
		logger.SetLevel(logrus.ErrorLevel)
	case opts.Verbosity >= 2:
		logger.SetLevel(logrus.TraceLevel)
	case opts.Verbosity == 1:
		logger.SetLevel(logrus.DebugLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}

	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	hostname, _ := os.Hostname()
	log := logger.WithField("hostname", hostname)

	t := &Telemetry{log: log, flushWait: 2 * time.Second}

	if opts.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: opts.SentryDSN}); err != nil {
			return nil, fmt.Errorf("init error reporting: %w", err)
		}
		t.sentryOn = true
	}

	return t, nil
}

// NewNop returns a telemetry collaborator that discards everything, for tests.
func NewNop() *Telemetry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return &Telemetry{log: logrus.NewEntry(logger)}
}

func (t *Telemetry) Logger() logrus.FieldLogger {
	return t.log
}

func (t *Telemetry) CaptureError(err error) {
	if err == nil || !t.sentryOn {
		return
	}
	sentry.CaptureException(err)
}

// Close flushes any buffered error reports.
func (t *Telemetry) Close() {
	if t.sentryOn {
		sentry.Flush(t.flushWait)
	}
}
