package cmd

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/velstream/recurly-export-cli/internal/version"
)

func executeCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	root := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func setTestEnv(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("RECURLY_KEY", "")
	t.Setenv("STRIPE_KEY", "")
	t.Setenv("SENTRY", "")
	t.Setenv("REX_CHECKPOINT_FILE", filepath.Join(home, "checkpoints.toml"))

	return home
}

func TestVersionCommand(t *testing.T) {
	setTestEnv(t)

	stdout, _, err := executeCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, version.Version)
}

func TestExportRequiresRecurlyKey(t *testing.T) {
	setTestEnv(t)

	_, _, err := executeCLI(t, "export", "-q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recurly API key is required")
}

func TestExportRejectsInvalidOrder(t *testing.T) {
	setTestEnv(t)
	t.Setenv("RECURLY_KEY", "test-key")

	_, _, err := executeCLI(t, "export", "-q", "--order", "sideways")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid sort order")
}

func TestProbeRejectsUnknownEndpoint(t *testing.T) {
	setTestEnv(t)

	_, _, err := executeCLI(t, "probe", "invoices")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid endpoint")
}

func TestCheckpointShowWithNothingRecorded(t *testing.T) {
	setTestEnv(t)

	stdout, _, err := executeCLI(t, "checkpoint", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No checkpoints recorded.")
}

func newBillingFixtureServer(t *testing.T) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodHead && r.URL.Path == "/accounts":
			w.Header().Set("Recurly-Total-Records", "2")
			w.Header().Set("X-RateLimit-Limit", "2000")
			w.Header().Set("X-RateLimit-Remaining", "1999")

		case r.URL.Path == "/accounts":
			fmt.Fprint(w, `{"has_more":false,"next":"","data":[
				{"id":"acc-a","email":"a@x.com","first_name":"Ada","created_at":"2024-01-01T00:00:00Z"},
				{"id":"acc-b","email":"b@x.com","first_name":"Bob","created_at":"2024-01-02T00:00:00Z"}]}`)

		case r.URL.Path == "/accounts/acc-a/subscriptions":
			fmt.Fprint(w, `{"has_more":false,"next":"","data":[{
				"plan":{"code":"monthly","name":"Monthly Plan"},
				"unit_amount":10.00,
				"current_term_ends_at":"2024-02-01T00:00:00Z"}]}`)

		case r.URL.Path == "/accounts/acc-b/subscriptions":
			fmt.Fprint(w, `{"has_more":false,"next":"","data":[{
				"plan":{"code":"annual","name":"Annual Plan"},
				"unit_amount":20.00,
				"current_term_ends_at":"2025-01-02T00:00:00Z"}]}`)

		case r.URL.Path == "/accounts/acc-a/coupon_redemptions":
			fmt.Fprint(w, `{"has_more":false,"next":"","data":[]}`)

		case r.URL.Path == "/accounts/acc-b/coupon_redemptions":
			fmt.Fprint(w, `{"has_more":false,"next":"","data":[
				{"state":"active","coupon":{"code":"SAVE10","discount":{"type":"percent","percent":10}}}]}`)

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestExportEndToEnd(t *testing.T) {
	home := setTestEnv(t)

	billingServer := newBillingFixtureServer(t)
	defer billingServer.Close()

	stripeServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/customers", r.URL.Path)
		if r.URL.Query().Get("email") == "a@x.com" {
			fmt.Fprint(w, `{"data":[{"id":"cus_a"}]}`)
			return
		}
		fmt.Fprint(w, `{"data":[]}`)
	}))
	defer stripeServer.Close()

	t.Setenv("RECURLY_KEY", "test-key")
	t.Setenv("RECURLY_API", billingServer.URL)
	t.Setenv("STRIPE_KEY", "sk_test")
	t.Setenv("STRIPE_API", stripeServer.URL)

	outputPath := filepath.Join(home, "out.csv")

	stdout, _, err := executeCLI(t, "export", "-q", "--file", outputPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Extracted 2 rows")

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	first := records[1]
	assert.Equal(t, "1", first[0])
	assert.Equal(t, "a@x.com", first[1])
	assert.Equal(t, "cus_a", first[3])
	assert.Equal(t, "Monthly", first[5])
	assert.Equal(t, "1000", first[6])
	assert.Equal(t, "", first[7])

	second := records[2]
	assert.Equal(t, "2", second[0])
	assert.Equal(t, "b@x.com", second[1])
	assert.Equal(t, "", second[3])
	assert.Equal(t, "Yearly", second[5])
	assert.Equal(t, "2000", second[6])
	assert.Equal(t, "1800", second[7])
	assert.Equal(t, "SAVE10", second[10])

	stdout, _, err = executeCLI(t, "checkpoint", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "out.csv")
	assert.Contains(t, stdout, "rows=2")
}

func TestExportAppendsOnSecondRun(t *testing.T) {
	home := setTestEnv(t)

	billingServer := newBillingFixtureServer(t)
	defer billingServer.Close()

	t.Setenv("RECURLY_KEY", "test-key")
	t.Setenv("RECURLY_API", billingServer.URL)

	outputPath := filepath.Join(home, "out.csv")

	_, _, err := executeCLI(t, "export", "-q", "--file", outputPath)
	require.NoError(t, err)
	_, _, err = executeCLI(t, "export", "-q", "--file", outputPath)
	require.NoError(t, err)

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	// One header plus two data rows per run.
	require.Len(t, records, 5)
	assert.Equal(t, "row", records[0][0])
	assert.NotEqual(t, "row", records[3][0])
}

func TestProbeHeadersPrintsMetadata(t *testing.T) {
	setTestEnv(t)

	billingServer := newBillingFixtureServer(t)
	defer billingServer.Close()

	t.Setenv("RECURLY_KEY", "test-key")
	t.Setenv("RECURLY_API", billingServer.URL)

	stdout, _, err := executeCLI(t, "probe", "headers")
	require.NoError(t, err)
	assert.Contains(t, stdout, "total records: 2")
	assert.Contains(t, stdout, "rate limit: 1999/2000 remaining")
}
