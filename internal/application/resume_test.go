package application

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/velstream/recurly-export-cli/internal/domain"
)

func writeCSVFixture(t *testing.T, rows ...string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "out.csv")
	lines := append([]string{strings.Join(domain.Columns(), ",")}, rows...)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))

	return path
}

func TestInferResumeBoundsAscendingRunSetsBeginTime(t *testing.T) {
	path := writeCSVFixture(t,
		"1,a@x.com,,,1704067200,,,,,,,",
		"2,b@x.com,,,1704153600,,,,,,,",
	)

	bounds, err := InferResumeBounds(path)
	require.NoError(t, err)
	assert.Equal(t, time.Unix(1704153600, 0).UTC(), bounds.BeginTime)
	assert.True(t, bounds.EndTime.IsZero())
	assert.Equal(t, int64(2), bounds.Rows)
}

func TestInferResumeBoundsDescendingRunSetsEndTime(t *testing.T) {
	path := writeCSVFixture(t,
		"1,b@x.com,,,1704153600,,,,,,,",
		"2,a@x.com,,,1704067200,,,,,,,",
		"3,z@x.com,,,1703980800,,,,,,,",
	)

	bounds, err := InferResumeBounds(path)
	require.NoError(t, err)
	assert.True(t, bounds.BeginTime.IsZero())
	assert.Equal(t, time.Unix(1703980800, 0).UTC(), bounds.EndTime)
	assert.Equal(t, int64(3), bounds.Rows)
}

func TestInferResumeBoundsSingleRowTreatedAsAscending(t *testing.T) {
	path := writeCSVFixture(t, "1,a@x.com,,,1704067200,,,,,,,")

	bounds, err := InferResumeBounds(path)
	require.NoError(t, err)
	assert.Equal(t, time.Unix(1704067200, 0).UTC(), bounds.BeginTime)
	assert.Equal(t, int64(1), bounds.Rows)
}

func TestInferResumeBoundsHeaderOnlyFileFails(t *testing.T) {
	path := writeCSVFixture(t)

	_, err := InferResumeBounds(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoResumeData)
}

func TestInferResumeBoundsMissingFileFails(t *testing.T) {
	_, err := InferResumeBounds(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestInferResumeBoundsMissingColumnFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, os.WriteFile(path, []byte("email,name\na@x.com,Ada\n"), 0o644))

	_, err := InferResumeBounds(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no "created_at" column`)
}
