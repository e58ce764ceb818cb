package ports

import (
	"context"

	"github.com/velstream/recurly-export-cli/internal/domain"
)

// CheckpointStore persists per-run export checkpoints. Save merges the given
// set over a freshly loaded snapshot, last-writer-wins per run key; it never
// blindly overwrites entries for unrelated runs.
type CheckpointStore interface {
	Load(ctx context.Context) (domain.CheckpointSet, error)
	Save(ctx context.Context, set domain.CheckpointSet) error
}
