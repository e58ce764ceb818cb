package domain

import "time"

// Checkpoint records where an export run left off: the direction it walked,
// the creation timestamp of the last emitted row, and the total row count.
type Checkpoint struct {
	Direction     SortOrder
	LastCreatedAt time.Time
	Rows          int64
	UpdatedAt     time.Time
}

// CheckpointSet maps a run identifier (the output file's base name) to its
// checkpoint. Saving a set merges it over previously persisted entries;
// unrelated runs are never clobbered.
type CheckpointSet map[string]Checkpoint
