package toml

import (
	"fmt"
	"time"

	"github.com/velstream/recurly-export-cli/internal/domain"
)

const currentSchemaVersion = 1

type fileSchema struct {
	Version int                         `toml:"version"`
	Runs    map[string]checkpointSchema `toml:"runs"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported checkpoints schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type checkpointSchema struct {
	Direction     string `toml:"direction"`
	LastCreatedAt string `toml:"last_created_at"`
	Rows          int64  `toml:"rows"`
	UpdatedAt     string `toml:"updated_at"`
}

func toSchema(checkpoint domain.Checkpoint) checkpointSchema {
	return checkpointSchema{
		Direction:     string(checkpoint.Direction),
		LastCreatedAt: formatTime(checkpoint.LastCreatedAt),
		Rows:          checkpoint.Rows,
		UpdatedAt:     formatTime(checkpoint.UpdatedAt),
	}
}

func fromSchema(entry checkpointSchema) domain.Checkpoint {
	return domain.Checkpoint{
		Direction:     domain.SortOrder(entry.Direction),
		LastCreatedAt: parseTime(entry.LastCreatedAt),
		Rows:          entry.Rows,
		UpdatedAt:     parseTime(entry.UpdatedAt),
	}
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.UTC().Format(time.RFC3339)
}
