package perk

import (
	"context"
	"errors"
)

var ErrNotReady = errors.New("perk store not ready")

// Store holds the authoritative id -> Perk mapping. A false bool from Get or
// Update is the absence value; errors are reserved for backend failures.
type Store interface {
	Load(ctx context.Context, perks []Perk) (LoadResult, error)
	List(ctx context.Context) ([]Perk, error)
	Get(ctx context.Context, id int64) (Perk, bool, error)
	Create(ctx context.Context, p Perk) (Perk, error)
	Update(ctx context.Context, id int64, p Perk) (Perk, bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Exists(ctx context.Context, id int64) (bool, error)

	Ping(ctx context.Context) error
	MarkReady()
}

type LoadResult struct {
	Loaded  int
	Skipped []SkippedRecord
}

// SkippedRecord identifies a seed entry that was not inserted because it had no id.
type SkippedRecord struct {
	Index int
	Name  string
}
