package ports

import (
	"context"
	"errors"

	"marketdir/internal/domain"
)

// ErrDuplicate is returned by Insert when the store's uniqueness constraint
// rejects the row. Checks and inserts are not transactional, so callers must
// treat this as a benign duplicate, not a failure.
var ErrDuplicate = errors.New("participant already exists")

// Snapshot is the existing-record view a batch dedupes against. Reloaded at
// the start of every batch so later batches see earlier insertions from the
// same run.
type Snapshot struct {
	Domains map[string]struct{} // normalized (lowercased, trimmed) domains
	Names   map[string]struct{} // lowercased display names
}

// ParticipantRepository is the persistence gateway for directory records.
type ParticipantRepository interface {
	Snapshot(ctx context.Context) (Snapshot, error)
	Insert(ctx context.Context, p domain.Participant) error
	CountByCommodity(ctx context.Context, commodity string) (int, error)
}
