package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get and Update when no record exists for the
// requested user id.
var ErrNotFound = errors.New("user record not found")

// RecordStore is the document-store contract the rest of the system
// consumes. Update applies a partial patch by deep merge; callers are
// expected to read-modify-write within one orchestration turn and accept
// last-writer-wins.
type RecordStore interface {
	Get(ctx context.Context, userID string) (*UserRecord, error)
	Create(ctx context.Context, userID string, profile *Profile) (*UserRecord, error)
	Update(ctx context.Context, userID string, patch map[string]any) (*UserRecord, error)
}
