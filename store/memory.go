package store

import (
	"context"
	"fmt"
	"sync"
)

// MemoryRecordStore holds records in memory. Used by tests and by the
// scripted demo runner; it shares the merge semantics of the durable
// backends by storing plain JSON documents.
type MemoryRecordStore struct {
	mu    sync.RWMutex
	users map[string]map[string]any

	// err, when set, is returned by every operation. Lets tests drive
	// the store-failure paths.
	err error
}

func NewMemoryRecordStore() *MemoryRecordStore {
	return &MemoryRecordStore{users: map[string]map[string]any{}}
}

// NewMemoryRecordStoreWithError returns a store whose every call fails
// with the given error.
func NewMemoryRecordStoreWithError(err error) *MemoryRecordStore {
	return &MemoryRecordStore{users: map[string]map[string]any{}, err: err}
}

func (s *MemoryRecordStore) Get(ctx context.Context, userID string) (*UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.err != nil {
		return nil, s.err
	}
	raw, ok := s.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return decodeRecord(raw)
}

func (s *MemoryRecordStore) Create(ctx context.Context, userID string, profile *Profile) (*UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	if _, exists := s.users[userID]; exists {
		return nil, fmt.Errorf("user %q already exists", userID)
	}
	rec := NewUserRecord(userID, profile)
	raw, err := toDocument(rec)
	if err != nil {
		return nil, err
	}
	s.users[userID] = raw
	return rec, nil
}

func (s *MemoryRecordStore) Update(ctx context.Context, userID string, patch map[string]any) (*UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	raw, ok := s.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	merged, err := applyPatch(raw, patch)
	if err != nil {
		return nil, err
	}
	s.users[userID] = merged
	return decodeRecord(merged)
}
