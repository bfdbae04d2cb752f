package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileRecordStore keeps every user record in a single JSON document on
// disk, shaped {"users": {<user_id>: <record>}}. Suited to local runs and
// demos; each operation rewrites the whole file.
type FileRecordStore struct {
	path string
	mu   sync.Mutex
}

func NewFileRecordStore(path string) *FileRecordStore {
	return &FileRecordStore{path: path}
}

type fileDocument struct {
	Users map[string]map[string]any `json:"users"`
}

func (s *FileRecordStore) load() (*fileDocument, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &fileDocument{Users: map[string]map[string]any{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read record file: %w", err)
	}
	var doc fileDocument
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse record file: %w", err)
	}
	if doc.Users == nil {
		doc.Users = map[string]map[string]any{}
	}
	return &doc, nil
}

func (s *FileRecordStore) save(doc *fileDocument) error {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode record file: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create record dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, b, 0o644); err != nil {
		return fmt.Errorf("write record file: %w", err)
	}
	return nil
}

func (s *FileRecordStore) Get(ctx context.Context, userID string) (*UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	raw, ok := doc.Users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return decodeRecord(raw)
}

func (s *FileRecordStore) Create(ctx context.Context, userID string, profile *Profile) (*UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	if _, exists := doc.Users[userID]; exists {
		return nil, fmt.Errorf("user %q already exists", userID)
	}

	rec := NewUserRecord(userID, profile)
	raw, err := toDocument(rec)
	if err != nil {
		return nil, err
	}
	doc.Users[userID] = raw
	if err := s.save(doc); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *FileRecordStore) Update(ctx context.Context, userID string, patch map[string]any) (*UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	raw, ok := doc.Users[userID]
	if !ok {
		return nil, ErrNotFound
	}

	merged, err := applyPatch(raw, patch)
	if err != nil {
		return nil, err
	}
	doc.Users[userID] = merged
	if err := s.save(doc); err != nil {
		return nil, err
	}
	return decodeRecord(merged)
}
