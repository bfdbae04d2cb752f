package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3RecordStore implements RecordStore backed by S3, one object per user
// at <prefix><user_id>.json. Concurrent writers to the same user are
// last-write-wins.

type s3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3RecordStore struct {
	bucket string
	prefix string
	s3     s3API
}

func NewS3RecordStore(s3Client s3API, bucket, prefix string) *S3RecordStore {
	return &S3RecordStore{
		bucket: bucket,
		prefix: prefix,
		s3:     s3Client,
	}
}

func (s *S3RecordStore) key(userID string) string {
	return s.prefix + userID + ".json"
}

func (s *S3RecordStore) load(ctx context.Context, userID string) (map[string]any, error) {
	resp, err := s.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(userID)),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user record from S3: %w", err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read user record body: %w", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse user record: %w", err)
	}
	return raw, nil
}

func (s *S3RecordStore) save(ctx context.Context, userID string, raw map[string]any) error {
	b, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to encode user record: %w", err)
	}
	_, err = s.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(userID)),
		Body:        bytes.NewReader(b),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to put user record to S3: %w", err)
	}
	return nil
}

func (s *S3RecordStore) Get(ctx context.Context, userID string) (*UserRecord, error) {
	raw, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return decodeRecord(raw)
}

func (s *S3RecordStore) Create(ctx context.Context, userID string, profile *Profile) (*UserRecord, error) {
	if _, err := s.load(ctx, userID); err == nil {
		return nil, fmt.Errorf("user %q already exists", userID)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	rec := NewUserRecord(userID, profile)
	raw, err := toDocument(rec)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, userID, raw); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *S3RecordStore) Update(ctx context.Context, userID string, patch map[string]any) (*UserRecord, error) {
	raw, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	merged, err := applyPatch(raw, patch)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, userID, merged); err != nil {
		return nil, err
	}
	return decodeRecord(merged)
}
