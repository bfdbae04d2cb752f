package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileStore(t *testing.T) *FileRecordStore {
	t.Helper()
	return NewFileRecordStore(filepath.Join(t.TempDir(), "fuelyt_data.json"))
}

func TestFileRecordStore_GetMissingUser(t *testing.T) {
	s := newTestFileStore(t)
	_, err := s.Get(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileRecordStore_CreateDefaults(t *testing.T) {
	s := newTestFileStore(t)

	rec, err := s.Create(context.Background(), "user-12345678-extra", nil)
	require.NoError(t, err)

	assert.Equal(t, "user-12345678-extra", rec.UserID)
	assert.Equal(t, "User user-123", rec.Profile.Name)
	assert.Equal(t, 25, rec.Profile.Age)
	assert.Equal(t, 170.0, rec.Profile.HeightCM)
	assert.Equal(t, 70.0, rec.Profile.WeightKG)
	assert.Equal(t, "moderately_active", rec.Profile.ActivityLevel)
	assert.Equal(t, "maintenance", rec.Goals.PrimaryGoal)
	require.NotNil(t, rec.Goals.DailyCalorieTarget)
	assert.Greater(t, *rec.Goals.DailyCalorieTarget, 0.0)

	// Every container must be present and empty, never nil.
	assert.NotNil(t, rec.Workouts.LoggedWorkouts)
	assert.NotNil(t, rec.Nutrition.DailyLogs)
	assert.NotNil(t, rec.Calendar.ScheduledItems)
	assert.NotNil(t, rec.AIContext.ConversationHistory)
	assert.NotNil(t, rec.AIContext.PreferencesLearned)
}

func TestFileRecordStore_CreateDuplicate(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, "u1", nil)
	require.NoError(t, err)
	_, err = s.Create(ctx, "u1", nil)
	assert.Error(t, err)
}

func TestFileRecordStore_Roundtrip(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	profile := DefaultProfile("u1")
	profile.Name = "Jordan"
	profile.Sport = "triathlon"
	_, err := s.Create(ctx, "u1", &profile)
	require.NoError(t, err)

	// A second store on the same path sees the persisted record.
	reopened := NewFileRecordStore(s.path)
	rec, err := reopened.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Jordan", rec.Profile.Name)
	assert.Equal(t, "triathlon", rec.Profile.Sport)
}

func TestFileRecordStore_UpdateMergesPartial(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, "u1", nil)
	require.NoError(t, err)

	rec, err := s.Update(ctx, "u1", map[string]any{
		"profile": map[string]any{"weight_kg": 72.5},
	})
	require.NoError(t, err)

	assert.Equal(t, 72.5, rec.Profile.WeightKG)
	// Sibling fields survive the merge.
	assert.Equal(t, created.Profile.Name, rec.Profile.Name)
	assert.Equal(t, created.Profile.Age, rec.Profile.Age)
	assert.True(t, rec.UpdatedAt.After(created.UpdatedAt) || rec.UpdatedAt.Equal(created.UpdatedAt))
}

func TestFileRecordStore_UpdateMissingUser(t *testing.T) {
	s := newTestFileStore(t)
	_, err := s.Update(context.Background(), "ghost", map[string]any{"profile": map[string]any{"age": 30}})
	assert.ErrorIs(t, err, ErrNotFound)
}
