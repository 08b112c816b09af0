package storage_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tickdown/internal/models"
	"tickdown/internal/storage"
)

func openTestDB(t *testing.T) *storage.Database {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := storage.NewDatabase(path, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})
	return db
}

func presetNames(presets []*models.Preset) []string {
	names := make([]string, 0, len(presets))
	for _, p := range presets {
		names = append(names, p.Name)
	}
	return names
}

func TestDatabase_SeedsDefaultPresets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.db")

	db, err := storage.NewDatabase(path, nil)
	require.NoError(t, err)

	presets, err := db.GetPresets()
	require.NoError(t, err)
	assert.Equal(t, []string{"1 minute", "5 minutes", "10 minutes", "25 minutes"}, presetNames(presets))
	assert.Equal(t, 5*time.Minute, presets[1].Duration)
	require.NoError(t, db.Close())

	// Reopening must not seed again.
	db, err = storage.NewDatabase(path, nil)
	require.NoError(t, err)
	defer db.Close()

	presets, err = db.GetPresets()
	require.NoError(t, err)
	assert.Len(t, presets, 4)
}

func TestDatabase_PresetRoundTrip(t *testing.T) {
	db := openTestDB(t)

	preset := &models.Preset{
		Name:     "Steep tea",
		Duration: 3*time.Minute + 30*time.Second,
		Position: 9,
	}
	require.NoError(t, db.SavePreset(preset))
	require.NotZero(t, preset.ID)

	loaded, err := db.GetPreset(preset.ID)
	require.NoError(t, err)
	assert.Equal(t, "Steep tea", loaded.Name)
	assert.Equal(t, 3*time.Minute+30*time.Second, loaded.Duration)
	assert.Equal(t, 9, loaded.Position)
	assert.WithinDuration(t, time.Now(), loaded.CreatedAt, time.Minute)
}

func TestDatabase_PresetUpdate(t *testing.T) {
	db := openTestDB(t)

	preset := &models.Preset{Name: "Nap", Duration: 20 * time.Minute}
	require.NoError(t, db.SavePreset(preset))

	preset.Name = "Long nap"
	preset.Duration = 45 * time.Minute
	require.NoError(t, db.SavePreset(preset))

	loaded, err := db.GetPreset(preset.ID)
	require.NoError(t, err)
	assert.Equal(t, "Long nap", loaded.Name)
	assert.Equal(t, 45*time.Minute, loaded.Duration)
}

func TestDatabase_PresetNotFound(t *testing.T) {
	db := openTestDB(t)

	_, err := db.GetPreset(99999)
	assert.True(t, errors.Is(err, storage.ErrPresetNotFound))

	assert.True(t, errors.Is(db.DeletePreset(99999), storage.ErrPresetNotFound))

	ghost := &models.Preset{ID: 99999, Name: "Ghost", Duration: time.Minute}
	assert.True(t, errors.Is(db.SavePreset(ghost), storage.ErrPresetNotFound))
}

func TestDatabase_DeletePreset(t *testing.T) {
	db := openTestDB(t)

	preset := &models.Preset{Name: "Doomed", Duration: time.Minute}
	require.NoError(t, db.SavePreset(preset))

	require.NoError(t, db.DeletePreset(preset.ID))
	_, err := db.GetPreset(preset.ID)
	assert.True(t, errors.Is(err, storage.ErrPresetNotFound))
}

func TestDatabase_PresetsOrderedByPosition(t *testing.T) {
	db := openTestDB(t)

	first := &models.Preset{Name: "Front", Duration: time.Minute, Position: -1}
	last := &models.Preset{Name: "Back", Duration: time.Minute, Position: 100}
	require.NoError(t, db.SavePreset(last))
	require.NoError(t, db.SavePreset(first))

	presets, err := db.GetPresets()
	require.NoError(t, err)
	require.Len(t, presets, 6)
	assert.Equal(t, "Front", presets[0].Name)
	assert.Equal(t, "Back", presets[5].Name)
}

func TestDatabase_SaveRunAndRecent(t *testing.T) {
	db := openTestDB(t)

	base := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	for i, total := range []time.Duration{time.Minute, 2 * time.Minute, 3 * time.Minute} {
		run := &models.RunRecord{
			Total:      total,
			StartedAt:  base.Add(time.Duration(i) * time.Hour),
			FinishedAt: base.Add(time.Duration(i)*time.Hour + total),
			Completed:  true,
		}
		require.NoError(t, db.SaveRun(run))
		require.NotZero(t, run.ID)
	}

	runs, err := db.GetRecentRuns(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, 3*time.Minute, runs[0].Total)
	assert.Equal(t, 2*time.Minute, runs[1].Total)
	assert.True(t, runs[0].Completed)
	assert.WithinDuration(t, base.Add(2*time.Hour), runs[0].StartedAt, time.Second)
}

func TestDatabase_RunStats(t *testing.T) {
	db := openTestDB(t)

	empty, err := db.GetRunStats()
	require.NoError(t, err)
	assert.Zero(t, empty.TotalRuns)
	assert.Zero(t, empty.TotalDuration)

	now := time.Now()
	records := []*models.RunRecord{
		{Total: 5 * time.Minute, StartedAt: now, FinishedAt: now, Completed: true},
		{Total: 10 * time.Minute, StartedAt: now, FinishedAt: now, Completed: true},
		{Total: 3 * time.Minute, StartedAt: now, FinishedAt: now, Completed: false},
	}
	for _, r := range records {
		require.NoError(t, db.SaveRun(r))
	}

	stats, err := db.GetRunStats()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalRuns)
	assert.Equal(t, 2, stats.CompletedRuns)
	assert.Equal(t, 15*time.Minute, stats.TotalDuration)
	assert.Equal(t, 10*time.Minute, stats.LongestRun)
}

func TestDatabase_ClearRuns(t *testing.T) {
	db := openTestDB(t)

	now := time.Now()
	require.NoError(t, db.SaveRun(&models.RunRecord{
		Total: time.Minute, StartedAt: now, FinishedAt: now, Completed: true,
	}))

	require.NoError(t, db.ClearRuns())

	runs, err := db.GetRecentRuns(10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
