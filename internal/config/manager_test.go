package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tickdown/internal/config"
)

func tempConfigPath(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv(config.EnvConfigPath, path)
	return path
}

func TestManager_FirstRunWritesDefaults(t *testing.T) {
	path := tempConfigPath(t)

	m, err := config.NewManager(nil)
	require.NoError(t, err)

	assert.Equal(t, path, m.Path())
	assert.FileExists(t, path)
	assert.Equal(t, config.DefaultConfig(), m.Config())
}

func TestManager_LoadsExistingFile(t *testing.T) {
	path := tempConfigPath(t)
	content := `
app:
  window_width: 500
  window_height: 700
  dark_mode: false
timer:
  default_duration: 90s
  tick_interval: 50ms
  ring_timeout: 30s
alarm:
  enabled: false
  sound_path: /tmp/ding.wav
  volume: 0.5
database:
  path: /tmp/runs.db
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	m, err := config.NewManager(nil)
	require.NoError(t, err)

	cfg := m.Config()
	assert.Equal(t, 500, cfg.App.WindowWidth)
	assert.Equal(t, 700, cfg.App.WindowHeight)
	assert.False(t, cfg.App.DarkMode)
	assert.Equal(t, 90*time.Second, cfg.Timer.DefaultDuration.Std())
	assert.Equal(t, 50*time.Millisecond, cfg.Timer.TickInterval.Std())
	assert.Equal(t, 30*time.Second, cfg.Timer.RingTimeout.Std())
	assert.False(t, cfg.Alarm.Enabled)
	assert.Equal(t, "/tmp/ding.wav", cfg.Alarm.SoundPath)
	assert.Equal(t, 0.5, cfg.Alarm.Volume)
	assert.Equal(t, "/tmp/runs.db", m.DatabasePath())
}

func TestManager_ReplacesInvalidValues(t *testing.T) {
	path := tempConfigPath(t)
	content := `
app:
  window_width: 10
timer:
  default_duration: -5s
alarm:
  volume: 3.5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	m, err := config.NewManager(nil)
	require.NoError(t, err)

	def := config.DefaultConfig()
	cfg := m.Config()
	assert.Equal(t, def.App.WindowWidth, cfg.App.WindowWidth)
	assert.Equal(t, def.Timer.DefaultDuration, cfg.Timer.DefaultDuration)
	assert.Equal(t, def.Alarm.Volume, cfg.Alarm.Volume)
}

func TestManager_UnparsableFileFallsBackToDefaults(t *testing.T) {
	path := tempConfigPath(t)
	garbage := []byte("{{{ not yaml at all")
	require.NoError(t, os.WriteFile(path, garbage, 0644))

	m, err := config.NewManager(nil)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), m.Config())

	// The broken file is left alone for the user to fix.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, garbage, data)
}

func TestManager_ConfigReturnsCopy(t *testing.T) {
	tempConfigPath(t)

	m, err := config.NewManager(nil)
	require.NoError(t, err)

	cfg := m.Config()
	cfg.App.WindowWidth = 9999
	cfg.Alarm.SoundPath = "/nowhere"

	fresh := m.Config()
	assert.Equal(t, config.DefaultConfig().App.WindowWidth, fresh.App.WindowWidth)
	assert.Empty(t, fresh.Alarm.SoundPath)
}

func TestManager_SaveRoundTrip(t *testing.T) {
	tempConfigPath(t)

	m, err := config.NewManager(nil)
	require.NoError(t, err)

	cfg := m.Config()
	cfg.Timer.DefaultDuration = config.Duration(10 * time.Minute)
	cfg.Alarm.Volume = 0.25
	require.NoError(t, m.Save(cfg))

	reloaded, err := config.NewManager(nil)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, reloaded.Config().Timer.DefaultDuration.Std())
	assert.Equal(t, 0.25, reloaded.Config().Alarm.Volume)
}

func TestManager_DatabasePathDefaultsNextToConfig(t *testing.T) {
	path := tempConfigPath(t)

	m, err := config.NewManager(nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(filepath.Dir(path), "history.db"), m.DatabasePath())
}

func TestManager_WatchReloadsOnChange(t *testing.T) {
	path := tempConfigPath(t)

	m, err := config.NewManager(nil)
	require.NoError(t, err)

	reloaded := make(chan *config.Config, 1)
	require.NoError(t, m.Watch(func(cfg *config.Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	}))
	defer m.Close()

	content := `
timer:
  default_duration: 2m
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	select {
	case cfg := <-reloaded:
		assert.Equal(t, 2*time.Minute, cfg.Timer.DefaultDuration.Std())
		assert.Equal(t, 2*time.Minute, m.Config().Timer.DefaultDuration.Std())
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for config reload")
	}
}

func TestManager_WatchIgnoresOtherFiles(t *testing.T) {
	path := tempConfigPath(t)

	m, err := config.NewManager(nil)
	require.NoError(t, err)

	reloaded := make(chan *config.Config, 4)
	require.NoError(t, m.Watch(func(cfg *config.Config) {
		reloaded <- cfg
	}))
	defer m.Close()

	other := filepath.Join(filepath.Dir(path), "notes.txt")
	require.NoError(t, os.WriteFile(other, []byte("unrelated"), 0644))

	select {
	case <-reloaded:
		t.Fatal("unrelated file triggered a reload")
	case <-time.After(500 * time.Millisecond):
	}
}
