package audio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tickdown/internal/logger"
)

// Playback itself needs an audio device, so tests stop at the decoded
// buffer.

func TestDefaultAlarmDecodes(t *testing.T) {
	buffer, err := decodeBytes("alarm.wav", defaultAlarm)
	require.NoError(t, err)

	format := buffer.Format()
	assert.Greater(t, int(format.SampleRate), 0)
	assert.Greater(t, format.NumChannels, 0)

	// The clip must be long enough to be audible when looped.
	secs := float64(buffer.Len()) / float64(format.SampleRate)
	assert.Greater(t, secs, 1.0)
}

func TestDecodeStreamRejectsUnknownExtension(t *testing.T) {
	f, err := os.Open(filepath.Join("assets", "alarm.wav"))
	require.NoError(t, err)

	_, _, err = decodeStream("alarm.xyz", f)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestDecodeFileMissing(t *testing.T) {
	_, err := decodeFile(filepath.Join(t.TempDir(), "missing.wav"))
	assert.Error(t, err)
}

func TestLoadBufferFallsBackToBuiltin(t *testing.T) {
	buffer, err := loadBuffer(filepath.Join(t.TempDir(), "missing.wav"), logger.NewNop())
	require.NoError(t, err)
	assert.Greater(t, buffer.Len(), 0)
}

func TestLoadBufferReadsCustomFile(t *testing.T) {
	custom := filepath.Join(t.TempDir(), "custom.wav")
	require.NoError(t, os.WriteFile(custom, defaultAlarm, 0644))

	buffer, err := loadBuffer(custom, logger.NewNop())
	require.NoError(t, err)
	assert.Greater(t, buffer.Len(), 0)
}

func TestConfigureDropsCacheOnPathChange(t *testing.T) {
	p := NewPlayer(nil)

	buffer, err := decodeBytes("alarm.wav", defaultAlarm)
	require.NoError(t, err)
	p.buffer = buffer

	p.Configure(true, "", 0.5)
	assert.NotNil(t, p.buffer, "unchanged path must keep the cached clip")

	p.Configure(true, "/some/other.ogg", 0.5)
	assert.Nil(t, p.buffer, "changed path must drop the cached clip")
	assert.Equal(t, "/some/other.ogg", p.soundPath)
}

func TestVolumeExponent(t *testing.T) {
	assert.Equal(t, 0.0, volumeExponent(1))
	assert.Equal(t, -2.0, volumeExponent(0.5))
	assert.Equal(t, -4.0, volumeExponent(0))
	assert.Equal(t, 0.0, volumeExponent(1.5))
	assert.Equal(t, -4.0, volumeExponent(-2))
}
