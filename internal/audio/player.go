package audio

import (
	"bytes"
	_ "embed"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
	"github.com/pkg/errors"

	"tickdown/internal/logger"
)

//go:embed assets/alarm.wav
var defaultAlarm []byte

// ErrUnsupportedFormat means the sound file extension maps to no known
// decoder. Supported: wav, ogg, oga, mp3, flac.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// The speaker is process-global in beep, so it is initialized exactly
// once, with the sample rate of the first sound played. Later sounds at
// other rates are resampled.
var (
	speakerOnce sync.Once
	speakerErr  error
	speakerRate beep.SampleRate
)

func initSpeaker(format beep.Format) error {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10))
		if speakerErr == nil {
			speakerRate = format.SampleRate
		}
	})
	return speakerErr
}

// Player loops the alarm sound while the timer rings. The clip is
// decoded once into memory; Play and Stop only touch the speaker.
//
// When no audio device is available the player goes silent instead of
// failing: the timer keeps working, just without sound.
type Player struct {
	mu sync.Mutex

	enabled   bool
	soundPath string
	volume    float64

	buffer     *beep.Buffer
	volumeCtrl *effects.Volume
	playing    bool
	noDevice   bool

	log logger.Logger
}

func NewPlayer(log logger.Logger) *Player {
	if log == nil {
		log = logger.NewNop()
	}
	return &Player{
		enabled: true,
		volume:  0.8,
		log:     log,
	}
}

// Configure applies alarm settings. A changed sound path drops the
// cached clip so the next Play decodes the new one. Volume changes take
// effect immediately, even mid-ring.
func (p *Player) Configure(enabled bool, soundPath string, volume float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if soundPath != p.soundPath {
		p.soundPath = soundPath
		p.buffer = nil
	}
	p.enabled = enabled
	p.volume = volume

	if p.volumeCtrl != nil {
		speaker.Lock()
		p.volumeCtrl.Volume = volumeExponent(volume)
		p.volumeCtrl.Silent = volume <= 0 || !enabled
		speaker.Unlock()
	}
}

// Play starts looping the alarm. It is a no-op while already playing,
// when the alarm is disabled, or when no audio device could be opened.
func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.enabled || p.noDevice || p.playing {
		return nil
	}

	if p.buffer == nil {
		buffer, err := loadBuffer(p.soundPath, p.log)
		if err != nil {
			return err
		}
		p.buffer = buffer
	}

	format := p.buffer.Format()
	if err := initSpeaker(format); err != nil {
		p.noDevice = true
		p.log.Error("AlarmPlayer", errors.Wrap(err, "open audio device"), nil)
		return nil
	}

	var stream beep.Streamer = beep.Loop(-1, p.buffer.Streamer(0, p.buffer.Len()))
	if format.SampleRate != speakerRate {
		stream = beep.Resample(4, format.SampleRate, speakerRate, stream)
	}

	ctrl := &effects.Volume{
		Streamer: stream,
		Base:     2,
		Volume:   volumeExponent(p.volume),
		Silent:   p.volume <= 0,
	}

	p.volumeCtrl = ctrl
	p.playing = true
	speaker.Play(ctrl)

	p.log.Debug("AlarmPlayer", "alarm playing", map[string]interface{}{
		"volume": p.volume,
	})
	return nil
}

// Stop silences the alarm.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.playing {
		return
	}

	speaker.Clear()
	p.playing = false
	p.volumeCtrl = nil
}

// Playing reports whether the alarm loop is active.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// Close stops playback. The global speaker stays open; beep has no
// teardown.
func (p *Player) Close() {
	p.Stop()
}

// loadBuffer decodes the configured sound, falling back to the built-in
// clip when the custom file cannot be used.
func loadBuffer(path string, log logger.Logger) (*beep.Buffer, error) {
	if path != "" {
		buffer, err := decodeFile(path)
		if err == nil {
			return buffer, nil
		}
		log.Warning("AlarmPlayer", "custom sound unusable, using built-in alarm", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
	}
	return decodeBytes("alarm.wav", defaultAlarm)
}

func decodeFile(path string) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open sound file")
	}
	defer f.Close()

	return bufferStream(decodeStream(path, f))
}

func decodeBytes(name string, data []byte) (*beep.Buffer, error) {
	rc := io.NopCloser(bytes.NewReader(data))
	return bufferStream(decodeStream(name, rc))
}

func bufferStream(streamer beep.StreamSeekCloser, format beep.Format, err error) (*beep.Buffer, error) {
	if err != nil {
		return nil, err
	}
	defer streamer.Close()

	buffer := beep.NewBuffer(format)
	buffer.Append(streamer)
	return buffer, nil
}

func decodeStream(name string, rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
		err      error
	)

	switch strings.ToLower(filepath.Ext(name)) {
	case ".wav":
		streamer, format, err = wav.Decode(rc)
	case ".ogg", ".oga":
		streamer, format, err = vorbis.Decode(rc)
	case ".mp3":
		streamer, format, err = mp3.Decode(rc)
	case ".flac":
		streamer, format, err = flac.Decode(rc)
	default:
		rc.Close()
		return nil, beep.Format{}, errors.Wrapf(ErrUnsupportedFormat, "%q", filepath.Ext(name))
	}

	if err != nil {
		return nil, beep.Format{}, errors.Wrapf(err, "decode %s", filepath.Base(name))
	}
	return streamer, format, nil
}

// volumeExponent maps a 0..1 volume to the exponent effects.Volume
// expects: 1.0 is unity gain, each 0.25 down halves the level.
func volumeExponent(v float64) float64 {
	if v > 1 {
		v = 1
	}
	if v < 0 {
		v = 0
	}
	return (v - 1) * 4
}
