package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDuration_UnmarshalYAML(t *testing.T) {
	tt := []struct {
		name string
		yaml string
		want time.Duration
	}{
		{"plain seconds", "d: 90s", 90 * time.Second},
		{"minutes", "d: 5m", 5 * time.Minute},
		{"compound", "d: 1h30m", 90 * time.Minute},
		{"milliseconds", "d: 100ms", 100 * time.Millisecond},
		{"integer nanoseconds", "d: 300000000000", 5 * time.Minute},
		{"quoted string", `d: "45s"`, 45 * time.Second},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			var out struct {
				D Duration `yaml:"d"`
			}
			require.NoError(t, yaml.Unmarshal([]byte(tc.yaml), &out))
			assert.Equal(t, tc.want, out.D.Std())
		})
	}
}

func TestDuration_UnmarshalYAMLRejectsGarbage(t *testing.T) {
	var out struct {
		D Duration `yaml:"d"`
	}
	assert.Error(t, yaml.Unmarshal([]byte("d: not-a-duration"), &out))
	assert.Error(t, yaml.Unmarshal([]byte("d: [1, 2]"), &out))
}

func TestDuration_MarshalRoundTrip(t *testing.T) {
	in := struct {
		D Duration `yaml:"d"`
	}{D: Duration(90 * time.Second)}

	data, err := yaml.Marshal(in)
	require.NoError(t, err)
	assert.Equal(t, "d: 1m30s\n", string(data))

	var out struct {
		D Duration `yaml:"d"`
	}
	require.NoError(t, yaml.Unmarshal(data, &out))
	assert.Equal(t, in.D, out.D)
}

func TestConfig_Normalize(t *testing.T) {
	cfg := &Config{
		App: AppConfig{
			WindowWidth:  10,
			WindowHeight: 500,
		},
		Timer: TimerConfig{
			DefaultDuration: Duration(-time.Second),
			TickInterval:    Duration(time.Millisecond),
			RingTimeout:     Duration(30 * time.Second),
		},
		Alarm: AlarmConfig{
			Volume: 3.5,
		},
	}

	fixed := cfg.normalize()
	assert.ElementsMatch(t, []string{
		"app.window_width",
		"timer.default_duration",
		"timer.tick_interval",
		"alarm.volume",
	}, fixed)

	def := DefaultConfig()
	assert.Equal(t, def.App.WindowWidth, cfg.App.WindowWidth)
	assert.Equal(t, 500, cfg.App.WindowHeight)
	assert.Equal(t, def.Timer.DefaultDuration, cfg.Timer.DefaultDuration)
	assert.Equal(t, def.Timer.TickInterval, cfg.Timer.TickInterval)
	assert.Equal(t, Duration(30*time.Second), cfg.Timer.RingTimeout)
	assert.Equal(t, def.Alarm.Volume, cfg.Alarm.Volume)
}

func TestConfig_NormalizeLeavesValidAlone(t *testing.T) {
	cfg := DefaultConfig()
	assert.Empty(t, cfg.normalize())
}
