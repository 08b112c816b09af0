package config

import "time"

// Config is the whole settings file.
type Config struct {
	App      AppConfig      `yaml:"app"`
	Timer    TimerConfig    `yaml:"timer"`
	Alarm    AlarmConfig    `yaml:"alarm"`
	Database DatabaseConfig `yaml:"database"`
}

type AppConfig struct {
	WindowWidth  int  `yaml:"window_width"`
	WindowHeight int  `yaml:"window_height"`
	DarkMode     bool `yaml:"dark_mode"`
}

type TimerConfig struct {
	DefaultDuration Duration `yaml:"default_duration"`
	TickInterval    Duration `yaml:"tick_interval"`
	RingTimeout     Duration `yaml:"ring_timeout"`
}

type AlarmConfig struct {
	Enabled bool `yaml:"enabled"`

	// SoundPath points at a custom alarm file. Empty means the built-in
	// sound.
	SoundPath string  `yaml:"sound_path"`
	Volume    float64 `yaml:"volume"`
}

type DatabaseConfig struct {
	// Path of the history database. Empty means history.db next to the
	// config file.
	Path string `yaml:"path"`
}

func DefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			WindowWidth:  400,
			WindowHeight: 600,
			DarkMode:     true,
		},
		Timer: TimerConfig{
			DefaultDuration: Duration(5 * time.Minute),
			TickInterval:    Duration(100 * time.Millisecond),
			RingTimeout:     Duration(60 * time.Second),
		},
		Alarm: AlarmConfig{
			Enabled: true,
			Volume:  0.8,
		},
		Database: DatabaseConfig{},
	}
}

// normalize replaces out-of-range values with their defaults and
// reports what it touched.
func (c *Config) normalize() []string {
	def := DefaultConfig()
	var fixed []string

	if c.App.WindowWidth < 320 {
		c.App.WindowWidth = def.App.WindowWidth
		fixed = append(fixed, "app.window_width")
	}
	if c.App.WindowHeight < 240 {
		c.App.WindowHeight = def.App.WindowHeight
		fixed = append(fixed, "app.window_height")
	}
	if c.Timer.DefaultDuration <= 0 {
		c.Timer.DefaultDuration = def.Timer.DefaultDuration
		fixed = append(fixed, "timer.default_duration")
	}
	if c.Timer.TickInterval < Duration(10*time.Millisecond) {
		c.Timer.TickInterval = def.Timer.TickInterval
		fixed = append(fixed, "timer.tick_interval")
	}
	if c.Timer.RingTimeout <= 0 {
		c.Timer.RingTimeout = def.Timer.RingTimeout
		fixed = append(fixed, "timer.ring_timeout")
	}
	if c.Alarm.Volume < 0 || c.Alarm.Volume > 1 {
		c.Alarm.Volume = def.Alarm.Volume
		fixed = append(fixed, "alarm.volume")
	}

	return fixed
}
