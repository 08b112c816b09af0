package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"tickdown/internal/logger"
)

// EnvConfigPath overrides the config file location when set.
const EnvConfigPath = "TICKDOWN_CONFIG"

const debounceInterval = 100 * time.Millisecond

// Manager owns the settings file: loading it, writing it back, and
// watching it for outside edits. Config always hands out deep copies,
// so callers can never mutate shared state.
type Manager struct {
	mu         sync.RWMutex
	config     *Config
	configPath string

	watcher    *fsnotify.Watcher
	watchWg    sync.WaitGroup
	debounceMu sync.Mutex
	debounce   *time.Timer

	log logger.Logger
}

// NewManager loads the config file, writing the defaults on first run.
// An unreadable or unparsable file is left on disk and the defaults are
// used for this session.
func NewManager(log logger.Logger) (*Manager, error) {
	if log == nil {
		log = logger.NewNop()
	}

	path, err := resolvePath()
	if err != nil {
		return nil, err
	}

	m := &Manager{
		configPath: path,
		log:        log,
	}

	if err := m.load(); err != nil {
		return nil, err
	}
	return m, nil
}

func resolvePath() (string, error) {
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env, nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "resolve config directory")
	}
	return filepath.Join(dir, "tickdown", "config.yaml"), nil
}

func (m *Manager) load() error {
	cfg, err := readConfig(m.configPath)
	switch {
	case err == nil:
		if fixed := cfg.normalize(); len(fixed) > 0 {
			m.log.Warning("ConfigManager", "invalid values replaced with defaults", map[string]interface{}{
				"keys": strings.Join(fixed, ", "),
			})
		}
		m.config = cfg
		return nil

	case errors.Is(err, os.ErrNotExist):
		m.config = DefaultConfig()
		if serr := m.saveLocked(); serr != nil {
			return serr
		}
		m.log.Info("ConfigManager", "default configuration written", map[string]interface{}{
			"path": m.configPath,
		})
		return nil

	default:
		m.log.Warning("ConfigManager", "config unreadable, using defaults", map[string]interface{}{
			"path":  m.configPath,
			"error": err.Error(),
		})
		m.config = DefaultConfig()
		return nil
	}
}

func readConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	return cfg, nil
}

// Config returns a deep copy of the current configuration.
func (m *Manager) Config() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneConfig(m.config)
}

// Save replaces the current configuration and persists it.
func (m *Manager) Save(cfg *Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.config = cloneConfig(cfg)
	return m.saveLocked()
}

func (m *Manager) saveLocked() error {
	data, err := yaml.Marshal(m.config)
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}

	if err := os.MkdirAll(filepath.Dir(m.configPath), 0755); err != nil {
		return errors.Wrap(err, "create config directory")
	}

	if err := os.WriteFile(m.configPath, data, 0644); err != nil {
		return errors.Wrap(err, "write config")
	}
	return nil
}

// Path returns the config file location.
func (m *Manager) Path() string {
	return m.configPath
}

// DatabasePath resolves the history database location: the configured
// path, or history.db next to the config file.
func (m *Manager) DatabasePath() string {
	m.mu.RLock()
	path := m.config.Database.Path
	m.mu.RUnlock()

	if path != "" {
		return path
	}
	return filepath.Join(filepath.Dir(m.configPath), "history.db")
}

// Watch reloads the config when the file changes on disk and calls back
// with a copy of the new configuration. Editors that replace the file
// produce bursts of events, so reloads are debounced.
func (m *Manager) Watch(callback func(*Config)) error {
	if m.watcher != nil {
		return errors.New("config watcher already running")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create config watcher")
	}

	// Watch the directory, not the file: rename-and-replace saves would
	// otherwise detach the watch.
	dir := filepath.Dir(m.configPath)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return errors.Wrapf(err, "watch %s", dir)
	}

	m.watcher = watcher
	m.watchWg.Add(1)
	go m.watchLoop(callback)

	m.log.Debug("ConfigManager", "watching for config changes", map[string]interface{}{
		"path": m.configPath,
	})
	return nil
}

func (m *Manager) watchLoop(callback func(*Config)) {
	defer m.watchWg.Done()

	for {
		select {
		case event, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != m.configPath {
				continue
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			m.scheduleReload(callback)

		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			m.log.Error("ConfigManager", err, nil)
		}
	}
}

func (m *Manager) scheduleReload(callback func(*Config)) {
	m.debounceMu.Lock()
	defer m.debounceMu.Unlock()

	if m.debounce != nil {
		m.debounce.Stop()
	}
	m.debounce = time.AfterFunc(debounceInterval, func() {
		m.reload(callback)
	})
}

func (m *Manager) reload(callback func(*Config)) {
	cfg, err := readConfig(m.configPath)
	if err != nil {
		m.log.Warning("ConfigManager", "reload skipped", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	if fixed := cfg.normalize(); len(fixed) > 0 {
		m.log.Warning("ConfigManager", "invalid values replaced with defaults", map[string]interface{}{
			"keys": strings.Join(fixed, ", "),
		})
	}

	m.mu.Lock()
	m.config = cfg
	m.mu.Unlock()

	m.log.Info("ConfigManager", "configuration reloaded", map[string]interface{}{
		"path": m.configPath,
	})

	if callback != nil {
		callback(cloneConfig(cfg))
	}
}

// Close stops the watcher. The manager itself remains usable.
func (m *Manager) Close() error {
	m.debounceMu.Lock()
	if m.debounce != nil {
		m.debounce.Stop()
		m.debounce = nil
	}
	m.debounceMu.Unlock()

	if m.watcher == nil {
		return nil
	}

	err := m.watcher.Close()
	m.watchWg.Wait()
	m.watcher = nil
	return err
}

func cloneConfig(src *Config) *Config {
	var cp Config
	if err := copier.Copy(&cp, src); err != nil {
		panic("could not copy config: " + err.Error())
	}
	return &cp
}
