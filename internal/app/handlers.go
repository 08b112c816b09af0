package app

import (
	"sync"
	"time"

	"tickdown/internal/audio"
	"tickdown/internal/config"
	"tickdown/internal/events"
	"tickdown/internal/gui"
	"tickdown/internal/logger"
	"tickdown/internal/models"
	"tickdown/internal/storage"
	"tickdown/internal/timer"
)

const historyLimit = 50

// Handlers connects user input and engine callbacks to the rest of the
// application. Duration editing lives here: while the timer is stopped,
// typed digits accumulate in a buffer that replaces the countdown face
// until the user applies or cancels the edit.
type Handlers struct {
	engine   *timer.Engine
	player   *audio.Player
	database *storage.Database
	bus      *events.Bus
	cfg      *config.Manager
	gui      *gui.Manager
	log      logger.Logger

	mu      sync.Mutex
	editing bool
	input   *timer.DurationInput
}

func NewHandlers(
	engine *timer.Engine,
	player *audio.Player,
	database *storage.Database,
	bus *events.Bus,
	cfg *config.Manager,
	guiManager *gui.Manager,
	log logger.Logger,
) *Handlers {
	if log == nil {
		log = logger.NewNop()
	}

	return &Handlers{
		engine:   engine,
		player:   player,
		database: database,
		bus:      bus,
		cfg:      cfg,
		gui:      guiManager,
		log:      log,
		input:    timer.NewDurationInput(),
	}
}

// SubscribeEvents registers the bus subscribers that keep the history
// tab and the status bar current.
func (h *Handlers) SubscribeEvents() {
	refresh := events.NewHandlerFunc("history-refresh", func(events.Event) {
		h.RefreshHistory()
	})
	h.bus.Subscribe(events.TimerFinished, refresh)
	h.bus.Subscribe(events.TimerReset, refresh)

	trace := events.NewHandlerFunc("event-trace", func(event events.Event) {
		h.log.Debug("Handlers", "event observed", map[string]interface{}{
			"type": event.Type,
		})
	})
	for _, eventType := range []string{
		events.TimerStarted,
		events.TimerPaused,
		events.TimerResumed,
		events.TimerFinished,
		events.TimerReset,
		events.TimerAcknowledged,
		events.ConfigReloaded,
	} {
		h.bus.Subscribe(eventType, trace)
	}
}

func (h *Handlers) isEditing() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.editing
}

// HandlePrimary dispatches the main button. Its meaning follows the
// timer state: apply while editing, start while stopped, pause while
// running, resume while paused, acknowledge while ringing.
func (h *Handlers) HandlePrimary() {
	if h.isEditing() {
		h.applyEdit()
		return
	}
	h.dispatchControl()
}

func (h *Handlers) HandleSpace() {
	if h.isEditing() {
		return
	}
	h.dispatchControl()
}

func (h *Handlers) dispatchControl() {
	var err error
	switch snap := h.engine.Snapshot(); snap.State {
	case timer.StateStopped:
		err = h.engine.Start()
	case timer.StateRunning:
		err = h.engine.Pause()
	case timer.StatePaused:
		err = h.engine.Resume()
	case timer.StateRinging:
		err = h.engine.Acknowledge()
	}

	if err != nil {
		h.log.Debug("Handlers", "control action rejected", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (h *Handlers) HandleReset() {
	if h.isEditing() {
		return
	}

	snap := h.engine.Snapshot()
	if snap.State == timer.StateRunning || snap.State == timer.StatePaused {
		h.saveRun(&models.RunRecord{
			Total:      snap.Total,
			StartedAt:  snap.StartedAt,
			FinishedAt: time.Now(),
			Completed:  false,
		})
	}

	h.engine.Reset()
}

func (h *Handlers) HandleEdit() {
	snap := h.engine.Snapshot()
	if snap.State != timer.StateStopped {
		return
	}

	h.mu.Lock()
	h.editing = true
	h.input.SetFromDuration(snap.Total)
	text := h.input.String()
	h.mu.Unlock()

	h.gui.ShowEditing(text)
}

// HandleDigit feeds a typed digit into the edit buffer. A digit typed
// while the timer is stopped but not yet editing opens a fresh edit.
func (h *Handlers) HandleDigit(digit int) {
	h.mu.Lock()
	if h.editing {
		h.input.PushDigit(digit)
		text := h.input.String()
		h.mu.Unlock()
		h.gui.UpdateEditingBuffer(text)
		return
	}
	h.mu.Unlock()

	if h.engine.Snapshot().State != timer.StateStopped {
		return
	}

	h.mu.Lock()
	h.editing = true
	h.input.Clear()
	h.input.PushDigit(digit)
	text := h.input.String()
	h.mu.Unlock()

	h.gui.ShowEditing(text)
}

func (h *Handlers) HandleBackspace() {
	h.mu.Lock()
	if !h.editing {
		h.mu.Unlock()
		return
	}
	h.input.PopDigit()
	text := h.input.String()
	h.mu.Unlock()

	h.gui.UpdateEditingBuffer(text)
}

func (h *Handlers) HandleEscape() {
	h.mu.Lock()
	if !h.editing {
		h.mu.Unlock()
		return
	}
	h.editing = false
	h.input.Clear()
	h.mu.Unlock()

	h.gui.ShowStopped(timer.FormatDuration(h.engine.Snapshot().Total))
}

func (h *Handlers) HandleReturn() {
	if h.isEditing() {
		h.applyEdit()
		return
	}

	if h.engine.Snapshot().State == timer.StateRinging {
		if err := h.engine.Acknowledge(); err != nil {
			h.log.Debug("Handlers", "acknowledge rejected", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
}

// applyEdit commits the edit buffer as the new armed duration. An empty
// or zero buffer cancels the edit instead of arming a zero timer.
func (h *Handlers) applyEdit() {
	h.mu.Lock()
	duration := h.input.Duration()
	empty := h.input.Empty()
	h.editing = false
	h.input.Clear()
	h.mu.Unlock()

	armed := h.engine.Snapshot().Total
	if empty || duration <= 0 {
		h.gui.ShowStopped(timer.FormatDuration(armed))
		return
	}

	if err := h.engine.SetDuration(duration); err != nil {
		h.gui.ShowError("Timer", err)
		h.gui.ShowStopped(timer.FormatDuration(armed))
		return
	}

	h.gui.ClearPresetSelection()
	h.gui.ShowStopped(timer.FormatDuration(duration))
	h.persistDuration(duration)
}

func (h *Handlers) HandlePresetSelect(preset *models.Preset) {
	if h.isEditing() {
		return
	}

	if err := h.engine.SetDuration(preset.Duration); err != nil {
		h.log.Debug("Handlers", "preset rejected", map[string]interface{}{
			"preset": preset.Name,
			"error":  err.Error(),
		})
		return
	}

	h.gui.ShowStopped(timer.FormatDuration(preset.Duration))
	h.persistDuration(preset.Duration)
}

func (h *Handlers) HandlePresetSave() {
	total := h.engine.Snapshot().Total

	h.gui.PromptPresetName(timer.FormatDuration(total), func(name string) {
		go func() {
			existing, err := h.database.GetPresets()
			if err != nil {
				h.gui.ShowError("Preset Save Error", err)
				return
			}

			preset := &models.Preset{
				Name:     name,
				Duration: total,
				Position: len(existing),
			}
			if err := h.database.SavePreset(preset); err != nil {
				h.gui.ShowError("Preset Save Error", err)
				return
			}

			h.log.Info("Handlers", "preset saved", map[string]interface{}{
				"name":     preset.Name,
				"duration": preset.Duration.String(),
			})
			h.RefreshPresets()
		}()
	})
}

func (h *Handlers) HandlePresetDelete(preset *models.Preset) {
	go func() {
		if err := h.database.DeletePreset(preset.ID); err != nil {
			h.gui.ShowError("Preset Delete Error", err)
			return
		}

		h.log.Info("Handlers", "preset deleted", map[string]interface{}{
			"name": preset.Name,
		})
		h.RefreshPresets()
	}()
}

func (h *Handlers) HandleHistoryOpened() {
	go h.RefreshHistory()
}

func (h *Handlers) HandleHistoryClear() {
	go func() {
		if err := h.database.ClearRuns(); err != nil {
			h.gui.ShowError("History Clear Error", err)
			return
		}
		h.RefreshHistory()
	}()
}

// HandleTick receives the engine's periodic remaining time. Edits own
// the display while active, so ticks are dropped until the edit ends.
func (h *Handlers) HandleTick(remaining time.Duration) {
	if h.isEditing() {
		return
	}
	h.gui.UpdateCountdown(timer.FormatDuration(remaining))
}

func (h *Handlers) HandleStateChange(old, new timer.State) {
	snap := h.engine.Snapshot()

	switch new {
	case timer.StateRunning:
		h.gui.ShowRunning(timer.FormatDuration(snap.Remaining))
		if old == timer.StatePaused {
			h.bus.Publish(events.TimerResumed, map[string]interface{}{
				"remaining": snap.Remaining.String(),
			})
		} else {
			h.bus.Publish(events.TimerStarted, map[string]interface{}{
				"total": snap.Total.String(),
			})
		}

	case timer.StatePaused:
		h.gui.ShowPaused(timer.FormatDuration(snap.Remaining))
		h.bus.Publish(events.TimerPaused, map[string]interface{}{
			"remaining": snap.Remaining.String(),
		})

	case timer.StateRinging:
		h.gui.ShowRinging()

	case timer.StateStopped:
		h.player.Stop()
		h.gui.ShowStopped(timer.FormatDuration(snap.Total))
		if old == timer.StateRinging {
			h.bus.Publish(events.TimerAcknowledged, nil)
		} else {
			h.bus.Publish(events.TimerReset, map[string]interface{}{
				"total": snap.Total.String(),
			})
		}
	}
}

// HandleFinish fires once per run when the countdown reaches zero,
// before the state change to ringing is announced.
func (h *Handlers) HandleFinish(total time.Duration) {
	if err := h.player.Play(); err != nil {
		h.log.Error("Handlers", err, map[string]interface{}{
			"action": "play alarm",
		})
	}

	h.saveRun(&models.RunRecord{
		Total:      total,
		StartedAt:  h.engine.Snapshot().StartedAt,
		FinishedAt: time.Now(),
		Completed:  true,
	})

	h.bus.Publish(events.TimerFinished, map[string]interface{}{
		"total": total.String(),
	})
}

func (h *Handlers) HandleConfigReload(cfg *config.Config) {
	h.engine.SetRingTimeout(cfg.Timer.RingTimeout.Std())
	h.player.Configure(cfg.Alarm.Enabled, cfg.Alarm.SoundPath, cfg.Alarm.Volume)

	if !h.isEditing() {
		snap := h.engine.Snapshot()
		defaultDuration := cfg.Timer.DefaultDuration.Std()
		if snap.State == timer.StateStopped && defaultDuration != snap.Total {
			if err := h.engine.SetDuration(defaultDuration); err == nil {
				h.gui.ClearPresetSelection()
				h.gui.ShowStopped(timer.FormatDuration(defaultDuration))
			}
		}
	}

	h.bus.Publish(events.ConfigReloaded, map[string]interface{}{
		"path": h.cfg.Path(),
	})
}

func (h *Handlers) RefreshPresets() {
	presets, err := h.database.GetPresets()
	if err != nil {
		h.log.Error("Handlers", err, map[string]interface{}{
			"action": "load presets",
		})
		return
	}
	h.gui.UpdatePresets(presets)
}

func (h *Handlers) RefreshHistory() {
	runs, err := h.database.GetRecentRuns(historyLimit)
	if err != nil {
		h.log.Error("Handlers", err, map[string]interface{}{
			"action": "load history",
		})
		return
	}
	h.gui.UpdateHistory(runs)

	stats, err := h.database.GetRunStats()
	if err != nil {
		h.log.Error("Handlers", err, map[string]interface{}{
			"action": "load stats",
		})
		return
	}
	h.gui.UpdateStats(stats)
}

// persistDuration records the armed duration as the configured default
// so the next launch starts from it.
func (h *Handlers) persistDuration(d time.Duration) {
	go func() {
		cfg := h.cfg.Config()
		cfg.Timer.DefaultDuration = config.Duration(d)
		if err := h.cfg.Save(cfg); err != nil {
			h.log.Warning("Handlers", "could not persist duration", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()
}

func (h *Handlers) saveRun(record *models.RunRecord) {
	if err := h.database.SaveRun(record); err != nil {
		h.log.Error("Handlers", err, map[string]interface{}{
			"action": "save run",
		})
	}
}
