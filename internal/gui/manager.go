package gui

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"tickdown/internal/gui/components"
	"tickdown/internal/logger"
	"tickdown/internal/models"
)

// Manager owns the window content: the countdown face, control bar,
// preset bar, status line and the history tab. It exposes semantic
// Show methods that the application handlers call on state changes;
// every update is marshalled onto the UI thread with fyne.Do.
type Manager struct {
	window     fyne.Window
	log        logger.Logger
	isShutdown bool

	display  *components.TimerDisplay
	controls *components.ControlBar
	presets  *components.PresetBar
	status   *components.StatusBar
	history  *components.HistoryView
	tabs     *container.AppTabs

	digitHandler         func(int)
	backspaceHandler     func()
	escapeHandler        func()
	returnHandler        func()
	spaceHandler         func()
	historyOpenedHandler func()
}

func NewManager(window fyne.Window, log logger.Logger) *Manager {
	if log == nil {
		log = logger.NewNop()
	}

	manager := &Manager{
		window:   window,
		log:      log,
		display:  components.NewTimerDisplay(),
		controls: components.NewControlBar(),
		presets:  components.NewPresetBar(),
		status:   components.NewStatusBar(),
		history:  components.NewHistoryView(),
	}

	manager.setupKeyCapture()

	log.Info("GUIManager", "initialized", nil)
	return manager
}

// GetMainContainer assembles the window content.
func (m *Manager) GetMainContainer() *fyne.Container {
	timerTab := container.NewBorder(
		m.presets.GetContainer(),
		m.controls.GetContainer(),
		nil, nil,
		container.NewCenter(m.display.GetContainer()),
	)

	m.tabs = container.NewAppTabs(
		container.NewTabItem("Timer", timerTab),
		container.NewTabItem("History", m.history.GetContainer()),
	)
	m.tabs.OnSelected = func(item *container.TabItem) {
		if item.Text == "History" && m.historyOpenedHandler != nil {
			m.historyOpenedHandler()
		}
	}

	return container.NewBorder(
		nil,
		m.status.GetContainer(),
		nil, nil,
		m.tabs,
	)
}

func (m *Manager) GetWindow() fyne.Window {
	return m.window
}

func (m *Manager) SetPrimaryHandler(handler func()) {
	m.controls.SetPrimaryHandler(handler)
}

func (m *Manager) SetResetHandler(handler func()) {
	m.controls.SetResetHandler(handler)
}

func (m *Manager) SetEditHandler(handler func()) {
	m.controls.SetEditHandler(handler)
}

func (m *Manager) SetPresetSelectHandler(handler func(*models.Preset)) {
	m.presets.SetSelectHandler(handler)
}

func (m *Manager) SetPresetSaveHandler(handler func()) {
	m.presets.SetSaveHandler(handler)
}

func (m *Manager) SetPresetDeleteHandler(handler func(*models.Preset)) {
	m.presets.SetDeleteHandler(handler)
}

func (m *Manager) SetHistoryClearHandler(handler func()) {
	m.history.SetClearHandler(handler)
}

func (m *Manager) SetHistoryOpenedHandler(handler func()) {
	m.historyOpenedHandler = handler
}

func (m *Manager) SetDigitHandler(handler func(int)) {
	m.digitHandler = handler
}

func (m *Manager) SetBackspaceHandler(handler func()) {
	m.backspaceHandler = handler
}

func (m *Manager) SetEscapeHandler(handler func()) {
	m.escapeHandler = handler
}

func (m *Manager) SetReturnHandler(handler func()) {
	m.returnHandler = handler
}

func (m *Manager) SetSpaceHandler(handler func()) {
	m.spaceHandler = handler
}

// setupKeyCapture routes window-level key presses. Digits arrive as
// typed runes; control keys as key events. Space is handled only as a
// key event so a press never fires twice.
func (m *Manager) setupKeyCapture() {
	canvas := m.window.Canvas()

	canvas.SetOnTypedRune(func(r rune) {
		if r >= '0' && r <= '9' && m.digitHandler != nil {
			m.digitHandler(int(r - '0'))
		}
	})

	canvas.SetOnTypedKey(func(event *fyne.KeyEvent) {
		switch event.Name {
		case fyne.KeyBackspace:
			if m.backspaceHandler != nil {
				m.backspaceHandler()
			}
		case fyne.KeyEscape:
			if m.escapeHandler != nil {
				m.escapeHandler()
			}
		case fyne.KeyReturn, fyne.KeyEnter:
			if m.returnHandler != nil {
				m.returnHandler()
			}
		case fyne.KeySpace:
			if m.spaceHandler != nil {
				m.spaceHandler()
			}
		}
	})
}

// UpdateCountdown repaints only the time text. This is the tick path,
// called ten times a second while running.
func (m *Manager) UpdateCountdown(text string) {
	fyne.Do(func() {
		m.display.SetTime(text)
	})
}

// ShowStopped renders the armed-and-waiting face.
func (m *Manager) ShowStopped(timeText string) {
	fyne.Do(func() {
		m.display.SetTime(timeText)
		m.display.SetState(components.DisplayIdle)
		m.display.SetHint("type digits to change the duration")
		m.controls.SetPrimaryAction("Start", theme.MediaPlayIcon())
		m.controls.SetResetEnabled(true)
		m.controls.SetEditEnabled(true)
		m.presets.SetEnabled(true)
		m.status.SetStatus("Ready")
	})
}

func (m *Manager) ShowRunning(timeText string) {
	fyne.Do(func() {
		m.display.SetTime(timeText)
		m.display.SetState(components.DisplayRunning)
		m.display.SetHint("")
		m.controls.SetPrimaryAction("Pause", theme.MediaPauseIcon())
		m.controls.SetResetEnabled(true)
		m.controls.SetEditEnabled(false)
		m.presets.SetEnabled(false)
		m.status.SetStatus("Counting down")
	})
}

func (m *Manager) ShowPaused(timeText string) {
	fyne.Do(func() {
		m.display.SetTime(timeText)
		m.display.SetState(components.DisplayPaused)
		m.display.SetHint("paused")
		m.controls.SetPrimaryAction("Resume", theme.MediaPlayIcon())
		m.controls.SetResetEnabled(true)
		m.controls.SetEditEnabled(false)
		m.presets.SetEnabled(false)
		m.status.SetStatus("Paused")
	})
}

func (m *Manager) ShowRinging() {
	fyne.Do(func() {
		m.display.SetTime("0s")
		m.display.SetState(components.DisplayRinging)
		m.display.SetHint("time is up!")
		m.controls.SetPrimaryAction("Okay", theme.ConfirmIcon())
		m.controls.SetResetEnabled(true)
		m.controls.SetEditEnabled(false)
		m.presets.SetEnabled(false)
		m.status.SetStatus("Ringing")
	})
}

// ShowEditing renders the duration editor face with the current digit
// buffer.
func (m *Manager) ShowEditing(bufferText string) {
	fyne.Do(func() {
		m.display.SetTime(bufferText)
		m.display.SetState(components.DisplayEditing)
		m.display.SetHint("enter applies, escape cancels")
		m.controls.SetPrimaryAction("Apply", theme.ConfirmIcon())
		m.controls.SetResetEnabled(false)
		m.controls.SetEditEnabled(false)
		m.presets.SetEnabled(false)
		m.status.SetStatus("Editing")
	})
}

// UpdateEditingBuffer repaints the editor text without touching the
// rest of the face.
func (m *Manager) UpdateEditingBuffer(bufferText string) {
	fyne.Do(func() {
		m.display.SetTime(bufferText)
	})
}

func (m *Manager) UpdatePresets(presets []*models.Preset) {
	fyne.Do(func() {
		m.presets.SetPresets(presets)
		m.log.Debug("GUIManager", "presets updated", map[string]interface{}{
			"count": len(presets),
		})
	})
}

func (m *Manager) ClearPresetSelection() {
	fyne.Do(func() {
		m.presets.ClearSelection()
	})
}

func (m *Manager) UpdateHistory(runs []*models.RunRecord) {
	fyne.Do(func() {
		m.history.SetRuns(runs)
		m.log.Debug("GUIManager", "history updated", map[string]interface{}{
			"count": len(runs),
		})
	})
}

func (m *Manager) UpdateStats(stats *models.RunStats) {
	fyne.Do(func() {
		m.status.SetStats(stats)
	})
}

// PromptPresetName asks for a preset name, prefilled with a suggestion.
func (m *Manager) PromptPresetName(defaultName string, onSubmit func(string)) {
	fyne.Do(func() {
		entry := widget.NewEntry()
		entry.SetText(defaultName)

		items := []*widget.FormItem{
			widget.NewFormItem("Name", entry),
		}

		dialog.ShowForm("Save preset", "Save", "Cancel", items, func(confirmed bool) {
			if !confirmed {
				return
			}
			name := strings.TrimSpace(entry.Text)
			if name == "" {
				return
			}
			onSubmit(name)
		}, m.window)
	})
}

func (m *Manager) ShowError(title string, err error) {
	m.log.Error("GUIManager", err, map[string]interface{}{
		"title": title,
	})

	fyne.Do(func() {
		dialog.ShowError(err, m.window)
	})
}

func (m *Manager) Shutdown() {
	if m.isShutdown {
		return
	}

	m.isShutdown = true
	m.log.Info("GUIManager", "shutdown initiated", nil)
}
