package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// ControlBar holds the three timer buttons. The primary button changes
// meaning with the timer state (Start, Pause, Resume, Okay, Apply);
// the bar only renders what the manager tells it to.
type ControlBar struct {
	container     *fyne.Container
	primaryButton *widget.Button
	resetButton   *widget.Button
	editButton    *widget.Button

	primaryHandler func()
	resetHandler   func()
	editHandler    func()
}

func NewControlBar() *ControlBar {
	bar := &ControlBar{}
	bar.setupControls()
	return bar
}

func (cb *ControlBar) setupControls() {
	cb.primaryButton = widget.NewButtonWithIcon("Start", theme.MediaPlayIcon(), cb.onPrimary)
	cb.primaryButton.Importance = widget.HighImportance

	cb.resetButton = widget.NewButtonWithIcon("Reset", theme.ViewRefreshIcon(), cb.onReset)

	cb.editButton = widget.NewButtonWithIcon("Edit", theme.DocumentCreateIcon(), cb.onEdit)

	cb.container = container.NewCenter(container.NewHBox(
		cb.primaryButton,
		cb.resetButton,
		cb.editButton,
	))
}

func (cb *ControlBar) GetContainer() *fyne.Container {
	return cb.container
}

func (cb *ControlBar) SetPrimaryHandler(handler func()) {
	cb.primaryHandler = handler
}

func (cb *ControlBar) SetResetHandler(handler func()) {
	cb.resetHandler = handler
}

func (cb *ControlBar) SetEditHandler(handler func()) {
	cb.editHandler = handler
}

// SetPrimaryAction relabels the primary button.
func (cb *ControlBar) SetPrimaryAction(label string, icon fyne.Resource) {
	cb.primaryButton.SetText(label)
	cb.primaryButton.SetIcon(icon)
}

func (cb *ControlBar) SetResetEnabled(enabled bool) {
	if enabled {
		cb.resetButton.Enable()
	} else {
		cb.resetButton.Disable()
	}
}

func (cb *ControlBar) SetEditEnabled(enabled bool) {
	if enabled {
		cb.editButton.Enable()
	} else {
		cb.editButton.Disable()
	}
}

func (cb *ControlBar) onPrimary() {
	if cb.primaryHandler != nil {
		cb.primaryHandler()
	}
}

func (cb *ControlBar) onReset() {
	if cb.resetHandler != nil {
		cb.resetHandler()
	}
}

func (cb *ControlBar) onEdit() {
	if cb.editHandler != nil {
		cb.editHandler()
	}
}
