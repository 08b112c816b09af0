package components

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// DisplayState selects the countdown face appearance.
type DisplayState int

const (
	DisplayIdle DisplayState = iota
	DisplayRunning
	DisplayPaused
	DisplayRinging
	DisplayEditing
)

var (
	idleColor    = color.NRGBA{R: 222, G: 224, B: 230, A: 255}
	runningColor = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	pausedColor  = color.NRGBA{R: 140, G: 144, B: 156, A: 255}
	ringingColor = color.NRGBA{R: 255, G: 92, B: 92, A: 255}
	editingColor = color.NRGBA{R: 255, G: 202, B: 92, A: 255}
)

// TimerDisplay is the big countdown face and the small hint line under
// it.
type TimerDisplay struct {
	container *fyne.Container
	timeText  *canvas.Text
	hintLabel *widget.Label
}

func NewTimerDisplay() *TimerDisplay {
	timeText := canvas.NewText("0s", idleColor)
	timeText.TextSize = 60
	timeText.TextStyle = fyne.TextStyle{Bold: true}
	timeText.Alignment = fyne.TextAlignCenter

	hintLabel := widget.NewLabel("")
	hintLabel.Alignment = fyne.TextAlignCenter

	mainContainer := container.NewVBox(
		timeText,
		hintLabel,
	)

	return &TimerDisplay{
		container: mainContainer,
		timeText:  timeText,
		hintLabel: hintLabel,
	}
}

func (td *TimerDisplay) GetContainer() *fyne.Container {
	return td.container
}

func (td *TimerDisplay) SetTime(text string) {
	if td.timeText.Text == text {
		return
	}
	td.timeText.Text = text
	td.timeText.Refresh()
}

func (td *TimerDisplay) SetHint(text string) {
	td.hintLabel.SetText(text)
}

func (td *TimerDisplay) SetState(state DisplayState) {
	var c color.Color
	switch state {
	case DisplayRunning:
		c = runningColor
	case DisplayPaused:
		c = pausedColor
	case DisplayRinging:
		c = ringingColor
	case DisplayEditing:
		c = editingColor
	default:
		c = idleColor
	}

	if td.timeText.Color == c {
		return
	}
	td.timeText.Color = c
	td.timeText.Refresh()
}
