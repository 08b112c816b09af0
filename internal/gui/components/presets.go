package components

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"tickdown/internal/models"
	"tickdown/internal/timer"
)

// PresetBar lets the user arm a stored duration with one pick, save the
// current duration as a new preset, or delete the picked one.
type PresetBar struct {
	container    *fyne.Container
	selector     *widget.Select
	saveButton   *widget.Button
	deleteButton *widget.Button

	presets []*models.Preset

	selectHandler func(*models.Preset)
	saveHandler   func()
	deleteHandler func(*models.Preset)
}

func NewPresetBar() *PresetBar {
	bar := &PresetBar{}

	bar.selector = widget.NewSelect(nil, bar.onSelected)
	bar.selector.PlaceHolder = "Presets"

	bar.saveButton = widget.NewButtonWithIcon("", theme.DocumentSaveIcon(), bar.onSave)
	bar.deleteButton = widget.NewButtonWithIcon("", theme.DeleteIcon(), bar.onDelete)
	bar.deleteButton.Disable()

	bar.container = container.NewBorder(
		nil, nil,
		nil,
		container.NewHBox(bar.saveButton, bar.deleteButton),
		bar.selector,
	)

	return bar
}

func (pb *PresetBar) GetContainer() *fyne.Container {
	return pb.container
}

func (pb *PresetBar) SetSelectHandler(handler func(*models.Preset)) {
	pb.selectHandler = handler
}

func (pb *PresetBar) SetSaveHandler(handler func()) {
	pb.saveHandler = handler
}

func (pb *PresetBar) SetDeleteHandler(handler func(*models.Preset)) {
	pb.deleteHandler = handler
}

// SetPresets replaces the option list and clears the selection.
func (pb *PresetBar) SetPresets(presets []*models.Preset) {
	pb.presets = presets

	options := make([]string, 0, len(presets))
	for _, p := range presets {
		options = append(options, presetLabel(p))
	}

	pb.selector.ClearSelected()
	pb.selector.Options = options
	pb.selector.Refresh()
	pb.deleteButton.Disable()
}

// ClearSelection drops the picked preset, for when the duration is
// changed by hand and no longer matches.
func (pb *PresetBar) ClearSelection() {
	pb.selector.ClearSelected()
	pb.deleteButton.Disable()
}

// Selected returns the picked preset, or nil.
func (pb *PresetBar) Selected() *models.Preset {
	idx := pb.selector.SelectedIndex()
	if idx < 0 || idx >= len(pb.presets) {
		return nil
	}
	return pb.presets[idx]
}

func (pb *PresetBar) SetEnabled(enabled bool) {
	if enabled {
		pb.selector.Enable()
		pb.saveButton.Enable()
		if pb.Selected() != nil {
			pb.deleteButton.Enable()
		}
	} else {
		pb.selector.Disable()
		pb.saveButton.Disable()
		pb.deleteButton.Disable()
	}
}

func (pb *PresetBar) onSelected(string) {
	preset := pb.Selected()
	if preset == nil {
		return
	}

	pb.deleteButton.Enable()
	if pb.selectHandler != nil {
		pb.selectHandler(preset)
	}
}

func (pb *PresetBar) onSave() {
	if pb.saveHandler != nil {
		pb.saveHandler()
	}
}

func (pb *PresetBar) onDelete() {
	preset := pb.Selected()
	if preset == nil {
		return
	}
	if pb.deleteHandler != nil {
		pb.deleteHandler(preset)
	}
}

func presetLabel(p *models.Preset) string {
	return fmt.Sprintf("%s (%s)", p.Name, timer.FormatDuration(p.Duration))
}
