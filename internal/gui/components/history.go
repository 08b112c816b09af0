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

// HistoryView lists past runs, newest first.
type HistoryView struct {
	container   *fyne.Container
	list        *widget.List
	emptyLabel  *widget.Label
	clearButton *widget.Button

	runs []*models.RunRecord

	clearHandler func()
}

func NewHistoryView() *HistoryView {
	view := &HistoryView{}

	view.list = widget.NewList(
		func() int {
			return len(view.runs)
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("template")
		},
		func(id widget.ListItemID, item fyne.CanvasObject) {
			if id < 0 || id >= len(view.runs) {
				return
			}
			item.(*widget.Label).SetText(runLabel(view.runs[id]))
		},
	)

	view.emptyLabel = widget.NewLabel("No runs yet")
	view.emptyLabel.Alignment = fyne.TextAlignCenter

	view.clearButton = widget.NewButtonWithIcon("Clear", theme.DeleteIcon(), view.onClear)
	view.clearButton.Disable()

	header := container.NewBorder(
		nil, nil,
		widget.NewLabel("History"),
		view.clearButton,
	)

	view.container = container.NewBorder(
		header, nil,
		nil, nil,
		container.NewStack(view.list, view.emptyLabel),
	)

	return view
}

func (hv *HistoryView) GetContainer() *fyne.Container {
	return hv.container
}

func (hv *HistoryView) SetClearHandler(handler func()) {
	hv.clearHandler = handler
}

// SetRuns replaces the listed runs.
func (hv *HistoryView) SetRuns(runs []*models.RunRecord) {
	hv.runs = runs
	hv.list.Refresh()

	if len(runs) == 0 {
		hv.emptyLabel.Show()
		hv.clearButton.Disable()
	} else {
		hv.emptyLabel.Hide()
		hv.clearButton.Enable()
	}
}

func (hv *HistoryView) onClear() {
	if hv.clearHandler != nil {
		hv.clearHandler()
	}
}

func runLabel(run *models.RunRecord) string {
	outcome := "finished"
	if !run.Completed {
		outcome = "stopped early"
	}
	return fmt.Sprintf("%s  ·  %s  ·  %s",
		run.StartedAt.Format("Jan 2 15:04"),
		timer.FormatDuration(run.Total),
		outcome,
	)
}
