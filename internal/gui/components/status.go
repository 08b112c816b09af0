package components

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"tickdown/internal/models"
	"tickdown/internal/timer"
)

type StatusBar struct {
	container  *fyne.Container
	stateLabel *widget.Label
	runsLabel  *widget.Label
	totalLabel *widget.Label
}

func NewStatusBar() *StatusBar {
	stateLabel := widget.NewLabel("Ready")
	runsLabel := widget.NewLabel("Runs: --")
	totalLabel := widget.NewLabel("Focused: --")

	statsContainer := container.NewHBox(
		runsLabel,
		widget.NewSeparator(),
		totalLabel,
	)

	mainContainer := container.NewBorder(
		nil, nil,
		stateLabel,
		statsContainer,
	)

	return &StatusBar{
		container:  mainContainer,
		stateLabel: stateLabel,
		runsLabel:  runsLabel,
		totalLabel: totalLabel,
	}
}

func (sb *StatusBar) GetContainer() *fyne.Container {
	return sb.container
}

func (sb *StatusBar) SetStatus(status string) {
	sb.stateLabel.SetText(status)
}

func (sb *StatusBar) SetStats(stats *models.RunStats) {
	if stats == nil || stats.TotalRuns == 0 {
		sb.runsLabel.SetText("Runs: --")
		sb.totalLabel.SetText("Focused: --")
		return
	}

	sb.runsLabel.SetText(fmt.Sprintf("Runs: %d/%d", stats.CompletedRuns, stats.TotalRuns))
	sb.totalLabel.SetText(fmt.Sprintf("Focused: %s", timer.FormatDuration(stats.TotalDuration)))
}
