package components

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// StatusBar shows the last status message and the batch size
type StatusBar struct {
	container   *fyne.Container
	statusLabel *widget.Label
	batchInfo   *widget.Label
}

// NewStatusBar creates a new status bar component
func NewStatusBar() *StatusBar {
	sb := &StatusBar{
		statusLabel: widget.NewLabel("Ready"),
		batchInfo:   widget.NewLabel("No barcodes"),
	}
	sb.container = container.NewHBox(
		sb.statusLabel,
		widget.NewSeparator(),
		sb.batchInfo,
	)
	return sb
}

// SetStatus updates the main status message
func (sb *StatusBar) SetStatus(status string) {
	sb.statusLabel.SetText(status)
}

// GetStatus returns the current status message
func (sb *StatusBar) GetStatus() string {
	return sb.statusLabel.Text
}

// SetBatchInfo shows how many records exist and how many are selected
func (sb *StatusBar) SetBatchInfo(total, selected int) {
	if total == 0 {
		sb.batchInfo.SetText("No barcodes")
		return
	}
	sb.batchInfo.SetText(fmt.Sprintf("%d barcodes, %d selected", total, selected))
}

// Reset resets the status bar to initial state
func (sb *StatusBar) Reset() {
	sb.statusLabel.SetText("Ready")
	sb.batchInfo.SetText("No barcodes")
}

// GetContainer returns the status bar container
func (sb *StatusBar) GetContainer() *fyne.Container {
	return sb.container
}

// ProgressBar displays generation progress as a percentage
type ProgressBar struct {
	container   *fyne.Container
	progressBar *widget.ProgressBar
	stageLabel  *widget.Label
}

// NewProgressBar creates a new progress bar component, initially hidden
func NewProgressBar() *ProgressBar {
	pb := &ProgressBar{
		progressBar: widget.NewProgressBar(),
		stageLabel:  widget.NewLabel("Ready"),
	}
	pb.progressBar.Min = 0
	pb.progressBar.Max = 100
	pb.container = container.NewVBox(pb.stageLabel, pb.progressBar)
	pb.container.Hide()
	return pb
}

// SetPercent updates the bar with a 0-100 value
func (pb *ProgressBar) SetPercent(percent int) {
	percent = min(max(percent, 0), 100)
	pb.progressBar.SetValue(float64(percent))
	pb.stageLabel.SetText(fmt.Sprintf("Generating... %d%%", percent))
}

// GetPercent returns the current value
func (pb *ProgressBar) GetPercent() int {
	return int(pb.progressBar.Value)
}

// SetVisible shows or hides the progress bar
func (pb *ProgressBar) SetVisible(visible bool) {
	if visible {
		pb.container.Show()
	} else {
		pb.container.Hide()
	}
}

// Reset resets the progress bar to initial state
func (pb *ProgressBar) Reset() {
	pb.progressBar.SetValue(0)
	pb.stageLabel.SetText("Ready")
	pb.SetVisible(false)
}

// GetContainer returns the progress bar container
func (pb *ProgressBar) GetContainer() *fyne.Container {
	return pb.container
}
