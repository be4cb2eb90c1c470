package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// ActionBar holds the selection and export buttons shown under the preview
type ActionBar struct {
	container     *fyne.Container
	toggleButton  *widget.Button
	saveSelected  *widget.Button
	saveAll       *widget.Button
	saveSheet     *widget.Button
	generateAgain *widget.Button

	toggleHandler        func()
	saveSelectedHandler  func()
	saveAllHandler       func()
	saveSheetHandler     func()
	generateAgainHandler func()
}

// NewActionBar creates the action bar with the batch buttons disabled
func NewActionBar() *ActionBar {
	ab := &ActionBar{}
	ab.toggleButton = widget.NewButton("Select All", func() { call(ab.toggleHandler) })
	ab.saveSelected = widget.NewButtonWithIcon("Save Selected", theme.DocumentSaveIcon(), func() { call(ab.saveSelectedHandler) })
	ab.saveAll = widget.NewButtonWithIcon("Save All", theme.DocumentSaveIcon(), func() { call(ab.saveAllHandler) })
	ab.saveSheet = widget.NewButtonWithIcon("Save PDF Sheet", theme.FileIcon(), func() { call(ab.saveSheetHandler) })
	ab.generateAgain = widget.NewButtonWithIcon("Generate Again", theme.ViewRefreshIcon(), func() { call(ab.generateAgainHandler) })
	ab.saveAll.Importance = widget.HighImportance

	ab.container = container.NewHBox(
		ab.toggleButton,
		widget.NewSeparator(),
		ab.saveSelected,
		ab.saveAll,
		ab.saveSheet,
		widget.NewSeparator(),
		ab.generateAgain,
	)
	ab.SetState(false, false)
	return ab
}

func call(handler func()) {
	if handler != nil {
		handler()
	}
}

// SetToggleHandler sets the Select All / Deselect All callback
func (ab *ActionBar) SetToggleHandler(handler func()) { ab.toggleHandler = handler }

// SetSaveSelectedHandler sets the Save Selected callback
func (ab *ActionBar) SetSaveSelectedHandler(handler func()) { ab.saveSelectedHandler = handler }

// SetSaveAllHandler sets the Save All callback
func (ab *ActionBar) SetSaveAllHandler(handler func()) { ab.saveAllHandler = handler }

// SetSaveSheetHandler sets the PDF sheet callback
func (ab *ActionBar) SetSaveSheetHandler(handler func()) { ab.saveSheetHandler = handler }

// SetGenerateAgainHandler sets the Generate Again callback
func (ab *ActionBar) SetGenerateAgainHandler(handler func()) { ab.generateAgainHandler = handler }

// SetToggleLabel updates the selection button text
func (ab *ActionBar) SetToggleLabel(label string) {
	ab.toggleButton.SetText(label)
}

// SetState enables the batch buttons only when a batch is shown and no run
// is active. Generate Again stays available whenever the view is idle.
func (ab *ActionBar) SetState(hasBatch, busy bool) {
	for _, b := range []*widget.Button{ab.toggleButton, ab.saveSelected, ab.saveAll, ab.saveSheet} {
		setEnabled(b, hasBatch && !busy)
	}
	setEnabled(ab.generateAgain, !busy)
}

func setEnabled(b *widget.Button, enabled bool) {
	if enabled {
		b.Enable()
	} else {
		b.Disable()
	}
}

// GetContainer returns the action bar container
func (ab *ActionBar) GetContainer() *fyne.Container {
	return ab.container
}
