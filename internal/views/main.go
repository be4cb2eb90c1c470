package views

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"barcode-batcher/internal/models"
	"barcode-batcher/internal/views/components"
)

// Options configure the main view
type Options struct {
	Thumbnails components.Thumbnailer
	Columns    int
	Form       components.FormDefaults
}

// MainView is the single window of the application.
// Every method must be called on the Fyne UI goroutine.
type MainView struct {
	window        fyne.Window
	mainContainer *fyne.Container
	form          *components.GenerationForm
	progressBar   *components.ProgressBar
	preview       *components.PreviewGrid
	actions       *components.ActionBar
	statusBar     *components.StatusBar

	handlers Handlers
}

// NewMainView builds the layout and sets it as the window content
func NewMainView(window fyne.Window, opts Options) *MainView {
	view := &MainView{window: window}

	view.form = components.NewGenerationForm(window, opts.Form)
	view.progressBar = components.NewProgressBar()
	view.preview = components.NewPreviewGrid(opts.Thumbnails, opts.Columns)
	view.actions = components.NewActionBar()
	view.statusBar = components.NewStatusBar()

	view.buildLayout()
	view.setupEventHandlers()
	return view
}

func (mv *MainView) buildLayout() {
	top := container.NewVBox(
		widget.NewCard("New batch", "", mv.form.GetContainer()),
		mv.progressBar.GetContainer(),
	)
	bottom := container.NewVBox(
		mv.actions.GetContainer(),
		widget.NewSeparator(),
		mv.statusBar.GetContainer(),
	)

	mv.mainContainer = container.NewBorder(top, bottom, nil, nil, mv.preview.GetContainer())
	mv.window.SetContent(mv.mainContainer)
}

func (mv *MainView) setupEventHandlers() {
	mv.form.SetGenerateHandler(func() {
		if mv.handlers.Generate != nil {
			mv.handlers.Generate(FormValues{
				CountA:    mv.form.CountA(),
				CountB:    mv.form.CountB(),
				Symbology: mv.form.Symbology(),
				Directory: mv.form.Directory(),
				Prefix:    mv.form.Prefix(),
			})
		}
	})

	mv.preview.SetSelectHandler(func(i int, selected bool) {
		if mv.handlers.Select != nil {
			mv.handlers.Select(i, selected)
		}
	})

	mv.actions.SetToggleHandler(func() {
		if mv.handlers.ToggleAll != nil {
			mv.handlers.ToggleAll()
		}
	})
	mv.actions.SetSaveSelectedHandler(func() { mv.save(mv.handlers.SaveSelected) })
	mv.actions.SetSaveAllHandler(func() { mv.save(mv.handlers.SaveAll) })
	mv.actions.SetSaveSheetHandler(func() { mv.save(mv.handlers.SaveSheet) })
	mv.actions.SetGenerateAgainHandler(func() {
		if mv.handlers.GenerateAgain != nil {
			mv.handlers.GenerateAgain()
		}
	})
}

// save passes the form's current directory and prefix to a save handler
func (mv *MainView) save(handler func(directory, prefix string)) {
	if handler != nil {
		handler(mv.form.Directory(), mv.form.Prefix())
	}
}

// SetHandlers connects the view to its controller
func (mv *MainView) SetHandlers(handlers Handlers) {
	mv.handlers = handlers
}

// SetGenerating switches the view between the running and idle states
func (mv *MainView) SetGenerating(active bool) {
	mv.form.SetEnabled(!active)
	mv.progressBar.SetVisible(true)
	if active {
		mv.progressBar.SetPercent(0)
	}
	mv.actions.SetState(mv.preview.Len() > 0, active)
}

// UpdateProgress shows a new progress percentage
func (mv *MainView) UpdateProgress(percent int) {
	mv.progressBar.SetPercent(percent)
}

// ShowRecords replaces the preview grid with records
func (mv *MainView) ShowRecords(records []models.BarcodeRecord) {
	mv.preview.SetRecords(records)
	mv.actions.SetState(len(records) > 0, false)
	mv.statusBar.SetBatchInfo(len(records), 0)
}

// UpdateSelection mirrors the selection flags and toggle label
func (mv *MainView) UpdateSelection(selection []bool, toggleLabel string) {
	mv.preview.SetSelection(selection)
	mv.actions.SetToggleLabel(toggleLabel)

	selected := 0
	for _, s := range selection {
		if s {
			selected++
		}
	}
	mv.statusBar.SetBatchInfo(len(selection), selected)
}

// ResetForm returns the window to its initial state
func (mv *MainView) ResetForm() {
	mv.form.Reset()
	mv.preview.Clear()
	mv.progressBar.Reset()
	mv.actions.SetState(false, false)
	mv.actions.SetToggleLabel("Select All")
	mv.statusBar.Reset()
}

// UpdateStatus updates the status bar message
func (mv *MainView) UpdateStatus(status string) {
	mv.statusBar.SetStatus(status)
}

// ShowError displays an error dialog
func (mv *MainView) ShowError(title string, err error) {
	mv.statusBar.SetStatus(title)
	dialog.ShowError(err, mv.window)
}

// ShowInfo displays an information dialog
func (mv *MainView) ShowInfo(title, message string) {
	dialog.ShowInformation(title, message, mv.window)
}
