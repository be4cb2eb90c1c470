package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// FormDefaults seeds the generation form
type FormDefaults struct {
	Symbologies []string
	Symbology   string
	Prefix      string
	Directory   string
}

// GenerationForm collects counts, symbology and the save location
type GenerationForm struct {
	container      *fyne.Container
	window         fyne.Window
	defaults       FormDefaults
	countA         *widget.Entry
	countB         *widget.Entry
	symbology      *widget.Select
	directory      *widget.Entry
	prefix         *widget.Entry
	browseButton   *widget.Button
	generateButton *widget.Button

	generateHandler func()
}

// NewGenerationForm creates the form; window hosts the directory chooser
func NewGenerationForm(window fyne.Window, defaults FormDefaults) *GenerationForm {
	f := &GenerationForm{window: window, defaults: defaults}
	f.createComponents()
	f.buildLayout()
	f.Reset()
	return f
}

func (f *GenerationForm) createComponents() {
	f.countA = widget.NewEntry()
	f.countA.SetPlaceHolder("0")
	f.countB = widget.NewEntry()
	f.countB.SetPlaceHolder("0")

	f.symbology = widget.NewSelect(f.defaults.Symbologies, nil)

	f.directory = widget.NewEntry()
	f.directory.SetPlaceHolder("Choose a folder for the PNG files")
	f.browseButton = widget.NewButtonWithIcon("", theme.FolderOpenIcon(), f.chooseDirectory)

	f.prefix = widget.NewEntry()

	f.generateButton = widget.NewButton("Generate", func() {
		if f.generateHandler != nil {
			f.generateHandler()
		}
	})
	f.generateButton.Importance = widget.HighImportance
}

func (f *GenerationForm) buildLayout() {
	form := widget.NewForm(
		widget.NewFormItem("Barcodes (range A)", f.countA),
		widget.NewFormItem("Barcodes (range B)", f.countB),
		widget.NewFormItem("Symbology", f.symbology),
		widget.NewFormItem("Save to", container.NewBorder(nil, nil, nil, f.browseButton, f.directory)),
		widget.NewFormItem("File prefix", f.prefix),
	)
	f.container = container.NewVBox(form, f.generateButton)
}

func (f *GenerationForm) chooseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil {
			dialog.ShowError(err, f.window)
			return
		}
		if uri == nil {
			return
		}
		f.directory.SetText(uri.Path())
	}, f.window)
}

// SetGenerateHandler sets the callback for the Generate button
func (f *GenerationForm) SetGenerateHandler(handler func()) {
	f.generateHandler = handler
}

// CountA returns the raw range A count text
func (f *GenerationForm) CountA() string { return f.countA.Text }

// CountB returns the raw range B count text
func (f *GenerationForm) CountB() string { return f.countB.Text }

// Symbology returns the selected symbology name
func (f *GenerationForm) Symbology() string { return f.symbology.Selected }

// Directory returns the chosen save directory
func (f *GenerationForm) Directory() string { return f.directory.Text }

// Prefix returns the file name prefix
func (f *GenerationForm) Prefix() string { return f.prefix.Text }

// SetEnabled toggles every input while a run is in flight
func (f *GenerationForm) SetEnabled(enabled bool) {
	for _, w := range []fyne.Disableable{f.countA, f.countB, f.symbology, f.directory, f.prefix, f.browseButton, f.generateButton} {
		if enabled {
			w.Enable()
		} else {
			w.Disable()
		}
	}
}

// Reset restores the defaults and clears both counts
func (f *GenerationForm) Reset() {
	f.countA.SetText("")
	f.countB.SetText("")
	f.symbology.SetSelected(f.defaults.Symbology)
	f.directory.SetText(f.defaults.Directory)
	f.prefix.SetText(f.defaults.Prefix)
	f.SetEnabled(true)
}

// GetContainer returns the form container
func (f *GenerationForm) GetContainer() *fyne.Container {
	return f.container
}
