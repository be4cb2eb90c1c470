package controllers

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"

	"barcode-batcher/internal/logger"
	"barcode-batcher/internal/models"
	"barcode-batcher/internal/services"
	"barcode-batcher/internal/views"
)

// View is the part of the main window the controller drives
type View interface {
	SetHandlers(views.Handlers)
	SetGenerating(active bool)
	UpdateProgress(percent int)
	ShowRecords(records []models.BarcodeRecord)
	UpdateSelection(selection []bool, toggleLabel string)
	ResetForm()
	UpdateStatus(status string)
	ShowError(title string, err error)
	ShowInfo(title, message string)
}

// Settings holds the parts of the configuration the controller needs per run
type Settings struct {
	RangeA         models.DigitRange
	RangeB         models.DigitRange
	MaxCount       int
	ReferenceCodes []string
}

// MainController connects the view to the generation and export services
type MainController struct {
	generation *services.GenerationService
	export     *services.ExportService
	repository *models.BarcodeRepository
	settings   Settings
	logger     logger.Logger

	view     View
	dispatch func(func())
	run      func(func())

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

// Option configures a MainController
type Option func(*MainController)

// WithDispatcher replaces fyne.Do as the way work is handed to the UI goroutine
func WithDispatcher(dispatch func(func())) Option {
	return func(mc *MainController) {
		mc.dispatch = dispatch
	}
}

// WithRunner replaces the goroutine launcher used for file exports
func WithRunner(run func(func())) Option {
	return func(mc *MainController) {
		mc.run = run
	}
}

// NewMainController creates a new main controller
func NewMainController(
	generation *services.GenerationService,
	export *services.ExportService,
	repository *models.BarcodeRepository,
	settings Settings,
	log logger.Logger,
	opts ...Option,
) *MainController {
	if log == nil {
		log = logger.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	mc := &MainController{
		generation: generation,
		export:     export,
		repository: repository,
		settings:   settings,
		logger:     log,
		dispatch:   fyne.Do,
		run:        func(f func()) { go f() },
		ctx:        ctx,
		cancel:     cancel,
	}
	for _, opt := range opts {
		opt(mc)
	}
	return mc
}

// SetMainView associates the view with this controller and connects its handlers
func (mc *MainController) SetMainView(view View) {
	mc.view = view
	view.SetHandlers(views.Handlers{
		Generate:      mc.StartGeneration,
		ToggleAll:     mc.ToggleAll,
		Select:        mc.SetSelected,
		SaveSelected:  mc.SaveSelected,
		SaveAll:       mc.SaveAll,
		SaveSheet:     mc.SaveSheet,
		GenerateAgain: mc.GenerateAgain,
	})
}

// BuildRequest turns raw form values into a validated generation request
func (mc *MainController) BuildRequest(form views.FormValues) (models.GenerationRequest, error) {
	countA, err := parseCount("range A", form.CountA, mc.settings.MaxCount)
	if err != nil {
		return models.GenerationRequest{}, err
	}
	countB, err := parseCount("range B", form.CountB, mc.settings.MaxCount)
	if err != nil {
		return models.GenerationRequest{}, err
	}
	symbology, err := models.ParseSymbology(form.Symbology)
	if err != nil {
		return models.GenerationRequest{}, err
	}

	req := models.GenerationRequest{
		CountA:         countA,
		CountB:         countB,
		RangeA:         mc.settings.RangeA,
		RangeB:         mc.settings.RangeB,
		Symbology:      symbology,
		ReferenceCodes: mc.settings.ReferenceCodes,
		Directory:      form.Directory,
	}
	if err := req.Validate(); err != nil {
		return models.GenerationRequest{}, err
	}
	if err := services.CheckDirectory(form.Directory); err != nil {
		return models.GenerationRequest{}, err
	}
	return req, nil
}

func parseCount(name, text string, limit int) (int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(text)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a whole number, got %q", models.ErrInvalidCount, name, text)
	}
	if limit > 0 && n > limit {
		return 0, fmt.Errorf("%w: %s is limited to %d", models.ErrInvalidCount, name, limit)
	}
	return n, nil
}

// StartGeneration validates the form and starts a batch in the background.
// It must be called on the UI goroutine.
func (mc *MainController) StartGeneration(form views.FormValues) {
	req, err := mc.BuildRequest(form)
	if err != nil {
		mc.handleError("Invalid input", err)
		return
	}

	err = mc.generation.Start(mc.ctx, req,
		func(percent int) {
			status := progressStatus(percent, mc.generation.Remaining())
			mc.dispatch(func() {
				mc.view.UpdateProgress(percent)
				mc.view.UpdateStatus(status)
			})
		},
		func(batch *models.Batch, err error) {
			mc.dispatch(func() { mc.finishGeneration(batch, err) })
		},
	)
	if errors.Is(err, services.ErrGenerationActive) {
		mc.view.UpdateStatus("Generation already running")
		return
	}
	if err != nil {
		mc.handleError("Invalid input", err)
		return
	}

	mc.view.SetGenerating(true)
	mc.view.UpdateStatus(fmt.Sprintf("Generating %d %s barcodes...", req.Total(), req.Symbology))
}

// progressStatus reports a percentage with a rough time left once one is known
func progressStatus(percent int, remaining time.Duration) string {
	if percent >= 100 || remaining < time.Second {
		return fmt.Sprintf("Generating... %d%%", percent)
	}
	return fmt.Sprintf("Generating... %d%% (about %s left)", percent, remaining.Round(time.Second))
}

func (mc *MainController) finishGeneration(batch *models.Batch, err error) {
	mc.view.SetGenerating(false)

	if err != nil {
		if errors.Is(err, context.Canceled) {
			mc.view.UpdateStatus("Generation cancelled")
			return
		}
		mc.handleError("Generation failed", err)
		return
	}

	mc.generation.Accept(batch)
	mc.view.ShowRecords(mc.repository.Records())
	mc.refreshSelection()
	mc.view.UpdateStatus(fmt.Sprintf("Generated %d barcodes in %s", len(batch.Records), batch.Duration().Round(time.Millisecond)))
	mc.view.ShowInfo("Generation complete", fmt.Sprintf("%d barcodes generated.", len(batch.Records)))
}

// ToggleAll selects every record unless all are already selected
func (mc *MainController) ToggleAll() {
	mc.repository.ToggleAll()
	mc.refreshSelection()
}

// SetSelected records a single checkbox change
func (mc *MainController) SetSelected(index int, selected bool) {
	mc.repository.SetSelected(index, selected)
	mc.refreshSelection()
}

func (mc *MainController) refreshSelection() {
	mc.view.UpdateSelection(mc.repository.Selection(), mc.repository.ToggleLabel())
}

// SaveSelected writes the selected records to directory in the background
func (mc *MainController) SaveSelected(directory, prefix string) {
	mc.save("selected", func() ([]string, error) {
		return mc.export.ExportSelected(directory, prefix)
	})
}

// SaveAll writes every record to directory in the background
func (mc *MainController) SaveAll(directory, prefix string) {
	mc.save("all", func() ([]string, error) {
		return mc.export.ExportAll(directory, prefix)
	})
}

func (mc *MainController) save(scope string, export func() ([]string, error)) {
	mc.view.UpdateStatus("Saving...")
	mc.run(func() {
		paths, err := export()
		mc.dispatch(func() {
			if err != nil {
				if len(paths) > 0 {
					mc.view.UpdateStatus(fmt.Sprintf("Saved %d files before the failure", len(paths)))
				}
				mc.handleError("Save failed", err)
				return
			}
			mc.logger.Info("MainController", "barcodes saved", map[string]interface{}{
				"scope": scope,
				"files": len(paths),
			})
			mc.view.UpdateStatus(fmt.Sprintf("Saved %d files", len(paths)))
			mc.view.ShowInfo("Saved", fmt.Sprintf("%d barcode images saved.", len(paths)))
		})
	})
}

// SaveSheet writes a PDF contact sheet into directory. The sheet holds the
// selected records, or every record when nothing is selected.
func (mc *MainController) SaveSheet(directory, prefix string) {
	if err := services.CheckDirectory(directory); err != nil {
		mc.handleError("Save failed", err)
		return
	}
	path := filepath.Join(directory, prefix+"sheet.pdf")
	selectedOnly := len(mc.repository.Selected()) > 0

	mc.view.UpdateStatus("Building PDF sheet...")
	mc.run(func() {
		err := mc.export.ExportSheet(path, selectedOnly)
		mc.dispatch(func() {
			if err != nil {
				mc.handleError("Save failed", err)
				return
			}
			mc.view.UpdateStatus("Sheet saved")
			mc.view.ShowInfo("Saved", "Contact sheet written to "+path)
		})
	})
}

// GenerateAgain clears the batch and returns the form to its defaults
func (mc *MainController) GenerateAgain() {
	if mc.generation.IsGenerating() {
		mc.view.UpdateStatus("Generation already running")
		return
	}
	mc.generation.Reset()
	mc.view.ResetForm()
}

// Shutdown cancels any run in flight
func (mc *MainController) Shutdown() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	if mc.cancel != nil {
		mc.cancel()
		mc.cancel = nil
	}
}

func (mc *MainController) handleError(title string, err error) {
	mc.logger.Error("MainController", err, map[string]interface{}{
		"context": title,
	})
	mc.view.ShowError(title, err)
}
