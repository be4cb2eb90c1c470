package controllers

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barcode-batcher/internal/generator"
	"barcode-batcher/internal/models"
	"barcode-batcher/internal/services"
	"barcode-batcher/internal/views"
)

type fakeView struct {
	handlers   views.Handlers
	generating bool
	progress   []int
	records    []models.BarcodeRecord
	selection  []bool
	label      string
	status     string
	statuses   []string
	errs       []error
	infos      []string
	resets     int

	settled chan struct{}
}

func newFakeView() *fakeView {
	return &fakeView{settled: make(chan struct{}, 16)}
}

func (v *fakeView) SetHandlers(h views.Handlers)         { v.handlers = h }
func (v *fakeView) SetGenerating(active bool)            { v.generating = active }
func (v *fakeView) UpdateProgress(percent int)           { v.progress = append(v.progress, percent) }
func (v *fakeView) ShowRecords(r []models.BarcodeRecord) { v.records = r }
func (v *fakeView) ResetForm()                           { v.resets++ }

func (v *fakeView) UpdateStatus(status string) {
	v.status = status
	v.statuses = append(v.statuses, status)
}

func (v *fakeView) UpdateSelection(selection []bool, label string) {
	v.selection = selection
	v.label = label
}

func (v *fakeView) ShowError(_ string, err error) {
	v.errs = append(v.errs, err)
	v.settled <- struct{}{}
}

func (v *fakeView) ShowInfo(title, _ string) {
	v.infos = append(v.infos, title)
	v.settled <- struct{}{}
}

type renderFunc func(models.Symbology, string) ([]byte, error)

func (f renderFunc) Render(s models.Symbology, p string) ([]byte, error) { return f(s, p) }

type harness struct {
	controller *MainController
	view       *fakeView
	repo       *models.BarcodeRepository
	ui         sync.Mutex
}

func newHarness(t *testing.T, r renderFunc) *harness {
	t.Helper()
	h := &harness{view: newFakeView(), repo: models.NewBarcodeRepository()}

	gen := generator.New(r, generator.WithSeed(3))
	generation := services.NewGenerationService(gen, h.repo, models.NewGenerationStateRepository(), nil, nil)
	export := services.NewExportService(h.repo, nil)

	h.controller = NewMainController(generation, export, h.repo, Settings{
		RangeA:         models.DigitRange{Min: 1, Max: 5},
		RangeB:         models.DigitRange{Min: 6, Max: 9},
		MaxCount:       100,
		ReferenceCodes: []string{"400638133393", "501234567890"},
	}, nil,
		WithDispatcher(h.onUI),
		WithRunner(func(f func()) { go f() }),
	)
	h.controller.SetMainView(h.view)
	t.Cleanup(h.controller.Shutdown)
	return h
}

func (h *harness) onUI(f func()) {
	h.ui.Lock()
	defer h.ui.Unlock()
	f()
}

func (h *harness) waitSettled(t *testing.T) {
	t.Helper()
	select {
	case <-h.view.settled:
	case <-time.After(5 * time.Second):
		t.Fatal("controller did not report a result")
	}
}

func okRenderer(_ models.Symbology, payload string) ([]byte, error) {
	return []byte(payload), nil
}

func form(dir, a, b string) views.FormValues {
	return views.FormValues{CountA: a, CountB: b, Symbology: "code128", Directory: dir, Prefix: "barcode_"}
}

func TestSetMainViewConnectsHandlers(t *testing.T) {
	h := newHarness(t, okRenderer)
	assert.NotNil(t, h.view.handlers.Generate)
	assert.NotNil(t, h.view.handlers.ToggleAll)
	assert.NotNil(t, h.view.handlers.Select)
	assert.NotNil(t, h.view.handlers.SaveSelected)
	assert.NotNil(t, h.view.handlers.SaveAll)
	assert.NotNil(t, h.view.handlers.SaveSheet)
	assert.NotNil(t, h.view.handlers.GenerateAgain)
}

func TestBuildRequest(t *testing.T) {
	h := newHarness(t, okRenderer)
	dir := t.TempDir()

	req, err := h.controller.BuildRequest(form(dir, " 2 ", ""))
	require.NoError(t, err)
	assert.Equal(t, 2, req.CountA)
	assert.Equal(t, 0, req.CountB)
	assert.Equal(t, models.Code128, req.Symbology)
	assert.Equal(t, dir, req.Directory)

	tests := []struct {
		name string
		form views.FormValues
		want error
	}{
		{"both empty", form(dir, "", "0"), models.ErrEmptyRequest},
		{"not a number", form(dir, "two", "1"), models.ErrInvalidCount},
		{"negative", form(dir, "-1", "1"), models.ErrInvalidCount},
		{"over limit", form(dir, "101", "0"), models.ErrInvalidCount},
		{"no directory", form("", "1", "0"), models.ErrMissingDirectory},
		{"bad symbology", views.FormValues{CountA: "1", Symbology: "pdf417", Directory: dir}, models.ErrUnknownSymbology},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.controller.BuildRequest(tt.form)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestStartGenerationShowsBatch(t *testing.T) {
	h := newHarness(t, okRenderer)

	h.onUI(func() { h.controller.StartGeneration(form(t.TempDir(), "2", "1")) })
	h.waitSettled(t)

	h.onUI(func() {
		assert.Empty(t, h.view.errs)
		assert.Equal(t, []string{"Generation complete"}, h.view.infos)
		assert.Equal(t, []int{33, 66, 100}, h.view.progress)
		assert.Contains(t, h.view.statuses, "Generating... 100%")
		assert.Len(t, h.view.records, 3)
		assert.Equal(t, []bool{false, false, false}, h.view.selection)
		assert.Equal(t, "Select All", h.view.label)
		assert.False(t, h.view.generating)
	})
	assert.Equal(t, 3, h.repo.Len())
}

func TestProgressStatus(t *testing.T) {
	tests := []struct {
		percent   int
		remaining time.Duration
		want      string
	}{
		{0, 0, "Generating... 0%"},
		{40, 300 * time.Millisecond, "Generating... 40%"},
		{40, 2600 * time.Millisecond, "Generating... 40% (about 3s left)"},
		{90, 90 * time.Second, "Generating... 90% (about 1m30s left)"},
		{100, 5 * time.Second, "Generating... 100%"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, progressStatus(tt.percent, tt.remaining))
	}
}

func TestStartGenerationInvalidInputShowsError(t *testing.T) {
	h := newHarness(t, okRenderer)

	h.onUI(func() { h.controller.StartGeneration(form("", "1", "1")) })
	h.waitSettled(t)

	require.Len(t, h.view.errs, 1)
	assert.ErrorIs(t, h.view.errs[0], models.ErrMissingDirectory)
	assert.False(t, h.view.generating)
}

func TestStartGenerationRenderFailureKeepsPreviousBatch(t *testing.T) {
	h := newHarness(t, func(models.Symbology, string) ([]byte, error) {
		return nil, errors.New("printer on fire")
	})
	h.repo.SetRecords([]models.BarcodeRecord{{Payload: "$$11400638133393"}})

	h.onUI(func() { h.controller.StartGeneration(form(t.TempDir(), "3", "0")) })
	h.waitSettled(t)

	h.onUI(func() {
		require.Len(t, h.view.errs, 1)
		var failure *models.RenderFailure
		assert.ErrorAs(t, h.view.errs[0], &failure)
		assert.Nil(t, h.view.records)
	})
	assert.Equal(t, 1, h.repo.Len())
}

func TestSelectionUpdatesLabel(t *testing.T) {
	h := newHarness(t, okRenderer)
	h.repo.SetRecords(make([]models.BarcodeRecord, 2))

	h.controller.SetSelected(0, true)
	assert.Equal(t, []bool{true, false}, h.view.selection)
	assert.Equal(t, "Select All", h.view.label)

	h.controller.ToggleAll()
	assert.Equal(t, []bool{true, true}, h.view.selection)
	assert.Equal(t, "Deselect All", h.view.label)

	h.controller.ToggleAll()
	assert.Equal(t, []bool{false, false}, h.view.selection)
}

func TestSaveSelectedAndAll(t *testing.T) {
	h := newHarness(t, okRenderer)
	dir := t.TempDir()
	h.repo.SetRecords([]models.BarcodeRecord{
		{Payload: "$$12400638133393", Image: []byte("a")},
		{Payload: "$$34501234567890", Image: []byte("b")},
	})
	h.repo.SetSelected(1, true)

	h.controller.SaveSelected(dir, "x_")
	h.waitSettled(t)
	assert.FileExists(t, filepath.Join(dir, "x_2_$$34501234567890.png"))
	assert.NoFileExists(t, filepath.Join(dir, "x_1_$$12400638133393.png"))

	h.controller.SaveAll(dir, "x_")
	h.waitSettled(t)
	assert.FileExists(t, filepath.Join(dir, "x_1_$$12400638133393.png"))

	h.onUI(func() {
		assert.Empty(t, h.view.errs)
		assert.Equal(t, []string{"Saved", "Saved"}, h.view.infos)
		assert.Equal(t, "Saved 2 files", h.view.status)
	})
}

func TestSaveToMissingDirectory(t *testing.T) {
	h := newHarness(t, okRenderer)
	h.repo.SetRecords([]models.BarcodeRecord{{Payload: "$$12400638133393", Image: []byte("a")}})

	h.controller.SaveAll(filepath.Join(t.TempDir(), "gone"), "x_")
	h.waitSettled(t)

	h.onUI(func() {
		require.Len(t, h.view.errs, 1)
		assert.ErrorIs(t, h.view.errs[0], models.ErrMissingDirectory)
	})
}

func TestSaveSheetNeedsDirectory(t *testing.T) {
	h := newHarness(t, okRenderer)

	h.controller.SaveSheet("", "x_")
	require.Len(t, h.view.errs, 1)
	assert.ErrorIs(t, h.view.errs[0], models.ErrMissingDirectory)
}

func TestGenerateAgain(t *testing.T) {
	h := newHarness(t, okRenderer)
	h.repo.SetRecords(make([]models.BarcodeRecord, 3))

	h.controller.GenerateAgain()
	assert.Equal(t, 1, h.view.resets)
	assert.Zero(t, h.repo.Len())
}

func TestShutdownCancelsRun(t *testing.T) {
	release := make(chan struct{})
	h := newHarness(t, func(_ models.Symbology, p string) ([]byte, error) {
		<-release
		return []byte(p), nil
	})

	h.onUI(func() { h.controller.StartGeneration(form(t.TempDir(), "5", "0")) })
	h.controller.Shutdown()
	close(release)

	deadline := time.After(5 * time.Second)
	for {
		var status string
		h.onUI(func() { status = h.view.status })
		if status == "Generation cancelled" {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("status = %q, want cancellation", status)
		case <-time.After(10 * time.Millisecond):
		}
	}
	assert.Zero(t, h.repo.Len())
}
