package views

import (
	"image"
	"testing"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barcode-batcher/internal/models"
	"barcode-batcher/internal/views/components"
)

type stubThumbnails struct{}

func (stubThumbnails) Thumbnail(string, []byte) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, 8, 4)), nil
}

func (stubThumbnails) Size() int { return 8 }

func newTestView(t *testing.T) *MainView {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)

	w := test.NewWindow(nil)
	t.Cleanup(w.Close)

	return NewMainView(w, Options{
		Thumbnails: stubThumbnails{},
		Columns:    2,
		Form: components.FormDefaults{
			Symbologies: []string{"code128", "qr"},
			Symbology:   "code128",
			Prefix:      "barcode_",
		},
	})
}

// enabledButtons maps each action bar button label to whether it is clickable
func enabledButtons(t *testing.T, mv *MainView) map[string]bool {
	t.Helper()
	out := map[string]bool{}
	for _, obj := range mv.actions.GetContainer().Objects {
		if b, ok := obj.(*widget.Button); ok {
			out[b.Text] = !b.Disabled()
		}
	}
	require.Len(t, out, 5)
	return out
}

func testRecords() []models.BarcodeRecord {
	return []models.BarcodeRecord{
		{Payload: "$$12400638133393", ReferenceCode: "400638133393", Symbology: models.Code128, Image: []byte("a")},
		{Payload: "$$75400638133393", ReferenceCode: "400638133393", Symbology: models.Code128, Image: []byte("b")},
	}
}

func TestActionBarStartsWithOnlyGenerateAgain(t *testing.T) {
	mv := newTestView(t)

	assert.Equal(t, map[string]bool{
		"Select All":     false,
		"Save Selected":  false,
		"Save All":       false,
		"Save PDF Sheet": false,
		"Generate Again": true,
	}, enabledButtons(t, mv))
}

func TestActionsReturnAfterInterruptedRun(t *testing.T) {
	mv := newTestView(t)
	mv.ShowRecords(testRecords())

	mv.SetGenerating(true)
	for label, enabled := range enabledButtons(t, mv) {
		assert.False(t, enabled, label)
	}

	// a failed or cancelled run keeps the previous batch on screen
	mv.SetGenerating(false)
	for label, enabled := range enabledButtons(t, mv) {
		assert.True(t, enabled, label)
	}
}

func TestIdleWithoutBatchKeepsOnlyGenerateAgain(t *testing.T) {
	mv := newTestView(t)

	mv.SetGenerating(true)
	mv.SetGenerating(false)

	buttons := enabledButtons(t, mv)
	assert.True(t, buttons["Generate Again"])
	assert.False(t, buttons["Save All"])
	assert.False(t, buttons["Select All"])
}

func TestResetFormDisablesBatchActions(t *testing.T) {
	mv := newTestView(t)
	mv.ShowRecords(testRecords())
	require.True(t, enabledButtons(t, mv)["Save All"])

	mv.ResetForm()

	buttons := enabledButtons(t, mv)
	assert.False(t, buttons["Save All"])
	assert.False(t, buttons["Save Selected"])
	assert.True(t, buttons["Generate Again"])
}
