package services

import (
	"fmt"
	"os"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"barcode-batcher/internal/models"
)

const (
	sheetColumns    = 4
	sheetGridSize   = 12
	sheetImageRow   = 30
	sheetCaptionRow = 8
)

// BuildSheet renders records into a PDF contact sheet, four per row
func BuildSheet(title string, records []models.BarcodeRecord) ([]byte, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("no records to place on sheet")
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 7}).
		WithTitle(title, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(text.NewRow(10, title, props.Text{
		Style: fontstyle.Bold,
		Size:  12,
		Align: align.Center,
	}))

	for start := 0; start < len(records); start += sheetColumns {
		end := min(start+sheetColumns, len(records))
		m.AddRows(sheetRows(records[start:end])...)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate sheet: %w", err)
	}
	return doc.GetBytes(), nil
}

func sheetRows(records []models.BarcodeRecord) []core.Row {
	size := sheetGridSize / sheetColumns

	images := make([]core.Col, 0, sheetColumns)
	captions := make([]core.Col, 0, sheetColumns)
	for _, record := range records {
		images = append(images, col.New(size).Add(
			image.NewFromBytes(record.Image, extension.Png, props.Rect{
				Percent: 90,
				Center:  true,
			}),
		))
		captions = append(captions, col.New(size).Add(
			text.New(record.Payload, props.Text{Size: 6, Align: align.Center}),
			text.New("EAN: "+record.ReferenceCode, props.Text{Size: 6, Align: align.Center, Top: 3}),
		))
	}
	for len(images) < sheetColumns {
		images = append(images, col.New(size))
		captions = append(captions, col.New(size))
	}

	return []core.Row{
		row.New(sheetImageRow).Add(images...),
		row.New(sheetCaptionRow).Add(captions...),
	}
}

// ExportSheet writes a contact sheet of the selected records, or of all
// records when selectedOnly is false, to path
func (es *ExportService) ExportSheet(path string, selectedOnly bool) error {
	var records []models.BarcodeRecord
	if selectedOnly {
		for _, i := range es.repository.Selected() {
			if record, ok := es.repository.Record(i); ok {
				records = append(records, record)
			}
		}
	} else {
		records = es.repository.Records()
	}

	title := fmt.Sprintf("Barcode batch %s", time.Now().Format("2006-01-02 15:04"))
	if id := es.repository.BatchID(); id != "" {
		title += " (" + id[:min(8, len(id))] + ")"
	}

	data, err := BuildSheet(title, records)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		failure := &models.IOFailure{Path: path, Cause: err}
		es.logger.Error("ExportService", failure, nil)
		return failure
	}

	es.logger.Info("ExportService", "sheet written", map[string]interface{}{
		"path":    path,
		"records": len(records),
	})
	return nil
}
