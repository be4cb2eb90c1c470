package models

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords(n int) []BarcodeRecord {
	records := make([]BarcodeRecord, n)
	for i := range records {
		code := fmt.Sprintf("%012d", i)
		records[i] = BarcodeRecord{
			Payload:       NewPayload(1, 2, code),
			ReferenceCode: code,
			Symbology:     Code128,
			Image:         []byte{byte(i)},
		}
	}
	return records
}

func TestSetRecordsResetsSelection(t *testing.T) {
	repo := NewBarcodeRepository()
	records := sampleRecords(4)

	repo.SetRecords(records)
	assert.Equal(t, 4, repo.Len())
	assert.Equal(t, []bool{false, false, false, false}, repo.Selection())

	repo.ToggleAll()
	repo.SetSelected(1, false)
	repo.SetRecords(records)
	assert.Equal(t, []bool{false, false, false, false}, repo.Selection())

	repo.SetRecords(records)
	assert.Equal(t, []bool{false, false, false, false}, repo.Selection())
	assert.Equal(t, records, repo.Records())
}

func TestSetRecordsCopiesInput(t *testing.T) {
	repo := NewBarcodeRepository()
	records := sampleRecords(2)
	repo.SetRecords(records)

	records[0].Payload = "changed"
	got, ok := repo.Record(0)
	require.True(t, ok)
	assert.NotEqual(t, "changed", got.Payload)
}

func TestToggleAll(t *testing.T) {
	repo := NewBarcodeRepository()
	repo.SetRecords(sampleRecords(3))

	repo.ToggleAll()
	assert.Equal(t, []bool{true, true, true}, repo.Selection())
	assert.Equal(t, SelectionAll, repo.SelectionState())

	repo.ToggleAll()
	assert.Equal(t, []bool{false, false, false}, repo.Selection())
	assert.Equal(t, SelectionNone, repo.SelectionState())

	repo.SetSelected(1, true)
	assert.Equal(t, SelectionPartial, repo.SelectionState())
	repo.ToggleAll()
	assert.Equal(t, []bool{true, true, true}, repo.Selection(), "partial selection selects everything")
}

func TestToggleLabel(t *testing.T) {
	repo := NewBarcodeRepository()
	assert.Equal(t, "Select All", repo.ToggleLabel())

	repo.SetRecords(sampleRecords(2))
	assert.Equal(t, "Select All", repo.ToggleLabel())

	repo.SetSelected(0, true)
	assert.Equal(t, "Select All", repo.ToggleLabel())

	repo.SetSelected(1, true)
	assert.Equal(t, "Deselect All", repo.ToggleLabel())
}

func TestSelectedReturnsOriginalIndices(t *testing.T) {
	repo := NewBarcodeRepository()
	repo.SetRecords(sampleRecords(5))
	repo.SetSelected(1, true)
	repo.SetSelected(4, true)
	repo.SetSelected(9, true)
	repo.SetSelected(-1, true)

	assert.Equal(t, []int{1, 4}, repo.Selected())
	assert.True(t, repo.IsSelected(4))
	assert.False(t, repo.IsSelected(9))
}

func TestSetBatchAndClear(t *testing.T) {
	repo := NewBarcodeRepository()
	repo.SetBatch(&Batch{ID: "b-1", Records: sampleRecords(2)})
	assert.Equal(t, "b-1", repo.BatchID())
	assert.Equal(t, 2, repo.Len())

	repo.SetRecords(sampleRecords(1))
	assert.Empty(t, repo.BatchID())

	repo.Clear()
	assert.Zero(t, repo.Len())
	assert.Empty(t, repo.Selected())

	_, ok := repo.Record(0)
	assert.False(t, ok)
}
