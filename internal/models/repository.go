package models

import (
	"sync"
)

// SelectionState summarises the per-record selection flags
type SelectionState int

const (
	SelectionNone SelectionState = iota
	SelectionPartial
	SelectionAll
)

// BarcodeRepository holds the current batch and its selection flags.
// It is mutated from the UI goroutine; the lock makes reads from workers safe.
type BarcodeRepository struct {
	mu       sync.RWMutex
	batchID  string
	records  []BarcodeRecord
	selected []bool
}

// NewBarcodeRepository creates an empty repository
func NewBarcodeRepository() *BarcodeRepository {
	return &BarcodeRepository{}
}

// SetRecords replaces the record list and clears every selection flag
func (r *BarcodeRepository) SetRecords(records []BarcodeRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = make([]BarcodeRecord, len(records))
	copy(r.records, records)
	r.selected = make([]bool, len(records))
	r.batchID = ""
}

// SetBatch stores a completed batch
func (r *BarcodeRepository) SetBatch(batch *Batch) {
	if batch == nil {
		r.Clear()
		return
	}
	r.SetRecords(batch.Records)

	r.mu.Lock()
	r.batchID = batch.ID
	r.mu.Unlock()
}

// BatchID returns the ID of the stored batch, if it came from SetBatch
func (r *BarcodeRepository) BatchID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.batchID
}

// Records returns a copy of the stored records
func (r *BarcodeRepository) Records() []BarcodeRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]BarcodeRecord, len(r.records))
	copy(out, r.records)
	return out
}

// Record returns the record at index i
func (r *BarcodeRepository) Record(i int) (BarcodeRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i < 0 || i >= len(r.records) {
		return BarcodeRecord{}, false
	}
	return r.records[i], true
}

// Len returns the number of stored records
func (r *BarcodeRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// SetSelected sets the flag of a single record. Out-of-range indices are ignored.
func (r *BarcodeRepository) SetSelected(i int, selected bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i < 0 || i >= len(r.selected) {
		return
	}
	r.selected[i] = selected
}

// IsSelected reports the flag of record i
func (r *BarcodeRepository) IsSelected(i int) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i < 0 || i >= len(r.selected) {
		return false
	}
	return r.selected[i]
}

// ToggleAll deselects everything when every record is selected, and
// selects everything otherwise. It never inverts a partial selection.
func (r *BarcodeRepository) ToggleAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	target := r.stateLocked() != SelectionAll
	for i := range r.selected {
		r.selected[i] = target
	}
}

// Selected returns the original indices of the selected records, in order
func (r *BarcodeRepository) Selected() []int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	indices := make([]int, 0, len(r.selected))
	for i, ok := range r.selected {
		if ok {
			indices = append(indices, i)
		}
	}
	return indices
}

// Selection returns a copy of the selection flags
func (r *BarcodeRepository) Selection() []bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]bool, len(r.selected))
	copy(out, r.selected)
	return out
}

// SelectionState derives none/partial/all from the flags. An empty list counts as all.
func (r *BarcodeRepository) SelectionState() SelectionState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stateLocked()
}

func (r *BarcodeRepository) stateLocked() SelectionState {
	checked := 0
	for _, ok := range r.selected {
		if ok {
			checked++
		}
	}

	switch {
	case checked == len(r.selected):
		return SelectionAll
	case checked == 0:
		return SelectionNone
	default:
		return SelectionPartial
	}
}

// ToggleLabel returns the text for the select-all button
func (r *BarcodeRepository) ToggleLabel() string {
	if r.Len() > 0 && r.SelectionState() == SelectionAll {
		return "Deselect All"
	}
	return "Select All"
}

// Clear drops all records and flags
func (r *BarcodeRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = nil
	r.selected = nil
	r.batchID = ""
}

// Shutdown releases all records
func (r *BarcodeRepository) Shutdown() {
	r.Clear()
}
