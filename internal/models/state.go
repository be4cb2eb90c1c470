package models

import (
	"sync"
	"time"
)

// GenerationState represents the current state of batch generation
type GenerationState struct {
	IsActive          bool
	BatchID           string
	Symbology         Symbology
	Total             int
	Percent           int
	StartTime         time.Time
	EstimatedDuration time.Duration
}

// Remaining estimates how much of the run is left at now.
// It is zero when the run is idle or has not reported progress yet.
func (s GenerationState) Remaining(now time.Time) time.Duration {
	if !s.IsActive || s.EstimatedDuration <= 0 {
		return 0
	}
	return max(s.EstimatedDuration-now.Sub(s.StartTime), 0)
}

// GenerationStateRepository tracks the single in-flight generation run
type GenerationStateRepository struct {
	mu    sync.RWMutex
	state GenerationState
}

// NewGenerationStateRepository creates an idle state repository
func NewGenerationStateRepository() *GenerationStateRepository {
	return &GenerationStateRepository{}
}

// GetState returns a copy of the current state
func (gsr *GenerationStateRepository) GetState() GenerationState {
	gsr.mu.RLock()
	defer gsr.mu.RUnlock()
	return gsr.state
}

// TryStart marks a run as active. It returns false when a run is already in flight.
func (gsr *GenerationStateRepository) TryStart(batchID string, symbology Symbology, total int) bool {
	gsr.mu.Lock()
	defer gsr.mu.Unlock()

	if gsr.state.IsActive {
		return false
	}

	gsr.state = GenerationState{
		IsActive:  true,
		BatchID:   batchID,
		Symbology: symbology,
		Total:     total,
		StartTime: time.Now(),
	}
	return true
}

// UpdateProgress records the latest progress percentage
func (gsr *GenerationStateRepository) UpdateProgress(percent int) {
	gsr.mu.Lock()
	defer gsr.mu.Unlock()

	if !gsr.state.IsActive {
		return
	}

	gsr.state.Percent = percent

	// total duration extrapolated from progress so far
	if percent > 0 {
		elapsed := time.Since(gsr.state.StartTime)
		gsr.state.EstimatedDuration = time.Duration(float64(elapsed) * 100 / float64(percent))
	}
}

// Complete marks the active run as finished
func (gsr *GenerationStateRepository) Complete() {
	gsr.mu.Lock()
	defer gsr.mu.Unlock()

	gsr.state.IsActive = false
}

// IsGenerating returns true if a run is currently active
func (gsr *GenerationStateRepository) IsGenerating() bool {
	gsr.mu.RLock()
	defer gsr.mu.RUnlock()
	return gsr.state.IsActive
}

// Reset returns the repository to idle
func (gsr *GenerationStateRepository) Reset() {
	gsr.mu.Lock()
	defer gsr.mu.Unlock()
	gsr.state = GenerationState{}
}
