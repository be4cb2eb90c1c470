package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"barcode-batcher/internal/generator"
	"barcode-batcher/internal/logger"
	"barcode-batcher/internal/models"
)

// ErrGenerationActive is returned when a run is requested while another is in flight
var ErrGenerationActive = errors.New("generation already in progress")

// GenerationService runs the generator against the shared repositories
type GenerationService struct {
	generator  *generator.Generator
	repository *models.BarcodeRepository
	stateRepo  *models.GenerationStateRepository
	thumbnails *ThumbnailService
	logger     logger.Logger
}

// NewGenerationService creates a new generation service
func NewGenerationService(
	gen *generator.Generator,
	repo *models.BarcodeRepository,
	stateRepo *models.GenerationStateRepository,
	thumbnails *ThumbnailService,
	log logger.Logger,
) *GenerationService {
	if log == nil {
		log = logger.NewNop()
	}
	return &GenerationService{
		generator:  gen,
		repository: repo,
		stateRepo:  stateRepo,
		thumbnails: thumbnails,
		logger:     log,
	}
}

// Start launches a run. onProgress receives every percentage in order and
// onDone receives the outcome exactly once; both are called from a worker goroutine.
// The batch is not stored; pass it to Accept from the goroutine that owns the view.
func (gs *GenerationService) Start(
	ctx context.Context,
	req models.GenerationRequest,
	onProgress func(int),
	onDone func(*models.Batch, error),
) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if req.BatchID == "" {
		req.BatchID = uuid.NewString()
	}
	if !gs.stateRepo.TryStart(req.BatchID, req.Symbology, req.Total()) {
		return ErrGenerationActive
	}

	job := gs.generator.Start(ctx, req)
	go func() {
		for percent := range job.Progress() {
			gs.stateRepo.UpdateProgress(percent)
			if onProgress != nil {
				onProgress(percent)
			}
		}

		result := <-job.Done()
		gs.stateRepo.Complete()
		if onDone != nil {
			onDone(result.Batch, result.Err)
		}
	}()
	return nil
}

// Accept replaces the repository contents with batch, clearing every selection
func (gs *GenerationService) Accept(batch *models.Batch) {
	if gs.thumbnails != nil {
		gs.thumbnails.Clear()
	}
	gs.repository.SetBatch(batch)
}

// IsGenerating reports whether a run is in flight
func (gs *GenerationService) IsGenerating() bool {
	return gs.stateRepo.IsGenerating()
}

// Remaining estimates the time left in the current run from its progress so far
func (gs *GenerationService) Remaining() time.Duration {
	return gs.stateRepo.GetState().Remaining(time.Now())
}

// Reset clears the repository and generation state for a fresh run
func (gs *GenerationService) Reset() {
	gs.repository.Clear()
	gs.stateRepo.Reset()
	if gs.thumbnails != nil {
		gs.thumbnails.Clear()
	}
}
