// Package generator produces batches of randomized barcode records.
//
// A request is walked as an ordered list of segments, each pairing a record
// count with the digit range used for that run of records. Progress is the
// floor of 100 * produced / total, so it never decreases and reaches exactly
// 100 on the last record. A batch is all-or-nothing: the first render failure
// (or context cancellation) discards every record produced so far.
package generator

import (
	"context"
	"errors"
	"iter"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"barcode-batcher/internal/logger"
	"barcode-batcher/internal/models"
	"barcode-batcher/internal/render"
)

const (
	component = "Generator"
	// preallocLimit bounds the up-front record slice; larger batches grow by append.
	preallocLimit = 4096
)

var errEmptyImage = errors.New("renderer returned an empty image")

// Step is one produced record together with the progress after producing it
type Step struct {
	Index   int
	Record  models.BarcodeRecord
	Percent int
}

// Generator is not safe for concurrent runs; callers start at most one at a time.
type Generator struct {
	renderer render.Renderer
	rng      *rand.Rand
	logger   logger.Logger
	newID    func() string
	now      func() time.Time
}

// Option configures a Generator
type Option func(*Generator)

// WithRand injects the random source, e.g. a seeded one for reproducible batches
func WithRand(rng *rand.Rand) Option {
	return func(g *Generator) {
		if rng != nil {
			g.rng = rng
		}
	}
}

// WithSeed seeds a PCG source for reproducible batches
func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// WithLogger sets the logger
func WithLogger(l logger.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// New creates a generator around a renderer
func New(renderer render.Renderer, opts ...Option) *Generator {
	g := &Generator{
		renderer: renderer,
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		logger:   logger.NewNop(),
		newID:    uuid.NewString,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Percent returns floor(100 * produced / total). total must be positive.
func Percent(produced, total int) int {
	return 100 * produced / total
}

// Steps lazily produces the records of req in order. Validation errors are
// yielded before any record; a render failure or cancellation is yielded as
// the final element.
func (g *Generator) Steps(ctx context.Context, req models.GenerationRequest) iter.Seq2[Step, error] {
	return func(yield func(Step, error) bool) {
		if err := req.Validate(); err != nil {
			yield(Step{}, err)
			return
		}

		total := req.Total()
		produced := 0
		for _, seg := range req.Segments() {
			for i := 0; i < seg.Count; i++ {
				if err := ctx.Err(); err != nil {
					yield(Step{}, err)
					return
				}

				record, err := g.produce(req.Symbology, seg.Range, req.ReferenceCodes)
				if err != nil {
					yield(Step{}, err)
					return
				}

				produced++
				step := Step{Index: produced - 1, Record: record, Percent: Percent(produced, total)}
				if !yield(step, nil) {
					return
				}
			}
		}
	}
}

// Run produces the whole batch synchronously. onProgress, when set, receives
// every progress value in order. On failure no records are returned.
func (g *Generator) Run(ctx context.Context, req models.GenerationRequest, onProgress func(int)) (*models.Batch, error) {
	if err := req.Validate(); err != nil {
		g.logger.Warning(component, "request rejected", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	id := req.BatchID
	if id == "" {
		id = g.newID()
	}
	batch := &models.Batch{
		ID:        id,
		Symbology: req.Symbology,
		StartedAt: g.now(),
	}
	fields := map[string]interface{}{
		"batch_id":  batch.ID,
		"symbology": req.Symbology.String(),
		"total":     req.Total(),
	}
	g.logger.Info(component, "batch started", fields)

	records := make([]models.BarcodeRecord, 0, min(req.Total(), preallocLimit))
	for step, err := range g.Steps(ctx, req) {
		if err != nil {
			g.logger.Error(component, err, map[string]interface{}{
				"batch_id": batch.ID,
				"produced": len(records),
			})
			return nil, err
		}
		records = append(records, step.Record)
		if onProgress != nil {
			onProgress(step.Percent)
		}
	}

	batch.Records = records
	batch.CompletedAt = g.now()

	g.logger.Info(component, "batch complete", map[string]interface{}{
		"batch_id":    batch.ID,
		"records":     len(records),
		"duration_ms": batch.Duration().Milliseconds(),
	})
	return batch, nil
}

func (g *Generator) produce(symbology models.Symbology, digits models.DigitRange, codes []string) (models.BarcodeRecord, error) {
	first := g.digit(digits)
	second := g.digit(digits)
	code := codes[g.rng.IntN(len(codes))]
	payload := models.NewPayload(first, second, code)

	image, err := g.renderer.Render(symbology, payload)
	if err == nil && len(image) == 0 {
		err = errEmptyImage
	}
	if err != nil {
		return models.BarcodeRecord{}, &models.RenderFailure{
			Payload:   payload,
			Symbology: symbology,
			Cause:     err,
		}
	}

	return models.BarcodeRecord{
		Payload:       payload,
		ReferenceCode: code,
		Symbology:     symbology,
		Image:         image,
	}, nil
}

func (g *Generator) digit(r models.DigitRange) int {
	return r.Min + g.rng.IntN(r.Max-r.Min+1)
}
