package generator

import (
	"context"

	"barcode-batcher/internal/models"
)

// Result is the terminal outcome of a background run
type Result struct {
	Batch *models.Batch
	Err   error
}

// Job is a generation running on its own goroutine. Progress values arrive
// in order on Progress, which is closed before the single Result is sent on Done.
type Job struct {
	progress chan int
	done     chan Result
}

// Progress returns the ordered progress stream
func (j *Job) Progress() <-chan int {
	return j.progress
}

// Done delivers exactly one Result
func (j *Job) Done() <-chan Result {
	return j.done
}

// Wait discards progress and blocks for the result
func (j *Job) Wait() Result {
	for range j.progress {
	}
	return <-j.done
}

// progressBuffer is the most progress values a Job holds for a slow consumer
const progressBuffer = 1024

// Start runs req in the background. Progress is buffered for up to
// progressBuffer records; past that the worker waits until Progress is drained,
// which Wait does.
func (g *Generator) Start(ctx context.Context, req models.GenerationRequest) *Job {
	size := 0
	if req.Validate() == nil {
		size = min(req.Total(), progressBuffer)
	}
	job := &Job{
		progress: make(chan int, size),
		done:     make(chan Result, 1),
	}

	go func() {
		batch, err := g.Run(ctx, req, func(percent int) {
			job.progress <- percent
		})
		close(job.progress)
		job.done <- Result{Batch: batch, Err: err}
		close(job.done)
	}()

	return job
}
