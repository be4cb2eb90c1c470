package generator

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barcode-batcher/internal/models"
)

func TestStartDeliversProgressThenResult(t *testing.T) {
	job := New(&fakeRenderer{}, WithSeed(5)).Start(context.Background(), exampleRequest(2, 1))

	var progress []int
	for p := range job.Progress() {
		progress = append(progress, p)
	}
	assert.Equal(t, []int{33, 66, 100}, progress)

	res, ok := <-job.Done()
	require.True(t, ok)
	require.NoError(t, res.Err)
	assert.Len(t, res.Batch.Records, 3)

	_, ok = <-job.Done()
	assert.False(t, ok, "done delivers a single result")
}

func TestStartEmptyRequest(t *testing.T) {
	job := New(&fakeRenderer{}).Start(context.Background(), exampleRequest(0, 0))

	res := job.Wait()
	require.ErrorIs(t, res.Err, models.ErrEmptyRequest)
	assert.Nil(t, res.Batch)
}

func TestStartRenderFailure(t *testing.T) {
	req := exampleRequest(4, 0)
	req.ReferenceCodes = []string{"bad"}
	job := New(&fakeRenderer{rejectContaining: "bad"}).Start(context.Background(), req)

	res := job.Wait()
	var failure *models.RenderFailure
	require.ErrorAs(t, res.Err, &failure)
	assert.Nil(t, res.Batch)
}

func TestWaitWithoutReadingProgress(t *testing.T) {
	job := New(&fakeRenderer{}).Start(context.Background(), exampleRequest(50, 50))

	res := job.Wait()
	require.NoError(t, res.Err)
	assert.Len(t, res.Batch.Records, 100)
}

func TestStartRejectsHugeCounts(t *testing.T) {
	for _, req := range []models.GenerationRequest{
		exampleRequest(math.MaxInt, 1),
		exampleRequest(1<<50, 0),
	} {
		job := New(&fakeRenderer{}).Start(context.Background(), req)

		res := job.Wait()
		require.ErrorIs(t, res.Err, models.ErrInvalidCount)
		assert.Nil(t, res.Batch)
	}
}

func TestStartBeyondProgressBuffer(t *testing.T) {
	job := New(&fakeRenderer{}, WithSeed(2)).Start(context.Background(), exampleRequest(progressBuffer+10, 0))

	var last, count int
	for p := range job.Progress() {
		require.GreaterOrEqual(t, p, last)
		last = p
		count++
	}
	assert.Equal(t, progressBuffer+10, count)
	assert.Equal(t, 100, last)

	res := <-job.Done()
	require.NoError(t, res.Err)
	assert.Len(t, res.Batch.Records, progressBuffer+10)
}
