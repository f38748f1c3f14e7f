package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modelreviews/internal/config"
	"modelreviews/internal/models"
	"modelreviews/internal/queue"
)

type fakeReviews struct {
	nsfw   []int64
	hidden []int64
}

func (f *fakeReviews) MarkNSFW(_ context.Context, id int64) (bool, error) {
	f.nsfw = append(f.nsfw, id)
	return true, nil
}

func (f *fakeReviews) UpdateStatus(_ context.Context, id int64, status models.ReviewStatus) (bool, error) {
	if status == models.ReviewStatusHidden {
		f.hidden = append(f.hidden, id)
	}
	return true, nil
}

type fakeReports struct {
	tally    models.ReportTally
	actioned []int64
	open     []int64
}

func (f *fakeReports) Tally(context.Context, int64) (models.ReportTally, error) {
	return f.tally, nil
}

func (f *fakeReports) MarkActioned(_ context.Context, id int64) error {
	f.actioned = append(f.actioned, id)
	return nil
}

func (f *fakeReports) ReviewsWithOpenReports(context.Context, int) ([]int64, error) {
	return f.open, nil
}

type fakeCache struct{ invalidated []int64 }

func (f *fakeCache) Invalidate(_ context.Context, modelID int64) error {
	f.invalidated = append(f.invalidated, modelID)
	return nil
}

type fakeObjects struct {
	removed []string
	err     error
}

func (f *fakeObjects) Remove(_ context.Context, refs []string) error {
	if f.err != nil {
		return f.err
	}
	f.removed = append(f.removed, refs...)
	return nil
}

type fakeQueue struct{ tasks []queue.Task }

func (f *fakeQueue) Enqueue(_ context.Context, task queue.Task) error {
	f.tasks = append(f.tasks, task)
	return nil
}

type env struct {
	reviews *fakeReviews
	reports *fakeReports
	cache   *fakeCache
	objects *fakeObjects
	queue   *fakeQueue
	p       *Processor
}

func newEnv(tally models.ReportTally) *env {
	e := &env{
		reviews: &fakeReviews{},
		reports: &fakeReports{tally: tally},
		cache:   &fakeCache{},
		objects: &fakeObjects{},
		queue:   &fakeQueue{},
	}
	cfg := config.ModerationConfig{NSFWThreshold: 3, HideThreshold: 5}
	e.p = NewProcessor(e.reviews, e.reports, e.cache, e.objects, e.queue, cfg, zerolog.Nop())
	return e
}

func tally(nsfw, tos int) models.ReportTally {
	return models.ReportTally{
		ReviewID: 7,
		ModelID:  42,
		Total:    nsfw + tos,
		ByReason: map[models.ReportReason]int{
			models.ReportReasonNSFW:         nsfw,
			models.ReportReasonTOSViolation: tos,
		},
	}
}

func TestReported_BelowThresholds(t *testing.T) {
	e := newEnv(tally(2, 1))
	require.NoError(t, e.p.Handle(context.Background(), queue.Task{Type: queue.TaskReviewReported, ReviewID: 7}))

	assert.Empty(t, e.reviews.nsfw)
	assert.Empty(t, e.reviews.hidden)
	assert.Empty(t, e.cache.invalidated)
}

func TestReported_MarksNSFW(t *testing.T) {
	e := newEnv(tally(3, 0))
	require.NoError(t, e.p.Handle(context.Background(), queue.Task{Type: queue.TaskReviewReported, ReviewID: 7}))

	assert.Equal(t, []int64{7}, e.reviews.nsfw)
	assert.Empty(t, e.reviews.hidden)
	assert.Equal(t, []int64{42}, e.cache.invalidated)
}

func TestReported_HidesAndActions(t *testing.T) {
	e := newEnv(tally(1, 4))
	require.NoError(t, e.p.Handle(context.Background(), queue.Task{Type: queue.TaskReviewReported, ReviewID: 7}))

	assert.Empty(t, e.reviews.nsfw)
	assert.Equal(t, []int64{7}, e.reviews.hidden)
	assert.Equal(t, []int64{7}, e.reports.actioned)
	assert.Equal(t, []int64{42}, e.cache.invalidated)
}

func TestPurgeImages(t *testing.T) {
	e := newEnv(models.ReportTally{})
	task := queue.Task{Type: queue.TaskPurgeImages, ReviewID: 7, Objects: []string{"review-images/a.png", "review-images/b.png"}}
	require.NoError(t, e.p.Handle(context.Background(), task))
	assert.Equal(t, task.Objects, e.objects.removed)

	e.objects.err = errors.New("minio down")
	assert.Error(t, e.p.Handle(context.Background(), task))
}

func TestSweepRequeuesOpenReports(t *testing.T) {
	e := newEnv(models.ReportTally{})
	e.reports.open = []int64{7, 9}

	require.NoError(t, e.p.Handle(context.Background(), queue.Task{Type: queue.TaskReportsSweep}))
	require.Len(t, e.queue.tasks, 2)
	assert.Equal(t, queue.Task{Type: queue.TaskReviewReported, ReviewID: 9}, e.queue.tasks[1])
}

func TestUnknownTaskIsDropped(t *testing.T) {
	e := newEnv(models.ReportTally{})
	assert.NoError(t, e.p.Handle(context.Background(), queue.Task{Type: "thumbnail"}))
}
