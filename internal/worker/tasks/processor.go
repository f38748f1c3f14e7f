package tasks

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"modelreviews/internal/config"
	"modelreviews/internal/models"
	"modelreviews/internal/queue"
)

const sweepBatch = 500

type ReviewModerator interface {
	MarkNSFW(ctx context.Context, id int64) (bool, error)
	UpdateStatus(ctx context.Context, id int64, status models.ReviewStatus) (bool, error)
}

type ReportLedger interface {
	Tally(ctx context.Context, reviewID int64) (models.ReportTally, error)
	MarkActioned(ctx context.Context, reviewID int64) error
	ReviewsWithOpenReports(ctx context.Context, limit int) ([]int64, error)
}

type Invalidator interface {
	Invalidate(ctx context.Context, modelID int64) error
}

type ObjectRemover interface {
	Remove(ctx context.Context, refs []string) error
}

type Enqueuer interface {
	Enqueue(ctx context.Context, task queue.Task) error
}

// Processor applies moderation outcomes: it escalates reported reviews once
// report counts cross the configured thresholds and purges the images of
// deleted reviews.
type Processor struct {
	reviews ReviewModerator
	reports ReportLedger
	cache   Invalidator
	objects ObjectRemover
	queue   Enqueuer
	cfg     config.ModerationConfig
	logger  zerolog.Logger
}

func NewProcessor(reviews ReviewModerator, reports ReportLedger, cache Invalidator, objects ObjectRemover, queue Enqueuer, cfg config.ModerationConfig, logger zerolog.Logger) *Processor {
	return &Processor{
		reviews: reviews,
		reports: reports,
		cache:   cache,
		objects: objects,
		queue:   queue,
		cfg:     cfg,
		logger:  logger,
	}
}

func (p *Processor) Handle(ctx context.Context, task queue.Task) error {
	switch task.Type {
	case queue.TaskReviewReported:
		return p.handleReported(ctx, task)
	case queue.TaskPurgeImages:
		return p.handlePurge(ctx, task)
	case queue.TaskReportsSweep:
		return p.handleSweep(ctx)
	default:
		p.logger.Warn().Str("type", string(task.Type)).Msg("unknown task type")
		return nil
	}
}

func (p *Processor) handleReported(ctx context.Context, task queue.Task) error {
	tally, err := p.reports.Tally(ctx, task.ReviewID)
	if err != nil {
		return fmt.Errorf("tally reports: %w", err)
	}
	if tally.Total == 0 {
		return nil
	}
	modelID := tally.ModelID
	if modelID == 0 {
		modelID = task.ModelID
	}

	changed := false
	if p.cfg.NSFWThreshold > 0 && tally.ByReason[models.ReportReasonNSFW] >= p.cfg.NSFWThreshold {
		updated, err := p.reviews.MarkNSFW(ctx, task.ReviewID)
		if err != nil {
			return fmt.Errorf("mark nsfw: %w", err)
		}
		changed = changed || updated
	}

	if p.cfg.HideThreshold > 0 && tally.Total >= p.cfg.HideThreshold {
		updated, err := p.reviews.UpdateStatus(ctx, task.ReviewID, models.ReviewStatusHidden)
		if err != nil {
			return fmt.Errorf("hide review: %w", err)
		}
		if err := p.reports.MarkActioned(ctx, task.ReviewID); err != nil {
			return fmt.Errorf("mark reports actioned: %w", err)
		}
		changed = changed || updated
	}

	if !changed {
		return nil
	}

	if err := p.cache.Invalidate(ctx, modelID); err != nil {
		p.logger.Warn().Err(err).Int64("model_id", modelID).Msg("review cache invalidate failed")
	}
	p.logger.Info().
		Int64("review_id", task.ReviewID).
		Int64("model_id", modelID).
		Int("reports", tally.Total).
		Msg("review escalated")
	return nil
}

func (p *Processor) handlePurge(ctx context.Context, task queue.Task) error {
	if len(task.Objects) == 0 {
		return nil
	}
	if err := p.objects.Remove(ctx, task.Objects); err != nil {
		return fmt.Errorf("purge images: %w", err)
	}
	p.logger.Info().
		Int64("review_id", task.ReviewID).
		Int("objects", len(task.Objects)).
		Msg("review images purged")
	return nil
}

func (p *Processor) handleSweep(ctx context.Context) error {
	ids, err := p.reports.ReviewsWithOpenReports(ctx, sweepBatch)
	if err != nil {
		return fmt.Errorf("list open reports: %w", err)
	}
	for _, id := range ids {
		if err := p.queue.Enqueue(ctx, queue.Task{Type: queue.TaskReviewReported, ReviewID: id}); err != nil {
			return fmt.Errorf("enqueue review %d: %w", id, err)
		}
	}
	p.logger.Debug().Int("reviews", len(ids)).Msg("report sweep done")
	return nil
}
