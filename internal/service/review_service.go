package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"modelreviews/internal/models"
	"modelreviews/internal/queue"
	"modelreviews/internal/repository"
	"modelreviews/internal/storage"
)

var (
	ErrForbidden     = errors.New("forbidden")
	ErrOwnReview     = errors.New("cannot report own review")
	ErrInvalidReason = errors.New("invalid report reason")
)

type ReviewStore interface {
	GetByID(ctx context.Context, id int64) (models.Review, error)
	ListByModel(ctx context.Context, modelID int64, limit, offset int) ([]models.Review, error)
	Delete(ctx context.Context, id int64) ([]models.ReviewImage, error)
}

type ReportStore interface {
	Create(ctx context.Context, report models.Report) (bool, error)
}

type ReviewCache interface {
	Get(ctx context.Context, modelID int64, limit, offset int) ([]models.Review, int64, bool, error)
	Set(ctx context.Context, modelID, gen int64, limit, offset int, reviews []models.Review) error
	Invalidate(ctx context.Context, modelID int64) error
}

type TaskQueue interface {
	Enqueue(ctx context.Context, task queue.Task) error
}

// URLFunc resolves the public address of an image object.
type URLFunc func(bucket, objectKey string) string

// ReviewService is the authority for review mutations: every delete and
// report re-validates the actor against the stored review.
type ReviewService struct {
	reviews ReviewStore
	reports ReportStore
	cache   ReviewCache
	queue   TaskQueue
	imgURL  URLFunc
	log     zerolog.Logger
}

func NewReviewService(reviews ReviewStore, reports ReportStore, cache ReviewCache, queue TaskQueue, imgURL URLFunc, log zerolog.Logger) *ReviewService {
	return &ReviewService{
		reviews: reviews,
		reports: reports,
		cache:   cache,
		queue:   queue,
		imgURL:  imgURL,
		log:     log,
	}
}

// List returns a page of a model's visible reviews, reading through the cache.
func (s *ReviewService) List(ctx context.Context, modelID int64, limit, offset int) ([]models.Review, error) {
	cached, gen, ok, cacheErr := s.cache.Get(ctx, modelID, limit, offset)
	if cacheErr != nil {
		s.log.Warn().Err(cacheErr).Int64("model_id", modelID).Msg("review cache read failed")
	} else if ok {
		return cached, nil
	}

	reviews, err := s.reviews.ListByModel(ctx, modelID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	for i := range reviews {
		s.resolveImages(&reviews[i])
	}

	// Without a generation there is no key that Invalidate is guaranteed to retire.
	if cacheErr != nil {
		return reviews, nil
	}
	if err := s.cache.Set(ctx, modelID, gen, limit, offset, reviews); err != nil {
		s.log.Warn().Err(err).Int64("model_id", modelID).Msg("review cache write failed")
	}
	return reviews, nil
}

func (s *ReviewService) Get(ctx context.Context, id int64) (models.Review, error) {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return models.Review{}, err
	}
	s.resolveImages(&review)
	return review, nil
}

// Delete removes a review owned by actor. Moderators and admins may remove
// any review.
func (s *ReviewService) Delete(ctx context.Context, actor models.User, id int64) (models.Review, error) {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return models.Review{}, err
	}
	if !review.OwnedBy(actor.ID) && !actor.Role.CanModerate() {
		return models.Review{}, ErrForbidden
	}

	images, err := s.reviews.Delete(ctx, id)
	if err != nil {
		return models.Review{}, fmt.Errorf("delete review: %w", err)
	}

	s.invalidate(ctx, review.ModelID)

	if len(images) > 0 {
		task := queue.Task{Type: queue.TaskPurgeImages, ReviewID: review.ID, ModelID: review.ModelID}
		for _, img := range images {
			task.Objects = append(task.Objects, storage.ObjectRef(img.Bucket, img.ObjectKey))
		}
		if err := s.queue.Enqueue(ctx, task); err != nil {
			s.log.Warn().Err(err).Int64("review_id", review.ID).Msg("enqueue image purge failed")
		}
	}

	s.log.Info().
		Int64("review_id", review.ID).
		Int64("model_id", review.ModelID).
		Str("user_id", actor.ID).
		Msg("review deleted")
	return review, nil
}

// Report records actor's report against a review they do not own. Reporting
// the same review twice is accepted and changes nothing.
func (s *ReviewService) Report(ctx context.Context, actor models.User, id int64, reason models.ReportReason) error {
	if !reason.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidReason, reason)
	}

	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if review.OwnedBy(actor.ID) {
		return ErrOwnReview
	}

	created, err := s.reports.Create(ctx, models.Report{
		ReviewID:   review.ID,
		ReporterID: actor.ID,
		Reason:     reason,
		Status:     models.ReportStatusOpen,
	})
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if !created {
		return nil
	}

	s.invalidate(ctx, review.ModelID)
	if err := s.queue.Enqueue(ctx, queue.Task{Type: queue.TaskReviewReported, ReviewID: review.ID, ModelID: review.ModelID}); err != nil {
		s.log.Warn().Err(err).Int64("review_id", review.ID).Msg("enqueue report escalation failed")
	}

	s.log.Info().
		Int64("review_id", review.ID).
		Str("reason", string(reason)).
		Str("user_id", actor.ID).
		Msg("review reported")
	return nil
}

func (s *ReviewService) resolveImages(review *models.Review) {
	if s.imgURL == nil {
		return
	}
	for i := range review.Images {
		img := &review.Images[i]
		img.URL = s.imgURL(img.Bucket, img.ObjectKey)
	}
}

func (s *ReviewService) invalidate(ctx context.Context, modelID int64) {
	if err := s.cache.Invalidate(ctx, modelID); err != nil {
		s.log.Warn().Err(err).Int64("model_id", modelID).Msg("review cache invalidate failed")
	}
}

// IsNotFound reports whether err means the review does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, repository.ErrReviewNotFound)
}
