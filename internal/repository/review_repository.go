package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"modelreviews/internal/models"
)

var ErrReviewNotFound = errors.New("review not found")

type ReviewRepository struct {
	pool *pgxpool.Pool
}

func NewReviewRepository(pool *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

const reviewColumns = `
	id, model_id, model_version_id, user_id, rating, text, nsfw, status, created_at, updated_at
`

func scanReview(row pgx.Row) (models.Review, error) {
	var review models.Review
	err := row.Scan(
		&review.ID,
		&review.ModelID,
		&review.ModelVersionID,
		&review.UserID,
		&review.Rating,
		&review.Text,
		&review.NSFW,
		&review.Status,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	return review, err
}

func (r *ReviewRepository) GetByID(ctx context.Context, id int64) (models.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	review, err := scanReview(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Review{}, ErrReviewNotFound
		}
		return models.Review{}, err
	}

	images, err := r.imagesFor(ctx, []int64{review.ID})
	if err != nil {
		return models.Review{}, err
	}
	review.Images = images[review.ID]
	return review, nil
}

// ListByModel returns the visible reviews of a model, newest first, with
// their images in display order.
func (r *ReviewRepository) ListByModel(ctx context.Context, modelID int64, limit, offset int) ([]models.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE model_id = $1 AND status = 'visible'
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, modelID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []models.Review
	var reviewIDs []int64
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
		reviewIDs = append(reviewIDs, review.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(reviews) == 0 {
		return reviews, nil
	}

	images, err := r.imagesFor(ctx, reviewIDs)
	if err != nil {
		return nil, err
	}
	for i := range reviews {
		reviews[i].Images = images[reviews[i].ID]
	}
	return reviews, nil
}

func (r *ReviewRepository) imagesFor(ctx context.Context, reviewIDs []int64) (map[int64][]models.ReviewImage, error) {
	const query = `
		SELECT id, review_id, bucket, object_key, width, height, position, created_at
		FROM review_images
		WHERE review_id = ANY($1)
		ORDER BY review_id, position, id
	`
	rows, err := r.pool.Query(ctx, query, reviewIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64][]models.ReviewImage, len(reviewIDs))
	for rows.Next() {
		var img models.ReviewImage
		if err := rows.Scan(
			&img.ID,
			&img.ReviewID,
			&img.Bucket,
			&img.ObjectKey,
			&img.Width,
			&img.Height,
			&img.Position,
			&img.CreatedAt,
		); err != nil {
			return nil, err
		}
		out[img.ReviewID] = append(out[img.ReviewID], img)
	}
	return out, rows.Err()
}

// Delete removes the review and returns the images it held so their objects
// can be purged.
func (r *ReviewRepository) Delete(ctx context.Context, id int64) ([]models.ReviewImage, error) {
	images, err := r.imagesFor(ctx, []int64{id})
	if err != nil {
		return nil, err
	}

	cmd, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, ErrReviewNotFound
	}
	return images[id], nil
}

func (r *ReviewRepository) MarkNSFW(ctx context.Context, id int64) (bool, error) {
	const query = `UPDATE reviews SET nsfw = TRUE, updated_at = NOW() WHERE id = $1 AND nsfw = FALSE`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *ReviewRepository) UpdateStatus(ctx context.Context, id int64, status models.ReviewStatus) (bool, error) {
	const query = `UPDATE reviews SET status = $2, updated_at = NOW() WHERE id = $1 AND status != $2`
	cmd, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}
