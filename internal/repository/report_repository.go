package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"modelreviews/internal/models"
)

type ReportRepository struct {
	pool *pgxpool.Pool
}

func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// Create records a report. A reporter reporting the same review again is
// absorbed; created reports whether a new row was written.
func (r *ReportRepository) Create(ctx context.Context, report models.Report) (created bool, err error) {
	const query = `
		INSERT INTO review_reports (review_id, reporter_id, reason, status, created_at)
		VALUES ($1, $2, $3, 'open', NOW())
		ON CONFLICT (review_id, reporter_id) DO NOTHING
	`
	cmd, err := r.pool.Exec(ctx, query, report.ReviewID, report.ReporterID, report.Reason)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

// Tally counts the open reports of one review by reason.
func (r *ReportRepository) Tally(ctx context.Context, reviewID int64) (models.ReportTally, error) {
	const query = `
		SELECT rv.model_id, rr.reason, COUNT(*)
		FROM review_reports rr
		JOIN reviews rv ON rv.id = rr.review_id
		WHERE rr.review_id = $1 AND rr.status = 'open'
		GROUP BY rv.model_id, rr.reason
	`
	rows, err := r.pool.Query(ctx, query, reviewID)
	if err != nil {
		return models.ReportTally{}, err
	}
	defer rows.Close()

	tally := models.ReportTally{ReviewID: reviewID, ByReason: make(map[models.ReportReason]int)}
	for rows.Next() {
		var (
			reason models.ReportReason
			count  int
		)
		if err := rows.Scan(&tally.ModelID, &reason, &count); err != nil {
			return models.ReportTally{}, err
		}
		tally.ByReason[reason] = count
		tally.Total += count
	}
	return tally, rows.Err()
}

func (r *ReportRepository) MarkActioned(ctx context.Context, reviewID int64) error {
	const query = `UPDATE review_reports SET status = 'actioned' WHERE review_id = $1 AND status = 'open'`
	_, err := r.pool.Exec(ctx, query, reviewID)
	return err
}

// ReviewsWithOpenReports lists reviews still holding open reports.
func (r *ReportRepository) ReviewsWithOpenReports(ctx context.Context, limit int) ([]int64, error) {
	const query = `
		SELECT review_id
		FROM review_reports
		WHERE status = 'open'
		GROUP BY review_id
		ORDER BY MIN(created_at)
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
