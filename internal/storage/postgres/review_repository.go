package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/accountbot/api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReviewRepository struct {
	pool *pgxpool.Pool
}

func NewReviewRepository(pool *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

func (r *ReviewRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *ReviewRepository) GetReviewForUpdate(ctx context.Context, userID int64) (*domain.Review, error) {
	const query = `
SELECT user_id, platform, credential, pending, issued_at, outcome, reviewed_at
FROM reviews
WHERE user_id = $1
FOR UPDATE`

	review, err := scanReview(r.queryRow(ctx, query, userID))
	if err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}
	return review, nil
}

func (r *ReviewRepository) MarkReviewed(ctx context.Context, userID int64, outcome domain.Outcome, reviewedAt time.Time) error {
	const stmt = `
UPDATE reviews
SET pending = FALSE, outcome = $2, reviewed_at = $3
WHERE user_id = $1 AND pending = TRUE`

	tag, err := r.exec(ctx, stmt, userID, string(outcome), reviewedAt)
	if err != nil {
		return fmt.Errorf("mark reviewed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNoPendingReview
	}
	return nil
}

func scanReview(row pgx.Row) (*domain.Review, error) {
	var rev domain.Review
	var outcome *string
	err := row.Scan(&rev.UserID, &rev.Platform, &rev.Credential, &rev.Pending, &rev.IssuedAt, &outcome, &rev.ReviewedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if outcome != nil {
		rev.Outcome = domain.Outcome(*outcome)
	}
	return &rev, nil
}

func (r *ReviewRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *ReviewRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
