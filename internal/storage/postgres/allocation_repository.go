package postgres

import (
	"context"
	"fmt"

	"github.com/accountbot/api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AllocationRepository struct {
	pool *pgxpool.Pool
}

func NewAllocationRepository(pool *pgxpool.Pool) *AllocationRepository {
	return &AllocationRepository{pool: pool}
}

func (r *AllocationRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

// GetReviewForUpdate locks the user's review row for the transaction, or
// returns nil when the user has never been issued an account.
func (r *AllocationRepository) GetReviewForUpdate(ctx context.Context, userID int64) (*domain.Review, error) {
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

// PickRandomAccount selects one account uniformly at random from the
// platform's pool and locks it. Rows locked by a concurrent allocation are
// skipped so two picks can never land on the same account.
func (r *AllocationRepository) PickRandomAccount(ctx context.Context, platform string) (domain.Account, error) {
	const query = `
SELECT id, platform, credential, created_at
FROM accounts
WHERE platform = $1
ORDER BY random()
LIMIT 1
FOR UPDATE SKIP LOCKED`

	var a domain.Account
	err := r.queryRow(ctx, query, platform).Scan(&a.ID, &a.Platform, &a.Credential, &a.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Account{}, domain.ErrNoAccountsAvailable
		}
		return domain.Account{}, fmt.Errorf("pick account: %w", err)
	}
	return a, nil
}

func (r *AllocationRepository) DeleteAccount(ctx context.Context, accountID string) error {
	const stmt = `DELETE FROM accounts WHERE id = $1`

	tag, err := r.exec(ctx, stmt, accountID)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNoAccountsAvailable
	}
	return nil
}

// UpsertPendingReview records the issued account as the user's pending review.
// The update arm refuses to touch a row that is still pending, so a racing
// allocation for the same user fails instead of silently overwriting.
func (r *AllocationRepository) UpsertPendingReview(ctx context.Context, review domain.Review) error {
	const stmt = `
INSERT INTO reviews (user_id, platform, credential, pending, issued_at, outcome, reviewed_at)
VALUES ($1, $2, $3, TRUE, $4, NULL, NULL)
ON CONFLICT (user_id) DO UPDATE
SET platform = EXCLUDED.platform,
    credential = EXCLUDED.credential,
    pending = TRUE,
    issued_at = EXCLUDED.issued_at,
    outcome = NULL,
    reviewed_at = NULL
WHERE reviews.pending = FALSE`

	tag, err := r.exec(ctx, stmt, review.UserID, review.Platform, review.Credential, review.IssuedAt)
	if err != nil {
		return fmt.Errorf("upsert pending review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrReviewPending
	}
	return nil
}

func (r *AllocationRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *AllocationRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
