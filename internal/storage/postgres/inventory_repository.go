package postgres

import (
	"context"
	"fmt"

	"github.com/accountbot/api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type InventoryRepository struct {
	pool *pgxpool.Pool
}

func NewInventoryRepository(pool *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{pool: pool}
}

func (r *InventoryRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

// InsertAccounts appends accounts to their platform pools and returns how many
// rows were actually inserted. Credentials already present in the same pool
// conflict away on the (platform, credential) unique constraint.
func (r *InventoryRepository) InsertAccounts(ctx context.Context, accounts []domain.Account) (int, error) {
	const stmt = `
INSERT INTO accounts (id, platform, credential, created_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (platform, credential) DO NOTHING`

	inserted := 0
	for _, account := range accounts {
		tag, err := r.exec(ctx, stmt, account.ID, account.Platform, account.Credential, account.CreatedAt)
		if err != nil {
			return 0, fmt.Errorf("insert account: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

func (r *InventoryRepository) ListPlatforms(ctx context.Context) ([]domain.PlatformSummary, error) {
	const query = `
SELECT platform, COUNT(*)
FROM accounts
GROUP BY platform
ORDER BY platform ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list platforms: %w", err)
	}
	defer rows.Close()

	var platforms []domain.PlatformSummary
	for rows.Next() {
		var p domain.PlatformSummary
		if err := rows.Scan(&p.Name, &p.Remaining); err != nil {
			return nil, fmt.Errorf("scan platform: %w", err)
		}
		platforms = append(platforms, p)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate platforms: %w", rows.Err())
	}
	return platforms, nil
}

// DeletePlatform removes all remaining accounts for the platform and returns
// the number of rows deleted. Issued accounts live in reviews and are copies,
// so they are untouched.
func (r *InventoryRepository) DeletePlatform(ctx context.Context, platform string) (int64, error) {
	const stmt = `DELETE FROM accounts WHERE platform = $1`

	tag, err := r.exec(ctx, stmt, platform)
	if err != nil {
		return 0, fmt.Errorf("delete platform: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *InventoryRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *InventoryRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
