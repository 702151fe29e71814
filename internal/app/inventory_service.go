package app

import (
	"context"
	"strings"

	"github.com/accountbot/api/internal/clock"
	"github.com/accountbot/api/internal/domain"
)

type InventoryRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	InsertAccounts(ctx context.Context, accounts []domain.Account) (int, error)
	ListPlatforms(ctx context.Context) ([]domain.PlatformSummary, error)
	DeletePlatform(ctx context.Context, platform string) (int64, error)
}

type InventoryService struct {
	repo  InventoryRepository
	clock clock.Clock
}

func NewInventoryService(repo InventoryRepository, clk clock.Clock) *InventoryService {
	return &InventoryService{
		repo:  repo,
		clock: clk,
	}
}

// IngestResult reports how many raw lines became pool entries. Dropped counts
// malformed lines (no ":" separator) and duplicates already in the pool.
type IngestResult struct {
	Accepted int
	Dropped  int
}

func (s *InventoryService) Ingest(ctx context.Context, platform string, lines []string) (IngestResult, error) {
	platform = strings.TrimSpace(platform)
	if platform == "" {
		return IngestResult{}, domain.ErrPlatformNameRequired
	}

	now := s.clock.Now()
	var result IngestResult
	accounts := make([]domain.Account, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	total := 0
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		total++
		if !domain.ValidCredential(line) {
			result.Dropped++
			continue
		}
		if _, dup := seen[line]; dup {
			result.Dropped++
			continue
		}
		seen[line] = struct{}{}
		accounts = append(accounts, domain.Account{
			ID:         newAccountID(),
			Platform:   platform,
			Credential: line,
			CreatedAt:  now,
		})
	}
	if total == 0 {
		return IngestResult{}, domain.ErrNoLines
	}
	if len(accounts) == 0 {
		return result, nil
	}

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		inserted, err := s.repo.InsertAccounts(txCtx, accounts)
		if err != nil {
			return err
		}
		result.Accepted = inserted
		// Lines already present in the pool conflict away silently.
		result.Dropped += len(accounts) - inserted
		return nil
	})
	if err != nil {
		return IngestResult{}, err
	}
	return result, nil
}

func (s *InventoryService) ListPlatforms(ctx context.Context) ([]domain.PlatformSummary, error) {
	return s.repo.ListPlatforms(ctx)
}

func (s *InventoryService) DeletePlatform(ctx context.Context, platform string) error {
	platform = strings.TrimSpace(platform)
	if platform == "" {
		return domain.ErrPlatformNameRequired
	}
	removed, err := s.repo.DeletePlatform(ctx, platform)
	if err != nil {
		return err
	}
	if removed == 0 {
		return domain.ErrPlatformNotFound
	}
	return nil
}
