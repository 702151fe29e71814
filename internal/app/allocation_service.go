package app

import (
	"context"
	"strings"

	"github.com/accountbot/api/internal/clock"
	"github.com/accountbot/api/internal/domain"
)

type AllocationRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetReviewForUpdate(ctx context.Context, userID int64) (*domain.Review, error)
	PickRandomAccount(ctx context.Context, platform string) (domain.Account, error)
	DeleteAccount(ctx context.Context, accountID string) error
	UpsertPendingReview(ctx context.Context, review domain.Review) error
}

type AllocationService struct {
	repo  AllocationRepository
	clock clock.Clock
}

func NewAllocationService(repo AllocationRepository, clk clock.Clock) *AllocationService {
	return &AllocationService{
		repo:  repo,
		clock: clk,
	}
}

// Allocate issues one random account from the platform's pool to the user.
// The pick, the pool removal and the pending-review record commit in a single
// transaction: a crash leaves either both or neither, and a user holding a
// pending review cannot be issued another account.
func (s *AllocationService) Allocate(ctx context.Context, userID int64, platform string) (domain.Issued, error) {
	if userID <= 0 {
		return domain.Issued{}, domain.ErrInvalidUserID
	}
	platform = strings.TrimSpace(platform)
	if platform == "" {
		return domain.Issued{}, domain.ErrPlatformNameRequired
	}

	now := s.clock.Now()
	var result domain.Issued

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		review, err := s.repo.GetReviewForUpdate(txCtx, userID)
		if err != nil {
			return err
		}
		if review != nil && review.Pending {
			return domain.ErrReviewPending
		}

		account, err := s.repo.PickRandomAccount(txCtx, platform)
		if err != nil {
			return err
		}
		if err := s.repo.DeleteAccount(txCtx, account.ID); err != nil {
			return err
		}

		// The upsert refuses to overwrite a pending row, so a concurrent
		// first-time allocation racing past the check above still fails here.
		if err := s.repo.UpsertPendingReview(txCtx, domain.Review{
			UserID:     userID,
			Platform:   account.Platform,
			Credential: account.Credential,
			Pending:    true,
			IssuedAt:   now,
		}); err != nil {
			return err
		}

		result = domain.Issued{
			Platform:   account.Platform,
			Credential: account.Credential,
			IssuedAt:   now,
		}
		return nil
	})
	if err != nil {
		return domain.Issued{}, err
	}
	return result, nil
}
