package app

import (
	"context"
	"log"
	"time"

	"github.com/accountbot/api/internal/clock"
	"github.com/accountbot/api/internal/domain"
)

type ReviewRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetReviewForUpdate(ctx context.Context, userID int64) (*domain.Review, error)
	MarkReviewed(ctx context.Context, userID int64, outcome domain.Outcome, reviewedAt time.Time) error
}

// Notifier forwards a recorded review to the admin channel.
type Notifier interface {
	NotifyReview(ctx context.Context, event domain.ReviewEvent) error
}

type ReviewService struct {
	repo     ReviewRepository
	clock    clock.Clock
	notifier Notifier
	logger   *log.Logger
}

func NewReviewService(repo ReviewRepository, clk clock.Clock, notifier Notifier, logger *log.Logger) *ReviewService {
	if logger == nil {
		logger = log.Default()
	}
	return &ReviewService{
		repo:     repo,
		clock:    clk,
		notifier: notifier,
		logger:   logger,
	}
}

// Submit records the user's verdict on their pending account and unblocks the
// next allocation. The notification is best-effort: a failed send is logged
// and the review still counts as submitted.
func (s *ReviewService) Submit(ctx context.Context, userID int64, outcome domain.Outcome) (domain.ReviewEvent, error) {
	if userID <= 0 {
		return domain.ReviewEvent{}, domain.ErrInvalidUserID
	}
	if _, err := domain.ParseOutcome(string(outcome)); err != nil {
		return domain.ReviewEvent{}, err
	}

	now := s.clock.Now()
	var event domain.ReviewEvent
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		review, err := s.repo.GetReviewForUpdate(txCtx, userID)
		if err != nil {
			return err
		}
		if review == nil || !review.Pending {
			return domain.ErrNoPendingReview
		}
		if err := s.repo.MarkReviewed(txCtx, userID, outcome, now); err != nil {
			return err
		}
		event = domain.ReviewEvent{
			UserID:     userID,
			Platform:   review.Platform,
			Credential: review.Credential,
			Outcome:    outcome,
		}
		return nil
	})
	if err != nil {
		return domain.ReviewEvent{}, err
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyReview(ctx, event); err != nil {
			s.logger.Printf("WARN: review notification failed user=%d platform=%s: %v", event.UserID, event.Platform, err)
		}
	}
	return event, nil
}
