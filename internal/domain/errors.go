package domain

import "errors"

var (
	ErrNoAccountsAvailable  = errors.New("no accounts available")
	ErrReviewPending        = errors.New("review pending")
	ErrNoPendingReview      = errors.New("no pending review")
	ErrPlatformNotFound     = errors.New("platform not found")
	ErrPlatformNameRequired = errors.New("platform name required")
	ErrInvalidUserID        = errors.New("invalid user id")
	ErrInvalidOutcome       = errors.New("invalid outcome")
	ErrNoLines              = errors.New("no lines to ingest")
)
