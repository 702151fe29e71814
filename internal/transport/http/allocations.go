package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/accountbot/api/internal/domain"
)

// Allocator is the minimal interface needed to issue an account.
type Allocator interface {
	Allocate(ctx context.Context, userID int64, platform string) (domain.Issued, error)
}

// HandleAllocate returns an HTTP handler for issuing an account to a user.
func HandleAllocate(svc Allocator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req allocateRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if req.UserID <= 0 {
			writeError(w, http.StatusBadRequest, codeInvalidUserID, domain.ErrInvalidUserID.Error())
			return
		}
		if req.Platform == "" {
			writeError(w, http.StatusBadRequest, codePlatformNameRequired, domain.ErrPlatformNameRequired.Error())
			return
		}

		issued, err := svc.Allocate(r.Context(), req.UserID, req.Platform)
		if err != nil {
			switch err {
			case domain.ErrInvalidUserID:
				writeError(w, http.StatusBadRequest, codeInvalidUserID, err.Error())
			case domain.ErrPlatformNameRequired:
				writeError(w, http.StatusBadRequest, codePlatformNameRequired, err.Error())
			case domain.ErrReviewPending:
				writeError(w, http.StatusConflict, codeReviewPending, "review your previous account first")
			case domain.ErrNoAccountsAvailable:
				writeError(w, http.StatusNotFound, codeNoAccountsAvailable, "no accounts left for this platform")
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		username, password := domain.SplitCredential(issued.Credential)
		resp := allocateResponse{
			Platform: issued.Platform,
			Username: username,
			Password: password,
			IssuedAt: issued.IssuedAt,
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(resp)
	}
}

type allocateRequest struct {
	UserID   int64  `json:"user_id"`
	Platform string `json:"platform"`
}

type allocateResponse struct {
	Platform string    `json:"platform"`
	Username string    `json:"username"`
	Password string    `json:"password"`
	IssuedAt time.Time `json:"issued_at"`
}
