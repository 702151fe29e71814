package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/accountbot/api/internal/domain"
)

// ReviewSubmitter is the minimal interface needed to record a review.
type ReviewSubmitter interface {
	Submit(ctx context.Context, userID int64, outcome domain.Outcome) (domain.ReviewEvent, error)
}

// HandleSubmitReview returns an HTTP handler for submitting a review of the
// user's pending account.
func HandleSubmitReview(svc ReviewSubmitter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req reviewRequest
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
		outcome, err := domain.ParseOutcome(req.Outcome)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidOutcome, err.Error())
			return
		}

		event, err := svc.Submit(r.Context(), req.UserID, outcome)
		if err != nil {
			switch err {
			case domain.ErrInvalidUserID:
				writeError(w, http.StatusBadRequest, codeInvalidUserID, err.Error())
			case domain.ErrInvalidOutcome:
				writeError(w, http.StatusBadRequest, codeInvalidOutcome, err.Error())
			case domain.ErrNoPendingReview:
				writeError(w, http.StatusConflict, codeNoPendingReview, "no pending review")
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		username, password := domain.SplitCredential(event.Credential)
		resp := reviewResponse{
			Platform: event.Platform,
			Username: username,
			Password: password,
			Outcome:  string(event.Outcome),
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

type reviewRequest struct {
	UserID  int64  `json:"user_id"`
	Outcome string `json:"outcome"`
}

type reviewResponse struct {
	Platform string `json:"platform"`
	Username string `json:"username"`
	Password string `json:"password"`
	Outcome  string `json:"outcome"`
}
