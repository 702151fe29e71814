package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/accountbot/api/internal/domain"
)

// PlatformLister is the minimal interface needed to list platforms.
type PlatformLister interface {
	ListPlatforms(ctx context.Context) ([]domain.PlatformSummary, error)
}

// HandleListPlatforms returns an HTTP handler for the public platform listing.
func HandleListPlatforms(svc PlatformLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		platforms, err := svc.ListPlatforms(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		resp := make([]platformResponse, 0, len(platforms))
		for _, p := range platforms {
			resp = append(resp, platformResponse{
				Name:      p.Name,
				Remaining: p.Remaining,
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

type platformResponse struct {
	Name      string `json:"name"`
	Remaining int    `json:"remaining"`
}
