package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/accountbot/api/internal/domain"
)

func TestHandleAllocate(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	issued := domain.Issued{
		Platform:   "Netflix",
		Credential: "alice:pw:1",
		IssuedAt:   now,
	}

	tests := []struct {
		name           string
		body           string
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "success",
			body:           `{"user_id":42,"platform":"Netflix"}`,
			expectedStatus: http.StatusCreated,
			expectedSubstr: `"username":"alice"`,
		},
		{
			name:           "secret keeps embedded colons",
			body:           `{"user_id":42,"platform":"Netflix"}`,
			expectedStatus: http.StatusCreated,
			expectedSubstr: `"password":"pw:1"`,
		},
		{
			name:           "invalid body",
			body:           `{"user_id":`,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: "invalid_request_body",
		},
		{
			name:           "missing user id",
			body:           `{"platform":"Netflix"}`,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: "invalid_user_id",
		},
		{
			name:           "missing platform",
			body:           `{"user_id":42}`,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: "platform_name_required",
		},
		{
			name:           "review pending",
			body:           `{"user_id":42,"platform":"Netflix"}`,
			serviceErr:     domain.ErrReviewPending,
			expectedStatus: http.StatusConflict,
			expectedSubstr: "review_pending",
		},
		{
			name:           "pool empty",
			body:           `{"user_id":42,"platform":"Netflix"}`,
			serviceErr:     domain.ErrNoAccountsAvailable,
			expectedStatus: http.StatusNotFound,
			expectedSubstr: "no_accounts_available",
		},
		{
			name:           "internal error",
			body:           `{"user_id":42,"platform":"Netflix"}`,
			serviceErr:     context.DeadlineExceeded,
			expectedStatus: http.StatusInternalServerError,
			expectedSubstr: "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubAllocator{issued: issued, err: tt.serviceErr}
			req := httptest.NewRequest(http.MethodPost, "/allocations", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			HandleAllocate(svc).ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.expectedSubstr) {
				t.Fatalf("expected body to contain %q, got %q", tt.expectedSubstr, rec.Body.String())
			}
		})
	}

	t.Run("method not allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/allocations", nil)
		rec := httptest.NewRecorder()

		HandleAllocate(&stubAllocator{}).ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected status 405, got %d", rec.Code)
		}
	})
}

type stubAllocator struct {
	issued domain.Issued
	err    error
}

func (s *stubAllocator) Allocate(_ context.Context, _ int64, _ string) (domain.Issued, error) {
	if s.err != nil {
		return domain.Issued{}, s.err
	}
	return s.issued, nil
}
