package http

import (
	"encoding/json"
	"net/http"
)

const (
	codeMethodNotAllowed     = "method_not_allowed"
	codeNotFound             = "not_found"
	codeInvalidRequestBody   = "invalid_request_body"
	codeUnauthorized         = "unauthorized"
	codeForbidden            = "forbidden"
	codePlatformNameRequired = "platform_name_required"
	codeInvalidUserID        = "invalid_user_id"
	codeInvalidOutcome       = "invalid_outcome"
	codeNoLines              = "no_lines"
	codePlatformNotFound     = "platform_not_found"
	codeNoAccountsAvailable  = "no_accounts_available"
	codeReviewPending        = "review_pending"
	codeNoPendingReview      = "no_pending_review"
	codeInternalError        = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}
