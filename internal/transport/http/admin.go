package http

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/accountbot/api/internal/app"
	"github.com/accountbot/api/internal/domain"
)

// Keeps a pasted pool or an uploaded credential file from exhausting memory.
const maxIngestBody = 8 << 20

// AdminInventoryService is the minimal interface needed for the privileged
// inventory endpoints.
type AdminInventoryService interface {
	Ingest(ctx context.Context, platform string, lines []string) (app.IngestResult, error)
	DeletePlatform(ctx context.Context, platform string) error
}

// HandlePlatformAdmin returns an HTTP handler for ingesting accounts into a
// platform and deleting platforms. Expected paths:
//
//	POST   /platforms/{name}/accounts
//	DELETE /platforms/{name}
func HandlePlatformAdmin(svc AdminInventoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if platform, ok := parseIngestPath(r.URL.Path); ok {
			if r.Method != http.MethodPost {
				writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
				return
			}
			handleIngest(w, r, svc, platform)
			return
		}

		if platform, ok := parsePlatformPath(r.URL.Path); ok {
			if r.Method != http.MethodDelete {
				writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
				return
			}
			handleDeletePlatform(w, r, svc, platform)
			return
		}

		writeError(w, http.StatusNotFound, codeNotFound, "not found")
	}
}

func handleIngest(w http.ResponseWriter, r *http.Request, svc AdminInventoryService, platform string) {
	lines, ok := readIngestLines(w, r)
	if !ok {
		return
	}

	result, err := svc.Ingest(r.Context(), platform, lines)
	if err != nil {
		switch err {
		case domain.ErrPlatformNameRequired:
			writeError(w, http.StatusBadRequest, codePlatformNameRequired, err.Error())
		case domain.ErrNoLines:
			writeError(w, http.StatusBadRequest, codeNoLines, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
		}
		return
	}

	resp := ingestResponse{
		Platform: platform,
		Accepted: result.Accepted,
		Dropped:  result.Dropped,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(resp)
}

// readIngestLines accepts either a JSON body {"lines": [...]} or a raw
// text/plain body of newline-separated records (the uploaded-file path).
func readIngestLines(w http.ResponseWriter, r *http.Request) ([]string, bool) {
	body := io.LimitReader(r.Body, maxIngestBody)

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "text/plain") {
		var lines []string
		scanner := bufio.NewScanner(body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return nil, false
		}
		return lines, true
	}

	var req ingestRequest
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return nil, false
	}
	return req.Lines, true
}

func handleDeletePlatform(w http.ResponseWriter, r *http.Request, svc AdminInventoryService, platform string) {
	if err := svc.DeletePlatform(r.Context(), platform); err != nil {
		switch err {
		case domain.ErrPlatformNameRequired:
			writeError(w, http.StatusBadRequest, codePlatformNameRequired, err.Error())
		case domain.ErrPlatformNotFound:
			writeError(w, http.StatusNotFound, codePlatformNotFound, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseIngestPath(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 3 {
		return "", false
	}
	if parts[0] != "platforms" || parts[2] != "accounts" {
		return "", false
	}
	if parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func parsePlatformPath(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 2 {
		return "", false
	}
	if parts[0] != "platforms" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

type ingestRequest struct {
	Lines []string `json:"lines"`
}

type ingestResponse struct {
	Platform string `json:"platform"`
	Accepted int    `json:"accepted"`
	Dropped  int    `json:"dropped"`
}
