// Package respond provides shared JSON response utilities for API handlers.
package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/courtside/academy-recommender/internal/model"
)

// Error codes shared by every handler.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeNotFound   = "NOT_FOUND"
	CodeUpstream   = "UPSTREAM_ERROR"
	CodeInternal   = "INTERNAL_ERROR"
	CodeBadRequest = "BAD_REQUEST"
)

// ErrorResponse is the standard error shape for all API errors.
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Field   string `json:"field,omitempty"`
		Detail  string `json:"detail,omitempty"`
	} `json:"error"`
}

// WriteJSON writes pre-encoded JSON with ETag and cache headers. Responses
// are per player, so shared caches must not store them.
func WriteJSON(w http.ResponseWriter, data []byte, etag string, ttl time.Duration, cacheHit bool) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("ETag", etag)
	w.Header().Set("Vary", "Accept-Encoding")
	setCacheHeaders(w, ttl, cacheHit)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// WriteNotModified sends a 304 with the matching ETag.
func WriteNotModified(w http.ResponseWriter, etag string) {
	w.Header().Set("ETag", etag)
	w.WriteHeader(http.StatusNotModified)
}

// WriteError sends a structured JSON error response.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	resp := ErrorResponse{}
	resp.Error.Code = code
	resp.Error.Message = message
	writeErrorResponse(w, status, resp)
}

// WriteErrorDetail sends a structured error with additional detail.
func WriteErrorDetail(w http.ResponseWriter, status int, code, message, detail string) {
	resp := ErrorResponse{}
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Detail = detail
	writeErrorResponse(w, status, resp)
}

// WriteAppError maps core error kinds onto HTTP statuses. Upstream and
// unknown errors are reported without their internals.
func WriteAppError(w http.ResponseWriter, err error) {
	var (
		validation *model.ValidationError
		notFound   *model.NotFoundError
		upstream   *model.UpstreamError
	)
	resp := ErrorResponse{}
	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &validation):
		status = http.StatusBadRequest
		resp.Error.Code = CodeValidation
		resp.Error.Message = validation.Error()
		resp.Error.Field = validation.Field
	case errors.As(err, &notFound):
		status = http.StatusNotFound
		resp.Error.Code = CodeNotFound
		resp.Error.Message = notFound.Error()
	case errors.As(err, &upstream):
		status = http.StatusBadGateway
		resp.Error.Code = CodeUpstream
		resp.Error.Message = fmt.Sprintf("%s failed; try again later", upstream.Op)
	default:
		resp.Error.Code = CodeInternal
		resp.Error.Message = "internal error"
	}
	writeErrorResponse(w, status, resp)
}

// WriteJSONObject marshals a Go value to JSON and writes it.
func WriteJSONObject(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErrorResponse(w http.ResponseWriter, status int, resp ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

func setCacheHeaders(w http.ResponseWriter, ttl time.Duration, cacheHit bool) {
	if cacheHit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.Header().Set("Cache-Control", fmt.Sprintf("private, max-age=%d", int(ttl.Seconds())))
}
