// Package shared holds small helpers used by every feature's JSON
// handlers.
package shared

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/adityachugh/Announcements-Web/internal/app/system/apperr"
	"github.com/adityachugh/Announcements-Web/internal/app/system/limits"
)

// JSON writes v as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Decode reads the request body into dst, returning a Validation error
// for malformed or oversized input.
func Decode(r *http.Request, dst any) error {
	return DecodeLimited(r, dst, limits.MaxJSONBodySize)
}

// DecodeLimited is Decode with an explicit body cap; used by endpoints
// that accept user-written text bodies.
func DecodeLimited(r *http.Request, dst any, maxBytes int64) error {
	body := http.MaxBytesReader(nil, r.Body, maxBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.New(apperr.Validation, "request body is required")
		}
		return apperr.Wrap(apperr.Validation, "malformed request body", err)
	}
	return nil
}
