package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// maxRequestBody caps request bodies. The largest legitimate request is
// a webhook registration with a 2048-character URL and a dozen events,
// so 64KiB leaves generous headroom.
const maxRequestBody = 64 << 10

const malformedBodyMessage = "Request body must be valid JSON with Content-Type: application/json"

// errorResponse is the wire shape of every error the API returns. Error
// holds a stable machine-readable code, Message the human-readable text.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteJSON encodes data as the response body with the given status.
// The encode error is ignored — by the time it can occur the status
// line has already been written.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError writes the standard error envelope.
func WriteError(w http.ResponseWriter, status int, errorCode, message string) {
	WriteJSON(w, status, errorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// ParseJSON decodes the request body into v. The Content-Type must be
// application/json, unknown fields are rejected, and the body may not
// exceed maxRequestBody. All failure modes collapse into one message so
// clients get a single, predictable parse error.
func ParseJSON(r *http.Request, v any) error {
	if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		return errors.New(malformedBodyMessage)
	}

	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.New(malformedBodyMessage)
	}
	return nil
}
