package handlers

import (
	"net/http"
	"time"
)

// APIError is the JSON body returned for boundary-level failures (malformed
// payloads, invalid query parameters, rejected reversals).
type APIError struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
}

func newAPIError(status int, message, path string) APIError {
	return APIError{
		Timestamp: time.Now(),
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
		Path:      path,
	}
}
