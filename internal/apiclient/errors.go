package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is returned for every non-2xx response and for client timeouts.
type APIError struct {
	Status     int
	StatusText string
	Message    string
	// Data is the decoded error body: JSON when it parses, raw text otherwise.
	Data interface{}
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// UserMessage is the text shown to the shopper.
func (e *APIError) UserMessage() string {
	return e.Message
}

func newAPIError(status int, data interface{}) *APIError {
	e := &APIError{
		Status:     status,
		StatusText: http.StatusText(status),
		Message:    fmt.Sprintf("HTTP error! status: %d", status),
		Data:       data,
	}
	if msg := messageFrom(data); msg != "" {
		e.Message = msg
	}
	return e
}

// messageFrom reads {"message": "..."} or {"message": ["...", ...]}, the two
// shapes the backend validation layer produces.
func messageFrom(data interface{}) string {
	body, ok := data.(map[string]interface{})
	if !ok {
		return ""
	}
	switch m := body["message"].(type) {
	case string:
		return m
	case []interface{}:
		if len(m) > 0 {
			if s, ok := m[0].(string); ok {
				return s
			}
		}
	}
	return ""
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsNotFound reports a 404 from the remote API.
func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}
