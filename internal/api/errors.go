package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrNoData is returned when a success response arrives with an empty body.
var ErrNoData = errors.New("empty response body")

// ConnectivityError wraps a transport-layer failure that survived the retry
// budget: no connectivity, DNS failure, or timeout. A delivered HTTP error
// response is never a ConnectivityError.
type ConnectivityError struct {
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("connectivity error: %v", e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// DecodeError wraps a JSON decode failure for an operation's payload.
// Always terminal for that call; never retried.
type DecodeError struct {
	Op  Operation
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("unexpected response format for %s (JSON decode failed): %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ErrorResponse is the hub's typed error payload.
type ErrorResponse struct {
	Status  string `json:"status,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// APIError represents a delivered HTTP error response from the hub.
type APIError struct {
	StatusCode int
	Reason     ResponseStatus
	Body       string
	RequestID  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("hub error (%s, status %d): %s", e.Reason, e.StatusCode, e.Body)
}

// newAPIError builds an APIError from a failure response, decoding the typed
// error shape when possible. An undecodable body still yields a usable error
// rather than leaving the caller without any signal.
func newAPIError(statusCode int, body []byte, header http.Header) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Reason:     classify(statusCode),
		Body:       sanitizeErrorBody(body),
		RequestID:  requestIDFromHeader(header),
	}
}

// sanitizeErrorBody extracts a safe error message from the response without
// exposing potentially sensitive payload data.
func sanitizeErrorBody(body []byte) string {
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		return "request failed (response body redacted)"
	}
	if errResp.Error != "" {
		return errResp.Error
	}
	if errResp.Message != "" {
		return errResp.Message
	}
	if errResp.Status != "" {
		return errResp.Status
	}
	return "request failed (response body redacted)"
}

func requestIDFromHeader(header http.Header) string {
	if header == nil {
		return ""
	}
	if id := header.Get("X-Request-Id"); id != "" {
		return id
	}
	return header.Get("X-Request-ID")
}
