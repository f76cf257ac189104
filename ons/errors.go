package ons

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorKind classifies a failed API call. The set is closed: every failure
// returned by the client carries exactly one of these kinds.
type ErrorKind int

const (
	// KindNetworkError indicates no HTTP response was received at all
	// (DNS failure, connection refused, timeout).
	KindNetworkError ErrorKind = iota
	// KindNotFound indicates HTTP 404.
	KindNotFound
	// KindBadRequest indicates HTTP 400.
	KindBadRequest
	// KindRateLimited indicates HTTP 429.
	KindRateLimited
	// KindServerError indicates HTTP 500.
	KindServerError
	// KindUnknownHTTP indicates any other 4xx/5xx status.
	KindUnknownHTTP
)

// String returns the string representation of an ErrorKind
func (k ErrorKind) String() string {
	switch k {
	case KindNetworkError:
		return "NETWORK_ERROR"
	case KindNotFound:
		return "NOT_FOUND"
	case KindBadRequest:
		return "BAD_REQUEST"
	case KindRateLimited:
		return "RATE_LIMITED"
	case KindServerError:
		return "SERVER_ERROR"
	case KindUnknownHTTP:
		return "UNKNOWN_HTTP"
	default:
		return "UNKNOWN"
	}
}

// APIError is the normalized failure returned by every client operation.
// It is constructed exclusively by the client's response handling; callers
// only ever inspect it.
type APIError struct {
	Kind       ErrorKind
	StatusCode int // 0 when no response was received
	Message    string
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("ons API error: %s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("ons API error: status %d: %s", e.StatusCode, e.Message)
}

// IsNotFound checks if the error indicates a missing resource
func (e *APIError) IsNotFound() bool {
	return e.Kind == KindNotFound
}

// IsServerError checks if the error indicates a server-side failure
func (e *APIError) IsServerError() bool {
	return e.Kind == KindServerError
}

// IsRateLimited checks if the error indicates request throttling
func (e *APIError) IsRateLimited() bool {
	return e.Kind == KindRateLimited
}

// normalizeStatus maps an HTTP error status onto the closed taxonomy.
func normalizeStatus(statusCode int, body []byte) *APIError {
	kind := KindUnknownHTTP
	switch statusCode {
	case http.StatusNotFound:
		kind = KindNotFound
	case http.StatusBadRequest:
		kind = KindBadRequest
	case http.StatusTooManyRequests:
		kind = KindRateLimited
	case http.StatusInternalServerError:
		kind = KindServerError
	}

	return &APIError{
		Kind:       kind,
		StatusCode: statusCode,
		Message:    errorMessage(statusCode, body),
	}
}

// errorMessage prefers the message field the API embeds in error bodies,
// falling back to the generic status text.
func errorMessage(statusCode int, body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return http.StatusText(statusCode)
}

// normalizeTransport wraps a transport-level failure where no response was
// received.
func normalizeTransport(err error) *APIError {
	return &APIError{
		Kind:    KindNetworkError,
		Message: err.Error(),
	}
}
