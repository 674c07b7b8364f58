package handler

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/hashtags/pkg/hashtag"
	"github.com/dmitrymomot/hashtags/pkg/store"
)

// Error codes returned in the "code" field of error responses.
const (
	CodeBadRequest     = "bad_request"
	CodeNotFound       = "not_found"
	CodeInvalidPattern = "invalid_pattern"
	CodeMatchTimeout   = "match_timeout"
	CodeInternal       = "internal_error"
)

// HTTPError is an error carrying everything needed to render a JSON error
// response.
type HTTPError struct {
	// Err is the underlying error, logged but never exposed.
	Err error `json:"-"`

	// Message is the user-facing error message.
	Message string `json:"message"`

	// ErrorCode is one of the Code constants.
	ErrorCode string `json:"code"`

	// RequestID is the request tracking ID.
	RequestID string `json:"request_id,omitempty"`

	// Code is the HTTP status code.
	Code int `json:"-"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// NewHTTPError creates an HTTPError with the given status, code and message.
func NewHTTPError(status int, code, message string) *HTTPError {
	return &HTTPError{Code: status, ErrorCode: code, Message: message}
}

func badRequest(message string, err error) *HTTPError {
	e := NewHTTPError(http.StatusBadRequest, CodeBadRequest, message)
	e.Err = err
	return e
}

// toHTTPError maps domain errors onto responses. Unknown errors become a
// generic 500.
func toHTTPError(err error) *HTTPError {
	var he *HTTPError
	if errors.As(err, &he) {
		return he
	}

	var e *HTTPError
	switch {
	case errors.Is(err, store.ErrNotFound):
		e = NewHTTPError(http.StatusNotFound, CodeNotFound, "hashtag not found")
	case errors.Is(err, store.ErrEmptyName), errors.Is(err, store.ErrInvalidOwner):
		e = NewHTTPError(http.StatusBadRequest, CodeBadRequest, err.Error())
	case errors.Is(err, hashtag.ErrInvalidPattern):
		e = NewHTTPError(http.StatusInternalServerError, CodeInvalidPattern, "hashtag pattern is invalid")
	case errors.Is(err, hashtag.ErrMatchTimeout):
		e = NewHTTPError(http.StatusInternalServerError, CodeMatchTimeout, "pattern matching timed out")
	default:
		e = NewHTTPError(http.StatusInternalServerError, CodeInternal, http.StatusText(http.StatusInternalServerError))
	}
	e.Err = err
	return e
}
