package framework

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes forming the handler error taxonomy. Each code carries a fixed
// HTTP status; handlers pick the code and the wrapper does the translation.
const (
	CodeConfigError         = "CONFIG_ERROR"
	CodeBadRequest          = "BAD_REQUEST"
	CodeUpstreamError       = "UPSTREAM_ERROR"
	CodeMissingUser         = "MISSING_USER"
	CodeRefreshFailed       = "REFRESH_FAILED"
	CodeFetchFailed         = "FETCH_FAILED"
	CodeSummarizationFailed = "SUMMARIZATION_FAILED"
	CodePersistenceError    = "PERSISTENCE_ERROR"
	CodePublishFailed       = "PUBLISH_FAILED"
)

var codeStatus = map[string]int{
	CodeConfigError:         http.StatusInternalServerError,
	CodeBadRequest:          http.StatusBadRequest,
	CodeUpstreamError:       http.StatusBadGateway,
	CodeMissingUser:         http.StatusInternalServerError,
	CodeRefreshFailed:       http.StatusInternalServerError,
	CodeFetchFailed:         http.StatusBadGateway,
	CodeSummarizationFailed: http.StatusInternalServerError,
	CodePersistenceError:    http.StatusInternalServerError,
	CodePublishFailed:       http.StatusBadGateway,
}

// Error is a handler failure with a taxonomy code and a public message.
// The wrapped cause is logged but never written to the response.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the status mapped to the error code, 500 for unknown
// codes.
func (e *Error) HTTPStatus() int {
	if s, ok := codeStatus[e.Code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// NewError builds a taxonomy error wrapping an underlying cause (may be nil).
func NewError(code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// StatusFor resolves the HTTP status for any handler error.
func StatusFor(err error) int {
	var fwErr *Error
	if errors.As(err, &fwErr) {
		return fwErr.HTTPStatus()
	}
	return http.StatusInternalServerError
}
