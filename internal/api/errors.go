package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const genericErrorMessage = "something went wrong, please try again"

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ApiError is the normalized error every API call and pre-network
// validation failure resolves to.
type ApiError struct {
	StatusCode int          `json:"status_code"`
	Message    string       `json:"message"`
	Fields     []FieldError `json:"errors,omitempty"`
	Err        error        `json:"-"`
}

func (e *ApiError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Err.Error())
	}

	return e.Message
}

func (e *ApiError) Unwrap() error {
	return e.Err
}

// UserMessage picks the most specific text available for display: the first
// field-level message, then the server message, then a generic fallback.
func (e *ApiError) UserMessage() string {
	if len(e.Fields) > 0 && e.Fields[0].Message != "" {
		return e.Fields[0].Message
	}
	if e.Message != "" {
		return e.Message
	}

	return genericErrorMessage
}

func NewValidationError(field, message string) *ApiError {
	return &ApiError{
		StatusCode: http.StatusBadRequest,
		Message:    message,
		Fields:     []FieldError{{Field: field, Message: message}},
	}
}

func NewStatusError(statusCode int, message string) *ApiError {
	if message == "" {
		message = strings.ToLower(http.StatusText(statusCode))
	}

	return &ApiError{
		StatusCode: statusCode,
		Message:    message,
	}
}

func NewTransportError(err error) *ApiError {
	return &ApiError{
		Message: "network error",
		Err:     err,
	}
}

func IsUnauthorized(err error) bool {
	var apiErr *ApiError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

func IsForbidden(err error) bool {
	var apiErr *ApiError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusForbidden
}

// UserMessageFor normalizes any error into display text, applying the
// specificity order from UserMessage when the error is an ApiError.
func UserMessageFor(err error) string {
	var apiErr *ApiError
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage()
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}

	return genericErrorMessage
}
