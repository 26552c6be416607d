package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Kind labels the failure class so the boundary layer can pick a response
// code without inspecting messages.
type Kind string

const (
	KindValidation       Kind = "validation"
	KindUnsupportedMedia Kind = "unsupported_media"
	KindNotFound         Kind = "not_found"
	KindParsing          Kind = "parsing"
	KindUpstream         Kind = "upstream"
	KindExtraction       Kind = "extraction"
)

type AppError struct {
	Kind    Kind   `json:"kind"`
	Code    int    `json:"-"`
	Message string `json:"error"`
	Op      string `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func Validation(op string, err error, message string) *AppError {
	return &AppError{
		Kind:    KindValidation,
		Code:    http.StatusBadRequest,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

func UnsupportedMedia(op string, err error, message string) *AppError {
	return &AppError{
		Kind:    KindUnsupportedMedia,
		Code:    http.StatusUnsupportedMediaType,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

func NotFound(op string, err error, message string) *AppError {
	return &AppError{
		Kind:    KindNotFound,
		Code:    http.StatusNotFound,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

func Parsing(op string, err error, message string) *AppError {
	return &AppError{
		Kind:    KindParsing,
		Code:    http.StatusUnprocessableEntity,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

func Upstream(op string, err error, message string) *AppError {
	return &AppError{
		Kind:    KindUpstream,
		Code:    http.StatusBadGateway,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

func Extraction(op string, err error, message string) *AppError {
	return &AppError{
		Kind:    KindExtraction,
		Code:    http.StatusInternalServerError,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

// IsKind reports whether err is an AppError of the given kind anywhere in
// its chain.
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// CodeOf returns the HTTP status for err, defaulting to 500 for errors that
// did not originate in this package.
func CodeOf(err error) int {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return http.StatusInternalServerError
}

// MessageOf returns the human-readable message for err without exposing
// wrapped internals.
func MessageOf(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}
