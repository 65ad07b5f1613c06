package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a strindex error code.
type ErrorCode string

const (
	ErrInvalidRequest    ErrorCode = "INVALID_REQUEST"    // 400
	ErrUnparseableQuery  ErrorCode = "UNPARSEABLE_QUERY"  // 400
	ErrNotFound          ErrorCode = "NOT_FOUND"          // 404
	ErrFileNotFound      ErrorCode = "FILE_NOT_FOUND"     // 404
	ErrConflict          ErrorCode = "CONFLICT"           // 409
	ErrUnprocessableType ErrorCode = "UNPROCESSABLE_TYPE" // 422
	ErrConflictingFilter ErrorCode = "CONFLICTING_FILTER" // 422
	ErrCancelled         ErrorCode = "CANCELLED"          // 499
	ErrInternal          ErrorCode = "INTERNAL"           // 500
)

// Error represents a structured error with code, status, and details.
type Error struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *Error {
	return &Error{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewUnprocessableType creates a 422 error for a value that is present but not text.
func NewUnprocessableType(field, gotType string) *Error {
	return &Error{
		Code:    ErrUnprocessableType,
		Status:  422,
		Message: fmt.Sprintf("%s must be a string, got %s", field, gotType),
		Details: map[string]any{"field": field, "type": gotType},
	}
}

// NewUnparseableQuery creates a 400 error when no natural-language rule matched.
// interpreted is echoed back so callers can see what was attempted.
func NewUnparseableQuery(interpreted any) *Error {
	return &Error{
		Code:    ErrUnparseableQuery,
		Status:  400,
		Message: "unable to parse natural language query",
		Details: map[string]any{"interpreted_query": interpreted},
	}
}

// NewConflictingFilter creates a 422 error for filters that can never match.
func NewConflictingFilter(minLength, maxLength int) *Error {
	return &Error{
		Code:    ErrConflictingFilter,
		Status:  422,
		Message: fmt.Sprintf("min_length (%d) is greater than max_length (%d)", minLength, maxLength),
		Details: map[string]any{"min_length": minLength, "max_length": maxLength},
	}
}

// NewNotFound creates a 404 error for when a string has not been analyzed.
func NewNotFound(value string) *Error {
	return &Error{
		Code:    ErrNotFound,
		Status:  404,
		Message: "string does not exist in the system",
		Details: map[string]any{"value": value},
	}
}

// NewFileNotFound creates a 404 error for a missing import file.
func NewFileNotFound(path string) *Error {
	return &Error{
		Code:    ErrFileNotFound,
		Status:  404,
		Message: fmt.Sprintf("file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewConflict creates a 409 error for general conflicts.
func NewConflict(msg string) *Error {
	return &Error{
		Code:    ErrConflict,
		Status:  409,
		Message: msg,
	}
}

// NewCancelled creates a 499 error when the caller abandoned an operation.
func NewCancelled(op string) *Error {
	return &Error{
		Code:    ErrCancelled,
		Status:  499,
		Message: fmt.Sprintf("%s cancelled", op),
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
// The message stays generic; the cause is kept in Details for logging only.
func NewInternal(err error) *Error {
	details := map[string]any{}
	if err != nil {
		details["internal_error"] = err.Error()
	}
	return &Error{
		Code:    ErrInternal,
		Status:  500,
		Message: "an internal error occurred",
		Details: details,
	}
}

// Is checks if an error (or anything it wraps) is an *Error with the given code.
func Is(err error, code ErrorCode) bool {
	var sErr *Error
	if stderrors.As(err, &sErr) {
		return sErr.Code == code
	}
	return false
}

// As returns the *Error in err's chain, if any.
func As(err error) (*Error, bool) {
	var sErr *Error
	if stderrors.As(err, &sErr) {
		return sErr, true
	}
	return nil, false
}
