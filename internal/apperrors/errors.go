package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInsufficientFunds indicates that an operation would drive an account balance negative.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrUnauthorized indicates that presented credentials could not be verified.
var ErrUnauthorized = errors.New("invalid credentials")

// ErrConflict indicates that an operation could not acquire its account locks within
// the bounded wait. The operation had no effect and the caller may retry.
var ErrConflict = errors.New("operation conflicts with a concurrent operation")

// ErrInconsistent indicates that the transaction log no longer reconciles with the
// stored balances. This signals a bug, not a recoverable runtime condition.
var ErrInconsistent = errors.New("ledger is inconsistent with account balances")

// AppError wraps a storage-layer or otherwise non-business failure with a code and
// a message suitable for logging.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates a new AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
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
