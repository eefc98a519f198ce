package errors

import "fmt"

// Error codes
const (
	ErrCodeNotFound               = "NOT_FOUND"
	ErrCodeValidation             = "VALIDATION_ERROR"
	ErrCodeInvalidRating          = "INVALID_RATING"
	ErrCodeInvalidScenario        = "INVALID_SCENARIO"
	ErrCodeInsufficientFunds      = "INSUFFICIENT_FUNDS"
	ErrCodeDuplicateTransaction   = "DUPLICATE_TRANSACTION"
	ErrCodeConcurrentModification = "CONCURRENT_MODIFICATION"
	ErrCodeInternal               = "INTERNAL_ERROR"
	ErrCodeBadRequest             = "BAD_REQUEST"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "NOT_FOUND", "INVALID_RATING")
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an AppError with the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  404,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  400,
	}
}

// NewInvalidRatingError reports a rating outside the accepted set. This is a
// contract violation at the boundary, never retried.
func NewInvalidRatingError(rating string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidRating,
		Message: fmt.Sprintf("invalid rating %q: must be 'easy', 'good', or 'difficult'", rating),
		Status:  400,
	}
}

// NewInvalidScenarioError reports a malformed scenario or answer set.
func NewInvalidScenarioError(reason string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidScenario,
		Message: fmt.Sprintf("invalid scenario: %s", reason),
		Status:  400,
	}
}

// NewInsufficientFundsError is a declined debit, not a fault. The current
// balance and required amount travel with it so callers can explain the
// shortfall.
func NewInsufficientFundsError(current, required int64) *AppError {
	return &AppError{
		Code:    ErrCodeInsufficientFunds,
		Message: fmt.Sprintf("insufficient funds: balance %d, required %d", current, required),
		Status:  200,
	}
}

// NewDuplicateTransactionError marks an idempotency-key collision. Internal
// only: the ledger resolves it by replay and never surfaces it.
func NewDuplicateTransactionError(key string) *AppError {
	return &AppError{
		Code:    ErrCodeDuplicateTransaction,
		Message: fmt.Sprintf("transaction already applied for key %s", key),
		Status:  409,
	}
}

// NewConcurrentModificationError marks a violated serialization contract.
// Logged and retried once by the ledger, then fatal to the operation.
func NewConcurrentModificationError(userID string) *AppError {
	return &AppError{
		Code:    ErrCodeConcurrentModification,
		Message: fmt.Sprintf("concurrent modification on account %s", userID),
		Status:  500,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  500,
		Err:     err,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  400,
	}
}
