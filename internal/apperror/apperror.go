package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("Validation Error")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")

	// ErrPrecondition means a named workflow guard did not hold.
	ErrPrecondition = errors.New("precondition failed")
	// ErrInvalidState means the entity's status forbids the operation.
	ErrInvalidState = errors.New("invalid state")
)

// Reason names the exact guard that failed, so callers can branch on it
// instead of parsing the message.
type Reason string

const (
	ReasonRepNotApproved     Reason = "rep_not_approved"
	ReasonPostingCapReached  Reason = "posting_cap_reached"
	ReasonAlreadyPlaced      Reason = "already_placed"
	ReasonApplicationLimit   Reason = "application_limit"
	ReasonAlreadyApplied     Reason = "already_applied"
	ReasonMajorMismatch      Reason = "major_mismatch"
	ReasonNotOwner           Reason = "not_owner"
	ReasonOfferNotApproved   Reason = "offer_not_approved"
	ReasonNoSlotsLeft        Reason = "no_slots_left"
	ReasonWithdrawalPending  Reason = "withdrawal_already_pending"
	ReasonNoPendingWithdraw  Reason = "no_pending_withdrawal"
	ReasonPostingApproved    Reason = "posting_approved"
	ReasonPostingNotPending  Reason = "posting_not_pending"
	ReasonDecisionFinal      Reason = "decision_already_made"
	ReasonRepNotPending      Reason = "rep_not_pending"
	ReasonUserNotFound       Reason = "user_not_found"
	ReasonWrongPassword      Reason = "wrong_password"
	ReasonUserNotApproved    Reason = "user_not_approved"
	ReasonPostingNotEligible Reason = "posting_not_open"
)

type AppError struct {
	Err     error  // actual error
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
	Reason  Reason // Optional: which guard failed
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(resource, id string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s conflict with id %s", resource, id),
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// Unauthorized is returned by login when credentials don't check out.
func Unauthorized(reason Reason, message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
		Reason:  reason,
	}
}

// PreconditionFailed reports that the guard named by reason did not hold.
func PreconditionFailed(reason Reason, message string) *AppError {
	return &AppError{
		Err:     ErrPrecondition,
		Message: message,
		Reason:  reason,
	}
}

// InvalidState reports that an entity's current status forbids the operation.
func InvalidState(reason Reason, message string) *AppError {
	return &AppError{
		Err:     ErrInvalidState,
		Message: message,
		Reason:  reason,
	}
}

// ReasonOf extracts the guard name from anywhere in err's chain.
// It returns "" when err carries no reason.
func ReasonOf(err error) Reason {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Reason
	}
	return ""
}
