package types

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes failures surfaced by the core services.
type ErrorKind string

const (
	KindValidation         ErrorKind = "validation"
	KindUnauthorized       ErrorKind = "unauthorized"
	KindForbidden          ErrorKind = "forbidden"
	KindNotFound           ErrorKind = "not_found"
	KindConflict           ErrorKind = "conflict"
	KindSlotUnavailable    ErrorKind = "slot_unavailable"
	KindInvalidTransition  ErrorKind = "invalid_transition"
	KindStorageUnavailable ErrorKind = "storage_unavailable"
)

// Error is the structured error returned by every core operation. Only
// StorageUnavailable is retry-eligible; everything else is terminal for
// the request.
type Error struct {
	Kind    ErrorKind `json:"kind"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Retryable reports whether the caller may retry the operation. A retry
// after SlotUnavailable must re-run the full availability check, so only
// transient storage faults qualify.
func (e *Error) Retryable() bool {
	return e.Kind == KindStorageUnavailable
}

// Common error codes.
const (
	CodeTokenMalformed    = "TOKEN_MALFORMED"
	CodeTokenExpired      = "TOKEN_EXPIRED"
	CodeRoleMismatch      = "ROLE_MISMATCH"
	CodeBadCredentials    = "BAD_CREDENTIALS"
	CodeForbidden         = "FORBIDDEN"
	CodeDoctorNotFound    = "DOCTOR_NOT_FOUND"
	CodePatientNotFound   = "PATIENT_NOT_FOUND"
	CodeNotFound          = "NOT_FOUND"
	CodeDuplicateContact  = "DUPLICATE_CONTACT"
	CodeDuplicateRx       = "DUPLICATE_PRESCRIPTION"
	CodeRxNotFound        = "PRESCRIPTION_NOT_FOUND"
	CodeSlotUnavailable   = "SLOT_UNAVAILABLE"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeStorageTimeout    = "STORAGE_TIMEOUT"
	CodeStorageFault      = "STORAGE_FAULT"
	CodeInvalidInput      = "INVALID_INPUT"
)

// NewValidationError creates a new validation error.
func NewValidationError(code, message string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: message}
}

// NewUnauthorizedError creates a new authentication error.
func NewUnauthorizedError(code, message string) *Error {
	return &Error{Kind: KindUnauthorized, Code: code, Message: message}
}

// NewForbiddenError creates a new authorization error.
func NewForbiddenError(message string) *Error {
	return &Error{Kind: KindForbidden, Code: CodeForbidden, Message: message}
}

// NewNotFoundError creates a new not-found error.
func NewNotFoundError(code, message string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: message}
}

// NewConflictError creates a new uniqueness-conflict error.
func NewConflictError(code, message string) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: message}
}

// NewSlotUnavailableError creates the booking-race error.
func NewSlotUnavailableError(message string) *Error {
	return &Error{Kind: KindSlotUnavailable, Code: CodeSlotUnavailable, Message: message}
}

// NewInvalidTransitionError creates a state-machine violation error.
func NewInvalidTransitionError(message string) *Error {
	return &Error{Kind: KindInvalidTransition, Code: CodeInvalidTransition, Message: message}
}

// NewStorageError creates a transient infrastructure error.
func NewStorageError(code, message string, cause error) *Error {
	return &Error{Kind: KindStorageUnavailable, Code: code, Message: message, Cause: cause}
}

// KindOf extracts the kind of a core error, or "" for foreign errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err is a core error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return IsKind(err, KindNotFound) }

// IsSlotUnavailable reports whether err is the booking-race error.
func IsSlotUnavailable(err error) bool { return IsKind(err, KindSlotUnavailable) }

// IsForbidden reports whether err is an authorization error.
func IsForbidden(err error) bool { return IsKind(err, KindForbidden) }

// IsUnauthorized reports whether err is an authentication error.
func IsUnauthorized(err error) bool { return IsKind(err, KindUnauthorized) }

// IsInvalidTransition reports whether err is a state-machine violation.
func IsInvalidTransition(err error) bool { return IsKind(err, KindInvalidTransition) }
