package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeInvalid      ErrorCode = "INVALID"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeInternal     ErrorCode = "INTERNAL"
)

// Error represents a domain-level error. Reason is the stable machine-readable
// code surfaced to API clients; Code drives the HTTP status mapping.
type Error struct {
	Code    ErrorCode
	Reason  string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error whose reason equals its classification code.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Reason: string(code), Message: message}
}

// NewReason builds a domain error with a distinct machine-readable reason.
func NewReason(code ErrorCode, reason, message string) *Error {
	return &Error{Code: code, Reason: reason, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Reason:  string(code),
		Message: message,
		Err:     err,
	}
}

// Store lifecycle error taxonomy.
var (
	ErrStoreNotFound              = NewReason(ErrCodeNotFound, "STORE_NOT_FOUND", "store not found")
	ErrDuplicateStore             = NewReason(ErrCodeConflict, "DUPLICATE_STORE", "owner already has a registered store")
	ErrStoreAccessDenied          = NewReason(ErrCodeForbidden, "STORE_ACCESS_DENIED", "caller is not the store owner")
	ErrStoreAlreadyDeleted        = NewReason(ErrCodeConflict, "STORE_ALREADY_DELETED", "store is already deleted")
	ErrStoreAlreadySuspended      = NewReason(ErrCodeConflict, "STORE_ALREADY_SUSPENDED", "store is already suspended")
	ErrCannotUpdateSuspendedStore = NewReason(ErrCodeConflict, "CANNOT_UPDATE_SUSPENDED_STORE", "suspended store cannot be updated")
	ErrCannotUpdateDeletedStore   = NewReason(ErrCodeConflict, "CANNOT_UPDATE_DELETED_STORE", "deleted store cannot be updated")
	ErrInsufficientPermission     = NewReason(ErrCodeForbidden, "INSUFFICIENT_PERMISSION", "caller role does not allow this operation")
	ErrInvalidStoreName           = NewReason(ErrCodeInvalid, "VALIDATION_ERROR", "store name must be non-blank and at most 100 characters")
	ErrDuplicateRequest           = NewReason(ErrCodeConflict, "DUPLICATE_REQUEST", "request with this idempotency key was already accepted")
	ErrIdentityNotFound           = NewReason(ErrCodeNotFound, "IDENTITY_NOT_FOUND", "identity not found")
	ErrStoreIDUnassigned          = NewError(ErrCodeInternal, "store id not assigned")
	ErrUnauthorized               = NewError(ErrCodeUnauthorized, "unauthorized")
	ErrInvalidPayload             = NewError(ErrCodeInvalid, "invalid payload")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

// Reason extracts the machine-readable reason of a domain error, if any.
func Reason(err error) string {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Reason
	}
	return string(ErrCodeInternal)
}
