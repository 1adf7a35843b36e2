package shared

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a DomainError. Callers branch on the kind, never on
// the message.
type ErrorKind string

const (
	// KindValidation marks malformed or out-of-range input
	KindValidation ErrorKind = "VALIDATION_ERROR"
	// KindNotFound marks a missing referenced entity
	KindNotFound ErrorKind = "NOT_FOUND"
	// KindConflict marks a forbidden state transition or a stale version
	KindConflict ErrorKind = "CONFLICT"
	// KindStock marks an outbound movement exceeding available stock
	KindStock ErrorKind = "STOCK_ERROR"
	// KindConsistency marks a stored aggregate disagreeing with its recomputation
	KindConsistency ErrorKind = "CONSISTENCY_ERROR"
)

// DomainError represents a domain-level error
type DomainError struct {
	Kind    ErrorKind `json:"kind"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError of the same kind. A target
// without a code matches every error of its kind, so errors.Is(err,
// ErrStock) holds for any stock error while errors.Is(err, ErrVersionConflict)
// only holds for that specific code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Code == "" || t.Code == e.Code
}

// NewDomainError creates a new domain error of the given kind
func NewDomainError(kind ErrorKind, code, message string) *DomainError {
	return &DomainError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a ValidationError
func NewValidationError(code, message string) *DomainError {
	return NewDomainError(KindValidation, code, message)
}

// NewNotFoundError creates a NotFoundError for the named entity
func NewNotFoundError(entity string) *DomainError {
	return NewDomainError(KindNotFound, "NOT_FOUND", fmt.Sprintf("%s not found", entity))
}

// NewConflictError creates a ConflictError
func NewConflictError(code, message string) *DomainError {
	return NewDomainError(KindConflict, code, message)
}

// NewStockError creates a StockError
func NewStockError(code, message string) *DomainError {
	return NewDomainError(KindStock, code, message)
}

// NewConsistencyError creates a ConsistencyError
func NewConsistencyError(code, message string) *DomainError {
	return NewDomainError(KindConsistency, code, message)
}

// Kind sentinels, usable with errors.Is
var (
	ErrValidation  = &DomainError{Kind: KindValidation, Message: "validation failed"}
	ErrNotFound    = &DomainError{Kind: KindNotFound, Message: "resource not found"}
	ErrConflict    = &DomainError{Kind: KindConflict, Message: "conflict"}
	ErrStock       = &DomainError{Kind: KindStock, Message: "insufficient stock"}
	ErrConsistency = &DomainError{Kind: KindConsistency, Message: "consistency check failed"}
)

// Specific errors shared across contexts
var (
	ErrVersionConflict = NewConflictError("OPTIMISTIC_LOCK_FAILED", "record was modified by another request, reload and retry")
	ErrAlreadyExists   = NewConflictError("ALREADY_EXISTS", "resource already exists")
)

// KindOf returns the kind of the first DomainError in err's chain, or the
// empty kind when err carries none.
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}
