package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConflict is returned by the storage layer when a compare-and-set write
// loses to a concurrent update. The orchestrator retries these a bounded
// number of times before surfacing the error.
var ErrConflict = errors.New("concurrent update conflict")

// ValidationError reports malformed input: missing fields, an unsupported HS
// code, or a document name the category does not declare. Never retried.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// AuthorizationError reports a rejected credential. InvalidCredential
// distinguishes an unknown key from a known agency acting outside its
// allowed documents.
type AuthorizationError struct {
	Reason            string
	InvalidCredential bool
}

func (e *AuthorizationError) Error() string { return e.Reason }

func NewInvalidCredentialError() *AuthorizationError {
	return &AuthorizationError{Reason: "invalid credential", InvalidCredential: true}
}

func NewNotAuthorizedError(documentName string) *AuthorizationError {
	return &AuthorizationError{Reason: fmt.Sprintf("not authorized for %s", documentName)}
}

// PrerequisiteError reports an attempted approval while prerequisite
// documents are unmet. Unmet carries the missing names so callers can report
// precisely what is outstanding.
type PrerequisiteError struct {
	Document string
	Unmet    []string
}

func (e *PrerequisiteError) Error() string {
	return fmt.Sprintf("prerequisites not met for %s: %s", e.Document, strings.Join(e.Unmet, ", "))
}

// NotFoundError reports a missing booking, cargo item, agency, or category.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

func NewNotFoundError(resource, key string) *NotFoundError {
	return &NotFoundError{Resource: resource, Key: key}
}
