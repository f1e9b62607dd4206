// internal/services/errors.go
package services

import (
	"errors"
	"strings"

	"catalogue-backend/internal/config"
	"catalogue-backend/internal/utils"
)

var (
	// ErrNotFound covers both a genuinely absent entity and an actor who
	// lacks the rights to touch it. The two causes are deliberately
	// indistinguishable to the caller.
	ErrNotFound = errors.New("not found")

	// ErrPermissionDenied is used by endpoints gated on a permission where
	// no particular entity is being masked (moderation queue, category
	// administration).
	ErrPermissionDenied = errors.New("permission denied")

	// ErrVersionNumberConflict surfaces a storage-level unique violation on
	// the version number, reachable only when concurrent submissions
	// compute the same next number. Retrying is the caller's
	// responsibility.
	ErrVersionNumberConflict = errors.New("version number already taken")

	// Anonymous-write outcomes, selected by the configured policy. Neither
	// commits anything.
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrLoginRequired          = errors.New("login required")
)

// FieldError is one field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError rejects a whole submission; nothing is committed when one
// is returned.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// NewValidationError wraps go-playground validator output into the service
// error kind.
func NewValidationError(err error) *ValidationError {
	ve := &ValidationError{}
	for _, fe := range utils.GetValidationErrors(err) {
		ve.Add(fe.Field, fe.Message)
	}
	if !ve.HasErrors() {
		ve.Add("request", err.Error())
	}
	return ve
}

// anonymousWriteError maps a nil actor on a write operation to the outcome
// the deployment is configured for.
func anonymousWriteError(cfg *config.Config) error {
	if cfg.App.AnonymousWritePolicy == config.AnonymousWriteRedirect {
		return ErrLoginRequired
	}
	return ErrAuthenticationRequired
}
