package domain

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
)

// Kind classifies failures into the closed set understood by the transport layers.
type Kind uint8

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error is the tagged error returned by services.
type Error struct {
	Kind     Kind
	Resource string
	Key      string
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if msg := strings.TrimSpace(e.Message); msg != "" {
		return msg
	}
	switch e.Kind {
	case KindNotFound:
		if e.Key != "" {
			return fmt.Sprintf("%s %q not found", e.resource(), e.Key)
		}
		return e.resource() + " not found"
	case KindConflict:
		if e.Key != "" {
			return fmt.Sprintf("%s %q already exists", e.resource(), e.Key)
		}
		return e.resource() + " already exists"
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String() + " error"
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *Error) resource() string {
	if e.Resource == "" {
		return "resource"
	}
	return e.Resource
}

// NotFound reports a missing resource identified by key.
func NotFound(resource, key string) *Error {
	return &Error{Kind: KindNotFound, Resource: resource, Key: key}
}

// Conflict reports a uniqueness violation on key.
func Conflict(resource, key string) *Error {
	return &Error{Kind: KindConflict, Resource: resource, Key: key}
}

// Validation reports malformed input. err may carry field level detail.
func Validation(message string, err error) *Error {
	return &Error{Kind: KindValidation, Message: message, Err: err}
}

// Validationf formats a validation message.
func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Internal wraps an unexpected failure.
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf classifies err. Typed errors win; ozzo and go-errors validation
// failures map to KindValidation, repository misses to KindNotFound.
func KindOf(err error) Kind {
	if err == nil {
		return KindInternal
	}
	var tagged *Error
	if errors.As(err, &tagged) && tagged != nil {
		return tagged.Kind
	}
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		return KindValidation
	}
	var ruleErr validation.Error
	if errors.As(err, &ruleErr) {
		return KindValidation
	}
	if goerrors.IsCategory(err, goerrors.CategoryValidation) {
		return KindValidation
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return KindNotFound
	}
	return KindInternal
}

// Is reports whether err classifies as kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
