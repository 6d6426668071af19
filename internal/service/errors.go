package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password.
	// The two cases must stay indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountDeactivated means the credentials were right but the account
	// is switched off. No token is ever issued on this path.
	ErrAccountDeactivated = errors.New("account deactivated")

	ErrProviderAssertion = errors.New("invalid provider assertion")

	ErrUnauthenticated = errors.New("unauthenticated")

	ErrNotFound = errors.New("not found")

	// ErrLastAdmin guards against locking every administrator out.
	ErrLastAdmin = errors.New("cannot demote or deactivate the last active administrator")
)

// ValidationError carries one message per offending field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func newValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

func (e *ValidationError) add(field, msg string) {
	if _, taken := e.Fields[field]; !taken {
		e.Fields[field] = msg
	}
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
