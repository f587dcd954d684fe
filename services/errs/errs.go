// Package errs defines the error kinds services return and controllers map to
// HTTP statuses.
package errs

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("you do not have permission to perform this action")
	ErrAuth      = errors.New("authentication credentials were not provided")
	ErrConflict  = errors.New("conflict")
)

// ValidationError carries per-field messages, rendered as {"field": ["msg"]}.
type ValidationError struct {
	Fields map[string][]string
}

func NewValidation(field, message string) *ValidationError {
	v := &ValidationError{Fields: map[string][]string{}}
	return v.Add(field, message)
}

func (v *ValidationError) Add(field, message string) *ValidationError {
	if v.Fields == nil {
		v.Fields = map[string][]string{}
	}
	v.Fields[field] = append(v.Fields[field], message)
	return v
}

// Empty reports whether no field has been flagged.
func (v *ValidationError) Empty() bool {
	return v == nil || len(v.Fields) == 0
}

func (v *ValidationError) Error() string {
	keys := make([]string, 0, len(v.Fields))
	for k := range v.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(v.Fields[k], "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Conflict is a business-rule rejection (duplicate favorite, self follow...)
// reported to the client as a plain detail message.
type Conflict struct {
	Detail string
}

func (c *Conflict) Error() string { return c.Detail }

func (c *Conflict) Is(target error) bool { return target == ErrConflict }

func NewConflict(detail string) error {
	return &Conflict{Detail: detail}
}

// NotFound is ErrNotFound with a specific detail message.
type NotFound struct {
	Detail string
}

func (n *NotFound) Error() string { return n.Detail }

func (n *NotFound) Is(target error) bool { return target == ErrNotFound }

func NewNotFound(detail string) error {
	return &NotFound{Detail: detail}
}
