package config

import (
	"fmt"
	"strings"
)

// InvariantCrossbarFanIn names the rule that the port count must fill whole
// crossbar nodes. It is not tied to a single field.
const InvariantCrossbarFanIn = "invalid configuration"

// A Violation is one broken configuration rule.
type Violation struct {
	Field  string
	Reason string
}

func (v Violation) String() string {
	return fmt.Sprintf("Config: '%s' invalid: %s", v.Field, v.Reason)
}

// Error reports an illegal configuration. It lists every violation found, so
// that users can fix all of them at once.
type Error struct {
	Violations []Violation
}

func (e *Error) Error() string {
	lines := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		lines = append(lines, v.String())
	}

	return "invalid configuration!\n\t" + strings.Join(lines, "\n\t")
}

// HasViolation checks if the named field is among the violations.
func (e *Error) HasViolation(field string) bool {
	for _, v := range e.Violations {
		if v.Field == field {
			return true
		}
	}

	return false
}

// NewError creates an Error with a single violation.
func NewError(field, reason string) *Error {
	return &Error{Violations: []Violation{{Field: field, Reason: reason}}}
}
