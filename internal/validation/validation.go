package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Field-level messages, kept byte-compatible with the API contract.
const (
	MsgBlank        = "can't be blank"
	MsgInvalid      = "is invalid"
	MsgTaken        = "has already been taken"
	MsgConfirmation = "doesn't match Password"
	MsgPriceGTEZero = "must be greater than or equal to 0"
)

var emailPattern = regexp.MustCompile(`^[\w+\-.]+@[a-zA-Z\d\-.]+\.[a-zA-Z]+$`)

// ValidEmail reports whether s is a syntactically valid email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// Errors collects field-scoped validation messages.
type Errors map[string][]string

func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

func (e Errors) Any() bool {
	return len(e) > 0
}

// Error wraps a non-empty Errors set so services can return it through the
// regular error path and handlers can map it to a 422 response.
type Error struct {
	Fields Errors
}

func (e *Error) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s %s", field, strings.Join(e.Fields[field], ", ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Failed returns a *Error when the set is non-empty, nil otherwise.
func Failed(errs Errors) error {
	if !errs.Any() {
		return nil
	}
	return &Error{Fields: errs}
}
