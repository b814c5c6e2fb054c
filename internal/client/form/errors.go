// Package form validates user input before it becomes a request body.
//
// Field rules live in struct tags checked by go-playground/validator. Rules
// that span fields (date ranges, price ranges, password confirmation) run
// after them and report under a group code, or under the confirmation field
// for password pairs.
package form

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Group and field codes shown to the user.
const (
	CodeDateRangeIncomplete  = "dateRangeIncomplete"
	CodeInvalidDateRange     = "invalidDateRange"
	CodePriceRangeIncomplete = "priceRangeIncomplete"
	CodeInvalidPriceRange    = "invalidPriceRange"
	CodeInvalidDate          = "invalidDate"
	CodeMismatch             = "mismatch"
	CodeNotPast              = "notPast"
	CodePastDate             = "pastDate"
)

var (
	// ErrRangeIncomplete means exactly one end of a range was given.
	ErrRangeIncomplete = errors.New("range is incomplete")
	// ErrRangeOrder means the end of a range is not after its start.
	ErrRangeOrder = errors.New("range end must be after its start")
	// ErrInvalidDate means a date could not be parsed.
	ErrInvalidDate = errors.New("invalid date")
	// ErrMismatch means a confirmation field differs from the field it confirms.
	ErrMismatch = errors.New("values do not match")
)

// Errors collects what is wrong with a form. Group holds cross-field codes;
// Fields maps a field's JSON name to the rules it failed.
type Errors struct {
	Group  []string
	Fields map[string][]string
}

// Empty reports whether no rule failed.
func (e Errors) Empty() bool {
	return len(e.Group) == 0 && len(e.Fields) == 0
}

// Err returns e as an error, or nil when it is empty.
func (e Errors) Err() error {
	if e.Empty() {
		return nil
	}
	return e
}

// HasGroup reports whether code was raised for the form as a whole.
func (e Errors) HasGroup(code string) bool {
	for _, c := range e.Group {
		if c == code {
			return true
		}
	}
	return false
}

// Field returns the codes raised for field.
func (e Errors) Field(field string) []string {
	return e.Fields[field]
}

func (e *Errors) addGroup(code string) {
	e.Group = append(e.Group, code)
}

func (e *Errors) addField(field, code string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], code)
}

func (e Errors) Error() string {
	parts := make([]string, 0, len(e.Group)+len(e.Fields))
	parts = append(parts, e.Group...)

	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, strings.Join(e.Fields[name], ",")))
	}
	return "invalid form: " + strings.Join(parts, "; ")
}
