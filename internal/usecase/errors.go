package usecase

import (
	"sort"
	"strings"
)

// Violation messages shared by operations.
const (
	MsgBlank    = "can't be blank"
	MsgInvalid  = "is invalid"
	MsgTaken    = "has already been taken"
	MsgNoMatch  = "doesn't match password"
	MsgNotFound = "not found"
)

// Errors maps a field name to its violations, in the order they were found.
type Errors map[string][]string

// NotFound is the fixed failure payload for lookups that miss.
func NotFound() Errors {
	return Errors{"id": {MsgNotFound}}
}

// Clone returns a deep copy of e.
func (e Errors) Clone() Errors {
	if e == nil {
		return nil
	}
	out := make(Errors, len(e))
	for k, v := range e {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Add appends msg to field's violations.
func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Any reports whether at least one violation was recorded.
func (e Errors) Any() bool {
	return len(e) > 0
}

// Fields returns the field names with violations, sorted.
func (e Errors) Fields() []string {
	out := make([]string, 0, len(e))
	for k := range e {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Blank reports whether s is empty after trimming whitespace.
func Blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// RequirePresent records MsgBlank for field when value is blank.
// It returns true when the value is present.
func (e Errors) RequirePresent(field, value string) bool {
	if Blank(value) {
		e.Add(field, MsgBlank)
		return false
	}
	return true
}

// Check records msg for field when ok is false and returns ok.
func (e Errors) Check(ok bool, field, msg string) bool {
	if !ok {
		e.Add(field, msg)
	}
	return ok
}

// Unprocessable turns the collected violations into a failed Result.
func Unprocessable[T any](e Errors) Result[T] {
	return Failure[T](TypeUnprocessableEntity, e)
}
