// Package usecase holds the building blocks every business operation is made of:
// an immutable Result, field-level Errors, the Operation contract, composition
// helpers and outcome dispatch.
package usecase

// Type tags the outcome of an operation. Tags are operation vocabulary, not a global enum.
type Type string

const (
	TypeOK                  Type = "ok"
	TypeFailure             Type = "failure"
	TypeNotFound            Type = "not_found"
	TypeUnprocessableEntity Type = "unprocessable_entity"
)

// Result is the outcome of an operation: a success carrying a value of type T,
// or a failure carrying field-level Errors. The zero Result is an untagged failure.
type Result[T any] struct {
	ok    bool
	typ   Type
	value T
	errs  Errors
}

// Success builds a successful Result. An empty typ becomes TypeOK.
func Success[T any](typ Type, value T) Result[T] {
	if typ == "" {
		typ = TypeOK
	}
	return Result[T]{ok: true, typ: typ, value: value}
}

// Failure builds a failed Result. An empty typ becomes TypeFailure.
// errs is copied, so later changes to the caller's map do not leak in.
func Failure[T any](typ Type, errs Errors) Result[T] {
	if typ == "" {
		typ = TypeFailure
	}
	return Result[T]{typ: typ, errs: errs.Clone()}
}

func (r Result[T]) OK() bool     { return r.ok }
func (r Result[T]) Failed() bool { return !r.ok }
func (r Result[T]) Type() Type   { return r.typ }

// Value returns the success payload, or the zero T for a failure.
func (r Result[T]) Value() T {
	if !r.ok {
		var zero T
		return zero
	}
	return r.value
}

// Unwrap returns the success payload and whether r succeeded.
func (r Result[T]) Unwrap() (T, bool) {
	return r.Value(), r.ok
}

// Errors returns a copy of the failure payload. It is nil for a success.
func (r Result[T]) Errors() Errors {
	return r.errs.Clone()
}

// Is reports whether r has the given success flag and tag.
func (r Result[T]) Is(ok bool, typ Type) bool {
	return r.ok == ok && r.typ == typ
}

// retype carries a failure across a stage boundary with a different payload type.
func retype[B, A any](r Result[A]) Result[B] {
	return Result[B]{typ: r.typ, errs: r.errs}
}
