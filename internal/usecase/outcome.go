package usecase

// Outcome dispatches a Result to named handlers. At most one handler runs:
// the success handler for a success, or the failure handler registered for the
// Result's tag. Failure tags nobody registered are simply not taken.
//
//	usecase.On(r).
//		Failure(usecase.TypeNotFound, renderNotFound).
//		Failure(usecase.TypeUnprocessableEntity, renderInvalid).
//		Success(renderTodo).
//		Otherwise(renderUnexpected)
type Outcome[T any] struct {
	r     Result[T]
	taken bool
}

// On starts dispatching r.
func On[T any](r Result[T]) *Outcome[T] {
	return &Outcome[T]{r: r}
}

// Success runs fn with the value when the Result succeeded.
func (o *Outcome[T]) Success(fn func(T)) *Outcome[T] {
	if !o.taken && o.r.ok {
		o.taken = true
		fn(o.r.value)
	}
	return o
}

// Failure runs fn with the violations when the Result failed with tag typ.
func (o *Outcome[T]) Failure(typ Type, fn func(Errors)) *Outcome[T] {
	if !o.taken && !o.r.ok && o.r.typ == typ {
		o.taken = true
		fn(o.r.Errors())
	}
	return o
}

// Otherwise runs fn when no branch was taken.
func (o *Outcome[T]) Otherwise(fn func(Result[T])) {
	if !o.taken {
		o.taken = true
		fn(o.r)
	}
}

// Handled reports whether a branch ran.
func (o *Outcome[T]) Handled() bool { return o.taken }
