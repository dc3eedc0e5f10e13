package usecase

import "context"

// Operation is one business transaction: it takes a typed input and yields exactly
// one Result. The error return is reserved for infrastructure faults the operation
// cannot turn into an outcome (a lost connection, an exhausted pool).
type Operation[I, O any] interface {
	Call(ctx context.Context, in I) (Result[O], error)
}

// Func adapts a function (or a method value) to Operation.
type Func[I, O any] func(ctx context.Context, in I) (Result[O], error)

func (f Func[I, O]) Call(ctx context.Context, in I) (Result[O], error) {
	return f(ctx, in)
}

// Input is implemented by operation inputs. Normalize applies lazy defaults
// (trimming, lower-casing) and reports missing required attributes.
type Input[I any] interface {
	Normalize() (I, error)
}

// MissingInputError means a required attribute was absent. It is an input-shape
// failure and never reaches the operation.
type MissingInputError struct {
	Param string
}

func (e *MissingInputError) Error() string {
	return "param is missing or the value is empty: " + e.Param
}

// Require returns a *MissingInputError for param unless present.
func Require(param string, present bool) error {
	if present {
		return nil
	}
	return &MissingInputError{Param: param}
}

// Run normalizes in and invokes op with it. A normalization error is returned
// as is and op is not called.
func Run[I Input[I], O any](ctx context.Context, op Operation[I, O], in I) (Result[O], error) {
	in, err := in.Normalize()
	if err != nil {
		return Result[O]{}, err
	}
	return op.Call(ctx, in)
}
