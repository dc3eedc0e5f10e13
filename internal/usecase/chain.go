package usecase

import "context"

// Then feeds the value of a successful r into next. A failed r is returned
// unchanged (retyped) and next is not called; a non-nil err is passed through.
func Then[A, B any](ctx context.Context, r Result[A], err error, next Operation[A, B]) (Result[B], error) {
	if err != nil {
		return Result[B]{}, err
	}
	if !r.ok {
		return retype[B](r), nil
	}
	return next.Call(ctx, r.value)
}

// Chain composes first and next into a single operation. Chains nest to the
// left: Chain(Chain(find, update), serialize).
func Chain[A, B, C any](first Operation[A, B], next Operation[B, C]) Func[A, C] {
	return func(ctx context.Context, in A) (Result[C], error) {
		r, err := first.Call(ctx, in)
		return Then(ctx, r, err, next)
	}
}

// Pipeline is an ordered list of stages over the same state type. Each stage
// receives the value produced by the previous one; the first failure halts it.
type Pipeline[T any] struct {
	stages []Operation[T, T]
}

// NewPipeline returns a pipeline running stages in order.
func NewPipeline[T any](stages ...Operation[T, T]) *Pipeline[T] {
	return &Pipeline[T]{stages: append([]Operation[T, T](nil), stages...)}
}

// Then returns a new pipeline with op appended. p is left unchanged.
func (p *Pipeline[T]) Then(op Operation[T, T]) *Pipeline[T] {
	stages := make([]Operation[T, T], 0, len(p.stages)+1)
	stages = append(stages, p.stages...)
	return &Pipeline[T]{stages: append(stages, op)}
}

// Len returns the number of stages.
func (p *Pipeline[T]) Len() int { return len(p.stages) }

// Call runs the stages. An empty pipeline succeeds with TypeOK and the input.
func (p *Pipeline[T]) Call(ctx context.Context, in T) (Result[T], error) {
	r := Success(TypeOK, in)
	for _, stage := range p.stages {
		next, err := stage.Call(ctx, r.value)
		if err != nil {
			return Result[T]{}, err
		}
		r = next
		if !r.ok {
			return r, nil
		}
	}
	return r, nil
}
