package domain

// Result is returned by wrappers around external calls: Ok(value) or Err(reason)
type Result[T any] struct {
	value T
	err   error
}

// Ok wraps a successful value
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Err wraps a failure reason
func Err[T any](err error) Result[T] {
	if err == nil {
		err = ErrUnknown
	}
	return Result[T]{err: err}
}

// IsOk reports whether the result holds a value
func (r Result[T]) IsOk() bool { return r.err == nil }

// Value returns the wrapped value (zero value on Err)
func (r Result[T]) Value() T { return r.value }

// Reason returns the failure reason (nil on Ok)
func (r Result[T]) Reason() error { return r.err }
