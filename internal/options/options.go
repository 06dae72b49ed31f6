// Package options implements the functional options shared by the catalog
// and its engines.
package options

import "fmt"

// Option configures a target of type T.
type Option[T any] interface {
	apply(T) error
	name() string
}

// Func is a named functional option wrapping a function.
type Func[T any] struct {
	optName   string
	applyFunc func(T) error
}

func (f *Func[T]) apply(target T) error {
	return f.applyFunc(target)
}

func (f *Func[T]) name() string {
	return f.optName
}

// New creates an option that may reject its argument. The name prefixes any
// error returned by fn.
func New[T any](name string, fn func(T) error) *Func[T] {
	return &Func[T]{optName: name, applyFunc: fn}
}

// NoError creates an option from a function that cannot fail.
func NoError[T any](name string, fn func(T)) *Func[T] {
	return &Func[T]{
		optName: name,
		applyFunc: func(target T) error {
			fn(target)
			return nil
		},
	}
}

// Validator is implemented by targets that check their final state once all
// options have been applied.
type Validator interface {
	Validate() error
}

// Apply applies opts in order, then validates target if it implements
// Validator. Nil options are skipped.
func Apply[T any](target T, opts ...Option[T]) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.apply(target); err != nil {
			return fmt.Errorf("option %s: %w", opt.name(), err)
		}
	}

	if v, ok := any(target).(Validator); ok {
		return v.Validate()
	}

	return nil
}
