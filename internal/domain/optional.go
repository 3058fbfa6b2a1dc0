package domain

// Optional marks whether a patch field was supplied at all.
// A zero Optional means "leave unchanged".
type Optional[T any] struct {
	Set   bool
	Value T
}

func Some[T any](v T) Optional[T] { return Optional[T]{Set: true, Value: v} }

// Get returns the value and whether it was set.
func (o Optional[T]) Get() (T, bool) { return o.Value, o.Set }
