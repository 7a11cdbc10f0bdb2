package objmodel

// Optional is a value that may be absent. The zero Optional is empty.
type Optional[T any] struct {
	value *T
}

// NewOptional returns an Optional holding value.
func NewOptional[T any](value T) Optional[T] {
	return Optional[T]{value: &value}
}

// Get returns the held value, or the zero value when empty.
func (o Optional[T]) Get() T {
	if o.value == nil {
		var zero T
		return zero
	}
	return *o.value
}

// GetDefault returns the held value, or def when empty.
func (o Optional[T]) GetDefault(def T) T {
	if o.value == nil {
		return def
	}
	return *o.value
}

// IsSet reports whether a value is held.
func (o Optional[T]) IsSet() bool { return o.value != nil }
