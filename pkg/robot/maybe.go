package robot

import "fmt"

// Maybe holds a value or nothing.  Sensor reads return None when the sensor
// isn't connected; that's a normal outcome, not an error.
type Maybe[T any] struct {
	value T
	ok    bool
}

func Some[T any](v T) Maybe[T] {
	return Maybe[T]{value: v, ok: true}
}

func None[T any]() Maybe[T] {
	return Maybe[T]{}
}

func (m Maybe[T]) Get() (T, bool) {
	return m.value, m.ok
}

func (m Maybe[T]) IsSet() bool {
	return m.ok
}

func (m Maybe[T]) OrElse(def T) T {
	if !m.ok {
		return def
	}
	return m.value
}

func (m Maybe[T]) String() string {
	if !m.ok {
		return "none"
	}
	return fmt.Sprint(m.value)
}
