package series

import (
	"context"
	"time"
)

// Producer supplies one value per tick.
//
// Produce returns ok=false with a nil error when there is no data for this
// tick; that is not a failure and nothing is retained. A non-nil error marks
// a failed tick.
type Producer[T any] interface {
	Produce(ctx context.Context) (value T, ok bool, err error)
}

// ProducerFunc adapts a plain function to the Producer interface.
type ProducerFunc[T any] func(ctx context.Context) (T, bool, error)

// Produce calls f(ctx).
func (f ProducerFunc[T]) Produce(ctx context.Context) (T, bool, error) {
	return f(ctx)
}

// Clock is the scheduling capability a Series runs on.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// RealClock returns a Clock backed by the time package.
func RealClock() Clock {
	return realClock{}
}
