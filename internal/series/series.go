// Package series retains a bounded, time-ordered history of values pulled
// from a Producer.
//
// A Series holds at most Capacity samples in a ring buffer. Each Retrieve
// asks the producer for one value and appends it, evicting the oldest sample
// once the buffer is full. A Series with a positive interval can be started
// to retrieve on its own schedule; one with a zero interval is passive and
// only advances when Retrieve is called.
//
// Readers (Last, Values) may run concurrently with a retrieval. Values
// returns a copy taken under the read lock, so a reader never observes a
// half-applied append.
package series

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rileyhilliard/fbdash/internal/errors"
	"github.com/rileyhilliard/fbdash/internal/logger"
)

// Sample is one timestamped observation.
type Sample[T any] struct {
	Value      T         `json:"value"`
	ObservedAt time.Time `json:"observed_at"`
}

// Stats summarizes how a series' producer has behaved.
type Stats struct {
	Runs      int64
	Empty     int64
	Errors    int64
	Evicted   int64
	LastRun   time.Time
	LastError error
}

// Observer receives producer failures. It is called from the goroutine that
// ran Retrieve and must not block.
type Observer func(name string, err error)

type options struct {
	clock    Clock
	log      logger.Logger
	observer Observer
	history  interface{}
}

// Option configures a Series at construction time.
type Option func(*options)

// WithClock overrides the clock used for timestamps and scheduling.
func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithLogger sets the logger used for debug output and default error reporting.
func WithLogger(l logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithObserver routes producer failures to fn instead of the logger.
func WithObserver(fn Observer) Option {
	return func(o *options) { o.observer = fn }
}

// WithHistory seeds the series with previously retained samples, e.g.
// history restored from disk. Samples must be oldest first; only the newest
// Capacity samples are kept. A history of a different element type is ignored.
func WithHistory[T any](samples []Sample[T]) Option {
	return func(o *options) { o.history = samples }
}

// Series is a bounded history of samples produced by a Producer.
type Series[T any] struct {
	name     string
	capacity int
	interval time.Duration
	producer Producer[T]

	clock    Clock
	log      logger.Logger
	observer Observer

	// retrieveMu serializes Retrieve so samples land in ObservedAt order.
	// Readers only take mu.
	retrieveMu sync.Mutex

	mu    sync.RWMutex
	buf   *ring[T]
	stats Stats

	taskMu sync.Mutex
	task   *Task
}

// New creates a series that keeps the newest capacity samples from producer.
// A capacity below one is raised to one. An interval <= 0 makes the series
// passive.
func New[T any](name string, capacity int, interval time.Duration, producer Producer[T], opts ...Option) *Series[T] {
	if capacity < 1 {
		capacity = 1
	}

	o := options{clock: RealClock(), log: logger.Noop()}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Series[T]{
		name:     name,
		capacity: capacity,
		interval: interval,
		producer: producer,
		clock:    o.clock,
		log:      o.log,
		observer: o.observer,
		buf:      newRing[T](capacity),
	}

	if history, ok := o.history.([]Sample[T]); ok {
		if len(history) > capacity {
			history = history[len(history)-capacity:]
		}
		for _, sample := range history {
			s.buf.push(sample)
		}
	}

	return s
}

// Name returns the series identifier.
func (s *Series[T]) Name() string { return s.name }

// Capacity returns the maximum number of retained samples.
func (s *Series[T]) Capacity() int { return s.capacity }

// Interval returns the retrieval period; zero or less means passive.
func (s *Series[T]) Interval() time.Duration { return s.interval }

// Passive reports whether the series never schedules itself.
func (s *Series[T]) Passive() bool { return s.interval <= 0 }

// Retrieve runs the producer once and retains its value, if any.
// Producer errors and panics are reported to the observer and never
// returned; the buffer is left untouched on failure. Overlapping calls run
// one after another.
func (s *Series[T]) Retrieve(ctx context.Context) {
	s.retrieveMu.Lock()
	defer s.retrieveMu.Unlock()

	started := s.clock.Now()

	value, ok, err := s.produce(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.Runs++
	s.stats.LastRun = started

	if err != nil {
		s.stats.Errors++
		s.stats.LastError = err
		s.report(err)
		return
	}
	s.stats.LastError = nil

	if !ok {
		s.stats.Empty++
		s.log.Debug("%s: no data this tick", s.name)
		return
	}

	s.stats.Evicted += int64(s.buf.push(Sample[T]{Value: value, ObservedAt: started}))
}

// produce calls the producer, converting a panic into an error.
func (s *Series[T]) produce(ctx context.Context) (value T, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			value, ok, err = zero, false, fmt.Errorf("producer panicked: %v", r)
		}
	}()
	return s.producer.Produce(ctx)
}

// report hands a failure to the observer, or logs it. Called with s.mu held.
func (s *Series[T]) report(err error) {
	wrapped := errors.WrapWithCode(err, errors.ErrProducer,
		fmt.Sprintf("%s producer failed", s.name),
		"The series keeps its previous samples and retries on the next tick")

	if s.observer != nil {
		s.observer(s.name, wrapped)
		return
	}
	s.log.Warn("%s: producer failed: %v", s.name, err)
}

// Last returns the most recent sample, if any.
func (s *Series[T]) Last() (Sample[T], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.buf.last()
}

// Values returns a copy of the retained samples, oldest first.
func (s *Series[T]) Values() []Sample[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.buf.all()
}

// Len returns the number of retained samples.
func (s *Series[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.buf.count
}

// Stats returns a snapshot of the producer statistics.
func (s *Series[T]) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// Start begins periodic retrieval and returns the handle that stops it.
// The first retrieval happens immediately. The next one is scheduled an
// interval after the previous retrieval finished, whether it produced a
// value, nothing, or an error, so a slow producer only delays itself.
//
// A passive series returns an already finished task. Starting a series that
// is already running returns the running task.
func (s *Series[T]) Start(ctx context.Context) *Task {
	s.taskMu.Lock()
	defer s.taskMu.Unlock()

	if s.task != nil && !s.task.finished() {
		return s.task
	}

	if s.Passive() {
		s.task = finishedTask()
		return s.task
	}

	loopCtx, cancel := context.WithCancel(ctx)
	task := newTask(cancel)
	s.task = task

	// Producers are not aborted when the task stops; they just aren't
	// scheduled again.
	produceCtx := context.WithoutCancel(ctx)

	go func() {
		defer task.finish()
		s.log.Debug("%s: started (every %s, keep %d)", s.name, s.interval, s.capacity)
		for {
			s.Retrieve(produceCtx)

			select {
			case <-loopCtx.Done():
				s.log.Debug("%s: stopped", s.name)
				return
			case <-s.clock.After(s.interval):
			}
		}
	}()

	return task
}

// Stop stops the running task, if any, and waits for its loop to exit.
// It waits for an in-flight producer call to return.
func (s *Series[T]) Stop() {
	s.taskMu.Lock()
	task := s.task
	s.taskMu.Unlock()

	if task != nil {
		task.Stop()
		task.Wait()
	}
}
