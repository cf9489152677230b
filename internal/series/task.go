package series

import (
	"context"
	"sync"
)

// Task is the handle for a running series schedule.
type Task struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func newTask(cancel context.CancelFunc) *Task {
	return &Task{cancel: cancel, done: make(chan struct{})}
}

func finishedTask() *Task {
	t := newTask(func() {})
	t.finish()
	return t
}

// Stop cancels future retrievals. It does not wait; use Wait or Done.
// Calling Stop more than once is safe.
func (t *Task) Stop() {
	t.cancel()
}

// Done is closed once the schedule loop has exited.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the schedule loop has exited.
func (t *Task) Wait() {
	<-t.done
}

func (t *Task) finish() {
	t.once.Do(func() { close(t.done) })
}

func (t *Task) finished() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}
