package series

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rileyhilliard/fbdash/internal/errors"
	"github.com/rileyhilliard/fbdash/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counter yields 0, 1, 2, ... on successive calls.
func counter() ProducerFunc[int] {
	var n int64 = -1
	return func(ctx context.Context) (int, bool, error) {
		return int(atomic.AddInt64(&n, 1)), true, nil
	}
}

func values(samples []Sample[int]) []int {
	out := make([]int, len(samples))
	for i, s := range samples {
		out[i] = s.Value
	}
	return out
}

func TestNewClampsCapacity(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		want     int
	}{
		{"zero", 0, 1},
		{"negative", -4, 1},
		{"positive", 40, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New[int]("load", tt.capacity, 0, counter())
			assert.Equal(t, tt.want, s.Capacity())
			assert.Equal(t, 0, s.Len())
			assert.True(t, s.Passive())
		})
	}
}

func TestRetrieveRetainsMinOfTicksAndCapacity(t *testing.T) {
	for _, capacity := range []int{1, 2, 5, 10} {
		for _, ticks := range []int{0, 1, 4, 5, 6, 23} {
			t.Run(fmt.Sprintf("cap=%d/ticks=%d", capacity, ticks), func(t *testing.T) {
				s := New[int]("n", capacity, 0, counter())
				for i := 0; i < ticks; i++ {
					s.Retrieve(context.Background())
				}

				want := ticks
				if capacity < want {
					want = capacity
				}
				require.Equal(t, want, s.Len())

				// Always the most recent ones, oldest first.
				got := values(s.Values())
				for i, v := range got {
					assert.Equal(t, ticks-want+i, v)
				}
			})
		}
	}
}

func TestRetrieveTimestampsInOrder(t *testing.T) {
	clock := newFakeClock(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	s := New[int]("n", 3, 0, counter(), WithClock(clock))

	for i := 0; i < 5; i++ {
		s.Retrieve(context.Background())
		clock.Advance(time.Second)
	}

	samples := s.Values()
	require.Len(t, samples, 3)
	for i := 1; i < len(samples); i++ {
		assert.True(t, samples[i].ObservedAt.After(samples[i-1].ObservedAt))
	}
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 4, 0, time.UTC), samples[2].ObservedAt)
	assert.Equal(t, int64(2), s.Stats().Evicted)
}

func TestRetrieveNoDataKeepsLength(t *testing.T) {
	emit := true
	p := ProducerFunc[float64](func(ctx context.Context) (float64, bool, error) {
		if emit {
			return 1.5, true, nil
		}
		return 0, false, nil
	})

	s := New[float64]("disk", 4, 0, p)
	s.Retrieve(context.Background())
	require.Equal(t, 1, s.Len())

	emit = false
	for i := 0; i < 3; i++ {
		s.Retrieve(context.Background())
	}

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, int64(3), s.Stats().Empty)
	assert.NoError(t, s.Stats().LastError)
}

func TestRetrieveErrorKeepsLengthAndReports(t *testing.T) {
	fail := false
	p := ProducerFunc[int](func(ctx context.Context) (int, bool, error) {
		if fail {
			return 0, false, fmt.Errorf("read /proc/loadavg: no such file")
		}
		return 9, true, nil
	})

	var observed []error
	s := New[int]("load", 4, 0, p, WithObserver(func(name string, err error) {
		assert.Equal(t, "load", name)
		observed = append(observed, err)
	}))

	s.Retrieve(context.Background())
	fail = true

	assert.NotPanics(t, func() { s.Retrieve(context.Background()) })

	assert.Equal(t, 1, s.Len())
	require.Len(t, observed, 1)
	assert.True(t, errors.IsCode(observed[0], errors.ErrProducer))
	assert.Contains(t, observed[0].Error(), "no such file")

	stats := s.Stats()
	assert.Equal(t, int64(2), stats.Runs)
	assert.Equal(t, int64(1), stats.Errors)
	assert.Error(t, stats.LastError)
}

func TestRetrieveRecoversPanic(t *testing.T) {
	p := ProducerFunc[int](func(ctx context.Context) (int, bool, error) {
		panic("sensor unplugged")
	})
	log := logger.NewBufferLogger()
	s := New[int]("temp", 2, 0, p, WithLogger(log))

	assert.NotPanics(t, func() { s.Retrieve(context.Background()) })
	assert.Equal(t, 0, s.Len())
	assert.True(t, log.HasLevel("warn"))
	assert.Contains(t, s.Stats().LastError.Error(), "sensor unplugged")
}

func TestLast(t *testing.T) {
	s := New[int]("n", 2, 0, counter())

	_, ok := s.Last()
	assert.False(t, ok)

	for i := 0; i < 3; i++ {
		s.Retrieve(context.Background())
	}
	last, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, 2, last.Value)
}

func TestValuesIsACopy(t *testing.T) {
	s := New[int]("n", 3, 0, counter())
	s.Retrieve(context.Background())
	s.Retrieve(context.Background())

	got := s.Values()
	got[0].Value = 99

	assert.Equal(t, []int{0, 1}, values(s.Values()))
}

func TestWithHistory(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	history := make([]Sample[int], 6)
	for i := range history {
		history[i] = Sample[int]{Value: 100 + i, ObservedAt: base.Add(time.Duration(i) * time.Minute)}
	}

	s := New[int]("n", 4, 0, counter(), WithHistory(history))
	assert.Equal(t, []int{102, 103, 104, 105}, values(s.Values()))

	s.Retrieve(context.Background())
	assert.Equal(t, []int{103, 104, 105, 0}, values(s.Values()))
}

func TestWithHistoryIgnoresOtherTypes(t *testing.T) {
	s := New[int]("n", 4, 0, counter(), WithHistory([]Sample[string]{{Value: "x"}}))
	assert.Equal(t, 0, s.Len())
}

func TestStartPassiveIsFinished(t *testing.T) {
	var calls int64
	p := ProducerFunc[int](func(ctx context.Context) (int, bool, error) {
		atomic.AddInt64(&calls, 1)
		return 1, true, nil
	})

	s := New[int]("passive", 3, 0, p)
	task := s.Start(context.Background())

	select {
	case <-task.Done():
	default:
		t.Fatal("passive task should already be done")
	}
	assert.Equal(t, int64(0), atomic.LoadInt64(&calls))
}

func TestStartSchedulesUntilStopped(t *testing.T) {
	s := New[int]("fast", 5, 5*time.Millisecond, counter())

	task := s.Start(context.Background())
	require.Eventually(t, func() bool { return s.Len() == 5 }, 2*time.Second, 5*time.Millisecond)

	task.Stop()
	task.Wait()

	runs := s.Stats().Runs
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, runs, s.Stats().Runs, "no retrievals after Stop")
	assert.Equal(t, 5, s.Len())
}

func TestStartKeepsCadenceOnFailure(t *testing.T) {
	p := ProducerFunc[int](func(ctx context.Context) (int, bool, error) {
		return 0, false, fmt.Errorf("offline")
	})
	s := New[int]("flaky", 5, 5*time.Millisecond, p, WithObserver(func(string, error) {}))

	s.Start(context.Background())
	defer s.Stop()

	require.Eventually(t, func() bool { return s.Stats().Errors >= 3 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, s.Len())
}

func TestStartTwiceReturnsRunningTask(t *testing.T) {
	s := New[int]("n", 5, time.Hour, counter())
	first := s.Start(context.Background())
	second := s.Start(context.Background())
	defer s.Stop()

	assert.Same(t, first, second)
}

func TestStopDoesNotAbortInFlightProducer(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var sawCancel atomic.Bool

	p := ProducerFunc[int](func(ctx context.Context) (int, bool, error) {
		close(entered)
		<-release
		sawCancel.Store(ctx.Err() != nil)
		return 1, true, nil
	})

	s := New[int]("slow", 3, time.Hour, p)
	task := s.Start(context.Background())

	<-entered
	task.Stop()
	close(release)
	task.Wait()

	assert.False(t, sawCancel.Load())
	assert.Equal(t, 1, s.Len())
}

func TestConcurrentRetrieveAndRead(t *testing.T) {
	s := New[int]("n", 16, 0, counter())

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			s.Retrieve(context.Background())
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			got := values(s.Values())
			assert.LessOrEqual(t, len(got), 16)
			for j := 1; j < len(got); j++ {
				assert.Equal(t, got[j-1]+1, got[j], "snapshot must be contiguous")
			}
		}
	}()
	wg.Wait()

	assert.Equal(t, 16, s.Len())
}

func TestOverlappingRetrievesStayChronological(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int64

	p := ProducerFunc[int](func(ctx context.Context) (int, bool, error) {
		n := calls.Add(1)
		if n == 1 {
			close(entered)
			<-release
		}
		return int(n), true, nil
	})
	s := New[int]("n", 4, 0, p, WithClock(&tickingClock{now: time.Unix(0, 0)}))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.Retrieve(context.Background())
	}()
	<-entered
	go func() {
		defer wg.Done()
		s.Retrieve(context.Background())
	}()

	// The second call waits for the first instead of appending ahead of it.
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int64(1), calls.Load())
	assert.Zero(t, s.Len())

	close(release)
	wg.Wait()

	got := s.Values()
	require.Len(t, got, 2)
	assert.Equal(t, []int{1, 2}, values(got))
	assert.True(t, got[0].ObservedAt.Before(got[1].ObservedAt))
}

func TestProject(t *testing.T) {
	type reading struct{ used, total float64 }
	samples := []Sample[reading]{
		{Value: reading{used: 1, total: 4}},
		{Value: reading{used: 2, total: 4}},
	}

	pct := Project(samples, func(r reading) float64 { return r.used / r.total * 100 })
	assert.Equal(t, []float64{25, 50}, pct)

	assert.Nil(t, Project[reading](nil, func(r reading) float64 { return 0 }))
	assert.Equal(t, []float64{1, 2}, Floats([]Sample[float64]{{Value: 1}, {Value: 2}}))
}

// fakeClock is a manually advanced Clock. After fires immediately so
// scheduling tests never wait on it.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{now: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- c.Now().Add(d)
	return ch
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// tickingClock moves one second forward on every Now call.
type tickingClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func (c *tickingClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}
