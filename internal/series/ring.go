package series

// ring is a fixed-size circular buffer of samples.
// It is not safe for concurrent use; Series guards it with its mutex.
type ring[T any] struct {
	data  []Sample[T]
	head  int // next write position
	count int
}

func newRing[T any](size int) *ring[T] {
	return &ring[T]{data: make([]Sample[T], size)}
}

// push appends a sample, overwriting the oldest one when full.
// Returns the number of samples evicted (0 or 1).
func (r *ring[T]) push(s Sample[T]) int {
	r.data[r.head] = s
	r.head = (r.head + 1) % len(r.data)
	if r.count < len(r.data) {
		r.count++
		return 0
	}
	return 1
}

// last returns the most recently pushed sample.
func (r *ring[T]) last() (Sample[T], bool) {
	if r.count == 0 {
		var zero Sample[T]
		return zero, false
	}
	idx := (r.head - 1 + len(r.data)) % len(r.data)
	return r.data[idx], true
}

// all returns the stored samples in chronological order (oldest first).
// The returned slice is a copy.
func (r *ring[T]) all() []Sample[T] {
	if r.count == 0 {
		return nil
	}

	// head points to the next write position, so the oldest retained
	// sample sits count positions behind it.
	start := (r.head - r.count + len(r.data)) % len(r.data)

	out := make([]Sample[T], r.count)
	for i := 0; i < r.count; i++ {
		out[i] = r.data[(start+i)%len(r.data)]
	}
	return out
}
