package series

// Project maps each sample's value to a float64, keeping chronological order.
// It is how a series of structured values (a load-average triple, a memory
// reading) becomes one plain numeric line for a graph.
func Project[T any](samples []Sample[T], fn func(T) float64) []float64 {
	if len(samples) == 0 {
		return nil
	}
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = fn(s.Value)
	}
	return out
}

// Floats returns the values of a float64 series' samples.
func Floats(samples []Sample[float64]) []float64 {
	return Project(samples, func(v float64) float64 { return v })
}
