package metrics

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rileyhilliard/fbdash/internal/series"
)

// LoadProducer reads the system load averages.
type LoadProducer struct {
	Open Opener
}

// NewLoadProducer reads from /proc/loadavg.
func NewLoadProducer() *LoadProducer {
	return &LoadProducer{Open: File(procLoadavg)}
}

func (p *LoadProducer) Produce(ctx context.Context) (LoadAverage, bool, error) {
	lines, err := readFields(p.Open, procLoadavg)
	if err != nil {
		return LoadAverage{}, false, err
	}
	load, err := parseLoadavg(lines)
	if err != nil {
		return LoadAverage{}, false, err
	}
	return load, true, nil
}

// parseLoadavg reads "0.52 0.58 0.59 1/389 12345".
func parseLoadavg(lines [][]string) (LoadAverage, error) {
	if len(lines) == 0 || len(lines[0]) < 3 {
		return LoadAverage{}, fmt.Errorf("%s: too few fields", procLoadavg)
	}
	var load LoadAverage
	for i := range load {
		v, err := strconv.ParseFloat(lines[0][i], 64)
		if err != nil {
			return LoadAverage{}, fmt.Errorf("parse load%d: %w", []int{1, 5, 15}[i], err)
		}
		load[i] = v
	}
	return load, nil
}

var _ series.Producer[LoadAverage] = (*LoadProducer)(nil)
