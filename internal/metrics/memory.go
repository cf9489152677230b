package metrics

import (
	"context"
	"fmt"
	"strings"

	"github.com/rileyhilliard/fbdash/internal/series"
)

// MemoryProducer reads physical memory use.
type MemoryProducer struct {
	Open Opener
}

// NewMemoryProducer reads from /proc/meminfo.
func NewMemoryProducer() *MemoryProducer {
	return &MemoryProducer{Open: File(procMeminfo)}
}

func (p *MemoryProducer) Produce(ctx context.Context) (Memory, bool, error) {
	lines, err := readFields(p.Open, procMeminfo)
	if err != nil {
		return Memory{}, false, err
	}
	mem, err := parseMeminfo(lines)
	if err != nil {
		return Memory{}, false, err
	}
	return mem, true, nil
}

// parseMeminfo computes usage from MemTotal and MemAvailable. Kernels older
// than 3.14 lack MemAvailable; MemFree stands in for it there.
func parseMeminfo(lines [][]string) (Memory, error) {
	values := make(map[string]uint64, 3)
	for _, fields := range lines {
		if len(fields) < 2 {
			continue
		}
		key := strings.TrimSuffix(fields[0], ":")
		switch key {
		case "MemTotal", "MemAvailable", "MemFree":
		default:
			continue
		}
		kb, err := parseUint(fields[1], key)
		if err != nil {
			return Memory{}, err
		}
		values[key] = kb * 1024
	}

	total, ok := values["MemTotal"]
	if !ok {
		return Memory{}, fmt.Errorf("MemTotal not found in %s", procMeminfo)
	}
	free, ok := values["MemAvailable"]
	if !ok {
		if free, ok = values["MemFree"]; !ok {
			return Memory{}, fmt.Errorf("MemAvailable not found in %s", procMeminfo)
		}
	}
	if free > total {
		free = total
	}
	return Memory{TotalBytes: total, FreeBytes: free, UsedBytes: total - free}, nil
}

var _ series.Producer[Memory] = (*MemoryProducer)(nil)
