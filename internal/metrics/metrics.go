// Package metrics provides series producers for the host metrics the
// dashboard plots. Linux only: values come from /proc, statfs and sysinfo.
package metrics

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Opener opens a pseudo-file for reading. Producers take one so tests can
// feed canned /proc content.
type Opener func() (io.ReadCloser, error)

// File returns an Opener for path.
func File(path string) Opener {
	return func() (io.ReadCloser, error) {
		return os.Open(path)
	}
}

const (
	procLoadavg = "/proc/loadavg"
	procMeminfo = "/proc/meminfo"
	procNetDev  = "/proc/net/dev"
)

// LoadAverage holds the 1, 5 and 15 minute load averages.
type LoadAverage [3]float64

func (l LoadAverage) String() string {
	return fmt.Sprintf("%.2f, %.2f, %.2f", l[0], l[1], l[2])
}

// Memory is a snapshot of physical memory use, in bytes.
type Memory struct {
	TotalBytes uint64 `json:"total_bytes"`
	FreeBytes  uint64 `json:"free_bytes"`
	UsedBytes  uint64 `json:"used_bytes"`
}

// UsedPercent returns used memory as 0..100.
func (m Memory) UsedPercent() float64 {
	if m.TotalBytes == 0 {
		return 0
	}
	return float64(m.UsedBytes) / float64(m.TotalBytes) * 100
}

// DriveUsage is a snapshot of one filesystem's capacity, in bytes.
type DriveUsage struct {
	TotalBytes  uint64  `json:"total_bytes"`
	FreeBytes   uint64  `json:"free_bytes"`
	UsedBytes   uint64  `json:"used_bytes"`
	UsedPercent float64 `json:"used_percent"`
}

// NetworkCounters are the cumulative byte counters of one interface.
type NetworkCounters struct {
	Interface string `json:"interface"`
	RxBytes   uint64 `json:"rx_bytes"`
	TxBytes   uint64 `json:"tx_bytes"`
}

// readFields opens the file and returns the whitespace-separated fields of
// each line.
func readFields(open Opener, name string) ([][]string, error) {
	f, err := open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	var lines [][]string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, strings.Fields(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return lines, nil
}

func parseUint(s, what string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", what, err)
	}
	return v, nil
}
