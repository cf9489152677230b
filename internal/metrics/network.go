package metrics

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rileyhilliard/fbdash/internal/series"
)

// NetworkProducer reads the byte counters of one interface.
type NetworkProducer struct {
	Interface string
	Open      Opener
}

// NewNetworkProducer reads iface's counters from /proc/net/dev.
func NewNetworkProducer(iface string) *NetworkProducer {
	return &NetworkProducer{Interface: iface, Open: File(procNetDev)}
}

// Produce reports no data when the interface does not exist, e.g. a USB
// adapter that has been unplugged.
func (p *NetworkProducer) Produce(ctx context.Context) (NetworkCounters, bool, error) {
	all, err := readNetDev(p.Open)
	if err != nil {
		return NetworkCounters{}, false, err
	}
	c, ok := all[p.Interface]
	return c, ok, nil
}

// Interfaces lists the interfaces in /proc/net/dev, sorted, loopback excluded.
func Interfaces(open Opener) ([]string, error) {
	if open == nil {
		open = File(procNetDev)
	}
	all, err := readNetDev(open)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(all))
	for name := range all {
		if name != "lo" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func readNetDev(open Opener) (map[string]NetworkCounters, error) {
	lines, err := readFields(open, procNetDev)
	if err != nil {
		return nil, err
	}
	return parseNetDev(lines)
}

// parseNetDev reads the counters table. After two header lines, each line is
//
//	eth0: rx_bytes rx_packets ... (8 receive fields) tx_bytes ...
//
// The name and the first counter may be glued together ("eth0:123") when the
// counter is wide.
func parseNetDev(lines [][]string) (map[string]NetworkCounters, error) {
	out := make(map[string]NetworkCounters)
	for _, fields := range lines {
		if len(fields) == 0 {
			continue
		}
		joined := strings.Join(fields, " ")
		name, rest, ok := strings.Cut(joined, ":")
		if !ok {
			continue // header
		}
		counters := strings.Fields(rest)
		if len(counters) < 9 {
			return nil, fmt.Errorf("%s: interface %s has %d fields", procNetDev, name, len(counters))
		}
		rx, err := parseUint(counters[0], name+" rx_bytes")
		if err != nil {
			return nil, err
		}
		tx, err := parseUint(counters[8], name+" tx_bytes")
		if err != nil {
			return nil, err
		}
		name = strings.TrimSpace(name)
		out[name] = NetworkCounters{Interface: name, RxBytes: rx, TxBytes: tx}
	}
	return out, nil
}

// Rate is the throughput between two consecutive counter samples.
type Rate struct {
	RxPerSec float64
	TxPerSec float64
}

// Rates converts consecutive counter samples into bytes per second. The
// result has one entry per pair of samples. A counter that went backwards
// (interface reset, wraparound) yields zero for that interval.
func Rates(samples []series.Sample[NetworkCounters]) []Rate {
	if len(samples) < 2 {
		return nil
	}
	out := make([]Rate, 0, len(samples)-1)
	for i := 1; i < len(samples); i++ {
		prev, cur := samples[i-1], samples[i]
		secs := cur.ObservedAt.Sub(prev.ObservedAt).Seconds()
		if secs <= 0 {
			out = append(out, Rate{})
			continue
		}
		out = append(out, Rate{
			RxPerSec: delta(prev.Value.RxBytes, cur.Value.RxBytes) / secs,
			TxPerSec: delta(prev.Value.TxBytes, cur.Value.TxBytes) / secs,
		})
	}
	return out
}

func delta(prev, cur uint64) float64 {
	if cur < prev {
		return 0
	}
	return float64(cur - prev)
}

var _ series.Producer[NetworkCounters] = (*NetworkProducer)(nil)
