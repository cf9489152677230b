package cli

import (
	"context"
	"time"

	"github.com/rileyhilliard/fbdash/internal/dashboard"
	"github.com/rileyhilliard/fbdash/internal/metrics"
	"github.com/rileyhilliard/fbdash/internal/series"
)

// fakeSources returns passive sources with fixed readings. Network counters
// grow by 4096 rx and 1024 tx bytes per sample.
func fakeSources() dashboard.Sources {
	n := uint64(0)
	t := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := series.WithClock(fakeClock{now: func() time.Time {
		t = t.Add(time.Second)
		return t
	}})

	return dashboard.Sources{
		Load: series.New[metrics.LoadAverage](dashboard.NameLoad, 10, 0,
			series.ProducerFunc[metrics.LoadAverage](func(ctx context.Context) (metrics.LoadAverage, bool, error) {
				return metrics.LoadAverage{0.5, 0.25, 0.125}, true, nil
			}), clock),
		Memory: series.New[metrics.Memory](dashboard.NameMemory, 10, 0,
			series.ProducerFunc[metrics.Memory](func(ctx context.Context) (metrics.Memory, bool, error) {
				return metrics.Memory{TotalBytes: 4 << 30, FreeBytes: 1 << 30, UsedBytes: 3 << 30}, true, nil
			}), clock),
		Disk: series.New[metrics.DriveUsage](dashboard.NameDisk, 10, 0,
			series.ProducerFunc[metrics.DriveUsage](func(ctx context.Context) (metrics.DriveUsage, bool, error) {
				return metrics.DriveUsage{TotalBytes: 64e9, FreeBytes: 48e9, UsedBytes: 16e9, UsedPercent: 25}, true, nil
			}), clock),
		Network: series.New[metrics.NetworkCounters](dashboard.NameNetwork, 10, 0,
			series.ProducerFunc[metrics.NetworkCounters](func(ctx context.Context) (metrics.NetworkCounters, bool, error) {
				n++
				return metrics.NetworkCounters{Interface: "wlan0", RxBytes: n * 4096, TxBytes: n * 1024}, true, nil
			}), clock),
	}
}

// fakeClock is a series clock for single-goroutine tests.
type fakeClock struct {
	now func() time.Time
}

func (c fakeClock) Now() time.Time                         { return c.now() }
func (c fakeClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

func fakeHost() dashboard.HostInfo {
	return dashboard.HostInfo{
		Now:       func() time.Time { return time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC) },
		Uptime:    func() (time.Duration, error) { return 90 * time.Minute, nil },
		Addresses: func() ([]string, error) { return []string{"192.168.1.20"}, nil },
	}
}
