package dashboard

import (
	"context"

	"github.com/rileyhilliard/fbdash/internal/config"
	"github.com/rileyhilliard/fbdash/internal/logger"
	"github.com/rileyhilliard/fbdash/internal/metrics"
	"github.com/rileyhilliard/fbdash/internal/series"
	"github.com/rileyhilliard/fbdash/internal/store"
)

// Series names, also used as history keys.
const (
	NameLoad    = "load"
	NameMemory  = "memory"
	NameDisk    = "disk"
	NameNetwork = "network"
)

// Sources are the series the dashboard plots.
type Sources struct {
	Load    *series.Series[metrics.LoadAverage]
	Memory  *series.Series[metrics.Memory]
	Disk    *series.Series[metrics.DriveUsage]
	Network *series.Series[metrics.NetworkCounters]
}

// NewSources builds the host metric series described by cfg. When st is
// non-nil each series is seeded with its stored history.
func NewSources(cfg config.SeriesConfig, st *store.Store, log logger.Logger, opts ...series.Option) Sources {
	if log == nil {
		log = logger.Noop()
	}
	return Sources{
		Load:    newSeries[metrics.LoadAverage](st, log, NameLoad, cfg.Load, metrics.NewLoadProducer(), opts),
		Memory:  newSeries[metrics.Memory](st, log, NameMemory, cfg.Memory, metrics.NewMemoryProducer(), opts),
		Disk:    newSeries[metrics.DriveUsage](st, log, NameDisk, cfg.Disk, metrics.NewDriveProducer(cfg.Disk.Path), opts),
		Network: newSeries[metrics.NetworkCounters](st, log, NameNetwork, cfg.Network, metrics.NewNetworkProducer(cfg.Network.Interface), opts),
	}
}

func newSeries[T any](st *store.Store, log logger.Logger, name string, spec config.SeriesSpec, p series.Producer[T], opts []series.Option) *series.Series[T] {
	o := append([]series.Option(nil), opts...)
	if st != nil {
		history, err := store.Load[T](st, name)
		switch {
		case err != nil:
			log.Warn("%s: history not restored: %v", name, err)
		case len(history) > 0:
			log.Debug("%s: restored %d samples", name, len(history))
			o = append(o, series.WithHistory(history))
		}
	}
	return series.New[T](name, spec.Capacity, spec.Interval, p, o...)
}

// Start starts every series that has an interval.
func (s Sources) Start(ctx context.Context) []*series.Task {
	return []*series.Task{
		s.Load.Start(ctx),
		s.Memory.Start(ctx),
		s.Disk.Start(ctx),
		s.Network.Start(ctx),
	}
}

// Stop stops all series and waits for in-flight retrievals.
func (s Sources) Stop() {
	s.Load.Stop()
	s.Memory.Stop()
	s.Disk.Stop()
	s.Network.Stop()
}

// RetrieveAll samples every series once, in order.
func (s Sources) RetrieveAll(ctx context.Context) {
	s.Load.Retrieve(ctx)
	s.Memory.Retrieve(ctx)
	s.Disk.Retrieve(ctx)
	s.Network.Retrieve(ctx)
}

// SaveHistory writes every series' retained samples to st.
func (s Sources) SaveHistory(st *store.Store) error {
	if err := store.Save(st, NameLoad, s.Load.Values()); err != nil {
		return err
	}
	if err := store.Save(st, NameMemory, s.Memory.Values()); err != nil {
		return err
	}
	if err := store.Save(st, NameDisk, s.Disk.Values()); err != nil {
		return err
	}
	return store.Save(st, NameNetwork, s.Network.Values())
}
