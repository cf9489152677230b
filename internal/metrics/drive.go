package metrics

import (
	"context"
	"fmt"

	"github.com/rileyhilliard/fbdash/internal/series"
	"golang.org/x/sys/unix"
)

// DriveProducer reports the usage of the filesystem holding Path.
type DriveProducer struct {
	Path   string
	Statfs func(path string, buf *unix.Statfs_t) error
}

// NewDriveProducer reports on the filesystem containing path.
func NewDriveProducer(path string) *DriveProducer {
	if path == "" {
		path = "/"
	}
	return &DriveProducer{Path: path, Statfs: unix.Statfs}
}

// Produce reports no data for filesystems without block accounting, such as
// some pseudo filesystems.
func (p *DriveProducer) Produce(ctx context.Context) (DriveUsage, bool, error) {
	var st unix.Statfs_t
	if err := p.Statfs(p.Path, &st); err != nil {
		return DriveUsage{}, false, fmt.Errorf("statfs %s: %w", p.Path, err)
	}
	if st.Blocks == 0 {
		return DriveUsage{}, false, nil
	}
	return driveUsage(&st), true, nil
}

// driveUsage matches df: the percentage is of the space non-root users can
// reach, so reserved blocks do not count as free.
func driveUsage(st *unix.Statfs_t) DriveUsage {
	bsize := uint64(st.Bsize)
	used := st.Blocks - st.Bfree
	reachable := used + st.Bavail

	u := DriveUsage{
		TotalBytes: st.Blocks * bsize,
		FreeBytes:  st.Bavail * bsize,
		UsedBytes:  used * bsize,
	}
	if reachable > 0 {
		u.UsedPercent = float64(used) / float64(reachable) * 100
	}
	return u
}

var _ series.Producer[DriveUsage] = (*DriveProducer)(nil)
