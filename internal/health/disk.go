package health

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// DiskUsage describes one filesystem.
type DiskUsage struct {
	Total     uint64
	Used      uint64
	Available uint64
}

// Percent is the used share of the filesystem, 0 when the size is unknown.
func (d DiskUsage) Percent() float64 {
	if d.Total == 0 {
		return 0
	}
	return float64(d.Used) / float64(d.Total) * 100
}

// StatDisk reports usage of the filesystem holding path.
func StatDisk(path string) (DiskUsage, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return DiskUsage{}, fmt.Errorf("failed to stat filesystem %s: %w", path, err)
	}
	bsize := uint64(st.Bsize)
	total := st.Blocks * bsize
	free := st.Bfree * bsize
	return DiskUsage{
		Total:     total,
		Used:      total - free,
		Available: st.Bavail * bsize,
	}, nil
}

// FormatSize renders bytes with a single-letter binary unit, e.g. "1.5G".
func FormatSize(size uint64) string {
	v := float64(size)
	for _, unit := range []string{"B", "K", "M", "G", "T", "P"} {
		if v < 1024 {
			return fmt.Sprintf("%.1f%s", v, unit)
		}
		v /= 1024
	}
	return fmt.Sprintf("%.1fE", v)
}
