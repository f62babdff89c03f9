//go:build linux || darwin

package probe

import (
	"io/fs"
	"time"

	"golang.org/x/sys/unix"
)

// changeTime returns the inode change time, falling back to the
// modification time when the stat call fails.
func changeTime(path string, info fs.FileInfo) time.Time {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return info.ModTime()
	}
	sec, nsec := st.Ctim.Unix()
	return time.Unix(sec, nsec)
}
