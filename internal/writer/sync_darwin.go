//go:build darwin

package writer

import (
	"os"

	"golang.org/x/sys/unix"
)

// syncFile flushes f. fullSync asks the drive to empty its cache too.
func syncFile(f *os.File, fullSync bool) error {
	if fullSync {
		_, err := unix.FcntlInt(f.Fd(), unix.F_FULLFSYNC, 0)
		return err
	}
	// No fdatasync on darwin.
	return unix.Fsync(int(f.Fd()))
}
