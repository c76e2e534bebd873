//go:build unix

package lanshare

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// handleReader reads f through a duplicated descriptor, which stays valid
// after the registry closes f.
func handleReader(f *os.File, _ bool) (io.ReaderAt, io.Closer, error) {
	dup, err := duplicate(f)
	if err != nil {
		return nil, nil, err
	}

	return dup, dup, nil
}

// duplicate returns a new descriptor for the same open file, positioned at 0.
func duplicate(f *os.File) (*os.File, error) {
	raw, err := f.SyscallConn()
	if err != nil {
		return nil, fmt.Errorf("dup: %w", err)
	}

	var (
		fd     int
		dupErr error
	)

	if err := raw.Control(func(orig uintptr) {
		fd, dupErr = unix.Dup(int(orig))
	}); err != nil {
		return nil, fmt.Errorf("dup: %w", err)
	}

	if dupErr != nil {
		return nil, fmt.Errorf("dup: %w", dupErr)
	}

	unix.CloseOnExec(fd)

	dup := os.NewFile(uintptr(fd), f.Name())
	if _, err := dup.Seek(0, io.SeekStart); err != nil {
		_ = dup.Close()
		return nil, fmt.Errorf("seek: %w", err)
	}

	return dup, nil
}
