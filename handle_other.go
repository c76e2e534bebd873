//go:build !unix

package lanshare

import (
	"fmt"
	"io"
	"os"
)

// handleReader reopens f by path when its name is one. Descriptor-backed
// handles only carry a display name, so they are read in place with
// positional reads; such a reader fails once the registry closes f.
func handleReader(f *os.File, named bool) (io.ReaderAt, io.Closer, error) {
	if !named {
		return f, nopCloser{}, nil
	}

	dup, err := os.Open(f.Name())
	if err != nil {
		return nil, nil, fmt.Errorf("reopen %s: %w", f.Name(), err)
	}

	return dup, dup, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
