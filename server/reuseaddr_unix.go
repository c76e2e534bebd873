//go:build unix

package server

import (
	"syscall"

	"golang.org/x/sys/unix"
)

func (a *Acceptor) reuseAddr(network, address string, c syscall.RawConn) error {
	return c.Control(func(fd uintptr) {
		if err := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
			a.logger.Warn("set SO_REUSEADDR failed", "addr", address, "error", err)
		}
	})
}
