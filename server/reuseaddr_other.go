//go:build !unix

package server

import "syscall"

func (a *Acceptor) reuseAddr(network, address string, c syscall.RawConn) error {
	return nil
}
