package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// State is the lifecycle state of an Acceptor.
type State int32

const (
	StateStopped State = iota
	StateStarting
	StateRunning
	StateStopping
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	default:
		return "unknown"
	}
}

// ConnHandler serves a single accepted connection and is responsible for
// closing it.
type ConnHandler interface {
	ServeConn(conn net.Conn)
}

// Acceptor owns the listening socket and dispatches each accepted connection
// to its own goroutine.
type Acceptor struct {
	handler ConnHandler
	host    string
	logger  *slog.Logger

	mu    sync.Mutex // serializes Start and Stop
	state atomic.Int32
	port  atomic.Int32
	ln    net.Listener
	done  chan struct{}
}

type AcceptorConfig struct {
	// Host is the bind address. Empty binds every interface.
	Host   string
	Logger *slog.Logger
}

func NewAcceptor(cfg AcceptorConfig, handler ConnHandler) *Acceptor {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Acceptor{
		handler: handler,
		host:    cfg.Host,
		logger:  logger,
	}
}

// Start binds port and begins accepting connections. Port 0 picks an
// ephemeral port; Port reports the one bound. Starting a running Acceptor
// is a no-op. Bind failures wrap ErrBind and leave the Acceptor stopped.
func (a *Acceptor) Start(port int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.State() == StateRunning {
		a.logger.Info("server already running", "port", a.Port())
		return nil
	}

	a.state.Store(int32(StateStarting))

	lc := net.ListenConfig{Control: a.reuseAddr}
	ln, err := lc.Listen(context.Background(), "tcp", net.JoinHostPort(a.host, strconv.Itoa(port)))
	if err != nil {
		a.state.Store(int32(StateStopped))
		a.logger.Error("bind failed", "port", port, "error", err)
		return fmt.Errorf("start on port %d: %w: %w", port, ErrBind, err)
	}

	bound := port
	if addr, ok := ln.Addr().(*net.TCPAddr); ok {
		bound = addr.Port
	}

	a.ln = ln
	a.port.Store(int32(bound))
	a.done = make(chan struct{})
	a.state.Store(int32(StateRunning))

	go a.acceptLoop(ln, a.done)

	a.logger.Info("server started", "addr", ln.Addr().String())

	return nil
}

// Stop closes the listener and waits for the accept loop to exit. Requests
// already being served are left to finish on their own.
func (a *Acceptor) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.state.CompareAndSwap(int32(StateRunning), int32(StateStopping)) {
		return
	}

	if err := a.ln.Close(); err != nil {
		a.logger.Warn("close listener", "error", err)
	}
	<-a.done

	a.ln = nil
	a.state.Store(int32(StateStopped))

	a.logger.Info("server stopped", "port", a.Port())
}

func (a *Acceptor) IsRunning() bool {
	return a.State() == StateRunning
}

func (a *Acceptor) State() State {
	return State(a.state.Load())
}

// Port returns the most recently bound port, or 0 if never started.
func (a *Acceptor) Port() int {
	return int(a.port.Load())
}

func (a *Acceptor) acceptLoop(ln net.Listener, done chan struct{}) {
	defer close(done)

	var delay time.Duration

	for {
		conn, err := ln.Accept()
		if err != nil {
			if a.State() != StateRunning {
				return
			}

			if errors.Is(err, net.ErrClosed) {
				a.logger.Error("listener closed unexpectedly", "error", err)
				a.state.CompareAndSwap(int32(StateRunning), int32(StateStopped))
				return
			}

			if delay == 0 {
				delay = 5 * time.Millisecond
			} else {
				delay = min(2*delay, time.Second)
			}

			a.logger.Error("accept failed", "error", err, "retry_in", delay)
			time.Sleep(delay)

			continue
		}

		delay = 0

		a.logger.Debug("connection accepted", "remote", conn.RemoteAddr().String())

		go a.handler.ServeConn(conn)
	}
}
