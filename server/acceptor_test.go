package server_test

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/sagarc03/lanshare/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoHandler struct{}

func (echoHandler) ServeConn(conn net.Conn) {
	defer func() { _ = conn.Close() }()
	_, _ = conn.Write([]byte("hello"))
}

func newTestAcceptor() *server.Acceptor {
	return server.NewAcceptor(server.AcceptorConfig{Host: "127.0.0.1", Logger: quietLogger()}, echoHandler{})
}

func dialRead(t *testing.T, port int) string {
	t.Helper()

	conn, err := net.DialTimeout("tcp", fmt.Sprintf("127.0.0.1:%d", port), 2*time.Second)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	data, err := io.ReadAll(conn)
	require.NoError(t, err)

	return string(data)
}

func TestAcceptor_Lifecycle(t *testing.T) {
	a := newTestAcceptor()

	assert.Equal(t, server.StateStopped, a.State())
	assert.False(t, a.IsRunning())
	assert.Zero(t, a.Port())

	require.NoError(t, a.Start(0))
	defer a.Stop()

	assert.True(t, a.IsRunning())
	assert.Equal(t, "running", a.State().String())
	port := a.Port()
	assert.NotZero(t, port)

	assert.Equal(t, "hello", dialRead(t, port))

	require.NoError(t, a.Start(0))
	assert.Equal(t, port, a.Port(), "second start must not rebind")

	a.Stop()
	assert.False(t, a.IsRunning())
	assert.Equal(t, server.StateStopped, a.State())
	assert.Equal(t, port, a.Port())

	_, err := net.DialTimeout("tcp", fmt.Sprintf("127.0.0.1:%d", port), time.Second)
	assert.Error(t, err)

	a.Stop()
}

func TestAcceptor_RestartSamePort(t *testing.T) {
	a := newTestAcceptor()

	require.NoError(t, a.Start(0))
	port := a.Port()
	assert.Equal(t, "hello", dialRead(t, port))
	a.Stop()

	require.NoError(t, a.Start(port))
	defer a.Stop()

	assert.Equal(t, port, a.Port())
	assert.Equal(t, "hello", dialRead(t, port))
}

func TestAcceptor_BindConflict(t *testing.T) {
	first := newTestAcceptor()
	require.NoError(t, first.Start(0))
	defer first.Stop()

	second := newTestAcceptor()
	err := second.Start(first.Port())

	assert.ErrorIs(t, err, server.ErrBind)
	assert.False(t, second.IsRunning())
	assert.Equal(t, server.StateStopped, second.State())
}

func TestAcceptor_ConcurrentConnections(t *testing.T) {
	a := newTestAcceptor()
	require.NoError(t, a.Start(0))
	defer a.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, "hello", dialRead(t, a.Port()))
		}()
	}
	wg.Wait()
}

type blockingHandler struct {
	started chan struct{}
	release chan struct{}
}

func (h blockingHandler) ServeConn(conn net.Conn) {
	defer func() { _ = conn.Close() }()
	close(h.started)
	<-h.release
	_, _ = conn.Write([]byte("late"))
}

func TestAcceptor_StopDoesNotWaitForWorkers(t *testing.T) {
	h := blockingHandler{started: make(chan struct{}), release: make(chan struct{})}
	a := server.NewAcceptor(server.AcceptorConfig{Host: "127.0.0.1", Logger: quietLogger()}, h)
	require.NoError(t, a.Start(0))

	conn, err := net.Dial("tcp", fmt.Sprintf("127.0.0.1:%d", a.Port()))
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	<-h.started

	stopped := make(chan struct{})
	go func() {
		a.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop blocked on an in-flight connection")
	}

	close(h.release)

	data, err := io.ReadAll(conn)
	require.NoError(t, err)
	assert.Equal(t, "late", string(data))
}

func TestAcceptor_ServesHTTPClients(t *testing.T) {
	fs := server.NewFileServer(server.Config{Host: "127.0.0.1", Logger: quietLogger()})
	require.NoError(t, fs.Start(0))
	defer func() { _ = fs.Close() }()

	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/api/files", fs.Port()))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "[]", string(body))
}
