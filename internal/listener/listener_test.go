package listener

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/pickup/internal/events"
)

// testLogger returns a discard logger for tests.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startListener serves a unix socket listener for one test.
func startListener(t *testing.T, bus *events.Bus) string {
	t.Helper()

	socket := filepath.Join(t.TempDir(), "pickup.sock")
	ln, err := Activate(socket)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	l := New(ln, bus, testLogger())
	go func() {
		defer close(done)
		_ = l.Serve(ctx)
	}()

	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("listener did not shut down")
		}
	})
	return socket
}

// notify sends one payload and returns the reply line.
func notify(t *testing.T, socket, payload string) string {
	t.Helper()

	conn, err := net.Dial("unix", socket)
	require.NoError(t, err)
	defer conn.Close()

	_, err = fmt.Fprintln(conn, payload)
	require.NoError(t, err)

	reply, err := bufio.NewReader(conn).ReadString('\n')
	require.NoError(t, err)
	return reply
}

func TestListener_PublishesOneEventPerConnection(t *testing.T) {
	bus := events.NewBus(testLogger())
	defer bus.Close()
	ch := bus.Subscribe(events.EventTorrentFinished, 10)

	root := t.TempDir()
	socket := startListener(t, bus)

	reply := notify(t, socket, fmt.Sprintf(`{"name":"Some.Show.S01","path":%q}`, root))
	assert.Equal(t, "ok\n", reply)

	select {
	case e := <-ch:
		finished, ok := e.(events.TorrentFinished)
		require.True(t, ok)
		assert.Equal(t, "Some.Show.S01", finished.Torrent())
		assert.Equal(t, root, finished.RootPath)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}

	select {
	case e := <-ch:
		t.Fatalf("unexpected second event: %v", e)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestListener_MalformedPayload(t *testing.T) {
	bus := events.NewBus(testLogger())
	defer bus.Close()
	ch := bus.Subscribe(events.EventTorrentFinished, 10)

	socket := startListener(t, bus)

	reply := notify(t, socket, `{not json`)
	assert.Contains(t, reply, "error:")

	select {
	case e := <-ch:
		t.Fatalf("no event expected, got %v", e)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestListener_MissingRootRejected(t *testing.T) {
	bus := events.NewBus(testLogger())
	defer bus.Close()
	ch := bus.Subscribe(events.EventTorrentFinished, 10)

	socket := startListener(t, bus)

	missing := filepath.Join(t.TempDir(), "gone")
	reply := notify(t, socket, fmt.Sprintf(`{"name":"x","path":%q}`, missing))
	assert.Contains(t, reply, "error:")

	select {
	case e := <-ch:
		t.Fatalf("no event expected, got %v", e)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestListener_ConcurrentConnections(t *testing.T) {
	bus := events.NewBus(testLogger())
	defer bus.Close()
	ch := bus.Subscribe(events.EventTorrentFinished, 10)

	socket := startListener(t, bus)

	roots := []string{t.TempDir(), t.TempDir(), t.TempDir()}
	for i, root := range roots {
		payload := fmt.Sprintf(`{"name":"torrent-%d","path":%q}`, i, root)
		go func() {
			conn, err := net.Dial("unix", socket)
			if err != nil {
				return
			}
			defer conn.Close()
			_, _ = fmt.Fprintln(conn, payload)
			_, _ = bufio.NewReader(conn).ReadString('\n')
		}()
	}

	seen := map[string]bool{}
	timeout := time.After(2 * time.Second)
	for len(seen) < len(roots) {
		select {
		case e := <-ch:
			seen[e.(events.TorrentFinished).RootPath] = true
		case <-timeout:
			t.Fatalf("got %d of %d events", len(seen), len(roots))
		}
	}
}

func TestPayload_Validate(t *testing.T) {
	root := t.TempDir()

	tests := []struct {
		name    string
		payload Payload
		wantErr error
	}{
		{"valid", Payload{Name: "t", Path: root}, nil},
		{"empty path", Payload{Name: "t"}, ErrMissingPath},
		{"relative path", Payload{Name: "t", Path: "downloads/t"}, ErrRelativePath},
		{"missing root", Payload{Name: "t", Path: filepath.Join(root, "gone")}, ErrRootNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.payload.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestPayload_ValidateDefaultsName(t *testing.T) {
	root := t.TempDir()
	p := Payload{Path: root}
	require.NoError(t, p.Validate())
	assert.Equal(t, filepath.Base(root), p.Name)
}

func TestActivate_ReplacesStaleSocket(t *testing.T) {
	socket := filepath.Join(t.TempDir(), "pickup.sock")
	require.NoError(t, os.WriteFile(socket, nil, 0644))

	ln, err := Activate(socket)
	require.NoError(t, err)
	defer ln.Close()

	assert.Equal(t, "unix", ln.Addr().Network())
}

func TestActivate_IgnoresForeignListenPID(t *testing.T) {
	t.Setenv("LISTEN_PID", "1")
	t.Setenv("LISTEN_FDS", "1")

	socket := filepath.Join(t.TempDir(), "pickup.sock")
	ln, err := Activate(socket)
	require.NoError(t, err)
	defer ln.Close()

	// Fell through to self-managed listening.
	assert.Equal(t, socket, ln.Addr().String())
}
