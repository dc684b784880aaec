// Package listener accepts torrent completion notifications on a unix domain
// socket and turns each connection into exactly one published event.
package listener

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/vmunix/pickup/internal/events"
)

// connDeadline bounds how long one notification may take to arrive; the
// payload is a single JSON line, so a slow peer is a broken peer.
const connDeadline = 10 * time.Second

// Listener demultiplexes completion events to the bus. It holds no state
// between connections: accept, decode, validate, publish, reply.
type Listener struct {
	ln     net.Listener
	bus    *events.Bus
	logger *slog.Logger
	wg     sync.WaitGroup
}

// New wraps an accepted listening socket.
func New(ln net.Listener, bus *events.Bus, logger *slog.Logger) *Listener {
	if logger == nil {
		logger = slog.Default()
	}
	return &Listener{ln: ln, bus: bus, logger: logger}
}

// Addr returns the listening address.
func (l *Listener) Addr() net.Addr {
	return l.ln.Addr()
}

// Serve accepts connections until the context is canceled. Each connection is
// handled on its own goroutine; the listener imposes no queueing beyond what
// the socket itself provides.
func (l *Listener) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		l.ln.Close()
	}()

	for {
		conn, err := l.ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				l.wg.Wait()
				return ctx.Err()
			default:
			}
			l.logger.Warn("accept failed", "error", err)
			continue
		}

		l.wg.Add(1)
		go func(c net.Conn) {
			defer l.wg.Done()
			l.handle(ctx, c)
		}(conn)
	}
}

// handle processes one completion notification.
func (l *Listener) handle(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(connDeadline))

	var payload Payload
	if err := json.NewDecoder(conn).Decode(&payload); err != nil {
		l.logger.Warn("malformed activation payload", "error", err)
		l.reply(conn, fmt.Sprintf("error: %v", err))
		return
	}

	if err := payload.Validate(); err != nil {
		l.logger.Warn("rejected activation payload",
			"torrent", payload.Name,
			"path", payload.Path,
			"error", err)
		l.reply(conn, fmt.Sprintf("error: %v", err))
		return
	}

	e := events.NewTorrentFinished(payload.Name, payload.Path)
	if err := l.bus.Publish(ctx, e); err != nil {
		l.logger.Error("publish failed", "torrent", payload.Name, "error", err)
		l.reply(conn, fmt.Sprintf("error: %v", err))
		return
	}

	l.logger.Info("torrent finished",
		"torrent", payload.Name,
		"path", payload.Path)
	l.reply(conn, "ok")
}

func (l *Listener) reply(conn net.Conn, line string) {
	if _, err := fmt.Fprintln(conn, line); err != nil {
		l.logger.Debug("reply failed", "error", err)
	}
}
