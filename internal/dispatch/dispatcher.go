// Package dispatch runs one selection pipeline per torrent completion event.
package dispatch

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/vmunix/pickup/internal/events"
	"github.com/vmunix/pickup/internal/selector"
)

// Consumer receives one run's selection, one entry name per line, with the
// torrent directory identified by root.
type Consumer interface {
	Consume(ctx context.Context, root string, paths io.Reader) error
}

// Dispatcher subscribes to completion events and runs one independent
// selection per event. Runs share nothing; a failure in one never affects
// another.
type Dispatcher struct {
	bus      *events.Bus
	selector *selector.Selector
	consumer Consumer
	logger   *slog.Logger
	wg       sync.WaitGroup
}

// New creates a Dispatcher.
func New(bus *events.Bus, sel *selector.Selector, consumer Consumer, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		bus:      bus,
		selector: sel,
		consumer: consumer,
		logger:   logger,
	}
}

// Run consumes completion events until the context is canceled or the bus
// closes. Each event gets its own goroutine so a slow renamer run never
// blocks the next event.
func (d *Dispatcher) Run(ctx context.Context) error {
	ch := d.bus.Subscribe(events.EventTorrentFinished, 16)

	for {
		select {
		case <-ctx.Done():
			d.wg.Wait()
			return ctx.Err()
		case e, ok := <-ch:
			if !ok {
				d.wg.Wait()
				return nil
			}
			finished, ok := e.(events.TorrentFinished)
			if !ok {
				continue
			}
			d.wg.Add(1)
			go func() {
				defer d.wg.Done()
				if err := d.Dispatch(ctx, finished); err != nil {
					d.logger.Error("run failed",
						"torrent", finished.Torrent(),
						"root", finished.RootPath,
						"error", err)
					_ = d.bus.Publish(ctx, events.NewSelectionFailed(
						finished.Torrent(), finished.RootPath, err.Error()))
				}
			}()
		}
	}
}

// Dispatch performs one run: scan the root, then stream the sorted list into
// the consumer. The scan completes before the consumer sees the first byte,
// so an invalid root produces no output at all.
func (d *Dispatcher) Dispatch(ctx context.Context, e events.TorrentFinished) error {
	names, err := d.selector.Scan(e.RootPath)
	if err != nil {
		return err
	}

	d.logger.Info("dispatching selection",
		"torrent", e.Torrent(),
		"root", e.RootPath,
		"entries", len(names))

	pr, pw := io.Pipe()
	emitErr := make(chan error, 1)
	go func() {
		err := d.selector.Emit(pw, names)
		pw.Close()
		emitErr <- err
	}()

	consumeErr := d.consumer.Consume(ctx, e.RootPath, pr)

	// Unblock the emitter if the consumer stopped reading early, then pick
	// up its verdict. A consumer failure is the more useful error.
	pr.Close()
	if err := <-emitErr; consumeErr == nil && err != nil {
		return err
	}
	return consumeErr
}
