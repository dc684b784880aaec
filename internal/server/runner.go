// Package server wires the event-driven daemon components together.
package server

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/pickup/internal/config"
	"github.com/vmunix/pickup/internal/dispatch"
	"github.com/vmunix/pickup/internal/events"
	"github.com/vmunix/pickup/internal/listener"
	"github.com/vmunix/pickup/internal/selector"
)

// Runner manages the daemon components: activation listener, event bus and
// per-event dispatcher.
type Runner struct {
	config *config.Config
	logger *slog.Logger

	// Consumer overrides the configured renamer command; tests use this.
	Consumer dispatch.Consumer
}

// NewRunner creates a new runner.
func NewRunner(cfg *config.Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		config: cfg,
		logger: logger,
	}
}

// Run starts all components and blocks until the context is canceled or a
// component fails. The activation socket is inherited from the process
// manager when one was passed in, created at the configured path otherwise.
func (r *Runner) Run(ctx context.Context) error {
	consumer := r.Consumer
	if consumer == nil {
		if err := r.config.ValidateRenamer(); err != nil {
			return err
		}
		consumer = dispatch.NewRenamer(
			r.config.Renamer.Command,
			r.config.Renamer.Args,
			r.logger.With("component", "renamer"),
		)
	}

	ln, err := listener.Activate(r.config.Daemon.Socket)
	if err != nil {
		return fmt.Errorf("activate: %w", err)
	}

	bus := events.NewBus(r.logger.With("component", "bus"))
	defer bus.Close()

	sel := selector.New(r.config.RuleSet(), r.logger.With("component", "selector"))
	dispatcher := dispatch.New(bus, sel, consumer, r.logger.With("component", "dispatch"))
	lst := listener.New(ln, bus, r.logger.With("component", "listener"))

	r.logger.Info("listening for completion events",
		"socket", lst.Addr().String(),
		"renamer", r.config.Renamer.Command,
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return lst.Serve(ctx) })
	g.Go(func() error { return dispatcher.Run(ctx) })

	return g.Wait()
}
