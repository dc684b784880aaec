package dispatch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
)

// Renamer launches the external renaming tool with the selection on stdin
// and the torrent directory as working directory. The tool's own logic is
// opaque; only its exit status matters here.
type Renamer struct {
	command string
	args    []string
	logger  *slog.Logger

	// Stdout and Stderr default to the daemon's own streams.
	Stdout io.Writer
	Stderr io.Writer
}

// NewRenamer wraps the configured renamer command.
func NewRenamer(command string, args []string, logger *slog.Logger) *Renamer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renamer{
		command: command,
		args:    args,
		logger:  logger,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

// Consume runs one renamer invocation. A non-zero exit or an aborted stdin
// copy (the tool exited before draining the list) surfaces as an error; there
// is no retry, that is the process manager's call.
func (r *Renamer) Consume(ctx context.Context, root string, paths io.Reader) error {
	cmd := exec.CommandContext(ctx, r.command, r.args...)
	cmd.Dir = root
	cmd.Stdin = paths
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	r.logger.Debug("running renamer", "command", r.command, "root", root)

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("renamer %s: %w", r.command, err)
	}
	return nil
}
