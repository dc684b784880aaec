// Package selector decides which entries of a completed torrent directory are
// handed to the renaming tool.
package selector

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"syscall"
)

// Selector scans a torrent directory and emits the selected entry names.
// It only reads; it never renames, writes, or deletes.
type Selector struct {
	rules RuleSet
	log   *slog.Logger
}

// New creates a Selector with the given rules.
func New(rules RuleSet, logger *slog.Logger) *Selector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Selector{rules: rules, log: logger}
}

// Scan evaluates the direct children of root against the rule set and returns
// the selected names relative to root, byte-lexicographically sorted. Only
// top-level entries are considered; a matched directory is forwarded as a
// unit. A child that cannot be stat'ed is skipped with a warning so one bad
// entry never blocks the rest.
func (s *Selector) Scan(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRoot, root)
	}

	children, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRoot, root)
	}

	var selected []string
	for _, child := range children {
		name := child.Name()

		// Reserved junk names are out before any rule runs.
		if s.rules.IsMetadata(name) {
			continue
		}

		isDir, isRegular, err := s.classify(root, child)
		if err != nil {
			s.log.Warn("skipping unreadable entry", "root", root, "name", name, "error", err)
			continue
		}

		switch {
		case isDir:
			if pattern, ok := s.rules.MatchDir(name); ok {
				s.log.Debug("selected directory", "name", name, "pattern", pattern.Name)
				selected = append(selected, name)
			}
		case isRegular:
			if s.rules.MatchFile(name) {
				s.log.Debug("selected file", "name", name)
				selected = append(selected, name)
			}
		}
	}

	sort.Strings(selected)
	return selected, nil
}

// classify resolves a directory entry to (directory, regular file) flags,
// following symlinks so a linked season directory still counts as a directory.
func (s *Selector) classify(root string, child fs.DirEntry) (isDir, isRegular bool, err error) {
	if child.Type()&fs.ModeSymlink != 0 {
		// Stat follows the link; a broken target surfaces here.
		info, err := os.Stat(filepath.Join(root, child.Name()))
		if err != nil {
			return false, false, err
		}
		return info.IsDir(), info.Mode().IsRegular(), nil
	}

	info, err := child.Info()
	if err != nil {
		return false, false, err
	}
	return info.IsDir(), info.Mode().IsRegular(), nil
}

// Emit writes one name per line to w in the order given. If the consumer of w
// has gone away the error wraps ErrDownstreamClosed; there is no retry.
func (s *Selector) Emit(w io.Writer, names []string) error {
	for i, name := range names {
		if _, err := fmt.Fprintln(w, name); err != nil {
			if isClosedDownstream(err) {
				return fmt.Errorf("%w after %d of %d entries", ErrDownstreamClosed, i, len(names))
			}
			return fmt.Errorf("emit %q: %w", name, err)
		}
	}
	return nil
}

// Run scans root and emits the result to w. The scan completes before the
// first byte is written, so a failed run never leaves a truncated list behind.
func (s *Selector) Run(root string, w io.Writer) error {
	names, err := s.Scan(root)
	if err != nil {
		return err
	}
	return s.Emit(w, names)
}

func isClosedDownstream(err error) bool {
	return errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, os.ErrClosed)
}
