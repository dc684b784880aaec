package listener

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Payload is the completion notification one connection delivers: the torrent
// name and the absolute path of its output directory.
type Payload struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Validation errors for activation payloads.
var (
	ErrMissingPath  = errors.New("payload missing torrent path")
	ErrRelativePath = errors.New("torrent path must be absolute")
	ErrRootNotFound = errors.New("torrent path does not exist or is not a directory")
)

// Validate checks the payload and confirms the root directory exists at
// dispatch time. Name defaults to the directory's base name when absent.
func (p *Payload) Validate() error {
	if p.Path == "" {
		return ErrMissingPath
	}
	if !filepath.IsAbs(p.Path) {
		return fmt.Errorf("%w: %s", ErrRelativePath, p.Path)
	}

	info, err := os.Stat(p.Path)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrRootNotFound, p.Path)
	}

	if p.Name == "" {
		p.Name = filepath.Base(p.Path)
	}
	return nil
}
