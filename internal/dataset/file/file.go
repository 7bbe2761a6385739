// Package file reads the dataset document from a filesystem.
package file

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"txboard/internal/core"
)

// Source reads one JSON document from an fs.FS.
type Source struct {
	fsys  fs.FS
	path  string
	label string
}

// New reads path inside fsys. Use it with the embedded sample dataset.
func New(fsys fs.FS, path, label string) *Source {
	if label == "" {
		label = path
	}
	return &Source{fsys: fsys, path: path, label: label}
}

// NewDisk reads a file from the local disk.
func NewDisk(path string) *Source {
	dir, name := filepath.Split(filepath.Clean(path))
	if dir == "" {
		dir = "."
	}
	return &Source{fsys: os.DirFS(dir), path: name, label: path}
}

func (s *Source) Name() string { return s.label }

// Fetch implements dataset.Source. A file that cannot be opened or read is a
// network-class failure; undecodable content is a payload failure.
func (s *Source) Fetch(ctx context.Context) (core.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return core.Dataset{}, core.NewLoadError(s.label, core.ReasonNetwork, err)
	}

	f, err := s.fsys.Open(s.path)
	if err != nil {
		return core.Dataset{}, core.NewLoadError(s.label, core.ReasonNetwork, fmt.Errorf("open dataset: %w", err))
	}
	defer f.Close()

	d, err := core.DecodeDataset(f)
	if err != nil {
		return core.Dataset{}, core.NewLoadError(s.label, core.ReasonPayload, err)
	}
	return d, nil
}
