// Package dataset defines where the dashboard's customers and transactions come from.
package dataset

import (
	"context"

	"txboard/internal/core"
)

// Ports for dataset adapters.
type (
	// Source performs the single read-only fetch of a dataset. Failures should be
	// returned as *core.LoadError so callers can tell network, status and payload
	// problems apart.
	Source interface {
		Name() string
		Fetch(ctx context.Context) (core.Dataset, error)
	}

	// Importer replaces the dataset held by a store.
	Importer interface {
		Import(ctx context.Context, d core.Dataset) error
	}
)

// Static is a Source over an in-memory dataset, used by tests and tools.
type Static struct {
	Label string
	Data  core.Dataset
	Err   error
}

func (s Static) Name() string {
	if s.Label == "" {
		return "static"
	}
	return s.Label
}

func (s Static) Fetch(ctx context.Context) (core.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return core.Dataset{}, core.NewLoadError(s.Name(), core.ReasonNetwork, err)
	}
	if s.Err != nil {
		return core.Dataset{}, s.Err
	}
	return s.Data, nil
}
