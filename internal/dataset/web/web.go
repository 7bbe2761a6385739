// Package web fetches the dataset document over HTTP.
package web

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"txboard/internal/core"
)

// Source issues a single GET of a fixed URL.
type Source struct {
	url    string
	client *http.Client
}

// New returns a Source for url. A nil client means http.DefaultClient; no
// timeout is applied beyond the caller's context.
func New(url string, client *http.Client) *Source {
	if client == nil {
		client = http.DefaultClient
	}
	return &Source{url: url, client: client}
}

func (s *Source) Name() string { return s.url }

// Fetch implements dataset.Source.
func (s *Source) Fetch(ctx context.Context) (core.Dataset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return core.Dataset{}, core.NewLoadError(s.url, core.ReasonNetwork, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return core.Dataset{}, core.NewLoadError(s.url, core.ReasonNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return core.Dataset{}, core.NewLoadError(s.url, core.ReasonStatus, fmt.Errorf("unexpected status %s", resp.Status))
	}

	d, err := core.DecodeDataset(resp.Body)
	if err != nil {
		return core.Dataset{}, core.NewLoadError(s.url, core.ReasonPayload, err)
	}
	return d, nil
}
