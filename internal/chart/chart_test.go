package chart

import (
	"bytes"
	"errors"
	"testing"

	"txboard/internal/core"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestRenderPNG(t *testing.T) {
	tests := []struct {
		name   string
		series []core.DateTotal
	}{
		{"positive", []core.DateTotal{{Date: "2024-01-01", Amount: 15}, {Date: "2024-01-02", Amount: 7}}},
		{"mixed signs", []core.DateTotal{{Date: "2024-01-01", Amount: -12.5}, {Date: "2024-01-02", Amount: 30}}},
		{"all zero", []core.DateTotal{{Date: "2024-01-01", Amount: 0}}},
	}

	r := NewRenderer(400, 200)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := core.Aggregate{Customer: core.Customer{ID: core.NumberID(1), Name: "Ann"}, Series: tt.series}
			b, err := r.PNG(agg)
			if err != nil {
				t.Fatalf("PNG: %v", err)
			}
			if !bytes.HasPrefix(b, pngMagic) {
				t.Fatalf("output is not a PNG")
			}
		})
	}
}

func TestRenderEmptySeries(t *testing.T) {
	var buf bytes.Buffer
	err := NewRenderer(0, 0).RenderPNG(&buf, core.Aggregate{})
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("nothing should be written for an empty series")
	}
}

func TestNewRendererDefaults(t *testing.T) {
	r := NewRenderer(-1, 0)
	if r.Width != 800 || r.Height != 400 {
		t.Fatalf("unexpected defaults %+v", r)
	}
}
