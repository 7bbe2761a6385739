package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"txboard/internal/core"
	"txboard/internal/store"
)

func TestParseFilterParams(t *testing.T) {
	tests := []struct {
		name  string
		query url.Values
		want  FilterParams
	}{
		{"empty", url.Values{}, FilterParams{}},
		{"kept verbatim", url.Values{"name": {" Ann "}, "amount": {"10abc"}}, FilterParams{Name: " Ann ", Amount: "10abc"}},
		{"control characters removed", url.Values{"name": {"An\x00n"}}, FilterParams{Name: "Ann"}},
		{"overlong truncated", url.Values{"name": {strings.Repeat("a", 500)}}, FilterParams{Name: strings.Repeat("a", maxFilterLength)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseFilterParams(tt.query); got != tt.want {
				t.Errorf("ParseFilterParams() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTruncateKeepsRunes(t *testing.T) {
	s := strings.Repeat("a", maxFilterLength-1) + "é"
	got := truncate(s, maxFilterLength)
	if len(got) != maxFilterLength-1 {
		t.Errorf("len=%d, want %d", len(got), maxFilterLength-1)
	}
}

type fakeResolver map[core.ID]core.Customer

func (f fakeResolver) LookupID(text string) (core.ID, bool) {
	for id := range f {
		if id.String() == text {
			return id, true
		}
	}
	return core.ID{}, false
}

func (f fakeResolver) CustomerFor(id core.ID) (core.Customer, bool) {
	c, ok := f[id]
	return c, ok
}

func TestCustomerRefResolve(t *testing.T) {
	resolver := fakeResolver{
		core.NumberID(1):     {ID: core.NumberID(1), Name: "Ann"},
		core.StringID("a b"): {ID: core.StringID("a b"), Name: "Spaced"},
		core.StringID("a/b"): {ID: core.StringID("a/b"), Name: "Slashed"},
		core.StringID("%41"): {ID: core.StringID("%41"), Name: "Percent"},
		core.StringID("A"):   {ID: core.StringID("A"), Name: "Plain"},
	}

	tests := []struct {
		name    string
		target  string
		param   string
		want    string
		wantErr error
	}{
		{"number with kind", "/x?kind=number", "1", "Ann", nil},
		{"number without kind", "/x", "1", "Ann", nil},
		{"decoded string id", "/x/a%20b?kind=string", "a b", "Spaced", nil},
		{"raw path slash", "/x/a%2Fb?kind=string", "a%2Fb", "Slashed", nil},
		{"percent literal decoded once", "/x/%2541?kind=string", "%41", "Percent", nil},
		{"wrong kind", "/x?kind=string", "1", "", store.ErrUnknownCustomer},
		{"invalid number", "/x?kind=number", "abc", "", core.ErrInvalidID},
		{"empty", "/x", "", "", store.ErrUnknownCustomer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.target, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("customerID", tt.param)
			r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))

			c, err := ParseCustomerRef(r).Resolve(resolver)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err=%v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c.Name != tt.want {
				t.Errorf("customer=%q, want %q", c.Name, tt.want)
			}
		})
	}
}
