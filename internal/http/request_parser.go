// Package http serves the transaction dashboard.
//
// This file implements utilities for reading the dashboard's query
// parameters and route values.

package http

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"txboard/internal/core"
	"txboard/internal/store"
)

// maxFilterLength bounds the search inputs accepted from the query string.
const maxFilterLength = 200

// FilterParams holds the two dashboard search inputs.
type FilterParams struct {
	Name   string
	Amount string
}

// ParseFilterParams reads name and amount from the query. Values are passed to
// the store untrimmed, since the name filter is a plain substring match; only
// control characters are removed and overlong input is truncated.
func ParseFilterParams(query url.Values) FilterParams {
	return FilterParams{
		Name:   truncate(stripControl(query.Get("name")), maxFilterLength),
		Amount: truncate(stripControl(query.Get("amount")), maxFilterLength),
	}
}

// CustomerRef is a customer id as it appears in URLs: the displayed text plus
// an optional kind that disambiguates 3 from "3".
type CustomerRef struct {
	Text string
	Kind core.IDKind
}

// ParseCustomerRef reads the {customerID} route value and the kind query parameter.
// chi matches against RawPath when the request has one, leaving the value
// escaped; otherwise the value is already decoded and must not be unescaped
// again.
func ParseCustomerRef(r *http.Request) CustomerRef {
	text := chi.URLParam(r, "customerID")
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(text); err == nil {
			text = unescaped
		}
	}
	return CustomerRef{
		Text: text,
		Kind: core.IDKind(strings.TrimSpace(r.URL.Query().Get("kind"))),
	}
}

// Resolve maps the reference to a loaded customer.
func (ref CustomerRef) Resolve(s store.IDResolver) (core.Customer, error) {
	return store.ResolveCustomer(s, ref.Text, ref.Kind)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	// Avoid splitting a multi-byte rune
	for n > 0 && !utf8RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func utf8RuneStart(b byte) bool { return b&0xC0 != 0x80 }
