package core

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

const sampleDoc = `{
  "customers": [ {"id": 1, "name": "Ann"}, {"id": "b", "name": "Bob"} ],
  "transactions": [
    {"customer_id": 1, "date": "2024-01-01", "amount": 10},
    {"customer_id": "b", "date": "2024-01-02", "amount": -2.5}
  ]
}`

func TestDecodeDataset(t *testing.T) {
	d, err := DecodeDataset(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(d.Customers) != 2 || len(d.Transactions) != 2 {
		t.Fatalf("unexpected sizes: %+v", d)
	}
	if d.Customers[1].ID != StringID("b") {
		t.Fatalf("unexpected id %v", d.Customers[1].ID)
	}
	if d.Transactions[1].Amount != -2.5 {
		t.Fatalf("unexpected amount %v", d.Transactions[1].Amount)
	}
}

func TestDecodeDatasetMalformed(t *testing.T) {
	cases := map[string]string{
		"not json":             `<html>`,
		"missing customers":    `{"transactions": []}`,
		"missing transactions": `{"customers": []}`,
		"null transactions":    `{"customers": [], "transactions": null}`,
		"amount as string":     `{"customers": [], "transactions": [{"customer_id": 1, "date": "d", "amount": "10"}]}`,
		"boolean id":           `{"customers": [{"id": true, "name": "x"}], "transactions": []}`,
		"trailing garbage":     `{"customers": [], "transactions": []} this is not json`,
		"second document":      `{"customers": [], "transactions": []}{"customers": [], "transactions": []}`,
	}
	for name, doc := range cases {
		_, err := DecodeDataset(strings.NewReader(doc))
		if !errors.Is(err, ErrMalformedPayload) {
			t.Fatalf("%s: expected ErrMalformedPayload, got %v", name, err)
		}
	}
}

func TestEncodeDecodeDataset(t *testing.T) {
	d, err := DecodeDataset(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	var buf bytes.Buffer
	if err := EncodeDataset(&buf, d); err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := DecodeDataset(&buf)
	if err != nil {
		t.Fatalf("decode again: %v", err)
	}
	if back.Customers[0] != d.Customers[0] || back.Transactions[1] != d.Transactions[1] {
		t.Fatalf("dataset changed: %+v", back)
	}

	buf.Reset()
	if err := EncodeDataset(&buf, Dataset{}); err != nil {
		t.Fatalf("encode empty: %v", err)
	}
	if _, err := DecodeDataset(&buf); err != nil {
		t.Fatalf("empty dataset should decode: %v", err)
	}
}
