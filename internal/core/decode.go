package core

import (
	"encoding/json"
	"fmt"
	"io"
)

// payload mirrors the wire document; pointer slices detect missing keys.
type payload struct {
	Customers    *[]Customer    `json:"customers"`
	Transactions *[]Transaction `json:"transactions"`
}

// DecodeDataset reads a dataset document. Missing or null customers/transactions
// lists, undecodable JSON, trailing data and unusable identifiers are all
// ErrMalformedPayload.
func DecodeDataset(r io.Reader) (Dataset, error) {
	var p payload
	dec := json.NewDecoder(r)
	if err := dec.Decode(&p); err != nil {
		return Dataset{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return Dataset{}, fmt.Errorf("%w: trailing data after document", ErrMalformedPayload)
	}
	if p.Customers == nil {
		return Dataset{}, fmt.Errorf("%w: missing customers", ErrMalformedPayload)
	}
	if p.Transactions == nil {
		return Dataset{}, fmt.Errorf("%w: missing transactions", ErrMalformedPayload)
	}
	return Dataset{Customers: *p.Customers, Transactions: *p.Transactions}, nil
}

// EncodeDataset writes a dataset document in the same format DecodeDataset reads.
func EncodeDataset(w io.Writer, d Dataset) error {
	if d.Customers == nil {
		d.Customers = []Customer{}
	}
	if d.Transactions == nil {
		d.Transactions = []Transaction{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	return nil
}
