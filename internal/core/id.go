package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// IDKind tells whether an identifier was written as a JSON number or a JSON string.
type IDKind string

const (
	KindNumber IDKind = "number"
	KindString IDKind = "string"
)

var ErrInvalidID = errors.New("invalid identifier")

// ID identifies a customer. Equality is strict: the number 1 and the string "1"
// are different identifiers. The zero value is not a valid identifier.
type ID struct {
	text string
	kind IDKind
}

// NumberID returns a numeric identifier.
func NumberID(n float64) ID {
	return ID{text: strconv.FormatFloat(n, 'f', -1, 64), kind: KindNumber}
}

// StringID returns a string identifier.
func StringID(s string) ID {
	return ID{text: s, kind: KindString}
}

// NewID rebuilds an identifier from its stored parts.
func NewID(text string, kind IDKind) (ID, error) {
	switch kind {
	case KindString:
		return StringID(text), nil
	case KindNumber:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return ID{}, fmt.Errorf("%w: %q is not a number", ErrInvalidID, text)
		}
		return NumberID(f), nil
	default:
		return ID{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidID, kind)
	}
}

// String returns the identifier as it would be displayed.
func (id ID) String() string { return id.text }

// Kind returns how the identifier was written.
func (id ID) Kind() IDKind { return id.kind }

// IsZero reports whether the identifier is unset.
func (id ID) IsZero() bool { return id.kind == "" }

func (id ID) MarshalJSON() ([]byte, error) {
	switch id.kind {
	case KindNumber:
		return []byte(id.text), nil
	case KindString:
		return json.Marshal(id.text)
	default:
		return []byte("null"), nil
	}
}

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ID{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidID, err)
		}
		*id = StringID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidID, data)
	}
	f, err := n.Float64()
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidID, data)
	}
	*id = NumberID(f)
	return nil
}
