package store

import (
	"errors"

	"txboard/internal/core"
)

// ErrUnknownCustomer reports an id that matches no loaded customer.
var ErrUnknownCustomer = errors.New("unknown customer")

// IDResolver is the part of a Store used to resolve ids written as text.
type IDResolver interface {
	LookupID(text string) (core.ID, bool)
	CustomerFor(id core.ID) (core.Customer, bool)
}

// ResolveCustomer maps an id as written in a URL or flag to a loaded customer.
// With a kind the id is matched strictly; without one the first customer whose
// id displays as text wins.
func ResolveCustomer(r IDResolver, text string, kind core.IDKind) (core.Customer, error) {
	if text == "" {
		return core.Customer{}, ErrUnknownCustomer
	}

	var id core.ID
	if kind != "" {
		parsed, err := core.NewID(text, kind)
		if err != nil {
			return core.Customer{}, err
		}
		id = parsed
	} else {
		found, ok := r.LookupID(text)
		if !ok {
			return core.Customer{}, ErrUnknownCustomer
		}
		id = found
	}

	c, ok := r.CustomerFor(id)
	if !ok {
		return core.Customer{}, ErrUnknownCustomer
	}
	return c, nil
}
