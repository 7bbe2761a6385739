package storage

import (
	"fmt"

	"txboard/internal/core"
)

// ToDataset rebuilds a dataset from stored rows, keeping row order.
func ToDataset(customers []CustomerRow, transactions []TransactionRow) (core.Dataset, error) {
	d := core.Dataset{
		Customers:    make([]core.Customer, 0, len(customers)),
		Transactions: make([]core.Transaction, 0, len(transactions)),
	}
	for _, c := range customers {
		id, err := core.NewID(c.ID, core.IDKind(c.IDKind))
		if err != nil {
			return core.Dataset{}, fmt.Errorf("%w: customer %q: %v", core.ErrMalformedPayload, c.ID, err)
		}
		d.Customers = append(d.Customers, core.Customer{ID: id, Name: c.Name})
	}
	for _, t := range transactions {
		id, err := core.NewID(t.CustomerID, core.IDKind(t.CustomerIDKind))
		if err != nil {
			return core.Dataset{}, fmt.Errorf("%w: transaction customer %q: %v", core.ErrMalformedPayload, t.CustomerID, err)
		}
		d.Transactions = append(d.Transactions, core.Transaction{CustomerID: id, Date: t.Date, Amount: t.Amount})
	}
	return d, nil
}

// FromDataset flattens a dataset into rows. Zero identifiers cannot be stored.
func FromDataset(d core.Dataset) ([]CustomerRow, []TransactionRow, error) {
	customers := make([]CustomerRow, 0, len(d.Customers))
	for i, c := range d.Customers {
		if c.ID.IsZero() {
			return nil, nil, fmt.Errorf("customer %d: %w: missing id", i, core.ErrInvalidID)
		}
		customers = append(customers, CustomerRow{ID: c.ID.String(), IDKind: string(c.ID.Kind()), Name: c.Name})
	}
	transactions := make([]TransactionRow, 0, len(d.Transactions))
	for i, t := range d.Transactions {
		if t.CustomerID.IsZero() {
			return nil, nil, fmt.Errorf("transaction %d: %w: missing customer_id", i, core.ErrInvalidID)
		}
		transactions = append(transactions, TransactionRow{
			CustomerID:     t.CustomerID.String(),
			CustomerIDKind: string(t.CustomerID.Kind()),
			Date:           t.Date,
			Amount:         t.Amount,
		})
	}
	return customers, transactions, nil
}
