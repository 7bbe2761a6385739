package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type CustomerRow struct {
	ID     string
	IDKind string
	Name   string
}

type TransactionRow struct {
	CustomerID     string
	CustomerIDKind string
	Date           string
	Amount         float64
}

const listCustomers = `SELECT id, id_kind, name FROM customers ORDER BY seq`

func (q *Queries) ListCustomers(ctx context.Context) ([]CustomerRow, error) {
	rows, err := q.db.QueryContext(ctx, listCustomers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []CustomerRow{}
	for rows.Next() {
		var i CustomerRow
		if err := rows.Scan(&i.ID, &i.IDKind, &i.Name); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listTransactions = `SELECT customer_id, customer_id_kind, date, amount FROM transactions ORDER BY seq`

func (q *Queries) ListTransactions(ctx context.Context) ([]TransactionRow, error) {
	rows, err := q.db.QueryContext(ctx, listTransactions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []TransactionRow{}
	for rows.Next() {
		var i TransactionRow
		if err := rows.Scan(&i.CustomerID, &i.CustomerIDKind, &i.Date, &i.Amount); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const insertCustomer = `INSERT INTO customers (id, id_kind, name) VALUES (?, ?, ?)`

func (q *Queries) InsertCustomer(ctx context.Context, arg CustomerRow) error {
	_, err := q.db.ExecContext(ctx, insertCustomer, arg.ID, arg.IDKind, arg.Name)
	return err
}

const insertTransaction = `INSERT INTO transactions (customer_id, customer_id_kind, date, amount) VALUES (?, ?, ?, ?)`

func (q *Queries) InsertTransaction(ctx context.Context, arg TransactionRow) error {
	_, err := q.db.ExecContext(ctx, insertTransaction, arg.CustomerID, arg.CustomerIDKind, arg.Date, arg.Amount)
	return err
}

const deleteTransactions = `DELETE FROM transactions`

func (q *Queries) DeleteTransactions(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteTransactions)
	return err
}

const deleteCustomers = `DELETE FROM customers`

func (q *Queries) DeleteCustomers(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteCustomers)
	return err
}
