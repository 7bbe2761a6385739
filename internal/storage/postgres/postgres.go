// Package postgres keeps the dashboard dataset in PostgreSQL.
package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"txboard/internal/core"
	"txboard/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS customers (
	seq BIGSERIAL PRIMARY KEY,
	id TEXT NOT NULL,
	id_kind TEXT NOT NULL CHECK (id_kind IN ('number', 'string')),
	name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS transactions (
	seq BIGSERIAL PRIMARY KEY,
	customer_id TEXT NOT NULL,
	customer_id_kind TEXT NOT NULL CHECK (customer_id_kind IN ('number', 'string')),
	date TEXT NOT NULL,
	amount DOUBLE PRECISION NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_transactions_customer ON transactions (customer_id, customer_id_kind);
`

type Repository struct {
	pool *pgxpool.Pool
}

// Connect opens a pool, checks the connection and ensures the schema exists.
func Connect(ctx context.Context, url string) (*Repository, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return &Repository{pool: pool}, nil
}

func (r *Repository) Close() {
	r.pool.Close()
}

func (r *Repository) Name() string { return "postgres" }

// Fetch implements dataset.Source
func (r *Repository) Fetch(ctx context.Context) (core.Dataset, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, id_kind, name FROM customers ORDER BY seq`)
	if err != nil {
		return core.Dataset{}, core.NewLoadError(r.Name(), core.ReasonNetwork, fmt.Errorf("list customers: %w", err))
	}
	customers, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (storage.CustomerRow, error) {
		var c storage.CustomerRow
		err := row.Scan(&c.ID, &c.IDKind, &c.Name)
		return c, err
	})
	if err != nil {
		return core.Dataset{}, core.NewLoadError(r.Name(), core.ReasonNetwork, fmt.Errorf("scan customers: %w", err))
	}

	rows, err = r.pool.Query(ctx, `SELECT customer_id, customer_id_kind, date, amount FROM transactions ORDER BY seq`)
	if err != nil {
		return core.Dataset{}, core.NewLoadError(r.Name(), core.ReasonNetwork, fmt.Errorf("list transactions: %w", err))
	}
	transactions, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (storage.TransactionRow, error) {
		var t storage.TransactionRow
		err := row.Scan(&t.CustomerID, &t.CustomerIDKind, &t.Date, &t.Amount)
		return t, err
	})
	if err != nil {
		return core.Dataset{}, core.NewLoadError(r.Name(), core.ReasonNetwork, fmt.Errorf("scan transactions: %w", err))
	}

	d, err := storage.ToDataset(customers, transactions)
	if err != nil {
		return core.Dataset{}, core.NewLoadError(r.Name(), core.ReasonPayload, err)
	}
	return d, nil
}

// Import implements dataset.Importer. Rows are bulk loaded with COPY inside
// one transaction that first empties both tables.
func (r *Repository) Import(ctx context.Context, d core.Dataset) error {
	customers, transactions, err := storage.FromDataset(d)
	if err != nil {
		return fmt.Errorf("prepare import: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `TRUNCATE transactions, customers RESTART IDENTITY`); err != nil {
		return fmt.Errorf("clear dataset: %w", err)
	}

	_, err = tx.CopyFrom(ctx, pgx.Identifier{"customers"}, []string{"id", "id_kind", "name"},
		pgx.CopyFromSlice(len(customers), func(i int) ([]any, error) {
			c := customers[i]
			return []any{c.ID, c.IDKind, c.Name}, nil
		}))
	if err != nil {
		return fmt.Errorf("copy customers: %w", err)
	}

	_, err = tx.CopyFrom(ctx, pgx.Identifier{"transactions"}, []string{"customer_id", "customer_id_kind", "date", "amount"},
		pgx.CopyFromSlice(len(transactions), func(i int) ([]any, error) {
			t := transactions[i]
			return []any{t.CustomerID, t.CustomerIDKind, t.Date, t.Amount}, nil
		}))
	if err != nil {
		return fmt.Errorf("copy transactions: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}

	slog.InfoContext(ctx, "Dataset imported into Postgres",
		"component", "storage",
		"customers", len(customers),
		"transactions", len(transactions))
	return nil
}
