package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"txboard/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository stores a dataset in SQLite. It serves as both a dataset
// source and an importer.
type SQLiteRepository struct {
	db      *sql.DB
	path    string
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		path:    dbPath,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Name() string { return "sqlite:" + r.path }

// Fetch implements dataset.Source
func (r *SQLiteRepository) Fetch(ctx context.Context) (core.Dataset, error) {
	customers, err := r.queries.ListCustomers(ctx)
	if err != nil {
		return core.Dataset{}, core.NewLoadError(r.Name(), core.ReasonNetwork, fmt.Errorf("list customers: %w", err))
	}
	transactions, err := r.queries.ListTransactions(ctx)
	if err != nil {
		return core.Dataset{}, core.NewLoadError(r.Name(), core.ReasonNetwork, fmt.Errorf("list transactions: %w", err))
	}

	d, err := ToDataset(customers, transactions)
	if err != nil {
		return core.Dataset{}, core.NewLoadError(r.Name(), core.ReasonPayload, err)
	}

	slog.DebugContext(ctx, "Dataset read from SQLite",
		"component", "storage",
		"customers", len(d.Customers),
		"transactions", len(d.Transactions))
	return d, nil
}

// Import implements dataset.Importer. The stored dataset is replaced in a
// single transaction.
func (r *SQLiteRepository) Import(ctx context.Context, d core.Dataset) (err error) {
	customers, transactions, err := FromDataset(d)
	if err != nil {
		return fmt.Errorf("prepare import: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				slog.ErrorContext(ctx, "Rollback failed", "component", "storage", "error", rbErr)
			}
		}
	}()

	q := r.queries.WithTx(tx)
	if err = q.DeleteTransactions(ctx); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}
	if err = q.DeleteCustomers(ctx); err != nil {
		return fmt.Errorf("clear customers: %w", err)
	}
	for _, c := range customers {
		if err = q.InsertCustomer(ctx, c); err != nil {
			return fmt.Errorf("insert customer %s: %w", c.ID, err)
		}
	}
	for _, t := range transactions {
		if err = q.InsertTransaction(ctx, t); err != nil {
			return fmt.Errorf("insert transaction for %s: %w", t.CustomerID, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}

	slog.InfoContext(ctx, "Dataset imported into SQLite",
		"component", "storage",
		"customers", len(customers),
		"transactions", len(transactions))
	return nil
}
