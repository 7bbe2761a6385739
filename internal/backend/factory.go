package backend

import (
	"context"
	"fmt"
	"log/slog"

	"txboard/internal/dataset/file"
	"txboard/internal/dataset/google"
	"txboard/internal/dataset/web"
	"txboard/internal/storage"
	"txboard/internal/storage/postgres"
	webassets "txboard/web"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case EmbeddedBackend:
		return f.createEmbeddedBackend()
	case FileBackend:
		return f.createFileBackend(config)
	case HTTPBackend:
		return f.createHTTPBackend(config)
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case PostgresBackend:
		return f.createPostgresBackend(ctx, config)
	case SheetsBackend:
		return f.createSheetsBackend(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createEmbeddedBackend() (*BackendResult, error) {
	src := file.New(webassets.DataFS, webassets.DataPath, "embedded:"+webassets.DataPath)
	f.logger.Info("Initialized embedded dataset backend", "component", "backend")
	return &BackendResult{Source: src}, nil
}

func (f *DefaultFactory) createFileBackend(config Config) (*BackendResult, error) {
	src := file.NewDisk(config.DataFile)
	f.logger.Info("Initialized file backend", "component", "backend", "path", config.DataFile)
	return &BackendResult{Source: src}, nil
}

func (f *DefaultFactory) createHTTPBackend(config Config) (*BackendResult, error) {
	src := web.New(config.DataURL, nil)
	f.logger.Info("Initialized HTTP backend", "component", "backend", "url", config.DataURL)
	return &BackendResult{Source: src}, nil
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "component", "backend", "db_path", config.SQLiteDBPath)

	return &BackendResult{
		Source:   repo,
		Importer: repo,
		Cleanup:  repo.Close,
	}, nil
}

func (f *DefaultFactory) createPostgresBackend(ctx context.Context, config Config) (*BackendResult, error) {
	repo, err := postgres.Connect(ctx, config.PostgresURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Postgres repository: %w", err)
	}

	f.logger.Info("Initialized Postgres backend", "component", "backend")

	return &BackendResult{
		Source:   repo,
		Importer: repo,
		Cleanup: func() error {
			repo.Close()
			return nil
		},
	}, nil
}

func (f *DefaultFactory) createSheetsBackend(ctx context.Context, config Config) (*BackendResult, error) {
	cli, err := google.New(ctx, google.Config{
		SpreadsheetID:      config.GoogleSpreadsheetID,
		CustomersSheet:     config.GoogleCustomersSheet,
		TransactionsSheet:  config.GoogleTransactionsSheet,
		ServiceAccountJSON: config.GoogleServiceAccountJSON,
		ServiceAccountFile: config.GoogleServiceAccountFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets backend", "component", "backend", "spreadsheet_id", config.GoogleSpreadsheetID)

	return &BackendResult{Source: cli}, nil
}
