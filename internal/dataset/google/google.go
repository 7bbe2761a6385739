// Package google reads the dataset from a Google Sheets spreadsheet.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"
	"google.golang.org/api/googleapi"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"txboard/internal/core"
)

// Config names the spreadsheet, its two sheets and the service account credentials.
type Config struct {
	SpreadsheetID      string
	CustomersSheet     string
	TransactionsSheet  string
	ServiceAccountJSON string
	ServiceAccountFile string
}

// Client reads a Customers sheet (id, name) and a Transactions sheet
// (customer_id, date, amount). The first row of each sheet is a header.
type Client struct {
	svc               *gsheet.Service
	spreadsheetID     string
	customersSheet    string
	transactionsSheet string
}

func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if cfg.CustomersSheet == "" {
		cfg.CustomersSheet = "Customers"
	}
	if cfg.TransactionsSheet == "" {
		cfg.TransactionsSheet = "Transactions"
	}

	svc, err := newSheetsService(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:               svc,
		spreadsheetID:     cfg.SpreadsheetID,
		customersSheet:    cfg.CustomersSheet,
		transactionsSheet: cfg.TransactionsSheet,
	}, nil
}

// newSheetsService initializes a read-only Sheets service from service account
// credentials, falling back to GOOGLE_APPLICATION_CREDENTIALS.
func newSheetsService(ctx context.Context, cfg Config) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(cfg.ServiceAccountJSON)
	serviceAccountFile := strings.TrimSpace(cfg.ServiceAccountFile)
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		b, err := os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	slog.InfoContext(ctx, "Creating Google Sheets service",
		"component", "sheets",
		"credentials_size", len(credentialsJSON),
		"scope", gsheet.SpreadsheetsReadonlyScope)

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

func (c *Client) Name() string { return "sheets:" + c.spreadsheetID }

// Fetch implements dataset.Source. Both sheets are read concurrently.
func (c *Client) Fetch(ctx context.Context) (core.Dataset, error) {
	var customerValues, transactionValues [][]interface{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := c.readSheet(gctx, c.customersSheet)
		customerValues = v
		return err
	})
	g.Go(func() error {
		v, err := c.readSheet(gctx, c.transactionsSheet)
		transactionValues = v
		return err
	})
	if err := g.Wait(); err != nil {
		return core.Dataset{}, core.NewLoadError(c.Name(), failureReason(err), err)
	}

	customers, err := parseCustomers(customerValues)
	if err != nil {
		return core.Dataset{}, core.NewLoadError(c.Name(), core.ReasonPayload, err)
	}
	transactions, err := parseTransactions(transactionValues)
	if err != nil {
		return core.Dataset{}, core.NewLoadError(c.Name(), core.ReasonPayload, err)
	}

	slog.InfoContext(ctx, "Read dataset from Google Sheets",
		"component", "sheets",
		"customers", len(customers),
		"transactions", len(transactions))
	return core.Dataset{Customers: customers, Transactions: transactions}, nil
}

// failureReason treats API errors carrying an HTTP status as status failures.
func failureReason(err error) core.FailureReason {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code != 0 {
		return core.ReasonStatus
	}
	return core.ReasonNetwork
}

func (c *Client) readSheet(ctx context.Context, sheet string) ([][]interface{}, error) {
	rng := fmt.Sprintf("%s!A:Z", sheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("FORMATTED_STRING").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return resp.Values, nil
}
