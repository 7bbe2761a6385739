package storage

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"txboard/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "data", "txboard.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func sampleDataset() core.Dataset {
	return core.Dataset{
		Customers: []core.Customer{
			{ID: core.NumberID(1), Name: "Ahmed Ali"},
			{ID: core.StringID("1"), Name: "String One"},
			{ID: core.NumberID(2.5), Name: "Fractional"},
		},
		Transactions: []core.Transaction{
			{CustomerID: core.NumberID(1), Date: "2022-01-02", Amount: 2000},
			{CustomerID: core.StringID("1"), Date: "2022-01-01", Amount: -3.25},
			{CustomerID: core.NumberID(7), Date: "2022-01-01", Amount: 0.1},
			{CustomerID: core.NumberID(1), Date: "2022-01-01", Amount: 1000},
		},
	}
}

func TestEmptyRepositoryFetch(t *testing.T) {
	repo := newTestRepo(t)
	d, err := repo.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if d.Customers == nil || d.Transactions == nil {
		t.Fatalf("expected non-nil empty slices, got %+v", d)
	}
	if len(d.Customers) != 0 || len(d.Transactions) != 0 {
		t.Fatalf("expected empty dataset, got %+v", d)
	}
}

func TestImportThenFetchKeepsOrderAndKinds(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	want := sampleDataset()

	if err := repo.Import(ctx, want); err != nil {
		t.Fatalf("Import: %v", err)
	}
	got, err := repo.Fetch(ctx)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch\n got: %+v\nwant: %+v", got, want)
	}
	if got.Customers[0].ID == got.Customers[1].ID {
		t.Fatalf("number and string ids must stay distinct")
	}
}

func TestImportReplacesDataset(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	if err := repo.Import(ctx, sampleDataset()); err != nil {
		t.Fatalf("first import: %v", err)
	}
	second := core.Dataset{
		Customers:    []core.Customer{{ID: core.NumberID(9), Name: "Nine"}},
		Transactions: []core.Transaction{},
	}
	if err := repo.Import(ctx, second); err != nil {
		t.Fatalf("second import: %v", err)
	}
	got, err := repo.Fetch(ctx)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !reflect.DeepEqual(got, second) {
		t.Fatalf("expected replaced dataset, got %+v", got)
	}
}

func TestImportRejectsMissingIDs(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	if err := repo.Import(ctx, sampleDataset()); err != nil {
		t.Fatalf("Import: %v", err)
	}
	bad := core.Dataset{Customers: []core.Customer{{Name: "No id"}}}
	err := repo.Import(ctx, bad)
	if !errors.Is(err, core.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
	got, err := repo.Fetch(ctx)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(got.Customers) != 3 {
		t.Fatalf("failed import must leave previous data intact, got %+v", got)
	}
}

func TestFetchAfterCloseIsNetworkFailure(t *testing.T) {
	repo := newTestRepo(t)
	repo.Close()
	_, err := repo.Fetch(context.Background())
	var le *core.LoadError
	if !errors.As(err, &le) || le.Reason != core.ReasonNetwork {
		t.Fatalf("expected network load error, got %v", err)
	}
}

func TestToDatasetRejectsUnknownKind(t *testing.T) {
	_, err := ToDataset([]CustomerRow{{ID: "1", IDKind: "bool", Name: "x"}}, nil)
	if !errors.Is(err, core.ErrMalformedPayload) {
		t.Fatalf("expected malformed payload, got %v", err)
	}
}
