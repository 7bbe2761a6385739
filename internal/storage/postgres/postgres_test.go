package postgres

import (
	"context"
	"os"
	"reflect"
	"testing"

	"txboard/internal/core"
)

// Runs only when TXBOARD_TEST_POSTGRES_URL points at a disposable database.
func TestImportThenFetch(t *testing.T) {
	url := os.Getenv("TXBOARD_TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("TXBOARD_TEST_POSTGRES_URL not set")
	}
	ctx := context.Background()
	repo, err := Connect(ctx, url)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer repo.Close()

	want := core.Dataset{
		Customers: []core.Customer{
			{ID: core.NumberID(1), Name: "Ann"},
			{ID: core.StringID("1"), Name: "Ann as text"},
		},
		Transactions: []core.Transaction{
			{CustomerID: core.NumberID(1), Date: "2024-01-01", Amount: 10},
			{CustomerID: core.StringID("1"), Date: "2024-01-01", Amount: -5.5},
		},
	}
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
}
