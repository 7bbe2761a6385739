package core

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestDatasetIndexFirstWins(t *testing.T) {
	d := Dataset{Customers: []Customer{
		{ID: NumberID(1), Name: "Ann"},
		{ID: NumberID(1), Name: "Shadow"},
		{ID: StringID("1"), Name: "Text"},
	}}
	idx := d.Index()
	if len(idx) != 2 {
		t.Fatalf("expected 2 distinct ids, got %d", len(idx))
	}
	if idx[NumberID(1)].Name != "Ann" {
		t.Fatalf("expected first customer to win, got %q", idx[NumberID(1)].Name)
	}
	if idx[StringID("1")].Name != "Text" {
		t.Fatalf("string id should not collide with numeric id")
	}
}

func TestDatasetStats(t *testing.T) {
	d := Dataset{
		Customers: []Customer{{ID: NumberID(1), Name: "Ann"}},
		Transactions: []Transaction{
			{CustomerID: NumberID(1), Date: "2024-01-01", Amount: 1},
			{CustomerID: NumberID(2), Date: "2024-01-01", Amount: 1},
			{CustomerID: StringID("1"), Date: "2024-01-01", Amount: 1},
		},
	}
	st := d.Stats("test")
	if st.Customers != 1 || st.Transactions != 3 || st.Orphans != 2 || st.Source != "test" {
		t.Fatalf("unexpected stats: %+v", st)
	}
}

func TestStatusMessage(t *testing.T) {
	cases := map[int]string{
		0:  "No transactions found.",
		1:  "Keep going! You're doing great!",
		5:  "Keep going! You're doing great!",
		6:  "Wow! So many transactions!",
		40: "Wow! So many transactions!",
	}
	for n, want := range cases {
		if got := StatusMessage(n); got != want {
			t.Fatalf("StatusMessage(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestLoadError(t *testing.T) {
	base := errors.New("connection refused")
	err := NewLoadError("http://x/data.json", ReasonNetwork, base)
	if !IsLoadFailure(err) {
		t.Fatalf("expected load failure")
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped cause")
	}
	if !strings.Contains(err.Error(), "network") {
		t.Fatalf("expected reason in message: %v", err)
	}

	// Re-wrapping keeps the original classification.
	again := NewLoadError("other", ReasonPayload, fmt.Errorf("outer: %w", err))
	var le *LoadError
	if !errors.As(again, &le) || le.Reason != ReasonNetwork {
		t.Fatalf("expected original reason to survive, got %v", again)
	}
}
