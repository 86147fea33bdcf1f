package core

import (
	"reflect"
	"testing"
)

func sampleItems() []Transaction {
	return []Transaction{
		{ID: 3, Amount: Money{Cents: 50000}, Type: Income, Category: "Salary", Date: NewDate(2025, 3, 1)},
		{ID: 2, Amount: Money{Cents: 1200}, Type: Income, Category: "Freelance", Date: NewDate(2025, 2, 10)},
		{ID: 1, Amount: Money{Cents: 700}, Type: Income, Category: "Salary", Date: NewDate(2025, 1, 5)},
	}
}

func TestLedgerReplaceKeepsServerOrder(t *testing.T) {
	l := NewLedger(Income)
	if l.Loaded() {
		t.Fatal("fresh ledger must not report loaded")
	}
	l.Replace(sampleItems())
	if !l.Loaded() {
		t.Fatal("ledger must report loaded after Replace")
	}
	got := l.Items()
	if !reflect.DeepEqual(got, sampleItems()) {
		t.Fatalf("Items() = %v", got)
	}
}

func TestLedgerAppend(t *testing.T) {
	l := NewLedger(Income)
	l.Replace(sampleItems())
	created := Transaction{ID: 9, Amount: Money{Cents: 333}, Type: Income, Category: "Bonus", Date: NewDate(2025, 3, 20)}
	l.Append(created)

	got := l.Items()
	if len(got) != len(sampleItems())+1 {
		t.Fatalf("expected one extra entry, got %d", len(got))
	}
	if got[len(got)-1] != created {
		t.Fatalf("appended entry mismatch: %+v", got[len(got)-1])
	}
}

func TestLedgerRemove(t *testing.T) {
	l := NewLedger(Income)
	l.Replace(sampleItems())

	if !l.Remove(2) {
		t.Fatal("expected removal of id 2")
	}
	for _, tx := range l.Items() {
		if tx.ID == 2 {
			t.Fatal("id 2 still present after Remove")
		}
	}
	if l.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", l.Len())
	}
	if l.Remove(42) {
		t.Fatal("removing unknown id must report false")
	}
	if l.Len() != 2 {
		t.Fatal("failed removal must not change the collection")
	}
}

func TestLedgerFiltered(t *testing.T) {
	l := NewLedger(Income)
	l.Replace(sampleItems())

	// Unbounded range: same elements, same order.
	if got := l.Filtered(DateRange{}); !reflect.DeepEqual(got, sampleItems()) {
		t.Fatalf("unbounded Filtered() = %v", got)
	}

	r := DateRange{Start: NewDate(2025, 2, 1), End: NewDate(2025, 3, 1)}
	got := l.Filtered(r)
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %v", got)
	}
	if got[0].ID != 3 || got[1].ID != 2 {
		t.Fatalf("filtered order mismatch: %v", got)
	}

	// Filtering must not mutate the ledger.
	if l.Len() != 3 {
		t.Fatalf("ledger mutated by Filtered: %d items", l.Len())
	}
}
