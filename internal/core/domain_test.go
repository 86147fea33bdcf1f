package core

import "testing"

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Amount:   Money{Cents: 1500},
		Type:     Expense,
		Category: "Food",
		Date:     NewDate(2025, 3, 14),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{Amount: Money{Cents: 0}, Type: Expense, Category: "Food", Date: NewDate(2025, 3, 14)},
		{Amount: Money{Cents: 100}, Type: "transfer", Category: "Food", Date: NewDate(2025, 3, 14)},
		{Amount: Money{Cents: 100}, Type: Income, Category: "  ", Date: NewDate(2025, 3, 14)},
		{Amount: Money{Cents: 100}, Type: Income, Category: "Salary"}, // zero date
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-08-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "2025-08-31" {
		t.Fatalf("round trip mismatch: %s", d)
	}
	for _, bad := range []string{"31-08-2025", "2025-13-01", "yesterday", ""} {
		if _, err := ParseDate(bad); err == nil {
			t.Fatalf("%q expected error", bad)
		}
	}
}

func TestDateRangeContains(t *testing.T) {
	r := DateRange{Start: NewDate(2025, 1, 10), End: NewDate(2025, 1, 20)}
	cases := []struct {
		d    Date
		want bool
	}{
		{NewDate(2025, 1, 10), true}, // inclusive start
		{NewDate(2025, 1, 20), true}, // inclusive end
		{NewDate(2025, 1, 15), true},
		{NewDate(2025, 1, 9), false},
		{NewDate(2025, 1, 21), false},
	}
	for i, tc := range cases {
		if got := r.Contains(tc.d); got != tc.want {
			t.Fatalf("case %d: Contains(%s) = %v, want %v", i, tc.d, got, tc.want)
		}
	}

	unbounded := DateRange{Start: NewDate(2025, 1, 10)}
	if !unbounded.Contains(NewDate(1990, 1, 1)) {
		t.Fatal("half-open range must not filter")
	}
}
