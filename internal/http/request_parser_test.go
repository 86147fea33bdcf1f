package http

import (
	"net/url"
	"testing"

	"fintrack/internal/core"
)

func TestResolveCategory(t *testing.T) {
	tests := []struct {
		name string
		form transactionForm
		want string
	}{
		{"dropdown value", transactionForm{Category: "Food"}, "Food"},
		{"custom value", transactionForm{Category: "custom", CustomCategory: "Freelance"}, "Freelance"},
		{"custom empty", transactionForm{Category: "custom"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.form.resolveCategory(); got != tt.want {
				t.Errorf("resolveCategory() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormToInput(t *testing.T) {
	form := transactionForm{
		Amount:   "12,5",
		Type:     "expense",
		Category: "Food",
		Date:     "2025-03-10",
	}
	in, errResp := form.toInput()
	if errResp != nil {
		t.Fatal("unexpected validation failure")
	}
	if in.Amount.Cents != 1250 {
		t.Errorf("amount = %d cents, want 1250", in.Amount.Cents)
	}
	if in.Type != core.Expense {
		t.Errorf("type = %q, want expense", in.Type)
	}
	if in.Date.String() != "2025-03-10" {
		t.Errorf("date = %s, want 2025-03-10", in.Date)
	}
}

func TestFormToInputDefaultsDateToToday(t *testing.T) {
	form := transactionForm{Amount: "5", Type: "income", Category: "Salary"}
	in, errResp := form.toInput()
	if errResp != nil {
		t.Fatal("unexpected validation failure")
	}
	if in.Date.String() != core.Today().String() {
		t.Errorf("date = %s, want today", in.Date)
	}
}

func TestFormToInputRejections(t *testing.T) {
	tests := []struct {
		name string
		form transactionForm
	}{
		{"bad type", transactionForm{Amount: "5", Type: "transfer", Category: "Food"}},
		{"bad amount", transactionForm{Amount: "abc", Type: "expense", Category: "Food"}},
		{"zero amount", transactionForm{Amount: "0", Type: "expense", Category: "Food"}},
		{"no category", transactionForm{Amount: "5", Type: "expense"}},
		{"bad date", transactionForm{Amount: "5", Type: "expense", Category: "Food", Date: "10/03/2025"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, errResp := tt.form.toInput(); errResp == nil {
				t.Error("expected validation failure")
			}
		})
	}
}

func TestParseTransactionFormTrimsInput(t *testing.T) {
	form := parseTransactionForm(url.Values{
		"amount":           {"  12.50 "},
		"transaction_type": {"expense"},
		"category":         {" Food "},
		"description":      {" lunch "},
	})
	if form.Amount != "12.50" || form.Category != "Food" || form.Description != "lunch" {
		t.Errorf("form not trimmed: %+v", form)
	}
}
