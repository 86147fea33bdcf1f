// This file parses and validates the transaction entry form. Validation runs
// before any backend call so obviously bad input never leaves the process.

package http

import (
	"net/http"
	"net/url"

	"fintrack/internal/api"
	"fintrack/internal/core"
)

// customCategoryOption is the select value that reveals the free-text
// category field in the entry form.
const customCategoryOption = "custom"

// transactionForm holds the raw entry form values, kept around so a failed
// submission can be re-rendered with the user's input intact.
type transactionForm struct {
	Amount         string
	Type           string
	Category       string
	CustomCategory string
	Description    string
	Date           string
	From           string
	To             string
}

func parseTransactionForm(form url.Values) transactionForm {
	return transactionForm{
		Amount:         sanitizeInput(form.Get("amount")),
		Type:           sanitizeInput(form.Get("transaction_type")),
		Category:       sanitizeInput(form.Get("category")),
		CustomCategory: sanitizeInput(form.Get("custom_category")),
		Description:    sanitizeInput(form.Get("description")),
		Date:           sanitizeInput(form.Get("date")),
		From:           sanitizeInput(form.Get("from")),
		To:             sanitizeInput(form.Get("to")),
	}
}

// resolveCategory picks the effective category: the free-text value when the
// custom option is selected, the dropdown value otherwise.
func (f transactionForm) resolveCategory() string {
	if f.Category == customCategoryOption {
		return f.CustomCategory
	}
	return f.Category
}

// toInput validates the form and converts it into a create request. The
// returned builder is nil when the form is valid.
func (f transactionForm) toInput() (api.CreateTransactionInput, *HTMXResponseBuilder) {
	var in api.CreateTransactionInput

	txType := core.TransactionType(f.Type)
	if !txType.Valid() {
		return in, UnprocessableEntityError("Choose income or expense.")
	}

	amount, err := core.ParseAmount(f.Amount)
	if err != nil {
		return in, UnprocessableEntityError("Enter a positive amount, like 12.50.")
	}

	category := f.resolveCategory()
	if category == "" {
		return in, UnprocessableEntityError("Choose a category or enter a custom one.")
	}

	date := core.Today()
	if f.Date != "" {
		date, err = core.ParseDate(f.Date)
		if err != nil {
			return in, UnprocessableEntityError("Enter the date as YYYY-MM-DD.")
		}
	}

	in = api.CreateTransactionInput{
		Amount:      amount,
		Type:        txType,
		Category:    category,
		Description: f.Description,
		Date:        date,
	}
	return in, nil
}

// ParseFormOrFail parses the request form and returns an error response on
// failure. Returns nil on success.
func ParseFormOrFail(r *http.Request) *HTMXResponseBuilder {
	if err := r.ParseForm(); err != nil {
		return ErrorResponse(http.StatusBadRequest, "Invalid request format")
	}
	return nil
}
