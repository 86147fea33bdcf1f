package api

import (
	"encoding/json"

	"fintrack/internal/core"
)

// Registration carries the sign-up form fields. Birth date and gender are
// optional and omitted from the payload when empty.
type Registration struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	BirthDate string `json:"birth_date,omitempty"`
	Gender    string `json:"gender,omitempty"`
}

// CreateTransactionInput is a locally validated transaction ready for
// submission. Amount must already be positive; the client formats it with
// two fraction digits on the wire.
type CreateTransactionInput struct {
	Amount      core.Money
	Type        core.TransactionType
	Category    string
	Description string
	Date        core.Date
}

type tokenResponse struct {
	Token string `json:"token"`
}

type transactionPayload struct {
	ID          int64  `json:"id"`
	Amount      string `json:"amount"`
	Type        string `json:"transaction_type"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Date        string `json:"date"`
	TypeDisplay string `json:"type_display"`
}

type transactionsResponse struct {
	Transactions []transactionPayload `json:"transactions"`
}

type categoriesResponse struct {
	Categories []string `json:"categories"`
}

type avatarResponse struct {
	Avatar string `json:"avatar"`
}

type profilePayload struct {
	Username   string      `json:"username"`
	Email      string      `json:"email"`
	FirstName  string      `json:"first_name"`
	LastName   string      `json:"last_name"`
	BirthDate  *string     `json:"birth_date"`
	Gender     *string     `json:"gender"`
	Balance    json.Number `json:"balance"`
	LastLogin  *string     `json:"last_login"`
	DateJoined string      `json:"date_joined"`
	IsActive   bool        `json:"is_active"`
	Avatar     *string     `json:"avatar"`
}

type summaryPayload struct {
	Income      string `json:"income"`
	Expenses    string `json:"expenses"`
	Balance     string `json:"balance"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
}

// errorBody covers both the application's {"error": ...} responses and the
// framework's {"detail": ...} auth failures.
type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

func (p transactionPayload) toDomain() (core.Transaction, error) {
	amount, err := core.ParseAmount(p.Amount)
	if err != nil {
		return core.Transaction{}, err
	}
	date, err := core.ParseDate(p.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		ID:          p.ID,
		Amount:      amount,
		Type:        core.TransactionType(p.Type),
		TypeDisplay: p.TypeDisplay,
		Category:    p.Category,
		Description: p.Description,
		Date:        date,
	}, nil
}

func (p profilePayload) toDomain() core.UserProfile {
	u := core.UserProfile{
		Username:   p.Username,
		Email:      p.Email,
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Balance:    p.Balance.String(),
		DateJoined: p.DateJoined,
		Active:     p.IsActive,
	}
	if p.BirthDate != nil {
		u.BirthDate = *p.BirthDate
	}
	if p.Gender != nil {
		u.Gender = *p.Gender
	}
	if p.LastLogin != nil {
		u.LastLogin = *p.LastLogin
	}
	if p.Avatar != nil {
		u.AvatarURL = *p.Avatar
	}
	return u
}
