package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

type (
	TransactionType string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is one income or expense record as the backend reports it.
	// Records are created and deleted, never edited in place.
	Transaction struct {
		ID          int64
		Amount      Money
		Type        TransactionType
		TypeDisplay string
		Category    string
		Description string
		Date        Date
	}

	// UserProfile is the read-mostly local copy of the account data.
	// Monetary and timestamp fields stay as the backend sent them.
	UserProfile struct {
		Username   string
		Email      string
		FirstName  string
		LastName   string
		BirthDate  string
		Gender     string
		Balance    string
		DateJoined string
		LastLogin  string
		Active     bool
		AvatarURL  string
	}

	// Summary is the server-side aggregate for the current period,
	// displayed verbatim.
	Summary struct {
		PeriodStart Date
		PeriodEnd   Date
		Income      string
		Expenses    string
		Balance     string
	}

	// DateRange is an inclusive calendar-date interval. Filtering applies
	// only when both bounds are set.
	DateRange struct {
		Start Date
		End   Date
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidType   = errors.New("invalid transaction type")
	ErrEmptyCategory = errors.New("empty category")
	ErrInvalidDate   = errors.New("invalid date")
)

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

func (t TransactionType) String() string {
	return string(t)
}

// NewDate creates a Date from year, month, day at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO calendar date (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// Today returns the current calendar date in UTC.
func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

// Before reports whether d falls on an earlier calendar day than other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// After reports whether d falls on a later calendar day than other.
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

// Bounded reports whether both ends of the range are set.
func (r DateRange) Bounded() bool {
	return !r.Start.IsZero() && !r.End.IsZero()
}

// Contains reports whether d lies within the inclusive range. An unbounded
// range contains every date.
func (r DateRange) Contains(d Date) bool {
	if !r.Bounded() {
		return true
	}
	return !d.Before(r.Start) && !d.After(r.End)
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}
