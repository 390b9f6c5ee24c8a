package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"
)

type (
	// TransactionType discriminates the two flows the server understands.
	TransactionType string

	Date struct {
		time.Time
	}

	// Category is reference data: immutable within a session, owned by
	// the reference cache once loaded.
	Category struct {
		ID       int64           `json:"id"`
		Name     string          `json:"name"`
		FullPath string          `json:"full_path,omitempty"`
		Type     TransactionType `json:"type,omitempty"`
		Icon     string          `json:"icon,omitempty"`
		Color    string          `json:"color,omitempty"`
	}

	// Account is reference data. Balance fields are display-only strings
	// supplied by the server; the client never computes balances.
	Account struct {
		ID             int64  `json:"id"`
		Name           string `json:"name"`
		Type           string `json:"type,omitempty"`
		Balance        string `json:"balance,omitempty"`
		BalanceDisplay string `json:"balance_display,omitempty"`
	}

	// TransactionForm is the client-side view of a transaction being
	// entered. It lives only between first keystroke and submit/cancel.
	TransactionForm struct {
		Type        TransactionType
		RawAmount   string // as typed, locale formatted
		Amount      decimal.Decimal
		Description string
		Notes       string
		AccountID   int64
		CategoryID  int64
		Date        Date
		Quick       bool
	}
)

var (
	ErrInvalidDay         = errors.New("invalid day")
	ErrInvalidMonth       = errors.New("invalid month")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrEmptyDescription   = errors.New("empty description")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
	ErrNoAccount          = errors.New("no account selected")
	ErrNoCategory         = errors.New("no category selected")
	ErrFutureDate         = errors.New("date cannot be in the future")
	ErrInvalidType        = errors.New("invalid transaction type")
)

// Valid reports whether t is one of the two known flows.
func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	_, month, day := d.Date()
	if day < 1 || day > 31 {
		return ErrInvalidDay
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current date truncated to midnight UTC.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// IsEmpty returns true if the date is zero (optional dates)
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// DisplayDate renders the server's dd/mm/yyyy convention.
func (d Date) DisplayDate() string {
	return d.Format("02/01/2006")
}

// ISO renders the yyyy-mm-dd form the server accepts on submission.
func (d Date) ISO() string {
	return d.Format("2006-01-02")
}

func (f TransactionForm) Validate() error {
	if !f.Type.Valid() {
		return ErrInvalidType
	}
	if err := f.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(f.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(f.Description) > 200 {
		return ErrDescriptionTooLong
	}
	if !f.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if f.AccountID == 0 {
		return ErrNoAccount
	}
	if f.CategoryID == 0 {
		return ErrNoCategory
	}
	return nil
}

// Reset clears the form back to a blank expense entry, the state a
// freshly opened capture dialog starts from.
func (f *TransactionForm) Reset() {
	*f = TransactionForm{Type: Expense, Quick: f.Quick}
}
