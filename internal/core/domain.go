package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "Income"
	Expense TransactionType = "Expense"
)

const (
	Monthly BudgetPeriod = "Monthly"
	Weekly  BudgetPeriod = "Weekly"
	Yearly  BudgetPeriod = "Yearly"
)

type (
	TransactionType string

	BudgetPeriod string

	// Budget is the single per-user spending baseline plus a period label.
	Budget struct {
		Amount Money        `json:"amount"`
		Period BudgetPeriod `json:"type"`
	}

	// Transaction is one dated income or expense entry. Transactions are
	// immutable once recorded; there is no update or delete path.
	Transaction struct {
		ID       int64           `json:"id"`
		Amount   Money           `json:"amount"`
		Type     TransactionType `json:"type"`
		Category string          `json:"category"`
		Note     string          `json:"note,omitempty"`
		Date     time.Time       `json:"date"`
	}

	// User is the identity record owning a budget and its transactions.
	// The password hash never crosses the API boundary.
	User struct {
		ID           int64  `json:"id"`
		Name         string `json:"name"`
		Email        string `json:"email"`
		Address      string `json:"address,omitempty"`
		PasswordHash string `json:"-"`
	}

	// Taxonomy maps a transaction type to its allowed categories.
	Taxonomy map[TransactionType][]string
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidType     = errors.New("invalid transaction type")
	ErrInvalidCategory = errors.New("invalid category for transaction type")
	ErrInvalidPeriod   = errors.New("invalid budget period")
	ErrInvalidMode     = errors.New("invalid budget update mode")
	ErrNoteTooLong     = errors.New("note too long (max 200 characters)")
)

// DefaultBudget is what callers see before a budget was ever saved.
func DefaultBudget() Budget {
	return Budget{Amount: Money{Cents: 0}, Period: Monthly}
}

// DefaultTaxonomy returns the fixed category sets per transaction type.
// The database is the runtime source of truth; this mirrors the seed
// migration and must change together with it.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		Income:  {"Salary", "Allowance", "Freelance", "Gift"},
		Expense: {"Food", "Transport", "Rent", "School Supplies", "Miscellaneous"},
	}
}

// Contains reports whether category is registered for the given type.
func (tx Taxonomy) Contains(typ TransactionType, category string) bool {
	for _, c := range tx[typ] {
		if c == category {
			return true
		}
	}
	return false
}

// ParseTransactionType validates a raw type string.
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(strings.TrimSpace(s)) {
	case Income:
		return Income, nil
	case Expense:
		return Expense, nil
	default:
		return "", ErrInvalidType
	}
}

// ParseBudgetPeriod validates a raw period string.
func ParseBudgetPeriod(s string) (BudgetPeriod, error) {
	switch BudgetPeriod(strings.TrimSpace(s)) {
	case Monthly:
		return Monthly, nil
	case Weekly:
		return Weekly, nil
	case Yearly:
		return Yearly, nil
	default:
		return "", ErrInvalidPeriod
	}
}

// IsIncome reports whether the transaction adds to the spending ceiling.
func (t Transaction) IsIncome() bool {
	return t.Type == Income
}

// Validate checks a transaction against the given taxonomy before it is
// persisted. The date is not range-checked: caller-supplied dates are
// accepted as-is, and a zero date is filled in by the service.
func (t Transaction) Validate(tax Taxonomy) error {
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if t.Type != Income && t.Type != Expense {
		return ErrInvalidType
	}
	if !tax.Contains(t.Type, t.Category) {
		return ErrInvalidCategory
	}
	if len(t.Note) > 200 {
		return ErrNoteTooLong
	}
	return nil
}

// IsSet reports whether a budget has been configured. A zero amount means
// "no budget" and disables over-budget detection.
func (b Budget) IsSet() bool {
	return !b.Amount.IsZero()
}
