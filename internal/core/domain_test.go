package core

import (
	"errors"
	"testing"
	"time"
)

func TestParseTransactionType(t *testing.T) {
	cases := []struct {
		in   string
		want TransactionType
		ok   bool
	}{
		{"Income", Income, true},
		{"Expense", Expense, true},
		{" Income ", Income, true},
		{"income", "", false},
		{"Transfer", "", false},
		{"", "", false},
	}
	for i, tc := range cases {
		got, err := ParseTransactionType(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("case %d expected %q, got %q (err=%v)", i, tc.want, got, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseBudgetPeriod(t *testing.T) {
	for _, good := range []string{"Monthly", "Weekly", "Yearly"} {
		if _, err := ParseBudgetPeriod(good); err != nil {
			t.Fatalf("%q expected ok, got %v", good, err)
		}
	}
	for _, bad := range []string{"monthly", "Daily", "", "Fortnightly"} {
		if _, err := ParseBudgetPeriod(bad); err == nil {
			t.Fatalf("%q expected error", bad)
		}
	}
}

func TestTransactionValidate(t *testing.T) {
	tax := DefaultTaxonomy()
	good := Transaction{
		Amount:   Money{Cents: 1500},
		Type:     Expense,
		Category: "Food",
		Note:     "lunch",
		Date:     time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	}
	if err := good.Validate(tax); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name string
		tx   Transaction
		want error
	}{
		{"zero amount", Transaction{Amount: Money{}, Type: Expense, Category: "Food"}, ErrInvalidAmount},
		{"negative amount", Transaction{Amount: Money{Cents: -1}, Type: Income, Category: "Salary"}, ErrInvalidAmount},
		{"unknown type", Transaction{Amount: Money{Cents: 1}, Type: "Transfer", Category: "Food"}, ErrInvalidType},
		{"income category on expense", Transaction{Amount: Money{Cents: 1}, Type: Expense, Category: "Salary"}, ErrInvalidCategory},
		{"expense category on income", Transaction{Amount: Money{Cents: 1}, Type: Income, Category: "Rent"}, ErrInvalidCategory},
		{"empty category", Transaction{Amount: Money{Cents: 1}, Type: Income, Category: ""}, ErrInvalidCategory},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.tx.Validate(tax)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestTaxonomyContains(t *testing.T) {
	tax := DefaultTaxonomy()
	if !tax.Contains(Income, "Salary") {
		t.Fatalf("Salary should be a valid Income category")
	}
	if !tax.Contains(Expense, "School Supplies") {
		t.Fatalf("School Supplies should be a valid Expense category")
	}
	if tax.Contains(Income, "Food") {
		t.Fatalf("Food is not an Income category")
	}
	if tax.Contains("Transfer", "Food") {
		t.Fatalf("unknown type should never match")
	}
}

func TestDefaultBudget(t *testing.T) {
	b := DefaultBudget()
	if b.Amount.Cents != 0 || b.Period != Monthly {
		t.Fatalf("expected zero Monthly default, got %+v", b)
	}
	if b.IsSet() {
		t.Fatalf("default budget must not count as configured")
	}
}
