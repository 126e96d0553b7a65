package core

import (
	"testing"
	"time"
)

func tx(typ TransactionType, cents int64, category string, date time.Time) Transaction {
	return Transaction{Amount: Money{Cents: cents}, Type: typ, Category: category, Date: date}
}

func TestComputeTotals(t *testing.T) {
	jan := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	budget := Budget{Amount: Money{Cents: 100000}, Period: Monthly}
	txs := []Transaction{
		tx(Income, 20000, "Salary", jan),
		tx(Expense, 130000, "Rent", jan),
	}

	got := ComputeTotals(budget, txs)
	if got.Income.Cents != 20000 {
		t.Fatalf("income: expected 20000, got %d", got.Income.Cents)
	}
	if got.Expenses.Cents != 130000 {
		t.Fatalf("expenses: expected 130000, got %d", got.Expenses.Cents)
	}
	if got.EffectiveBudget.Cents != 120000 {
		t.Fatalf("effective budget: expected 120000, got %d", got.EffectiveBudget.Cents)
	}
	if got.Balance.Cents != -10000 {
		t.Fatalf("balance: expected -10000, got %d", got.Balance.Cents)
	}
	if !got.OverBudget {
		t.Fatalf("expected over-budget flag")
	}
}

// The balance identity must hold exactly for any ledger.
func TestBalanceIdentity(t *testing.T) {
	now := time.Now().UTC()
	budget := Budget{Amount: Money{Cents: 33333}, Period: Weekly}
	txs := []Transaction{
		tx(Income, 199, "Gift", now),
		tx(Income, 1001, "Freelance", now.AddDate(0, -1, 0)),
		tx(Expense, 4567, "Food", now),
		tx(Expense, 89, "Transport", now.AddDate(0, 1, 0)),
		tx(Expense, 12345, "Miscellaneous", now),
	}
	got := ComputeTotals(budget, txs)
	want := got.Income.Cents - got.Expenses.Cents + budget.Amount.Cents
	if got.Balance.Cents != want {
		t.Fatalf("identity violated: balance=%d, income-expenses+budget=%d", got.Balance.Cents, want)
	}
}

func TestZeroBudgetNeverOverBudget(t *testing.T) {
	txs := []Transaction{
		tx(Expense, 50000, "Food", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
	}
	got := ComputeTotals(DefaultBudget(), txs)
	if got.OverBudget {
		t.Fatalf("zero budget means no budget configured; flag must stay false")
	}
	if got.Balance.Cents != -50000 {
		t.Fatalf("balance: expected -50000, got %d", got.Balance.Cents)
	}
}

func TestExpenseBreakdown(t *testing.T) {
	jan := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	txs := []Transaction{
		tx(Expense, 1000, "Food", jan),
		tx(Expense, 2500, "Rent", jan),
		tx(Expense, 500, "Food", jan),
		tx(Income, 9999, "Salary", jan), // must not appear
	}

	got := ExpenseBreakdown(txs)
	if len(got) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(got))
	}
	if got[0].Category != "Rent" || got[0].Amount.Cents != 2500 {
		t.Fatalf("expected Rent 2500 first, got %+v", got[0])
	}
	if got[1].Category != "Food" || got[1].Amount.Cents != 1500 {
		t.Fatalf("expected Food 1500 second, got %+v", got[1])
	}
}

func TestMonthlyBuckets(t *testing.T) {
	txs := []Transaction{
		// Inserted out of chronological order on purpose.
		tx(Expense, 300, "Food", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)),
		tx(Expense, 100, "Food", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)),
		tx(Income, 200, "Salary", time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)),
	}

	got := MonthlyBuckets(txs)
	if len(got) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(got))
	}
	if got[0].Label != "January 2024" {
		t.Fatalf("expected January 2024 first, got %q", got[0].Label)
	}
	if got[0].Income.Cents != 200 || got[0].Expenses.Cents != 100 {
		t.Fatalf("January sums wrong: %+v", got[0])
	}
	if got[1].Label != "February 2024" {
		t.Fatalf("expected February 2024 second, got %q", got[1].Label)
	}
	if got[1].Expenses.Cents != 300 {
		t.Fatalf("February sums wrong: %+v", got[1])
	}
}

func TestMonthlyBucketsCrossYearOrder(t *testing.T) {
	txs := []Transaction{
		tx(Expense, 1, "Food", time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)),
		tx(Expense, 1, "Food", time.Date(2024, 12, 5, 0, 0, 0, 0, time.UTC)),
		tx(Expense, 1, "Food", time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)),
	}
	got := MonthlyBuckets(txs)
	labels := []string{"February 2024", "December 2024", "January 2025"}
	for i, want := range labels {
		if got[i].Label != want {
			t.Fatalf("bucket %d: expected %q, got %q", i, want, got[i].Label)
		}
	}
}

func TestMonthlyBucketsEmpty(t *testing.T) {
	if got := MonthlyBuckets(nil); len(got) != 0 {
		t.Fatalf("expected no buckets, got %d", len(got))
	}
}
