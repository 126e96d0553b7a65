package core

import (
	"sort"
	"strconv"
	"time"
)

// Totals are the headline figures derived from a budget and its
// transaction history. All sums are exact cents.
type Totals struct {
	Income          Money `json:"totalIncome"`
	Expenses        Money `json:"totalExpenses"`
	EffectiveBudget Money `json:"effectiveBudget"`
	Balance         Money `json:"balance"`
	OverBudget      bool  `json:"overBudget"`
}

// CategoryAmount is an expense sum aggregated by category name.
type CategoryAmount struct {
	Category string `json:"category"`
	Amount   Money  `json:"amount"`
}

// MonthBucket accumulates income and expense sums for one calendar month.
type MonthBucket struct {
	Year     int        `json:"year"`
	Month    time.Month `json:"-"`
	Label    string     `json:"month"`
	Income   Money      `json:"income"`
	Expenses Money      `json:"expenses"`
}

// ComputeTotals derives the headline figures. The effective budget is the
// configured baseline plus all income; the balance is what remains after
// expenses. The over-budget flag stays false while no budget is set, no
// matter how large the expenses are: a zero baseline means "no budget
// configured", not "budget of zero".
func ComputeTotals(b Budget, txs []Transaction) Totals {
	var income, expenses Money
	for _, t := range txs {
		if t.IsIncome() {
			income = income.Add(t.Amount)
		} else {
			expenses = expenses.Add(t.Amount)
		}
	}
	effective := b.Amount.Add(income)
	return Totals{
		Income:          income,
		Expenses:        expenses,
		EffectiveBudget: effective,
		Balance:         effective.Sub(expenses),
		OverBudget:      expenses.Cents > effective.Cents && b.IsSet(),
	}
}

// ExpenseBreakdown sums expense transactions per category. Income entries
// are ignored. The result is ordered by descending amount, then name, so
// output is deterministic for equal inputs.
func ExpenseBreakdown(txs []Transaction) []CategoryAmount {
	sums := make(map[string]int64)
	for _, t := range txs {
		if t.Type == Expense {
			sums[t.Category] += t.Amount.Cents
		}
	}
	out := make([]CategoryAmount, 0, len(sums))
	for cat, cents := range sums {
		out = append(out, CategoryAmount{Category: cat, Amount: Money{Cents: cents}})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount.Cents != out[j].Amount.Cents {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// MonthlyBuckets groups transactions by calendar month and year of their
// date, in UTC. Buckets come back in chronological order (January 2024
// before February 2024 before January 2025), regardless of the order the
// transactions were recorded in. Labels use English month names, e.g.
// "January 2024".
func MonthlyBuckets(txs []Transaction) []MonthBucket {
	type key struct {
		year  int
		month time.Month
	}
	buckets := make(map[key]*MonthBucket)
	for _, t := range txs {
		d := t.Date.UTC()
		k := key{year: d.Year(), month: d.Month()}
		b, ok := buckets[k]
		if !ok {
			b = &MonthBucket{
				Year:  k.year,
				Month: k.month,
				Label: k.month.String() + " " + strconv.Itoa(k.year),
			}
			buckets[k] = b
		}
		if t.IsIncome() {
			b.Income = b.Income.Add(t.Amount)
		} else {
			b.Expenses = b.Expenses.Add(t.Amount)
		}
	}
	out := make([]MonthBucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	// Day 1 of each bucket's month is the chronological sort key.
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		return a.Month < b.Month
	})
	return out
}
