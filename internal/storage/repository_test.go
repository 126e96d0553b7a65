package storage

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"budgetplan/internal/core"
)

func newTestRepository(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func createTestUser(t *testing.T, repo *SQLiteRepository, email string) core.User {
	t.Helper()
	u, err := repo.CreateUser(context.Background(), core.User{
		Name:  "Test User",
		Email: email,
	}, "hash")
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	return u
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	repo := newTestRepository(t)
	createTestUser(t, repo, "dup@example.com")

	_, err := repo.CreateUser(context.Background(), core.User{
		Name:  "Other",
		Email: "dup@example.com",
	}, "hash")
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("CreateUser() error = %v, want ErrDuplicateEmail", err)
	}
}

func TestGetUserByEmail(t *testing.T) {
	repo := newTestRepository(t)
	created := createTestUser(t, repo, "user@example.com")

	got, err := repo.GetUserByEmail(context.Background(), "user@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail() error = %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("GetUserByEmail() ID = %d, want %d", got.ID, created.ID)
	}
	if got.PasswordHash != "hash" {
		t.Errorf("GetUserByEmail() PasswordHash = %q, want %q", got.PasswordHash, "hash")
	}

	_, err = repo.GetUserByEmail(context.Background(), "missing@example.com")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetUserByEmail() error = %v, want ErrNotFound", err)
	}
}

func TestGetBudgetDefaultsWhenUnset(t *testing.T) {
	repo := newTestRepository(t)
	user := createTestUser(t, repo, "budget@example.com")

	b, err := repo.GetBudget(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetBudget() error = %v", err)
	}
	if !b.Amount.IsZero() {
		t.Errorf("GetBudget() amount = %s, want 0.00", b.Amount)
	}
	if b.Period != core.Monthly {
		t.Errorf("GetBudget() period = %s, want %s", b.Period, core.Monthly)
	}
}

func TestSaveBudgetUpsert(t *testing.T) {
	repo := newTestRepository(t)
	user := createTestUser(t, repo, "upsert@example.com")
	ctx := context.Background()

	first := core.Budget{Amount: core.Money{Cents: 100_000}, Period: core.Monthly}
	if err := repo.SaveBudget(ctx, user.ID, first); err != nil {
		t.Fatalf("SaveBudget() error = %v", err)
	}

	second := core.Budget{Amount: core.Money{Cents: 250_050}, Period: core.Weekly}
	if err := repo.SaveBudget(ctx, user.ID, second); err != nil {
		t.Fatalf("SaveBudget() second error = %v", err)
	}

	got, err := repo.GetBudget(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetBudget() error = %v", err)
	}
	if got.Amount.Cents != 250_050 {
		t.Errorf("GetBudget() cents = %d, want 250050", got.Amount.Cents)
	}
	if got.Period != core.Weekly {
		t.Errorf("GetBudget() period = %s, want %s", got.Period, core.Weekly)
	}
}

func TestTransactionRoundTrip(t *testing.T) {
	repo := newTestRepository(t)
	user := createTestUser(t, repo, "tx@example.com")
	ctx := context.Background()

	date := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	created, err := repo.CreateTransaction(ctx, user.ID, core.Transaction{
		Amount:   core.Money{Cents: 4250},
		Type:     core.Expense,
		Category: "Food",
		Note:     "groceries",
		Date:     date,
	})
	if err != nil {
		t.Fatalf("CreateTransaction() error = %v", err)
	}
	if created.ID == 0 {
		t.Fatal("CreateTransaction() returned zero ID")
	}

	list, err := repo.ListTransactions(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListTransactions() error = %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("ListTransactions() len = %d, want 1", len(list))
	}
	got := list[0]
	if got.Amount.Cents != 4250 || got.Type != core.Expense || got.Category != "Food" {
		t.Errorf("ListTransactions()[0] = %+v", got)
	}
	if !got.Date.Equal(date) {
		t.Errorf("ListTransactions()[0].Date = %s, want %s", got.Date, date)
	}
}

func TestListTransactionsOrderedByDateDesc(t *testing.T) {
	repo := newTestRepository(t)
	user := createTestUser(t, repo, "order@example.com")
	ctx := context.Background()

	dates := []time.Time{
		time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.February, 5, 0, 0, 0, 0, time.UTC),
	}
	for _, d := range dates {
		_, err := repo.CreateTransaction(ctx, user.ID, core.Transaction{
			Amount:   core.Money{Cents: 100},
			Type:     core.Income,
			Category: "Salary",
			Date:     d,
		})
		if err != nil {
			t.Fatalf("CreateTransaction() error = %v", err)
		}
	}

	list, err := repo.ListTransactions(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListTransactions() error = %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("ListTransactions() len = %d, want 3", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i].Date.After(list[i-1].Date) {
			t.Errorf("transactions out of order at %d: %s after %s", i, list[i].Date, list[i-1].Date)
		}
	}
}

func TestListCategoriesSeeded(t *testing.T) {
	repo := newTestRepository(t)

	tax, err := repo.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("ListCategories() error = %v", err)
	}
	if !tax.Contains(core.Income, "Salary") {
		t.Error("taxonomy missing Income/Salary")
	}
	if !tax.Contains(core.Expense, "Rent") {
		t.Error("taxonomy missing Expense/Rent")
	}
	if tax.Contains(core.Income, "Rent") {
		t.Error("Rent should not be an income category")
	}
}

// The seeded categories must stay in lockstep with core.DefaultTaxonomy,
// which test fakes use in place of a database.
func TestSeededCategoriesMatchDefaultTaxonomy(t *testing.T) {
	repo := newTestRepository(t)

	tax, err := repo.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("ListCategories() error = %v", err)
	}
	if want := core.DefaultTaxonomy(); !reflect.DeepEqual(tax, want) {
		t.Errorf("seeded taxonomy = %v, want %v", tax, want)
	}
}

func TestExportStatusLifecycle(t *testing.T) {
	repo := newTestRepository(t)
	user := createTestUser(t, repo, "export@example.com")
	ctx := context.Background()

	tx, err := repo.CreateTransaction(ctx, user.ID, core.Transaction{
		Amount:   core.Money{Cents: 999},
		Type:     core.Expense,
		Category: "Transport",
		Date:     time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateTransaction() error = %v", err)
	}

	pending, err := repo.ListPendingExports(ctx, 10)
	if err != nil {
		t.Fatalf("ListPendingExports() error = %v", err)
	}
	if len(pending) != 1 || pending[0].Transaction.ID != tx.ID {
		t.Fatalf("ListPendingExports() = %+v, want one entry for tx %d", pending, tx.ID)
	}

	if err := repo.MarkExported(ctx, tx.ID); err != nil {
		t.Fatalf("MarkExported() error = %v", err)
	}

	pending, err = repo.ListPendingExports(ctx, 10)
	if err != nil {
		t.Fatalf("ListPendingExports() error = %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("ListPendingExports() after mark = %d entries, want 0", len(pending))
	}
}
