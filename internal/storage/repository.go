// Package storage persists the ledger in SQLite. The schema lives in
// embedded migrations and is applied on startup.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"budgetplan/internal/core"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// SQLiteRepository is the single store behind the ledger service, the
// auth layer and the export worker.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, queries: New(db)}, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) CreateUser(ctx context.Context, u core.User, passwordHash string) (core.User, error) {
	row, err := r.queries.CreateUser(ctx, CreateUserParams{
		Name:         u.Name,
		Email:        u.Email,
		Address:      u.Address,
		PasswordHash: passwordHash,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return core.User{}, ErrDuplicateEmail
		}
		return core.User{}, fmt.Errorf("create user: %w", err)
	}
	return toUser(row), nil
}

func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (core.User, error) {
	row, err := r.queries.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.User{}, ErrNotFound
		}
		return core.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return toUser(row), nil
}

func (r *SQLiteRepository) GetUserByID(ctx context.Context, id int64) (core.User, error) {
	row, err := r.queries.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.User{}, ErrNotFound
		}
		return core.User{}, fmt.Errorf("get user: %w", err)
	}
	return toUser(row), nil
}

// GetBudget returns the unset default budget when the user has never
// saved one.
func (r *SQLiteRepository) GetBudget(ctx context.Context, userID int64) (core.Budget, error) {
	row, err := r.queries.GetBudget(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.DefaultBudget(), nil
		}
		return core.Budget{}, fmt.Errorf("get budget: %w", err)
	}

	period, err := core.ParseBudgetPeriod(row.Period)
	if err != nil {
		return core.Budget{}, fmt.Errorf("get budget: %w", err)
	}
	return core.Budget{
		Amount: core.Money{Cents: row.AmountCents},
		Period: period,
	}, nil
}

func (r *SQLiteRepository) SaveBudget(ctx context.Context, userID int64, b core.Budget) error {
	err := r.queries.UpsertBudget(ctx, UpsertBudgetParams{
		UserID:      userID,
		AmountCents: b.Amount.Cents,
		Period:      string(b.Period),
	})
	if err != nil {
		return fmt.Errorf("save budget: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, userID int64, t core.Transaction) (core.Transaction, error) {
	row, err := r.queries.CreateTransaction(ctx, CreateTransactionParams{
		UserID:      userID,
		AmountCents: t.Amount.Cents,
		Type:        string(t.Type),
		Category:    t.Category,
		Note:        t.Note,
		Date:        t.Date.UTC(),
	})
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	return toTransaction(row)
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID int64) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactionsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	out := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		t, err := toTransaction(row)
		if err != nil {
			return nil, fmt.Errorf("list transactions: %w", err)
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, int64, error) {
	row, err := r.queries.GetTransaction(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Transaction{}, 0, ErrNotFound
		}
		return core.Transaction{}, 0, fmt.Errorf("get transaction: %w", err)
	}
	t, err := toTransaction(row)
	if err != nil {
		return core.Transaction{}, 0, err
	}
	return t, row.UserID, nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context) (core.Taxonomy, error) {
	rows, err := r.queries.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	tax := make(core.Taxonomy)
	for _, row := range rows {
		tt, err := core.ParseTransactionType(row.Type)
		if err != nil {
			return nil, fmt.Errorf("list categories: %w", err)
		}
		tax[tt] = append(tax[tt], row.Name)
	}
	return tax, nil
}

// PendingExport is a transaction awaiting delivery to the external
// sheet, paired with the owning user for row labelling.
type PendingExport struct {
	Transaction core.Transaction
	UserID      int64
	Attempts    int64
}

func (r *SQLiteRepository) ListPendingExports(ctx context.Context, limit int) ([]PendingExport, error) {
	rows, err := r.queries.ListPendingExports(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("list pending exports: %w", err)
	}

	out := make([]PendingExport, 0, len(rows))
	for _, row := range rows {
		t, err := toTransaction(row)
		if err != nil {
			return nil, fmt.Errorf("list pending exports: %w", err)
		}
		out = append(out, PendingExport{Transaction: t, UserID: row.UserID, Attempts: row.ExportAttempts})
	}
	return out, nil
}

func (r *SQLiteRepository) MarkExported(ctx context.Context, id int64) error {
	if err := r.queries.MarkTransactionExported(ctx, id); err != nil {
		return fmt.Errorf("mark exported: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) MarkExportError(ctx context.Context, id int64) error {
	if err := r.queries.MarkTransactionExportError(ctx, id); err != nil {
		return fmt.Errorf("mark export error: %w", err)
	}
	return nil
}

func toUser(row User) core.User {
	return core.User{
		ID:           row.ID,
		Name:         row.Name,
		Email:        row.Email,
		Address:      row.Address,
		PasswordHash: row.PasswordHash,
	}
}

func toTransaction(row TransactionRow) (core.Transaction, error) {
	tt, err := core.ParseTransactionType(row.Type)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		ID:       row.ID,
		Amount:   core.Money{Cents: row.AmountCents},
		Type:     tt,
		Category: row.Category,
		Note:     row.Note,
		Date:     row.Date.UTC(),
	}, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
