package storage

import (
	"context"
	"database/sql"
	"time"
)

// Queries is the thin SQL layer over the ledger schema. Each method is a
// single statement; the repository above it does the domain mapping.
type Queries struct {
	db *sql.DB
}

func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}

type User struct {
	ID           int64
	Name         string
	Email        string
	Address      string
	PasswordHash string
	CreatedAt    time.Time
}

type BudgetRow struct {
	UserID      int64
	AmountCents int64
	Period      string
	UpdatedAt   time.Time
}

type TransactionRow struct {
	ID             int64
	UserID         int64
	AmountCents    int64
	Type           string
	Category       string
	Note           string
	Date           time.Time
	CreatedAt      time.Time
	ExportStatus   string
	ExportAttempts int64
}

type CreateUserParams struct {
	Name         string
	Email        string
	Address      string
	PasswordHash string
}

const createUser = `
INSERT INTO users (name, email, address, password_hash)
VALUES (?, ?, ?, ?)
RETURNING id, name, email, address, password_hash, created_at
`

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRowContext(ctx, createUser, arg.Name, arg.Email, arg.Address, arg.PasswordHash)
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Address, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

const getUserByEmail = `
SELECT id, name, email, address, password_hash, created_at
FROM users WHERE email = ?
`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := q.db.QueryRowContext(ctx, getUserByEmail, email)
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Address, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

const getUserByID = `
SELECT id, name, email, address, password_hash, created_at
FROM users WHERE id = ?
`

func (q *Queries) GetUserByID(ctx context.Context, id int64) (User, error) {
	row := q.db.QueryRowContext(ctx, getUserByID, id)
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Address, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

const getBudget = `
SELECT user_id, amount_cents, period, updated_at
FROM budgets WHERE user_id = ?
`

func (q *Queries) GetBudget(ctx context.Context, userID int64) (BudgetRow, error) {
	row := q.db.QueryRowContext(ctx, getBudget, userID)
	var b BudgetRow
	err := row.Scan(&b.UserID, &b.AmountCents, &b.Period, &b.UpdatedAt)
	return b, err
}

type UpsertBudgetParams struct {
	UserID      int64
	AmountCents int64
	Period      string
}

// The single-statement upsert is what serializes concurrent budget
// writers; last write wins on the amount and period.
const upsertBudget = `
INSERT INTO budgets (user_id, amount_cents, period, updated_at)
VALUES (?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT (user_id) DO UPDATE SET
    amount_cents = excluded.amount_cents,
    period       = excluded.period,
    updated_at   = CURRENT_TIMESTAMP
`

func (q *Queries) UpsertBudget(ctx context.Context, arg UpsertBudgetParams) error {
	_, err := q.db.ExecContext(ctx, upsertBudget, arg.UserID, arg.AmountCents, arg.Period)
	return err
}

type CreateTransactionParams struct {
	UserID      int64
	AmountCents int64
	Type        string
	Category    string
	Note        string
	Date        time.Time
}

const createTransaction = `
INSERT INTO transactions (user_id, amount_cents, type, category, note, date)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING id, user_id, amount_cents, type, category, note, date, created_at, export_status, export_attempts
`

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) (TransactionRow, error) {
	row := q.db.QueryRowContext(ctx, createTransaction,
		arg.UserID, arg.AmountCents, arg.Type, arg.Category, arg.Note, arg.Date)
	return scanTransaction(row)
}

const listTransactionsByUser = `
SELECT id, user_id, amount_cents, type, category, note, date, created_at, export_status, export_attempts
FROM transactions
WHERE user_id = ?
ORDER BY date DESC, id DESC
`

func (q *Queries) ListTransactionsByUser(ctx context.Context, userID int64) ([]TransactionRow, error) {
	rows, err := q.db.QueryContext(ctx, listTransactionsByUser, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TransactionRow
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

const getTransaction = `
SELECT id, user_id, amount_cents, type, category, note, date, created_at, export_status, export_attempts
FROM transactions WHERE id = ?
`

func (q *Queries) GetTransaction(ctx context.Context, id int64) (TransactionRow, error) {
	return scanTransaction(q.db.QueryRowContext(ctx, getTransaction, id))
}

const listCategories = `
SELECT type, name FROM categories ORDER BY type, rowid
`

type CategoryRow struct {
	Type string
	Name string
}

func (q *Queries) ListCategories(ctx context.Context) ([]CategoryRow, error) {
	rows, err := q.db.QueryContext(ctx, listCategories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CategoryRow
	for rows.Next() {
		var c CategoryRow
		if err := rows.Scan(&c.Type, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

const listPendingExports = `
SELECT id, user_id, amount_cents, type, category, note, date, created_at, export_status, export_attempts
FROM transactions
WHERE export_status = 'pending'
ORDER BY id ASC
LIMIT ?
`

func (q *Queries) ListPendingExports(ctx context.Context, limit int64) ([]TransactionRow, error) {
	rows, err := q.db.QueryContext(ctx, listPendingExports, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TransactionRow
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

const markTransactionExported = `
UPDATE transactions SET export_status = 'exported' WHERE id = ?
`

func (q *Queries) MarkTransactionExported(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, markTransactionExported, id)
	return err
}

const markTransactionExportError = `
UPDATE transactions
SET export_status = 'error', export_attempts = export_attempts + 1
WHERE id = ?
`

func (q *Queries) MarkTransactionExportError(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, markTransactionExportError, id)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (TransactionRow, error) {
	var t TransactionRow
	err := row.Scan(&t.ID, &t.UserID, &t.AmountCents, &t.Type, &t.Category,
		&t.Note, &t.Date, &t.CreatedAt, &t.ExportStatus, &t.ExportAttempts)
	return t, err
}
