package services

import (
	"context"

	"budgetplan/internal/core"
)

// Store is the persistence surface the services need. The SQLite
// repository satisfies it; tests use in-memory fakes.
type Store interface {
	CreateUser(ctx context.Context, u core.User, passwordHash string) (core.User, error)
	GetUserByEmail(ctx context.Context, email string) (core.User, error)
	GetUserByID(ctx context.Context, id int64) (core.User, error)

	GetBudget(ctx context.Context, userID int64) (core.Budget, error)
	SaveBudget(ctx context.Context, userID int64, b core.Budget) error

	CreateTransaction(ctx context.Context, userID int64, t core.Transaction) (core.Transaction, error)
	ListTransactions(ctx context.Context, userID int64) ([]core.Transaction, error)

	ListCategories(ctx context.Context) (core.Taxonomy, error)
}

// Publisher emits the transaction recorded event consumed by the export
// worker. A nil Publisher disables publishing.
type Publisher interface {
	PublishTransactionRecorded(ctx context.Context, transactionID, userID int64) error
}
