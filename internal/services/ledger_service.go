// Package services orchestrates ledger operations across storage and AMQP.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"budgetplan/internal/core"
	"budgetplan/internal/log"
)

// LedgerService is the application core behind the HTTP handlers. It
// owns budget policy, transaction validation and the dashboard
// aggregates.
type LedgerService struct {
	store     Store
	publisher Publisher
}

func NewLedgerService(store Store, publisher Publisher) *LedgerService {
	return &LedgerService{
		store:     store,
		publisher: publisher,
	}
}

// Dashboard is the aggregate view of one user's ledger.
type Dashboard struct {
	Budget       core.Budget           `json:"budget"`
	Totals       core.Totals           `json:"totals"`
	ByCategory   []core.CategoryAmount `json:"byCategory"`
	Months       []core.MonthBucket    `json:"months"`
	Transactions []core.Transaction    `json:"transactions"`
}

// BudgetUpdateResult reports the outcome of a budget submission.
type BudgetUpdateResult struct {
	Budget  core.Budget
	Changed bool
}

func (s *LedgerService) GetBudget(ctx context.Context, userID int64) (core.Budget, error) {
	return s.store.GetBudget(ctx, userID)
}

// UpdateBudget applies the accumulate/replace/none policy against the
// stored budget and persists the result when a write is called for.
func (s *LedgerService) UpdateBudget(ctx context.Context, userID int64, change core.BudgetChange) (BudgetUpdateResult, error) {
	if change.Mode != core.ModeNone {
		if err := change.Amount.Validate(); err != nil {
			return BudgetUpdateResult{}, err
		}
	}

	current, err := s.store.GetBudget(ctx, userID)
	if err != nil {
		return BudgetUpdateResult{}, err
	}

	next, write, err := core.ResolveBudgetUpdate(current, change)
	if err != nil {
		return BudgetUpdateResult{}, err
	}
	if !write {
		return BudgetUpdateResult{Budget: current, Changed: false}, nil
	}

	if err := s.store.SaveBudget(ctx, userID, next); err != nil {
		return BudgetUpdateResult{}, err
	}

	slog.InfoContext(ctx, "Budget updated",
		log.FieldUserID, userID,
		log.FieldMode, change.Mode,
		log.FieldAmountCents, next.Amount.Cents,
		log.FieldPeriod, next.Period)

	return BudgetUpdateResult{Budget: next, Changed: true}, nil
}

func (s *LedgerService) ListTransactions(ctx context.Context, userID int64) ([]core.Transaction, error) {
	return s.store.ListTransactions(ctx, userID)
}

// RecordTransaction validates the entry against the category taxonomy,
// persists it and publishes the export event. A zero date defaults to
// the current time.
func (s *LedgerService) RecordTransaction(ctx context.Context, userID int64, t core.Transaction) (core.Transaction, error) {
	if t.Date.IsZero() {
		t.Date = time.Now().UTC()
	}

	tax, err := s.store.ListCategories(ctx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("load taxonomy: %w", err)
	}
	if err := t.Validate(tax); err != nil {
		return core.Transaction{}, err
	}

	saved, err := s.store.CreateTransaction(ctx, userID, t)
	if err != nil {
		return core.Transaction{}, err
	}

	slog.InfoContext(ctx, "Transaction recorded",
		log.FieldTransactionID, saved.ID,
		log.FieldUserID, userID,
		log.FieldAmountCents, saved.Amount.Cents,
		log.FieldType, saved.Type,
		log.FieldCategory, saved.Category)

	s.publishRecorded(ctx, saved.ID, userID)

	return saved, nil
}

// GetDashboard composes the budget, totals, category breakdown and
// monthly buckets from the user's full transaction history.
func (s *LedgerService) GetDashboard(ctx context.Context, userID int64) (Dashboard, error) {
	budget, err := s.store.GetBudget(ctx, userID)
	if err != nil {
		return Dashboard{}, err
	}

	txs, err := s.store.ListTransactions(ctx, userID)
	if err != nil {
		return Dashboard{}, err
	}

	return Dashboard{
		Budget:       budget,
		Totals:       core.ComputeTotals(budget, txs),
		ByCategory:   core.ExpenseBreakdown(txs),
		Months:       core.MonthlyBuckets(txs),
		Transactions: txs,
	}, nil
}

func (s *LedgerService) ListCategories(ctx context.Context) (core.Taxonomy, error) {
	return s.store.ListCategories(ctx)
}

func (s *LedgerService) publishRecorded(ctx context.Context, transactionID, userID int64) {
	if s.publisher == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping export event")
		return
	}
	if err := s.publisher.PublishTransactionRecorded(ctx, transactionID, userID); err != nil {
		// The transaction is already saved; the pending sweep picks it up.
		slog.ErrorContext(ctx, "Failed to publish transaction recorded event",
			log.FieldTransactionID, transactionID, log.FieldError, err)
	}
}
