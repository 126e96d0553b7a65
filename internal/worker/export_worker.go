// Package worker moves recorded transactions from SQLite to the
// external sheet.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"budgetplan/internal/amqp"
	"budgetplan/internal/core"
	"budgetplan/internal/export"
	"budgetplan/internal/log"
	"budgetplan/internal/storage"
)

// ExportStore is the storage surface the worker needs.
type ExportStore interface {
	GetTransaction(ctx context.Context, id int64) (core.Transaction, int64, error)
	GetUserByID(ctx context.Context, id int64) (core.User, error)
	ListPendingExports(ctx context.Context, limit int) ([]storage.PendingExport, error)
	MarkExported(ctx context.Context, id int64) error
	MarkExportError(ctx context.Context, id int64) error
}

// ExportWorker appends recorded transactions to the sheet. It is fed by
// AMQP messages, with a periodic pending sweep as backup in case
// messages are lost.
type ExportWorker struct {
	store     ExportStore
	appender  export.RowAppender
	batchSize int
}

func NewExportWorker(store ExportStore, appender export.RowAppender, batchSize int) *ExportWorker {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &ExportWorker{
		store:     store,
		appender:  appender,
		batchSize: batchSize,
	}
}

// HandleMessage processes a single transaction recorded message from AMQP.
func (w *ExportWorker) HandleMessage(ctx context.Context, msg *amqp.TransactionRecordedMessage) error {
	slog.InfoContext(ctx, "Processing export message",
		log.FieldTransactionID, msg.TransactionID)

	tx, userID, err := w.store.GetTransaction(ctx, msg.TransactionID)
	if err != nil {
		return fmt.Errorf("get transaction from storage: %w", err)
	}

	if err := w.exportTransaction(ctx, tx, userID); err != nil {
		return fmt.Errorf("export transaction: %w", err)
	}
	return nil
}

// ProcessPending exports transactions that are still marked pending.
// This is a backup mechanism in case AMQP messages are lost.
func (w *ExportWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.store.ListPendingExports(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list pending exports: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending exports", "count", len(pending))

	for _, p := range pending {
		if err := w.exportTransaction(ctx, p.Transaction, p.UserID); err != nil {
			slog.ErrorContext(ctx, "Failed to export transaction",
				log.FieldTransactionID, p.Transaction.ID, log.FieldError, err)
			continue
		}
	}
	return nil
}

// StartupCheck sweeps a larger pending batch once at worker startup to
// recover from missed messages or worker downtime.
func (w *ExportWorker) StartupCheck(ctx context.Context) error {
	pending, err := w.store.ListPendingExports(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("list pending exports for startup check: %w", err)
	}
	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending exports found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending exports on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0
	for _, p := range pending {
		if err := w.exportTransaction(ctx, p.Transaction, p.UserID); err != nil {
			slog.ErrorContext(ctx, "Failed to export transaction during startup",
				log.FieldTransactionID, p.Transaction.ID, log.FieldError, err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup export check completed",
		"total", len(pending),
		"exported", successCount,
		"errors", errorCount)
	return nil
}

func (w *ExportWorker) exportTransaction(ctx context.Context, tx core.Transaction, userID int64) error {
	user, err := w.store.GetUserByID(ctx, userID)
	if err != nil {
		if markErr := w.store.MarkExportError(ctx, tx.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark export error", log.FieldTransactionID, tx.ID, log.FieldError, markErr)
		}
		return fmt.Errorf("get user: %w", err)
	}

	ref, err := w.appender.Append(ctx, user.Email, tx)
	if err != nil {
		if markErr := w.store.MarkExportError(ctx, tx.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark export error", log.FieldTransactionID, tx.ID, log.FieldError, markErr)
		}
		return fmt.Errorf("append to sheet: %w", err)
	}

	if err := w.store.MarkExported(ctx, tx.ID); err != nil {
		// The row is already on the sheet; the status just lags.
		slog.ErrorContext(ctx, "Failed to mark as exported", log.FieldTransactionID, tx.ID, log.FieldError, err)
	}

	slog.InfoContext(ctx, "Exported transaction",
		log.FieldTransactionID, tx.ID,
		log.FieldExportRef, ref,
		log.FieldAmountCents, tx.Amount.Cents)
	return nil
}
