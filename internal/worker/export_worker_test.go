package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"budgetplan/internal/amqp"
	"budgetplan/internal/core"
	"budgetplan/internal/export/memory"
	"budgetplan/internal/storage"
)

type fakeExportStore struct {
	transactions map[int64]storage.PendingExport
	users        map[int64]core.User
	exported     map[int64]bool
	errored      map[int64]int
}

func newFakeExportStore() *fakeExportStore {
	return &fakeExportStore{
		transactions: make(map[int64]storage.PendingExport),
		users:        make(map[int64]core.User),
		exported:     make(map[int64]bool),
		errored:      make(map[int64]int),
	}
}

func (f *fakeExportStore) add(tx core.Transaction, userID int64) {
	f.transactions[tx.ID] = storage.PendingExport{Transaction: tx, UserID: userID}
}

func (f *fakeExportStore) GetTransaction(_ context.Context, id int64) (core.Transaction, int64, error) {
	p, ok := f.transactions[id]
	if !ok {
		return core.Transaction{}, 0, storage.ErrNotFound
	}
	return p.Transaction, p.UserID, nil
}

func (f *fakeExportStore) GetUserByID(_ context.Context, id int64) (core.User, error) {
	u, ok := f.users[id]
	if !ok {
		return core.User{}, storage.ErrNotFound
	}
	return u, nil
}

func (f *fakeExportStore) ListPendingExports(_ context.Context, limit int) ([]storage.PendingExport, error) {
	var out []storage.PendingExport
	for id, p := range f.transactions {
		if f.exported[id] {
			continue
		}
		out = append(out, p)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (f *fakeExportStore) MarkExported(_ context.Context, id int64) error {
	f.exported[id] = true
	return nil
}

func (f *fakeExportStore) MarkExportError(_ context.Context, id int64) error {
	f.errored[id]++
	return nil
}

type failingAppender struct{}

func (failingAppender) Append(context.Context, string, core.Transaction) (string, error) {
	return "", errors.New("sheet unavailable")
}

func testTransaction(id int64) core.Transaction {
	return core.Transaction{
		ID:       id,
		Amount:   core.Money{Cents: 1500},
		Type:     core.Expense,
		Category: "Food",
		Date:     time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC),
	}
}

func TestHandleMessageExports(t *testing.T) {
	store := newFakeExportStore()
	store.users[1] = core.User{ID: 1, Email: "user@example.com"}
	store.add(testTransaction(10), 1)

	sink := memory.New()
	w := NewExportWorker(store, sink, 10)

	err := w.HandleMessage(context.Background(), amqp.NewTransactionRecordedMessage(10, 1))
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}

	rows := sink.Rows()
	if len(rows) != 1 {
		t.Fatalf("appended rows = %d, want 1", len(rows))
	}
	if rows[0].UserEmail != "user@example.com" {
		t.Errorf("row user = %q, want user@example.com", rows[0].UserEmail)
	}
	if !store.exported[10] {
		t.Error("transaction not marked exported")
	}
}

func TestHandleMessageUnknownTransaction(t *testing.T) {
	w := NewExportWorker(newFakeExportStore(), memory.New(), 10)

	err := w.HandleMessage(context.Background(), amqp.NewTransactionRecordedMessage(99, 1))
	if err == nil {
		t.Fatal("HandleMessage() error = nil, want error for unknown transaction")
	}
}

func TestExportFailureMarksError(t *testing.T) {
	store := newFakeExportStore()
	store.users[1] = core.User{ID: 1, Email: "user@example.com"}
	store.add(testTransaction(10), 1)

	w := NewExportWorker(store, failingAppender{}, 10)

	err := w.HandleMessage(context.Background(), amqp.NewTransactionRecordedMessage(10, 1))
	if err == nil {
		t.Fatal("HandleMessage() error = nil, want append failure")
	}
	if store.errored[10] != 1 {
		t.Errorf("error marks = %d, want 1", store.errored[10])
	}
	if store.exported[10] {
		t.Error("failed transaction marked exported")
	}
}

func TestProcessPending(t *testing.T) {
	store := newFakeExportStore()
	store.users[1] = core.User{ID: 1, Email: "user@example.com"}
	store.add(testTransaction(1), 1)
	store.add(testTransaction(2), 1)

	sink := memory.New()
	w := NewExportWorker(store, sink, 10)

	if err := w.ProcessPending(context.Background()); err != nil {
		t.Fatalf("ProcessPending() error = %v", err)
	}
	if got := len(sink.Rows()); got != 2 {
		t.Fatalf("appended rows = %d, want 2", got)
	}

	// A second sweep finds nothing left.
	if err := w.ProcessPending(context.Background()); err != nil {
		t.Fatalf("ProcessPending() second error = %v", err)
	}
	if got := len(sink.Rows()); got != 2 {
		t.Errorf("appended rows after second sweep = %d, want 2", got)
	}
}
