package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"budgetplan/internal/core"
)

type transactionRequest struct {
	Amount   core.Money `json:"amount"`
	Type     string     `json:"type"`
	Category string     `json:"category"`
	Note     string     `json:"note"`
	Date     string     `json:"date"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.ledger.ListTransactions(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if txs == nil {
		txs = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	txType, err := core.ParseTransactionType(req.Type)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date")
		return
	}

	userID := userIDFrom(r.Context())
	saved, err := s.ledger.RecordTransaction(r.Context(), userID, core.Transaction{
		Amount:   req.Amount,
		Type:     txType,
		Category: strings.TrimSpace(req.Category),
		Note:     strings.TrimSpace(req.Note),
		Date:     date,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	s.countTransaction()
	s.invalidateDashboard(userID)
	writeJSON(w, http.StatusCreated, saved)
}

// parseDate accepts RFC 3339 timestamps or plain YYYY-MM-DD dates. An
// empty string returns the zero time; the service defaults it to now.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
