package http

import (
	"encoding/json"
	"net/http"

	"budgetplan/internal/core"
)

type budgetUpdateRequest struct {
	Amount core.Money `json:"amount"`
	Period string     `json:"type"`
	Mode   string     `json:"mode"`
}

type budgetUpdateResponse struct {
	Budget  core.Budget `json:"budget"`
	Changed bool        `json:"changed"`
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	budget, err := s.ledger.GetBudget(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, budget)
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	mode, err := core.ParseUpdateMode(req.Mode)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	period, err := core.ParseBudgetPeriod(req.Period)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	userID := userIDFrom(r.Context())
	res, err := s.ledger.UpdateBudget(r.Context(), userID, core.BudgetChange{
		Amount: req.Amount,
		Period: period,
		Mode:   mode,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if res.Changed {
		s.invalidateDashboard(userID)
	}
	writeJSON(w, http.StatusOK, budgetUpdateResponse{Budget: res.Budget, Changed: res.Changed})
}
