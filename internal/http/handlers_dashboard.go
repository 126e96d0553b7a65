package http

import (
	"net/http"

	"budgetplan/internal/core"
	"budgetplan/internal/log"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r.Context())
	key := s.dashboardCacheKey(userID)

	if d, found := s.dashboardCache.Get(key); found {
		s.countCacheHit()
		s.logger.DebugContext(r.Context(), "Dashboard cache hit", log.FieldUserID, userID)
		writeJSON(w, http.StatusOK, d)
		return
	}
	s.countCacheMiss()

	d, err := s.ledger.GetDashboard(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if d.Transactions == nil {
		d.Transactions = []core.Transaction{}
	}
	if d.ByCategory == nil {
		d.ByCategory = []core.CategoryAmount{}
	}
	if d.Months == nil {
		d.Months = []core.MonthBucket{}
	}

	s.dashboardCache.Set(key, d)
	writeJSON(w, http.StatusOK, d)
}

type categoriesResponse struct {
	Income  []string `json:"income"`
	Expense []string `json:"expense"`
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	tax, err := s.ledger.ListCategories(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categoriesResponse{
		Income:  tax[core.Income],
		Expense: tax[core.Expense],
	})
}
