package api

import (
	"net/http"
	"strconv"

	"github.com/hsaleh/murajaa/internal/logger"
)

type createAccountRequest struct {
	DisplayName string `json:"display_name" validate:"required,min=1,max=64"`
	DailyGoal   int    `json:"daily_goal" validate:"omitempty,min=1,max=500"`
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	account, err := s.Accounts.CreateAccount(r.Context(), req.DisplayName, req.DailyGoal)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, account)
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.Accounts.ListAccounts(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"accounts": accounts})
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	// The middleware already loaded it; serve the fresh projection.
	respondJSON(w, r, http.StatusOK, accountFromContext(r.Context()))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	account := accountFromContext(r.Context())

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	txns, err := s.Accounts.ListTransactions(r.Context(), account.UserID, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Debug("listed %d transactions", len(txns))
	respondJSON(w, r, http.StatusOK, map[string]any{"transactions": txns})
}
