package api

import (
	"net/http"
)

func (s *Server) handleListRewards(w http.ResponseWriter, r *http.Request) {
	rewards, err := s.Rewards.ListCatalog(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"rewards": rewards})
}

func (s *Server) handleListOwnedRewards(w http.ResponseWriter, r *http.Request) {
	account := accountFromContext(r.Context())

	owned, err := s.Rewards.ListOwned(r.Context(), account.UserID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"owned": owned})
}

type purchaseRequest struct {
	RewardID       string `json:"reward_id" validate:"required"`
	IdempotencyKey string `json:"idempotency_key" validate:"omitempty,max=128"`
}

// handlePurchase spends coins on a reward. A declined purchase is a normal
// 200 response with success=false, not an error.
func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	account := accountFromContext(r.Context())

	var req purchaseRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	result, err := s.Rewards.Purchase(r.Context(), account.UserID, req.RewardID, req.IdempotencyKey)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, result)
}
