package api

import (
	"net/http"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	account := accountFromContext(r.Context())

	overview, err := s.Stats.Overview(r.Context(), account.UserID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, overview)
}
