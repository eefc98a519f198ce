package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/hsaleh/murajaa/internal/models"
)

type reviewRequest struct {
	CardID uuid.UUID `json:"card_id" validate:"required"`
	Rating string    `json:"rating" validate:"required,oneof=easy good difficult"`
}

type reviewResponse struct {
	NextDueAt   *time.Time `json:"next_due_at"`
	CoinsEarned int64      `json:"coins_earned"`
	NewBalance  int64      `json:"new_balance"`
	NewStreak   int        `json:"new_streak"`
}

// handleReview records a single card review outside a session.
func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	account := accountFromContext(r.Context())

	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	result, err := s.Coordinator.ReviewCard(r.Context(), account.UserID, req.CardID, models.Rating(req.Rating))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, reviewResponse{
		NextDueAt:   result.NextDueAt,
		CoinsEarned: result.CoinsEarned,
		NewBalance:  result.NewBalance,
		NewStreak:   result.NewStreak,
	})
}

type startSessionRequest struct {
	Limit int `json:"limit" validate:"omitempty,min=1,max=100"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	account := accountFromContext(r.Context())

	// An empty body starts a default-sized session.
	req := startSessionRequest{}
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			handleError(w, r, err)
			return
		}
	}
	if req.Limit == 0 {
		req.Limit = s.SessionSize
	}

	sess, err := s.Coordinator.Start(r.Context(), account.UserID, req.Limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, sess)
}

type submitRatingRequest struct {
	CardID uuid.UUID `json:"card_id" validate:"required"`
	Rating string    `json:"rating" validate:"required,oneof=easy good difficult"`
}

func (s *Server) handleSubmitRating(w http.ResponseWriter, r *http.Request) {
	sessionID, err := urlUUID(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req submitRatingRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	result, err := s.Coordinator.SubmitRating(r.Context(), sessionID, req.CardID, models.Rating(req.Rating))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, result)
}

func (s *Server) handleSessionSummary(w http.ResponseWriter, r *http.Request) {
	sessionID, err := urlUUID(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	summary, err := s.Coordinator.Summary(sessionID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, summary)
}
