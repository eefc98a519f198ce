package api

import (
	"net/http"

	"github.com/hsaleh/murajaa/internal/models"
)

type createScenarioRequest struct {
	SourceText    string `json:"source_text" validate:"required,min=1"`
	Difficulty    string `json:"difficulty" validate:"required,oneof=easy medium hard"`
	QuestionCount int    `json:"question_count" validate:"omitempty,min=1,max=20"`
}

func (s *Server) handleCreateScenario(w http.ResponseWriter, r *http.Request) {
	account := accountFromContext(r.Context())

	var req createScenarioRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	scenario, err := s.Scenarios.GenerateScenario(r.Context(), account.UserID, req.SourceText,
		models.Difficulty(req.Difficulty), req.QuestionCount)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, scenario)
}

func (s *Server) handleListScenarios(w http.ResponseWriter, r *http.Request) {
	account := accountFromContext(r.Context())

	scenarios, err := s.Scenarios.ListScenarios(r.Context(), account.UserID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"scenarios": scenarios})
}

func (s *Server) handleGetScenario(w http.ResponseWriter, r *http.Request) {
	account := accountFromContext(r.Context())

	scenarioID, err := urlUUID(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	scenario, err := s.Scenarios.GetScenario(r.Context(), account.UserID, scenarioID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, scenario)
}

type submitScenarioRequest struct {
	Answers []int `json:"answers" validate:"required,min=1"`
}

func (s *Server) handleSubmitScenario(w http.ResponseWriter, r *http.Request) {
	account := accountFromContext(r.Context())

	scenarioID, err := urlUUID(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req submitScenarioRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	result, err := s.Scenarios.SubmitAnswers(r.Context(), account.UserID, scenarioID, req.Answers)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, result)
}
