package api

import (
	"net/http"
	"strconv"
)

type createDeckRequest struct {
	Title      string `json:"title" validate:"required,min=1,max=200"`
	SourceText string `json:"source_text" validate:"required,min=1"`
	CardCount  int    `json:"card_count" validate:"omitempty,min=1,max=200"`
}

func (s *Server) handleCreateDeck(w http.ResponseWriter, r *http.Request) {
	account := accountFromContext(r.Context())

	var req createDeckRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	deck, err := s.Decks.CreateDeck(r.Context(), account.UserID, req.Title, req.SourceText, req.CardCount)
	if err != nil {
		handleError(w, r, err)
		return
	}
	// 202: the deck exists but card generation runs in the background.
	respondJSON(w, r, http.StatusAccepted, deck)
}

func (s *Server) handleListDecks(w http.ResponseWriter, r *http.Request) {
	account := accountFromContext(r.Context())

	decks, err := s.Decks.ListDecks(r.Context(), account.UserID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"decks": decks})
}

func (s *Server) handleGetDeck(w http.ResponseWriter, r *http.Request) {
	account := accountFromContext(r.Context())

	deckID, err := urlUUID(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	deck, err := s.Decks.GetDeck(r.Context(), account.UserID, deckID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, deck)
}

func (s *Server) handleListDeckCards(w http.ResponseWriter, r *http.Request) {
	account := accountFromContext(r.Context())

	deckID, err := urlUUID(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	cards, err := s.Decks.ListCards(r.Context(), account.UserID, deckID, limit, offset)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"cards": cards})
}
