package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Post("/accounts", s.handleCreateAccount)
		r.Get("/accounts", s.handleListAccounts)

		// Everything below needs an account.
		r.Group(func(r chi.Router) {
			r.Use(s.accountMiddleware)

			r.Get("/account", s.handleGetAccount)
			r.Get("/transactions", s.handleListTransactions)

			r.Post("/decks", s.handleCreateDeck)
			r.Get("/decks", s.handleListDecks)
			r.Get("/decks/{id}", s.handleGetDeck)
			r.Get("/decks/{id}/cards", s.handleListDeckCards)

			r.Post("/review", s.handleReview)

			r.Post("/sessions", s.handleStartSession)
			r.Post("/sessions/{id}/ratings", s.handleSubmitRating)
			r.Get("/sessions/{id}/summary", s.handleSessionSummary)

			r.Post("/scenarios", s.handleCreateScenario)
			r.Get("/scenarios", s.handleListScenarios)
			r.Get("/scenarios/{id}", s.handleGetScenario)
			r.Post("/scenarios/{id}/submit", s.handleSubmitScenario)

			r.Get("/rewards", s.handleListRewards)
			r.Get("/rewards/owned", s.handleListOwnedRewards)
			r.Post("/purchase", s.handlePurchase)

			r.Get("/stats", s.handleStats)
		})
	})

	return r
}
