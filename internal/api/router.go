package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/mtg-deckforge/internal/api/handlers"
	"github.com/ramonehamilton/mtg-deckforge/internal/api/response"
	"github.com/ramonehamilton/mtg-deckforge/internal/version"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check endpoint (no versioning)
	s.router.Get("/health", s.healthCheck)
	s.router.Get("/metrics", s.metricsSnapshot)

	// WebSocket endpoint (no JSON content-type requirement)
	s.router.Get("/ws", s.wsHub.ServeWs)

	s.router.Route("/api/v1", func(r chi.Router) {
		if s.cards != nil {
			cardHandler := handlers.NewCardHandler(s.cards)
			r.Route("/cards", func(r chi.Router) {
				r.Get("/search", cardHandler.Search)
				r.Get("/named", cardHandler.Named)
				r.Get("/autocomplete", cardHandler.Autocomplete)
				r.Get("/random", cardHandler.Random)
				r.Get("/{cardID}", cardHandler.GetCard)
			})
			r.Route("/search", func(r chi.Router) {
				r.Post("/translate", cardHandler.Translate)
				r.Post("/natural", cardHandler.NaturalSearch)
			})
		}

		if s.decks != nil {
			deckHandler := handlers.NewDeckHandler(s.decks)
			r.Route("/decks", func(r chi.Router) {
				r.Get("/", deckHandler.GetDecks)
				r.Post("/", deckHandler.CreateDeck)
				r.Post("/evaluate", deckHandler.Evaluate)
				r.Post("/analyze", deckHandler.Analyze)
				r.Post("/import", deckHandler.ImportDeck)

				r.Route("/{deckID}", func(r chi.Router) {
					r.Get("/", deckHandler.GetDeck)
					r.Put("/", deckHandler.UpdateDeck)
					r.Delete("/", deckHandler.DeleteDeck)
					r.Post("/cards", deckHandler.AddCard)
					r.Put("/cards/{cardID}", deckHandler.SetCardCount)
					r.Delete("/cards/{cardID}", deckHandler.RemoveCard)
					r.Get("/evaluation", deckHandler.GetEvaluation)
					r.Post("/analysis", deckHandler.AnalyzeDeck)
					r.Get("/charts", deckHandler.GetCharts)
					r.Get("/export", deckHandler.ExportDeck)
					r.Get("/purchase", deckHandler.GetPurchase)
				})
			})
		}
	})
}

// healthCheck returns the server health status.
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"service":   "deckforge",
		"version":   version.Version,
		"wsClients": s.wsHub.ClientCount(),
	})
}

func (s *Server) metricsSnapshot(w http.ResponseWriter, r *http.Request) {
	response.Success(w, s.metrics.Snapshot())
}
