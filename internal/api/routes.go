package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", s.handleLogin)
		r.Get("/topics", s.handleTopics)
		r.Post("/questions/batch", s.handleQuestionBatch)
		r.Get("/tier/{score}", s.handleTier)

		r.Group(func(r chi.Router) {
			r.Use(s.learnerMiddleware)

			r.Post("/logout", s.handleLogout)
			r.Get("/me", s.handleMe)
			r.Get("/state", s.handleState)

			r.Post("/practice/question", s.handleStartQuestion)
			r.Post("/practice/answer", s.handleSubmitAnswer)
			r.Get("/practice/recent", s.handleRecentQuestions)

			r.Get("/rewards", s.handleRewards)
			r.Post("/rewards/{itemID}/purchase", s.handlePurchase)

			r.Get("/history", s.handleHistory)
		})
	})
	return r
}
