package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// SetupRoutes builds the router. The websocket handler is passed in so
// it can carry its own logger.
func SetupRoutes(a *API, wsHandler http.HandlerFunc) http.Handler {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Route("/user", func(r chi.Router) {
			r.Post("/register", a.Register)
			r.Post("/login", a.Login)
		})

		r.Route("/debate", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(a.auth.Middleware(true))
				r.Post("/", a.CreateDebate)
				r.Get("/", a.ListDebates)
			})

			r.Get("/{id}", a.GetDebate)
			r.Put("/{id}", a.UpdateDebate)
			r.Delete("/{id}", a.DeleteDebate)
			r.Post("/{id}/join", a.JoinDebate)
			r.Post("/{id}/contributions", a.CreateContribution)
			r.Post("/contributions/{contributionId}/react", a.React)
		})
	})

	r.Get("/healthz", a.Healthz)
	r.Get("/ws", wsHandler)
	return r
}
