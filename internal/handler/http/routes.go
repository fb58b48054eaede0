package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/signup", h.signup)
		r.Post("/api/identify", h.identify)
		r.Post("/api/login", h.login)
		r.Post("/api/logout", h.logout)
	})

	// routes behind the session cookie
	router.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Get("/api/sites", h.sites)
		r.Post("/api/save", h.save)
		r.Post("/api/load", h.load)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
