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
	router.Use(withGZip)

	// routes without authorization: registration, pre-login parameter
	// fetch, login
	router.Group(func(r chi.Router) {
		r.Post("/api/auth/register", h.register)
		r.Post("/api/auth/params", h.params)
		r.Post("/api/auth/login", h.login)
	})

	// routes behind bearer auth
	router.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Get("/api/auth/verify", h.verify)
		r.Get("/api/vault", h.getVault)
		r.Put("/api/vault", h.putVault)
	})

	return router
}
