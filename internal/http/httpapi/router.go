package httpapi

import (
	"net/http"

	"server/internal/http/handlers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(app *handlers.App) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/videos", func(r chi.Router) {
		r.Post("/generate", app.VideosGenerate)
	})

	r.Route("/v1/generations", func(r chi.Router) {
		r.Get("/", app.ListGenerations)
		r.Get("/{id}", app.GetGeneration)
	})

	return r
}
