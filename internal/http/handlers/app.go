package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"server/internal/domain"
	"server/internal/infra"
)

// Pipeline is the handler-facing slice of the orchestrator.
type Pipeline interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResponse, error)
}

// App holds the handler dependencies. Repo may be nil when no database is
// configured; the generation endpoints then report the feature as unavailable.
type App struct {
	Pipeline Pipeline
	Repo     domain.GenerationRepository
	Logger   *infra.Logger
}

func NewApp(pipeline Pipeline, repo domain.GenerationRepository, logger *infra.Logger) *App {
	return &App{Pipeline: pipeline, Repo: repo, Logger: logger}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]string{"error": errCode, "message": message})
}
