package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
)

type generationItem struct {
	ID            string    `json:"id"`
	JewelleryType string    `json:"jewellery_type"`
	Gender        string    `json:"gender"`
	VideoType     string    `json:"video_type"`
	Status        string    `json:"status"`
	VideoURL      string    `json:"video_url"`
	FinalPrompt   string    `json:"final_prompt"`
	QAScore       float64   `json:"qa_score"`
	Iterations    int       `json:"iterations"`
	CreatedAt     time.Time `json:"created_at"`
}

func toGenerationItem(rec *domain.GenerationRecord) generationItem {
	return generationItem{
		ID:            rec.ID,
		JewelleryType: rec.JewelleryType,
		Gender:        rec.Gender,
		VideoType:     string(rec.VideoType),
		Status:        rec.Status,
		VideoURL:      rec.VideoURL,
		FinalPrompt:   rec.FinalPrompt,
		QAScore:       rec.QAScore,
		Iterations:    rec.Iterations,
		CreatedAt:     rec.CreatedAt,
	}
}

func (a *App) GetGeneration(w http.ResponseWriter, r *http.Request) {
	if a.Repo == nil {
		a.error(w, http.StatusServiceUnavailable, "unavailable", "generation history is not configured")
		return
	}
	id := chi.URLParam(r, "id")
	if id == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "id required")
		return
	}
	rec, err := a.Repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "generation not found")
			return
		}
		a.Logger.Error().Err(err).Str("id", id).Msg("failed to load generation")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load generation")
		return
	}
	a.json(w, http.StatusOK, toGenerationItem(rec))
}

func (a *App) ListGenerations(w http.ResponseWriter, r *http.Request) {
	if a.Repo == nil {
		a.error(w, http.StatusServiceUnavailable, "unavailable", "generation history is not configured")
		return
	}
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			a.error(w, http.StatusBadRequest, "bad_request", "limit must be a positive integer")
			return
		}
		limit = n
	}
	records, err := a.Repo.List(r.Context(), limit)
	if err != nil {
		a.Logger.Error().Err(err).Msg("failed to list generations")
		a.error(w, http.StatusInternalServerError, "internal", "failed to list generations")
		return
	}
	items := make([]generationItem, 0, len(records))
	for i := range records {
		items = append(items, toGenerationItem(&records[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}
