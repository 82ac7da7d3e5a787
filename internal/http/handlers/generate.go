package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"server/internal/domain"
)

// VideosGenerate runs the full pipeline synchronously. The server's write
// timeout is sized for the multi-minute pipeline, so the connection is held
// until the video is ready.
func (a *App) VideosGenerate(w http.ResponseWriter, r *http.Request) {
	var req domain.GenerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := req.Validate(); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	resp, err := a.Pipeline.Generate(r.Context(), req)
	if err != nil {
		a.Logger.Error().Err(err).Msg("generation pipeline failed")
		switch {
		case errors.Is(err, domain.ErrInvalidRequest):
			a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		case errors.Is(err, domain.ErrContentRejected):
			a.error(w, http.StatusUnprocessableEntity, "content_rejected", "the request was rejected by the content policy")
		case errors.Is(err, domain.ErrPollTimeout):
			a.error(w, http.StatusGatewayTimeout, "generation_timeout", "video generation did not finish in time")
		default:
			a.error(w, http.StatusInternalServerError, "internal", "video generation failed")
		}
		return
	}

	a.json(w, http.StatusOK, resp)
}
