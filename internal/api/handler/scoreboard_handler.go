package handler

import (
	"net/http"

	"contestjam/internal/app/service"
	"contestjam/internal/common"

	"github.com/go-chi/chi/v5"
)

type ScoreboardHandler struct {
	scoreService *service.ScoreService
}

func NewScoreboardHandler(ss *service.ScoreService) *ScoreboardHandler {
	return &ScoreboardHandler{scoreService: ss}
}

func (h *ScoreboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.getScoreboard)
}

// getScoreboard is the pull-based read path: every request (modulo the short
// cache) recomputes all scores before ranking.
func (h *ScoreboardHandler) getScoreboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.scoreService.Scoreboard(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, entries)
}
