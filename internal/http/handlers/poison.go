package handlers

import (
	"net/http"
	"strconv"
)

// ListPoison returns recent permanently-failed jobs for operator inspection.
func (a *App) ListPoison(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 1000 {
			a.error(w, http.StatusBadRequest, "bad_request", "limit must be between 1 and 1000")
			return
		}
		limit = n
	}

	rows, err := a.Poison.List(r.Context(), limit)
	if err != nil {
		a.Logger.Error().Err(err).Msg("poison: list failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to list poison jobs")
		return
	}

	type poisonView struct {
		ID            int64  `json:"id"`
		AssetID       int64  `json:"asset_id"`
		OriginalJobID int64  `json:"original_job_id"`
		ErrorMessage  string `json:"error_message"`
		RetryCount    int    `json:"retry_count"`
		FailedAt      string `json:"failed_at"`
	}
	views := make([]poisonView, 0, len(rows))
	for _, p := range rows {
		views = append(views, poisonView{
			ID:            p.ID,
			AssetID:       p.AssetID,
			OriginalJobID: p.OriginalJobID,
			ErrorMessage:  p.ErrorMessage,
			RetryCount:    p.RetryCount,
			FailedAt:      p.FailedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	a.json(w, http.StatusOK, map[string]any{"poison_jobs": views})
}
