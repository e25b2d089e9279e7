package handlers

import (
	"net/http"
	"strconv"

	"catalogpix/internal/domain"
)

// Purge removes rendition rows (and their files) whose parent asset is gone
// and that are older than the cutoff. dry_run=true reports without deleting.
func (a *App) Purge(w http.ResponseWriter, r *http.Request) {
	days := a.PurgeDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			a.error(w, http.StatusBadRequest, "bad_request", "days must be a non-negative integer")
			return
		}
		days = n
	}
	dryRun := r.URL.Query().Get("dry_run") == "true"

	orphans, err := a.Renditions.Orphans(r.Context(), days)
	if err != nil {
		a.Logger.Error().Err(err).Msg("purge: orphan scan failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to scan for orphans")
		return
	}

	type purgedView struct {
		RenditionID int64  `json:"rendition_id"`
		AssetID     int64  `json:"asset_id"`
		Preset      string `json:"preset"`
		FilePath    string `json:"file_path"`
		Bytes       int64  `json:"bytes"`
	}
	view := func(rd domain.Rendition) purgedView {
		return purgedView{
			RenditionID: rd.ID,
			AssetID:     rd.AssetID,
			Preset:      rd.Preset,
			FilePath:    rd.FilePath,
			Bytes:       rd.Bytes,
		}
	}

	purged := make([]purgedView, 0, len(orphans))
	var freedBytes int64
	for _, rd := range orphans {
		if !dryRun {
			if _, err := a.Store.Delete(r.Context(), rd.FilePath); err != nil {
				a.Logger.Warn().Err(err).Str("path", rd.FilePath).Msg("purge: file delete failed")
			}
			if err := a.Renditions.Delete(r.Context(), rd.ID); err != nil {
				a.Logger.Error().Err(err).Int64("rendition_id", rd.ID).Msg("purge: row delete failed")
				continue
			}
		}
		purged = append(purged, view(rd))
		freedBytes += rd.Bytes
	}

	a.json(w, http.StatusOK, map[string]any{
		"dry_run":     dryRun,
		"cutoff_days": days,
		"count":       len(purged),
		"freed_bytes": freedBytes,
		"renditions":  purged,
	})
}
