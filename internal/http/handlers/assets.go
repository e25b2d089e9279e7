package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"catalogpix/internal/domain/fault"
	"catalogpix/internal/rendition"
)

func assetIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "asset_id"), 10, 64)
	return id, err == nil && id > 0
}

// GetAsset returns asset metadata plus its stored renditions.
func (a *App) GetAsset(w http.ResponseWriter, r *http.Request) {
	assetID, ok := assetIDParam(r)
	if !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "asset_id must be a positive integer")
		return
	}

	asset, err := a.Assets.ByID(r.Context(), assetID)
	if err != nil {
		if fault.Is(err, fault.KindNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "asset not found")
			return
		}
		a.Logger.Error().Err(err).Int64("asset_id", assetID).Msg("assets: lookup failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load asset")
		return
	}

	renditions, err := a.Renditions.ListByAsset(r.Context(), assetID)
	if err != nil {
		a.Logger.Error().Err(err).Int64("asset_id", assetID).Msg("assets: rendition list failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load renditions")
		return
	}

	type renditionView struct {
		Preset   string `json:"preset"`
		FilePath string `json:"file_path"`
		Width    int    `json:"width"`
		Height   int    `json:"height"`
		Bytes    int64  `json:"bytes"`
		Quality  int    `json:"quality"`
	}
	views := make([]renditionView, 0, len(renditions))
	for _, rd := range renditions {
		views = append(views, renditionView{
			Preset:   rd.Preset,
			FilePath: rd.FilePath,
			Width:    rd.Width,
			Height:   rd.Height,
			Bytes:    rd.Bytes,
			Quality:  rd.Quality,
		})
	}

	a.json(w, http.StatusOK, map[string]any{
		"asset_id":        asset.ID,
		"filename":        asset.Filename,
		"content_hash":    asset.ContentHash,
		"perceptual_hash": asset.PerceptualHash,
		"width":           asset.Width,
		"height":          asset.Height,
		"bytes":           asset.OriginalBytes,
		"color_space":     asset.ColorSpace,
		"created_at":      asset.CreatedAt,
		"renditions":      views,
	})
}

// GetRendition streams one rendition file.
func (a *App) GetRendition(w http.ResponseWriter, r *http.Request) {
	assetID, ok := assetIDParam(r)
	if !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "asset_id must be a positive integer")
		return
	}
	preset := chi.URLParam(r, "preset")
	if _, ok := rendition.Lookup(preset); !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "unknown preset")
		return
	}

	rend, err := a.Renditions.ByPreset(r.Context(), assetID, preset)
	if err != nil {
		if fault.Is(err, fault.KindNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "rendition not found")
			return
		}
		a.Logger.Error().Err(err).Int64("asset_id", assetID).Str("preset", preset).Msg("assets: rendition lookup failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load rendition")
		return
	}

	data, err := a.Store.Read(r.Context(), rend.FilePath)
	if err != nil {
		if fault.Is(err, fault.KindNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "rendition file missing on disk")
			return
		}
		a.Logger.Error().Err(err).Str("path", rend.FilePath).Msg("assets: rendition read failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to read rendition")
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// GetJobStatus returns the latest job snapshot for an asset, for polling
// completion.
func (a *App) GetJobStatus(w http.ResponseWriter, r *http.Request) {
	assetID, ok := assetIDParam(r)
	if !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "asset_id must be a positive integer")
		return
	}

	job, err := a.Jobs.LatestForAsset(r.Context(), assetID)
	if err != nil {
		if fault.Is(err, fault.KindNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "no job for asset")
			return
		}
		a.Logger.Error().Err(err).Int64("asset_id", assetID).Msg("assets: job lookup failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load job")
		return
	}

	a.json(w, http.StatusOK, map[string]any{
		"job_id":        job.ID,
		"asset_id":      job.AssetID,
		"status":        job.Status,
		"retry_count":   job.RetryCount,
		"max_retries":   job.MaxRetries,
		"error_message": job.ErrorMessage,
		"created_at":    job.CreatedAt,
		"updated_at":    job.UpdatedAt,
	})
}
