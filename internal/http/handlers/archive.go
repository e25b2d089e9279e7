package handlers

import (
	"fmt"
	"net/http"
	"path"

	"catalogpix/internal/domain/fault"
	"catalogpix/pkg/zip"
)

// Archive bundles an asset's original plus every stored rendition into one
// zip download.
func (a *App) Archive(w http.ResponseWriter, r *http.Request) {
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
		a.Logger.Error().Err(err).Int64("asset_id", assetID).Msg("archive: asset lookup failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load asset")
		return
	}

	original, err := a.Store.Read(r.Context(), asset.StorageKey)
	if err != nil {
		a.Logger.Error().Err(err).Str("path", asset.StorageKey).Msg("archive: original read failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to read original")
		return
	}
	entries := []zip.Entry{{Name: "original" + path.Ext(asset.StorageKey), Data: original}}

	renditions, err := a.Renditions.ListByAsset(r.Context(), assetID)
	if err != nil {
		a.Logger.Error().Err(err).Int64("asset_id", assetID).Msg("archive: rendition list failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load renditions")
		return
	}
	for _, rd := range renditions {
		data, err := a.Store.Read(r.Context(), rd.FilePath)
		if err != nil {
			a.Logger.Warn().Err(err).Str("preset", rd.Preset).Msg("archive: rendition read failed, skipping")
			continue
		}
		entries = append(entries, zip.Entry{Name: rd.Preset + ".jpg", Data: data})
	}

	archive, err := zip.Archive(entries)
	if err != nil {
		a.Logger.Error().Err(err).Int64("asset_id", assetID).Msg("archive: bundling failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to build archive")
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"asset_%d.zip\"", assetID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}
