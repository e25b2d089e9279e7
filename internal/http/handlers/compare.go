package handlers

import (
	"bytes"
	"image"
	"io"
	"net/http"

	"catalogpix/internal/domain/fault"
	"catalogpix/internal/fingerprint"
	"catalogpix/internal/quality"
)

// Compare scores an uploaded image against an asset's original and each of
// its stored renditions.
func (a *App) Compare(w http.ResponseWriter, r *http.Request) {
	assetID, ok := assetIDParam(r)
	if !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "asset_id must be a positive integer")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, a.MaxUploadBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "multipart field 'file' is required")
		return
	}
	defer file.Close()

	candidateBytes, err := io.ReadAll(file)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "failed to read upload")
		return
	}
	candidate, _, err := image.Decode(bytes.NewReader(candidateBytes))
	if err != nil {
		a.error(w, http.StatusBadRequest, "invalid_image", "uploaded file is not a decodable image")
		return
	}
	candidateHash, err := fingerprint.PerceptualHash(candidate)
	if err != nil {
		a.Logger.Error().Err(err).Msg("compare: perceptual hash failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to fingerprint upload")
		return
	}

	asset, err := a.Assets.ByID(r.Context(), assetID)
	if err != nil {
		if fault.Is(err, fault.KindNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "asset not found")
			return
		}
		a.Logger.Error().Err(err).Int64("asset_id", assetID).Msg("compare: asset lookup failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load asset")
		return
	}

	scoreStored := func(key, hash string, size int64) (quality.Comparison, error) {
		data, err := a.Store.Read(r.Context(), key)
		if err != nil {
			return quality.Comparison{}, err
		}
		stored, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return quality.Comparison{}, err
		}
		return quality.Compare(candidate, stored, candidateHash, hash, size)
	}

	original, err := scoreStored(asset.StorageKey, asset.PerceptualHash, asset.OriginalBytes)
	if err != nil {
		a.Logger.Error().Err(err).Int64("asset_id", assetID).Msg("compare: original scoring failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to compare against original")
		return
	}

	renditions, err := a.Renditions.ListByAsset(r.Context(), assetID)
	if err != nil {
		a.Logger.Error().Err(err).Int64("asset_id", assetID).Msg("compare: rendition list failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load renditions")
		return
	}

	perPreset := make(map[string]quality.Comparison, len(renditions))
	for _, rd := range renditions {
		data, err := a.Store.Read(r.Context(), rd.FilePath)
		if err != nil {
			a.Logger.Warn().Err(err).Str("preset", rd.Preset).Msg("compare: rendition read failed, skipping")
			continue
		}
		stored, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			a.Logger.Warn().Err(err).Str("preset", rd.Preset).Msg("compare: rendition decode failed, skipping")
			continue
		}
		storedHash, err := fingerprint.PerceptualHash(stored)
		if err != nil {
			a.Logger.Warn().Err(err).Str("preset", rd.Preset).Msg("compare: rendition hash failed, skipping")
			continue
		}
		cmp, err := quality.Compare(candidate, stored, candidateHash, storedHash, rd.Bytes)
		if err != nil {
			a.Logger.Warn().Err(err).Str("preset", rd.Preset).Msg("compare: scoring failed, skipping")
			continue
		}
		perPreset[rd.Preset] = cmp
	}

	a.json(w, http.StatusOK, map[string]any{
		"asset_id":   assetID,
		"original":   original,
		"renditions": perPreset,
	})
}
