package handlers

import (
	"io"
	"net/http"
	"strings"

	"catalogpix/internal/domain/fault"
)

// Upload accepts a multipart image, deduplicates it by content, and queues
// processing on first sight.
func (a *App) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, a.MaxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "multipart field 'file' is required")
		return
	}
	defer file.Close()

	if ct := header.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		a.error(w, http.StatusBadRequest, "bad_request", "file must be an image")
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "failed to read upload")
		return
	}

	tenant := r.FormValue("tenant")
	result, err := a.Ingest.Ingest(r.Context(), content, header.Filename, tenant)
	if err != nil {
		if fault.Is(err, fault.KindValidation) {
			a.error(w, http.StatusBadRequest, "invalid_image", err.Error())
			return
		}
		a.Logger.Error().Err(err).Msg("upload: ingest failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to ingest image")
		return
	}

	code := http.StatusCreated
	if result.AlreadyExisted {
		code = http.StatusOK
	}
	a.json(w, code, result)
}
