// Package handlers is the routing glue over the pipeline core: request and
// response shaping only, no processing logic.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"catalogpix/internal/domain"
	"catalogpix/internal/ingest"
	"catalogpix/internal/storage"
)

// AssetReader is the asset lookup surface the handlers need.
type AssetReader interface {
	ByID(ctx context.Context, id int64) (*domain.Asset, error)
}

// JobReader surfaces job status snapshots for polling.
type JobReader interface {
	LatestForAsset(ctx context.Context, assetID int64) (*domain.Job, error)
}

// RenditionReader lists and resolves stored renditions.
type RenditionReader interface {
	ListByAsset(ctx context.Context, assetID int64) ([]domain.Rendition, error)
	ByPreset(ctx context.Context, assetID int64, preset string) (*domain.Rendition, error)
	Orphans(ctx context.Context, olderThanDays int) ([]domain.Rendition, error)
	Delete(ctx context.Context, id int64) error
}

// MetricsReader aggregates tenant usage.
type MetricsReader interface {
	TenantMetrics(ctx context.Context) ([]domain.TenantMetrics, error)
}

// PoisonReader lists terminal failures for operators.
type PoisonReader interface {
	List(ctx context.Context, limit int) ([]domain.PoisonJob, error)
}

// App bundles the capabilities the HTTP surface depends on. Everything is
// injected at startup; handlers never reach for ambient globals.
type App struct {
	Logger         zerolog.Logger
	Ingest         *ingest.Service
	Assets         AssetReader
	Jobs           JobReader
	Renditions     RenditionReader
	Metrics        MetricsReader
	Poison         PoisonReader
	Store          *storage.FileStore
	MaxUploadBytes int64
	PurgeDays      int
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, slug, msg string) {
	a.json(w, code, map[string]string{"error": slug, "message": msg})
}
