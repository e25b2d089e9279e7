package repo

import (
	"context"

	"catalogpix/internal/domain"
	"catalogpix/internal/domain/fault"
	"catalogpix/internal/infra"
	"catalogpix/internal/sqlinline"

	"github.com/jackc/pgx/v5"
)

// RenditionRepositoryPG implements rendition persistence using PostgreSQL.
type RenditionRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewRenditionRepository constructs a new rendition repository instance.
func NewRenditionRepository(sql infra.SQLExecutor) *RenditionRepositoryPG {
	return &RenditionRepositoryPG{sql: sql}
}

// Insert records a generated rendition. A concurrent duplicate for the same
// (asset, preset) pair inserts nothing and reports inserted=false; callers
// treat that as already done.
func (r *RenditionRepositoryPG) Insert(ctx context.Context, rend *domain.Rendition) (bool, error) {
	var id int64
	err := r.sql.QueryRow(ctx, sqlinline.QInsertRendition,
		rend.AssetID,
		rend.Preset,
		rend.FilePath,
		rend.Bytes,
		rend.Width,
		rend.Height,
		rend.Quality,
		rend.ColorSpace,
	).Scan(&id)
	if err != nil {
		if infra.IsNoRows(err) {
			// ON CONFLICT DO NOTHING returned no row.
			return false, nil
		}
		if infra.IsUniqueViolation(err) {
			return false, nil
		}
		return false, err
	}
	rend.ID = id
	return true, nil
}

// ExistingPresets returns the preset names already stored for an asset.
func (r *RenditionRepositoryPG) ExistingPresets(ctx context.Context, assetID int64) (map[string]bool, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QSelectRenditionPresets, assetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	present := make(map[string]bool)
	for rows.Next() {
		var preset string
		if err := rows.Scan(&preset); err != nil {
			return nil, err
		}
		present[preset] = true
	}
	return present, rows.Err()
}

// ListByAsset returns all renditions stored for an asset.
func (r *RenditionRepositoryPG) ListByAsset(ctx context.Context, assetID int64) ([]domain.Rendition, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListRenditionsByAsset, assetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRenditions(rows)
}

// ByPreset fetches one rendition of an asset by preset name.
func (r *RenditionRepositoryPG) ByPreset(ctx context.Context, assetID int64, preset string) (*domain.Rendition, error) {
	var rend domain.Rendition
	if err := scanRendition(r.sql.QueryRow(ctx, sqlinline.QSelectRenditionByPreset, assetID, preset), &rend); err != nil {
		if infra.IsNoRows(err) {
			return nil, fault.New(fault.KindNotFound, "rendition %s not found for asset %d", preset, assetID)
		}
		return nil, err
	}
	return &rend, nil
}

// Orphans returns renditions older than the cutoff whose asset row is gone.
func (r *RenditionRepositoryPG) Orphans(ctx context.Context, olderThanDays int) ([]domain.Rendition, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListOrphanRenditions, olderThanDays)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRenditions(rows)
}

// Delete removes one rendition row.
func (r *RenditionRepositoryPG) Delete(ctx context.Context, id int64) error {
	_, err := r.sql.Exec(ctx, sqlinline.QDeleteRendition, id)
	return err
}

func scanRendition(row pgx.Row, rend *domain.Rendition) error {
	return row.Scan(
		&rend.ID,
		&rend.AssetID,
		&rend.Preset,
		&rend.FilePath,
		&rend.Bytes,
		&rend.Width,
		&rend.Height,
		&rend.Quality,
		&rend.ColorSpace,
		&rend.CreatedAt,
	)
}

func collectRenditions(rows pgx.Rows) ([]domain.Rendition, error) {
	var out []domain.Rendition
	for rows.Next() {
		var rend domain.Rendition
		if err := scanRendition(rows, &rend); err != nil {
			return nil, err
		}
		out = append(out, rend)
	}
	return out, rows.Err()
}
