package repo

import (
	"context"

	"catalogpix/internal/domain"
	"catalogpix/internal/domain/fault"
	"catalogpix/internal/infra"
	"catalogpix/internal/sqlinline"

	"github.com/jackc/pgx/v5"
)

// AssetRepositoryPG implements asset persistence using PostgreSQL.
type AssetRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewAssetRepository constructs a new asset repository instance.
func NewAssetRepository(sql infra.SQLExecutor) *AssetRepositoryPG {
	return &AssetRepositoryPG{sql: sql}
}

// Insert persists a new asset and returns its id. A unique violation on the
// content hash surfaces as a duplicate fault so the ingest path can convert
// it into the already-exists response.
func (r *AssetRepositoryPG) Insert(ctx context.Context, a *domain.Asset) (int64, error) {
	var id int64
	err := r.sql.QueryRow(ctx, sqlinline.QInsertAsset,
		a.TenantID,
		a.Filename,
		a.ContentHash,
		a.PerceptualHash,
		a.OriginalBytes,
		a.Width,
		a.Height,
		a.ColorSpace,
		a.StorageKey,
	).Scan(&id)
	if err != nil {
		if infra.IsUniqueViolation(err) {
			return 0, fault.Wrap(fault.KindDuplicate, err)
		}
		return 0, err
	}
	return id, nil
}

// ByContentHash fetches the asset carrying the given exact content hash.
func (r *AssetRepositoryPG) ByContentHash(ctx context.Context, hash string) (*domain.Asset, error) {
	return scanAsset(r.sql.QueryRow(ctx, sqlinline.QSelectAssetByContentHash, hash))
}

// ByID fetches an asset by id.
func (r *AssetRepositoryPG) ByID(ctx context.Context, id int64) (*domain.Asset, error) {
	return scanAsset(r.sql.QueryRow(ctx, sqlinline.QSelectAssetByID, id))
}

// UpsertTenant resolves a tenant id by name, creating the tenant on first use.
func (r *AssetRepositoryPG) UpsertTenant(ctx context.Context, name string) (int64, error) {
	var id int64
	err := r.sql.QueryRow(ctx, sqlinline.QUpsertTenant, name).Scan(&id)
	return id, err
}

func scanAsset(row pgx.Row) (*domain.Asset, error) {
	var a domain.Asset
	if err := row.Scan(
		&a.ID,
		&a.TenantID,
		&a.Filename,
		&a.ContentHash,
		&a.PerceptualHash,
		&a.OriginalBytes,
		&a.Width,
		&a.Height,
		&a.ColorSpace,
		&a.StorageKey,
		&a.CreatedAt,
	); err != nil {
		if infra.IsNoRows(err) {
			return nil, fault.New(fault.KindNotFound, "asset not found")
		}
		return nil, err
	}
	return &a, nil
}
