package repo

import (
	"context"

	"catalogpix/internal/domain"
	"catalogpix/internal/infra"
	"catalogpix/internal/sqlinline"
)

// MetricsRepositoryPG aggregates per-tenant usage.
type MetricsRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewMetricsRepository constructs the metrics repository.
func NewMetricsRepository(sql infra.SQLExecutor) *MetricsRepositoryPG {
	return &MetricsRepositoryPG{sql: sql}
}

// TenantMetrics returns asset/rendition counts and byte totals per tenant.
func (r *MetricsRepositoryPG) TenantMetrics(ctx context.Context) ([]domain.TenantMetrics, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QTenantMetrics)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.TenantMetrics
	for rows.Next() {
		var m domain.TenantMetrics
		if err := rows.Scan(&m.TenantID, &m.TenantName, &m.AssetCount, &m.RenditionCount, &m.TotalBytes); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
