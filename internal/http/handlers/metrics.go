package handlers

import "net/http"

// Metrics reports per-tenant asset and rendition counts plus byte totals.
func (a *App) GetMetrics(w http.ResponseWriter, r *http.Request) {
	rows, err := a.Metrics.TenantMetrics(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("metrics: aggregation failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to aggregate metrics")
		return
	}

	type tenantView struct {
		TenantID       int64  `json:"tenant_id"`
		TenantName     string `json:"tenant_name"`
		AssetCount     int64  `json:"asset_count"`
		RenditionCount int64  `json:"rendition_count"`
		TotalBytes     int64  `json:"total_bytes"`
	}
	views := make([]tenantView, 0, len(rows))
	for _, m := range rows {
		views = append(views, tenantView{
			TenantID:       m.TenantID,
			TenantName:     m.TenantName,
			AssetCount:     m.AssetCount,
			RenditionCount: m.RenditionCount,
			TotalBytes:     m.TotalBytes,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"tenants": views})
}
