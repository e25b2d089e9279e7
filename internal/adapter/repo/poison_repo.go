package repo

import (
	"context"

	"catalogpix/internal/domain"
	"catalogpix/internal/infra"
	"catalogpix/internal/sqlinline"
)

// PoisonRepositoryPG appends and lists terminal failure records.
type PoisonRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewPoisonRepository constructs the poison-job repository.
func NewPoisonRepository(sql infra.SQLExecutor) *PoisonRepositoryPG {
	return &PoisonRepositoryPG{sql: sql}
}

// List returns the most recent poison records. Records are appended by the
// job repository's terminal transition, never directly through this type.
func (r *PoisonRepositoryPG) List(ctx context.Context, limit int) ([]domain.PoisonJob, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListPoisonJobs, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.PoisonJob
	for rows.Next() {
		var p domain.PoisonJob
		if err := rows.Scan(&p.ID, &p.AssetID, &p.OriginalJobID, &p.ErrorMessage, &p.RetryCount, &p.FailedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
