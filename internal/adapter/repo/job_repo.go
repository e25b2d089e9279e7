package repo

import (
	"context"
	"time"

	"catalogpix/internal/domain"
	"catalogpix/internal/domain/fault"
	"catalogpix/internal/infra"
	"catalogpix/internal/sqlinline"

	"github.com/jackc/pgx/v5"
)

// JobRepositoryPG implements job persistence and the atomic claim transitions.
type JobRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewJobRepository creates a new job repository backed by PostgreSQL.
func NewJobRepository(sql infra.SQLExecutor) *JobRepositoryPG {
	return &JobRepositoryPG{sql: sql}
}

// Create inserts a pending job for an asset and returns its id.
func (r *JobRepositoryPG) Create(ctx context.Context, assetID int64, maxRetries int) (int64, error) {
	var id int64
	err := r.sql.QueryRow(ctx, sqlinline.QInsertJob, assetID, maxRetries).Scan(&id)
	return id, err
}

// ClaimByID performs the conditional pending->processing transition for one
// job. It reports not-found when the job is absent, already claimed, or not
// yet eligible; the caller treats that as "nothing to do".
func (r *JobRepositoryPG) ClaimByID(ctx context.Context, jobID int64) (*domain.Job, error) {
	return scanJob(r.sql.QueryRow(ctx, sqlinline.QClaimJobByID, jobID))
}

// OldestPendingID returns the id of the oldest eligible pending job. The
// absence of work is reported as a not-found fault.
func (r *JobRepositoryPG) OldestPendingID(ctx context.Context) (int64, error) {
	var id int64
	if err := r.sql.QueryRow(ctx, sqlinline.QSelectOldestPendingJob).Scan(&id); err != nil {
		if infra.IsNoRows(err) {
			return 0, fault.New(fault.KindNotFound, "no pending job")
		}
		return 0, err
	}
	return id, nil
}

// GetByID fetches a job by its identifier.
func (r *JobRepositoryPG) GetByID(ctx context.Context, jobID int64) (*domain.Job, error) {
	return scanJob(r.sql.QueryRow(ctx, sqlinline.QSelectJobByID, jobID))
}

// LatestForAsset returns the most recent job for an asset.
func (r *JobRepositoryPG) LatestForAsset(ctx context.Context, assetID int64) (*domain.Job, error) {
	return scanJob(r.sql.QueryRow(ctx, sqlinline.QSelectLatestJobForAsset, assetID))
}

// Complete marks a job completed and clears its error message.
func (r *JobRepositoryPG) Complete(ctx context.Context, jobID int64) error {
	_, err := r.sql.Exec(ctx, sqlinline.QCompleteJob, jobID)
	return err
}

// ReleaseForRetry returns a job to pending with its retry bookkeeping and a
// not-eligible-until stamp; the worker never sleeps on the backoff itself.
func (r *JobRepositoryPG) ReleaseForRetry(ctx context.Context, jobID int64, retryCount int, errMsg string, backoff time.Duration) error {
	_, err := r.sql.Exec(ctx, sqlinline.QReleaseJobForRetry, jobID, retryCount, errMsg, backoff.Seconds())
	return err
}

// FailAndPoison marks a job terminally failed and appends its poison record
// in a single statement. Failed jobs are never retried.
func (r *JobRepositoryPG) FailAndPoison(ctx context.Context, jobID int64, retryCount int, errMsg string) error {
	var poisonID int64
	return r.sql.QueryRow(ctx, sqlinline.QFailJobAndPoison, jobID, retryCount, errMsg).Scan(&poisonID)
}

func scanJob(row pgx.Row) (*domain.Job, error) {
	var j domain.Job
	if err := row.Scan(
		&j.ID,
		&j.AssetID,
		&j.Status,
		&j.RetryCount,
		&j.MaxRetries,
		&j.ErrorMessage,
		&j.NotBefore,
		&j.CreatedAt,
		&j.UpdatedAt,
	); err != nil {
		if infra.IsNoRows(err) {
			return nil, fault.New(fault.KindNotFound, "job not found")
		}
		return nil, err
	}
	return &j, nil
}
