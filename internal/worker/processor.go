// Package worker drives rendition generation: it claims jobs, runs the
// transform for every missing preset, and resolves each attempt to
// completed, retry, or poisoned.
package worker

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"time"

	// The jpeg/png/gif decoders arrive transitively through imaging; webp
	// must be registered here too so every format accepted at ingestion can
	// be decoded when its job is processed.
	_ "golang.org/x/image/webp"

	"github.com/rs/zerolog"

	"catalogpix/internal/domain"
	"catalogpix/internal/domain/fault"
	"catalogpix/internal/queue"
	"catalogpix/internal/rendition"
	"catalogpix/internal/storage"
)

// JobStore is the job state machine surface. Every transition is conditional
// at the storage layer; the processor never owns a job it did not claim.
type JobStore interface {
	ClaimByID(ctx context.Context, jobID int64) (*domain.Job, error)
	Complete(ctx context.Context, jobID int64) error
	ReleaseForRetry(ctx context.Context, jobID int64, retryCount int, errMsg string, backoff time.Duration) error
	FailAndPoison(ctx context.Context, jobID int64, retryCount int, errMsg string) error
}

// AssetStore loads the asset a job refers to.
type AssetStore interface {
	ByID(ctx context.Context, id int64) (*domain.Asset, error)
}

// RenditionStore records generated renditions and reports which presets an
// asset already has.
type RenditionStore interface {
	ExistingPresets(ctx context.Context, assetID int64) (map[string]bool, error)
	Insert(ctx context.Context, rend *domain.Rendition) (bool, error)
}

// BlobStore reads source bytes and writes encoded renditions.
type BlobStore interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) (string, error)
}

// Processor resolves one claimed job at a time.
type Processor struct {
	jobs        JobStore
	assets      AssetStore
	renditions  RenditionStore
	blobs       BlobStore
	notify      queue.Backend
	backoffBase time.Duration
	logger      zerolog.Logger
}

// NewProcessor wires the state machine with its capabilities.
func NewProcessor(jobs JobStore, assets AssetStore, renditions RenditionStore, blobs BlobStore, notify queue.Backend, backoffBase time.Duration, logger zerolog.Logger) *Processor {
	if backoffBase <= 0 {
		backoffBase = 2 * time.Second
	}
	return &Processor{
		jobs:        jobs,
		assets:      assets,
		renditions:  renditions,
		blobs:       blobs,
		notify:      notify,
		backoffBase: backoffBase,
		logger:      logger,
	}
}

// Process claims the job and drives it to a terminal outcome for this
// attempt. A job that cannot be claimed (absent, already claimed by another
// worker, or still inside its backoff window) is silently skipped: the
// notification was only a hint.
func (p *Processor) Process(ctx context.Context, jobID int64) error {
	job, err := p.jobs.ClaimByID(ctx, jobID)
	if err != nil {
		if fault.Is(err, fault.KindNotFound) {
			p.logger.Debug().Int64("job_id", jobID).Msg("worker: job not claimable, skipping")
			return nil
		}
		return err
	}

	start := time.Now()
	workErr := p.work(ctx, job)
	if workErr == nil {
		if err := p.jobs.Complete(ctx, job.ID); err != nil {
			return fmt.Errorf("complete job %d: %w", job.ID, err)
		}
		p.logger.Info().
			Int64("job_id", job.ID).
			Int64("asset_id", job.AssetID).
			Dur("took", time.Since(start)).
			Msg("worker: job completed")
		return nil
	}

	return p.resolveFailure(ctx, job, workErr)
}

// resolveFailure increments the retry bookkeeping and either releases the
// job for redelivery after its backoff or poisons it.
func (p *Processor) resolveFailure(ctx context.Context, job *domain.Job, workErr error) error {
	retryCount := job.RetryCount + 1
	msg := workErr.Error()

	if retryCount >= job.MaxRetries {
		// One statement at the store: the failed status and the poison
		// record land together or not at all.
		if err := p.jobs.FailAndPoison(ctx, job.ID, retryCount, msg); err != nil {
			return fmt.Errorf("fail job %d: %w", job.ID, err)
		}
		p.logger.Error().
			Int64("job_id", job.ID).
			Int64("asset_id", job.AssetID).
			Int("retry_count", retryCount).
			Str("kind", fault.KindOf(workErr).String()).
			Str("error", msg).
			Msg("worker: job poisoned")
		return nil
	}

	backoff := p.backoffBase << (retryCount - 1)
	if err := p.jobs.ReleaseForRetry(ctx, job.ID, retryCount, msg, backoff); err != nil {
		return fmt.Errorf("release job %d for retry: %w", job.ID, err)
	}
	p.notify.EnqueueAfter(ctx, job.ID, backoff)

	p.logger.Warn().
		Int64("job_id", job.ID).
		Int64("asset_id", job.AssetID).
		Int("retry_count", retryCount).
		Dur("backoff", backoff).
		Str("kind", fault.KindOf(workErr).String()).
		Str("error", msg).
		Msg("worker: job released for retry")
	return nil
}

// work generates every preset the asset does not yet have. Presets already
// present are skipped, so re-processing after a partial failure resumes
// instead of duplicating.
func (p *Processor) work(ctx context.Context, job *domain.Job) error {
	asset, err := p.assets.ByID(ctx, job.AssetID)
	if err != nil {
		return err
	}

	data, err := p.blobs.Read(ctx, asset.StorageKey)
	if err != nil {
		return err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fault.Wrap(fault.KindTransient, fmt.Errorf("decode source for asset %d: %w", asset.ID, err))
	}

	present, err := p.renditions.ExistingPresets(ctx, asset.ID)
	if err != nil {
		return err
	}

	for _, preset := range rendition.Presets {
		if present[preset.Name] {
			continue
		}
		if err := p.generateOne(ctx, asset, img, preset); err != nil {
			return err
		}
	}
	return nil
}

func (p *Processor) generateOne(ctx context.Context, asset *domain.Asset, img image.Image, preset rendition.Preset) error {
	res, err := rendition.Generate(img, preset)
	if err != nil {
		return err
	}

	path, err := p.blobs.Write(ctx, storage.RenditionKey(asset.ID, preset.Name), res.Data)
	if err != nil {
		return fault.Wrap(fault.KindTransient, fmt.Errorf("store %s rendition: %w", preset.Name, err))
	}

	inserted, err := p.renditions.Insert(ctx, &domain.Rendition{
		AssetID:    asset.ID,
		Preset:     preset.Name,
		FilePath:   path,
		Bytes:      int64(len(res.Data)),
		Width:      res.Width,
		Height:     res.Height,
		Quality:    res.Quality,
		ColorSpace: res.ColorSpace,
	})
	if err != nil {
		return err
	}
	if !inserted {
		// Another worker got there first; the unique (asset, preset)
		// constraint makes this a skip, not an error.
		p.logger.Debug().
			Int64("asset_id", asset.ID).
			Str("preset", preset.Name).
			Msg("worker: rendition already recorded")
		return nil
	}

	p.logger.Info().
		Int64("asset_id", asset.ID).
		Str("preset", preset.Name).
		Int("width", res.Width).
		Int("height", res.Height).
		Msg("worker: rendition generated")
	return nil
}
