// Package ingest accepts raw uploads, deduplicates them by content and, on
// first sight, persists the asset and queues its processing job.
package ingest

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"strings"

	// Codecs accepted at ingestion. webp is decode-only.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"catalogpix/internal/domain"
	"catalogpix/internal/domain/fault"
	"catalogpix/internal/fingerprint"
	"catalogpix/internal/queue"
	"catalogpix/internal/rendition"
	"catalogpix/internal/storage"
)

// AssetStore is the persistence surface the ingestor needs.
type AssetStore interface {
	ByContentHash(ctx context.Context, hash string) (*domain.Asset, error)
	Insert(ctx context.Context, a *domain.Asset) (int64, error)
	UpsertTenant(ctx context.Context, name string) (int64, error)
}

// JobStore creates the processing job for a freshly ingested asset.
type JobStore interface {
	Create(ctx context.Context, assetID int64, maxRetries int) (int64, error)
}

// BlobStore persists original bytes.
type BlobStore interface {
	Write(ctx context.Context, key string, data []byte) (string, error)
	Delete(ctx context.Context, key string) (bool, error)
}

// Result is the outcome of one ingestion attempt.
type Result struct {
	AssetID        int64  `json:"asset_id"`
	JobID          int64  `json:"job_id,omitempty"`
	ContentHash    string `json:"content_hash"`
	AlreadyExisted bool   `json:"already_existed"`
}

// Service wires the ingestion flow. All collaborators are explicit
// capabilities constructed once at startup.
type Service struct {
	assets     AssetStore
	jobs       JobStore
	blobs      BlobStore
	notify     queue.Backend
	maxRetries int
	logger     zerolog.Logger
}

// New constructs the ingest service.
func New(assets AssetStore, jobs JobStore, blobs BlobStore, notify queue.Backend, maxRetries int, logger zerolog.Logger) *Service {
	return &Service{
		assets:     assets,
		jobs:       jobs,
		blobs:      blobs,
		notify:     notify,
		maxRetries: maxRetries,
		logger:     logger,
	}
}

// Ingest decodes and fingerprints content, then either reports the existing
// asset carrying the same exact hash or persists a new asset plus its
// pending job. Safe to repeat: byte-identical content never creates a second
// asset or job.
func (s *Service) Ingest(ctx context.Context, content []byte, filename, tenantName string) (Result, error) {
	img, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return Result{}, fault.Wrap(fault.KindValidation, fmt.Errorf("decode image: %w", err))
	}

	contentHash := fingerprint.ExactHash(content)
	perceptualHash, err := fingerprint.PerceptualHash(img)
	if err != nil {
		return Result{}, fault.Wrap(fault.KindValidation, err)
	}

	if existing, err := s.assets.ByContentHash(ctx, contentHash); err == nil {
		return Result{AssetID: existing.ID, ContentHash: contentHash, AlreadyExisted: true}, nil
	} else if !fault.Is(err, fault.KindNotFound) {
		return Result{}, err
	}

	tenantID, err := s.assets.UpsertTenant(ctx, NormalizeTenantName(tenantName))
	if err != nil {
		return Result{}, fmt.Errorf("resolve tenant: %w", err)
	}

	storageKey, err := s.blobs.Write(ctx, storage.OriginalKey(filename), content)
	if err != nil {
		return Result{}, fmt.Errorf("store original: %w", err)
	}

	b := img.Bounds()
	asset := &domain.Asset{
		TenantID:       tenantID,
		Filename:       filename,
		ContentHash:    contentHash,
		PerceptualHash: perceptualHash,
		OriginalBytes:  int64(len(content)),
		Width:          b.Dx(),
		Height:         b.Dy(),
		ColorSpace:     rendition.ColorSpace(img),
		StorageKey:     storageKey,
	}

	assetID, err := s.assets.Insert(ctx, asset)
	if err != nil {
		if fault.Is(err, fault.KindDuplicate) {
			// Lost the race against a concurrent identical upload. The
			// unique constraint on content_hash is the guard; report the
			// winner's asset and drop our orphaned blob.
			_, _ = s.blobs.Delete(ctx, storageKey)
			winner, lookupErr := s.assets.ByContentHash(ctx, contentHash)
			if lookupErr != nil {
				return Result{}, lookupErr
			}
			return Result{AssetID: winner.ID, ContentHash: contentHash, AlreadyExisted: true}, nil
		}
		return Result{}, fmt.Errorf("insert asset: %w", err)
	}

	jobID, err := s.jobs.Create(ctx, assetID, s.maxRetries)
	if err != nil {
		return Result{}, fmt.Errorf("create job: %w", err)
	}

	// Best-effort notification: the committed job row is the record, the
	// fallback poller will still find it.
	if err := s.notify.Enqueue(ctx, jobID); err != nil {
		s.logger.Warn().Err(err).Int64("job_id", jobID).Msg("ingest: queue notification failed")
	}

	s.logger.Info().
		Int64("asset_id", assetID).
		Int64("job_id", jobID).
		Str("content_hash", contentHash).
		Msg("ingest: asset created")

	return Result{AssetID: assetID, JobID: jobID, ContentHash: contentHash}, nil
}

var tenantFolder = cases.Fold()

// NormalizeTenantName canonicalizes a tenant label: trimmed, NFC-normalized,
// case-folded. Empty names map to "default".
func NormalizeTenantName(name string) string {
	name = norm.NFC.String(strings.TrimSpace(name))
	if name == "" {
		return "default"
	}
	return tenantFolder.String(name)
}
