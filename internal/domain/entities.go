package domain

import "time"

// JobStatus enumerates the lifecycle states of a processing job.
type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// Tenant scopes assets. Created lazily on first upload under a given name.
type Tenant struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// Asset is a distinct uploaded image, identified by its exact content hash.
// Rows are immutable after creation.
type Asset struct {
	ID             int64
	TenantID       int64
	Filename       string
	ContentHash    string // sha256 hex, unique
	PerceptualHash string // 8x8 average hash, hex
	OriginalBytes  int64
	Width          int
	Height         int
	ColorSpace     string
	StorageKey     string
	CreatedAt      time.Time
}

// Rendition is a derived resized copy of an asset for a named preset.
// (asset_id, preset) is unique; rows are inserted once and never updated.
type Rendition struct {
	ID         int64
	AssetID    int64
	Preset     string
	FilePath   string
	Bytes      int64
	Width      int
	Height     int
	Quality    int
	ColorSpace string
	CreatedAt  time.Time
}

// Job tracks rendition generation for one asset. Only the processor mutates it,
// and it is never deleted.
type Job struct {
	ID           int64
	AssetID      int64
	Status       JobStatus
	RetryCount   int
	MaxRetries   int
	ErrorMessage string
	NotBefore    time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PoisonJob is the terminal snapshot of a job that exhausted its retries.
type PoisonJob struct {
	ID            int64
	AssetID       int64
	OriginalJobID int64
	ErrorMessage  string
	RetryCount    int
	FailedAt      time.Time
}

// TenantMetrics aggregates usage for one tenant.
type TenantMetrics struct {
	TenantID       int64
	TenantName     string
	AssetCount     int64
	RenditionCount int64
	TotalBytes     int64
}
