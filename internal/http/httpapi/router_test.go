package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"catalogpix/internal/domain"
	"catalogpix/internal/domain/fault"
	"catalogpix/internal/http/handlers"
	"catalogpix/internal/infra"
	"catalogpix/internal/ingest"
	"catalogpix/internal/storage"
)

type memAssetStore struct {
	byID   map[int64]*domain.Asset
	byHash map[string]*domain.Asset
	nextID int64
}

func newMemAssetStore() *memAssetStore {
	return &memAssetStore{byID: map[int64]*domain.Asset{}, byHash: map[string]*domain.Asset{}}
}

func (m *memAssetStore) ByID(ctx context.Context, id int64) (*domain.Asset, error) {
	if a, ok := m.byID[id]; ok {
		return a, nil
	}
	return nil, fault.New(fault.KindNotFound, "asset %d not found", id)
}

func (m *memAssetStore) ByContentHash(ctx context.Context, hash string) (*domain.Asset, error) {
	if a, ok := m.byHash[hash]; ok {
		return a, nil
	}
	return nil, fault.New(fault.KindNotFound, "asset with hash %s not found", hash)
}

func (m *memAssetStore) Insert(ctx context.Context, a *domain.Asset) (int64, error) {
	m.nextID++
	a.ID = m.nextID
	m.byID[a.ID] = a
	m.byHash[a.ContentHash] = a
	return a.ID, nil
}

func (m *memAssetStore) UpsertTenant(ctx context.Context, name string) (int64, error) {
	return 1, nil
}

type memJobStore struct {
	jobs map[int64]*domain.Job
}

func (m *memJobStore) Create(ctx context.Context, assetID int64, maxRetries int) (int64, error) {
	if m.jobs == nil {
		m.jobs = map[int64]*domain.Job{}
	}
	id := int64(len(m.jobs) + 1)
	m.jobs[id] = &domain.Job{ID: id, AssetID: assetID, Status: domain.JobPending, MaxRetries: maxRetries}
	return id, nil
}

func (m *memJobStore) LatestForAsset(ctx context.Context, assetID int64) (*domain.Job, error) {
	for _, j := range m.jobs {
		if j.AssetID == assetID {
			return j, nil
		}
	}
	return nil, fault.New(fault.KindNotFound, "no job for asset %d", assetID)
}

type memRenditionStore struct{}

func (memRenditionStore) ListByAsset(ctx context.Context, assetID int64) ([]domain.Rendition, error) {
	return nil, nil
}

func (memRenditionStore) ByPreset(ctx context.Context, assetID int64, preset string) (*domain.Rendition, error) {
	return nil, fault.New(fault.KindNotFound, "rendition %s for asset %d not found", preset, assetID)
}

func (memRenditionStore) Orphans(ctx context.Context, olderThanDays int) ([]domain.Rendition, error) {
	return nil, nil
}

func (memRenditionStore) Delete(ctx context.Context, id int64) error { return nil }

type memMetrics struct{}

func (memMetrics) TenantMetrics(ctx context.Context) ([]domain.TenantMetrics, error) {
	return []domain.TenantMetrics{{TenantID: 1, TenantName: "default", AssetCount: 2}}, nil
}

type memPoison struct{}

func (memPoison) List(ctx context.Context, limit int) ([]domain.PoisonJob, error) { return nil, nil }

type noopBackend struct{}

func (noopBackend) Enqueue(ctx context.Context, jobID int64) error                { return nil }
func (noopBackend) EnqueueAfter(ctx context.Context, jobID int64, d time.Duration) {}
func (noopBackend) Dequeue(ctx context.Context, timeout time.Duration) (int64, bool, error) {
	return 0, false, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *memJobStore) {
	t.Helper()

	store, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	assets := newMemAssetStore()
	jobs := &memJobStore{}
	ingestor := ingest.New(assets, jobs, store, noopBackend{}, 3, zerolog.Nop())

	app := &handlers.App{
		Logger:         zerolog.Nop(),
		Ingest:         ingestor,
		Assets:         assets,
		Jobs:           jobs,
		Renditions:     memRenditionStore{},
		Metrics:        memMetrics{},
		Poison:         memPoison{},
		Store:          store,
		MaxUploadBytes: 8 << 20,
		PurgeDays:      30,
	}
	cfg := &infra.Config{UploadRateLimit: 100}

	srv := httptest.NewServer(NewRouter(app, cfg))
	t.Cleanup(srv.Close)
	return srv, jobs
}

func uploadRequest(t *testing.T, url string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	partHeader := textproto.MIMEHeader{}
	partHeader.Set("Content-Disposition", `form-data; name="file"; filename="photo.png"`)
	partHeader.Set("Content-Type", "image/png")
	fw, err := mw.CreatePart(partHeader)
	if err != nil {
		t.Fatalf("CreatePart() error = %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.WriteField("tenant", "shop"); err != nil {
		t.Fatalf("write tenant field: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, url+"/v1/upload", &body)
	if err != nil {
		t.Fatalf("NewRequest() error = %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 4), G: uint8(y * 5), B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/v1/healthz")
	if err != nil {
		t.Fatalf("GET /v1/healthz error = %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestUploadAndPollJob(t *testing.T) {
	srv, jobs := newTestServer(t)
	content := testPNG(t)

	resp, err := http.DefaultClient.Do(uploadRequest(t, srv.URL, content))
	if err != nil {
		t.Fatalf("upload error = %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("first upload status = %d, want 201", resp.StatusCode)
	}

	var result struct {
		AssetID        int64  `json:"asset_id"`
		JobID          int64  `json:"job_id"`
		ContentHash    string `json:"content_hash"`
		AlreadyExisted bool   `json:"already_existed"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.AssetID == 0 || result.JobID == 0 || result.AlreadyExisted {
		t.Fatalf("upload result = %+v", result)
	}
	if len(jobs.jobs) != 1 {
		t.Fatalf("jobs created = %d, want 1", len(jobs.jobs))
	}

	again, err := http.DefaultClient.Do(uploadRequest(t, srv.URL, content))
	if err != nil {
		t.Fatalf("repeat upload error = %v", err)
	}
	defer again.Body.Close()
	if again.StatusCode != http.StatusOK {
		t.Fatalf("repeat upload status = %d, want 200", again.StatusCode)
	}

	jobResp, err := http.Get(srv.URL + "/v1/assets/1/job")
	if err != nil {
		t.Fatalf("GET job status error = %v", err)
	}
	defer jobResp.Body.Close()
	if jobResp.StatusCode != http.StatusOK {
		t.Fatalf("job status = %d, want 200", jobResp.StatusCode)
	}
}

func TestUploadRejectsNonImage(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.DefaultClient.Do(uploadRequest(t, srv.URL, []byte("not an image")))
	if err != nil {
		t.Fatalf("upload error = %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestAssetRoutesValidateInput(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		path string
		want int
	}{
		{"/v1/assets/abc", http.StatusBadRequest},
		{"/v1/assets/999", http.StatusNotFound},
		{"/v1/assets/999/renditions/poster", http.StatusBadRequest},
		{"/v1/assets/999/renditions/thumb", http.StatusNotFound},
		{"/v1/assets/999/job", http.StatusNotFound},
	}
	for _, tc := range tests {
		resp, err := http.Get(srv.URL + tc.path)
		if err != nil {
			t.Fatalf("GET %s error = %v", tc.path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != tc.want {
			t.Fatalf("GET %s = %d, want %d", tc.path, resp.StatusCode, tc.want)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/v1/metrics")
	if err != nil {
		t.Fatalf("GET /v1/metrics error = %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var payload struct {
		Tenants []struct {
			TenantName string `json:"tenant_name"`
			AssetCount int64  `json:"asset_count"`
		} `json:"tenants"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode metrics: %v", err)
	}
	if len(payload.Tenants) != 1 || payload.Tenants[0].AssetCount != 2 {
		t.Fatalf("metrics payload = %+v", payload)
	}
}
