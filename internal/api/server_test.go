package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/trendradar/internal/api"
	"github.com/jonesrussell/trendradar/internal/config"
	"github.com/jonesrussell/trendradar/internal/domain"
	"github.com/jonesrussell/trendradar/internal/logger"
	"github.com/jonesrussell/trendradar/internal/storage"
	"github.com/jonesrussell/trendradar/internal/trend"
)

type fakeProductRepo struct {
	products map[string]*domain.Product
	listErr  error
	updated  []*domain.Product
}

func (r *fakeProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, storage.ErrNotFound)
	}
	clone := *p
	return &clone, nil
}

func (r *fakeProductRepo) List(_ context.Context, filter storage.ListFilter) ([]*domain.Product, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]*domain.Product, 0, len(r.products))
	for _, p := range r.products {
		if filter.Platform != "" && string(p.Platform) != filter.Platform {
			continue
		}
		if filter.MinTrendScore > 0 && p.TrendScore < filter.MinTrendScore {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *domain.Product) error {
	r.updated = append(r.updated, p)
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) Count(ctx context.Context, filter storage.ListFilter) (int, error) {
	out, err := r.List(ctx, filter)
	return len(out), err
}

type fakeSnapshotRepo struct {
	history map[string][]domain.MetricsSnapshot
}

func (r *fakeSnapshotRepo) History(_ context.Context, productID string, _ int) ([]domain.MetricsSnapshot, error) {
	return r.history[productID], nil
}

type fakeRunRepo struct {
	runs map[string]*domain.ScanRun
}

func (r *fakeRunRepo) GetByID(_ context.Context, id string) (*domain.ScanRun, error) {
	run, ok := r.runs[id]
	if !ok {
		return nil, fmt.Errorf("scan run %s: %w", id, storage.ErrNotFound)
	}
	return run, nil
}

func (r *fakeRunRepo) List(_ context.Context, status string, _, _ int) ([]*domain.ScanRun, error) {
	out := make([]*domain.ScanRun, 0, len(r.runs))
	for _, run := range r.runs {
		if status != "" && run.Status != status {
			continue
		}
		out = append(out, run)
	}
	return out, nil
}

type fakeRunner struct {
	mu      sync.Mutex
	calls   int
	trigger string
	done    chan struct{}
}

func (r *fakeRunner) Run(_ context.Context, trigger string) (*domain.ScanRun, error) {
	r.mu.Lock()
	r.calls++
	r.trigger = trigger
	r.mu.Unlock()
	if r.done != nil {
		close(r.done)
	}
	return &domain.ScanRun{ID: "run-1", Status: domain.RunStatusCompleted}, nil
}

type fakeReports struct {
	mdPath string
	err    error
}

func (r *fakeReports) LatestPaths() (string, string, error) {
	return r.mdPath, "", r.err
}

type serverEnv struct {
	products *fakeProductRepo
	runs     *fakeRunRepo
	runner   *fakeRunner
	reports  *fakeReports
	handler  http.Handler
}

func newServerEnv(t *testing.T) *serverEnv {
	t.Helper()

	score := 86.4
	env := &serverEnv{
		products: &fakeProductRepo{products: map[string]*domain.Product{
			"p1": {
				ID:           "p1",
				Platform:     domain.PlatformTikTokShopUS,
				NameOriginal: "Glow Serum",
				TrendScore:   score,
				Priority:     domain.PriorityA,
				Status:       domain.ProductStatusNew,
			},
			"p2": {
				ID:           "p2",
				Platform:     domain.PlatformDouyin,
				NameOriginal: "Neck Fan",
				TrendScore:   42,
				Priority:     domain.PriorityC,
				Status:       domain.ProductStatusNew,
			},
		}},
		runs: &fakeRunRepo{runs: map[string]*domain.ScanRun{
			"run-1": {ID: "run-1", Status: domain.RunStatusCompleted},
		}},
		runner:  &fakeRunner{done: make(chan struct{})},
		reports: &fakeReports{},
	}

	day := 24 * time.Hour
	t0 := time.Date(2026, 8, 26, 9, 0, 0, 0, time.UTC)
	snapshots := &fakeSnapshotRepo{history: map[string][]domain.MetricsSnapshot{
		"p1": {
			{ProductID: "p1", CapturedAt: t0, TotalViews: 100_000},
			{ProductID: "p1", CapturedAt: t0.Add(day), TotalViews: 150_000},
			{ProductID: "p1", CapturedAt: t0.Add(2 * day), TotalViews: 200_000},
		},
	}}

	log := logger.NewNoOp()
	srv := api.NewServer(
		&config.ServerConfig{Address: ":0"},
		api.NewProductsHandler(env.products, snapshots),
		api.NewRunsHandler(env.runs, env.runner, context.Background(), log),
		api.NewReportsHandler(env.reports),
		log,
	)
	env.handler = srv.Handler()
	return env
}

func (e *serverEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	env := newServerEnv(t)
	w := env.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestListProducts(t *testing.T) {
	env := newServerEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/products", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Products []domain.Product `json:"products"`
		Total    int              `json:"total"`
		Limit    int              `json:"limit"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Products, 2)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, 50, resp.Limit, "default limit applies")
}

func TestListProducts_Filtered(t *testing.T) {
	env := newServerEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/products?platform=douyin&min_trend_score=40", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Products []domain.Product `json:"products"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "Neck Fan", resp.Products[0].NameOriginal)
}

func TestGetProduct(t *testing.T) {
	env := newServerEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/products/p1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var p domain.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, "Glow Serum", p.NameOriginal)

	w = env.do(t, http.MethodGet, "/api/v1/products/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductHistory(t *testing.T) {
	env := newServerEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/products/p1/history", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		ProductID string                   `json:"product_id"`
		History   []domain.MetricsSnapshot `json:"history"`
		Growth    trend.Growth             `json:"growth"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "p1", resp.ProductID)
	require.Len(t, resp.History, 3)
	assert.Equal(t, int64(100_000), resp.History[0].TotalViews)
	assert.Equal(t, trend.DirectionRising, resp.Growth.Direction)
	assert.InDelta(t, 50_000, resp.Growth.SlopePerDay, 1)

	w = env.do(t, http.MethodGet, "/api/v1/products/nope/history", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateProductStatus(t *testing.T) {
	env := newServerEnv(t)

	w := env.do(t, http.MethodPatch, "/api/v1/products/p1/status", `{"status":"reviewed"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, env.products.updated, 1)
	assert.Equal(t, domain.ProductStatusReviewed, env.products.updated[0].Status)

	t.Run("invalid status", func(t *testing.T) {
		w := env.do(t, http.MethodPatch, "/api/v1/products/p1/status", `{"status":"archived"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing body", func(t *testing.T) {
		w := env.do(t, http.MethodPatch, "/api/v1/products/p1/status", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown product", func(t *testing.T) {
		w := env.do(t, http.MethodPatch, "/api/v1/products/nope/status", `{"status":"reviewed"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestListRuns(t *testing.T) {
	env := newServerEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/runs", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Runs []domain.ScanRun `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Runs, 1)
}

func TestGetRun(t *testing.T) {
	env := newServerEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/runs/run-1", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/runs/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTriggerRun(t *testing.T) {
	env := newServerEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/runs", "")
	assert.Equal(t, http.StatusAccepted, w.Code)

	select {
	case <-env.runner.done:
	case <-time.After(2 * time.Second):
		t.Fatal("scan was not started")
	}
	env.runner.mu.Lock()
	defer env.runner.mu.Unlock()
	assert.Equal(t, 1, env.runner.calls)
	assert.Equal(t, domain.RunTriggerAPI, env.runner.trigger)
}

func TestTriggerRun_NoRunner(t *testing.T) {
	log := logger.NewNoOp()
	srv := api.NewServer(
		&config.ServerConfig{Address: ":0"},
		api.NewProductsHandler(&fakeProductRepo{}, &fakeSnapshotRepo{}),
		api.NewRunsHandler(&fakeRunRepo{}, nil, context.Background(), log),
		api.NewReportsHandler(&fakeReports{}),
		log,
	)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/runs", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestLatestReport(t *testing.T) {
	env := newServerEnv(t)

	t.Run("no report", func(t *testing.T) {
		env.reports.err = os.ErrNotExist
		w := env.do(t, http.MethodGet, "/api/v1/reports/latest", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("serves markdown", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "radar-2026-08-29.md")
		require.NoError(t, os.WriteFile(path, []byte("# Trend Radar Report"), 0o600))
		env.reports.err = nil
		env.reports.mdPath = path

		w := env.do(t, http.MethodGet, "/api/v1/reports/latest", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "# Trend Radar Report")
		assert.Contains(t, w.Header().Get("Content-Type"), "markdown")
	})
}
