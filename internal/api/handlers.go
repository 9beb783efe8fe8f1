package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/trendradar/internal/domain"
	"github.com/jonesrussell/trendradar/internal/logger"
	"github.com/jonesrussell/trendradar/internal/storage"
	"github.com/jonesrussell/trendradar/internal/trend"
)

const (
	defaultLimit  = 50
	defaultOffset = 0
	historyLimit  = 90
)

// ProductRepository defines the product persistence operations the API
// needs.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, filter storage.ListFilter) ([]*domain.Product, error)
	Update(ctx context.Context, p *domain.Product) error
	Count(ctx context.Context, filter storage.ListFilter) (int, error)
}

// SnapshotRepository defines the metrics-history operations the API needs.
type SnapshotRepository interface {
	History(ctx context.Context, productID string, limit int) ([]domain.MetricsSnapshot, error)
}

// RunRepository defines the scan-run operations the API needs.
type RunRepository interface {
	GetByID(ctx context.Context, id string) (*domain.ScanRun, error)
	List(ctx context.Context, status string, limit, offset int) ([]*domain.ScanRun, error)
}

// Runner triggers a scan.
type Runner interface {
	Run(ctx context.Context, trigger string) (*domain.ScanRun, error)
}

// ProductsHandler handles product-related HTTP requests.
type ProductsHandler struct {
	repo      ProductRepository
	snapshots SnapshotRepository
}

// NewProductsHandler creates a products handler.
func NewProductsHandler(repo ProductRepository, snapshots SnapshotRepository) *ProductsHandler {
	return &ProductsHandler{repo: repo, snapshots: snapshots}
}

// List handles GET /api/v1/products
func (h *ProductsHandler) List(c *gin.Context) {
	filter := storage.ListFilter{
		Platform: c.Query("platform"),
		Priority: c.Query("priority"),
		Status:   c.Query("status"),
		Limit:    queryInt(c, "limit", defaultLimit),
		Offset:   queryInt(c, "offset", defaultOffset),
	}
	if minScore := c.Query("min_trend_score"); minScore != "" {
		if v, err := strconv.ParseFloat(minScore, 64); err == nil {
			filter.MinTrendScore = v
		}
	}

	products, err := h.repo.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve products"})
		return
	}
	total, err := h.repo.Count(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"total":    total,
		"limit":    filter.Limit,
		"offset":   filter.Offset,
	})
}

// Get handles GET /api/v1/products/:id
func (h *ProductsHandler) Get(c *gin.Context) {
	product, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve product"})
		return
	}
	c.JSON(http.StatusOK, product)
}

// History handles GET /api/v1/products/:id/history
func (h *ProductsHandler) History(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.repo.GetByID(c.Request.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve product"})
		return
	}

	history, err := h.snapshots.History(c.Request.Context(), id, queryInt(c, "limit", historyLimit))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"product_id": id,
		"history":    history,
		"growth":     trend.DetectGrowth(history),
	})
}

// statusUpdateRequest is the body for PATCH /api/v1/products/:id/status.
type statusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

var validStatuses = map[string]bool{
	domain.ProductStatusNew:      true,
	domain.ProductStatusReviewed: true,
	domain.ProductStatusRejected: true,
	domain.ProductStatusSampled:  true,
}

// UpdateStatus handles PATCH /api/v1/products/:id/status
func (h *ProductsHandler) UpdateStatus(c *gin.Context) {
	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if !validStatuses[req.Status] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	product, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve product"})
		return
	}

	product.Status = req.Status
	if err := h.repo.Update(c.Request.Context(), product); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}
	c.JSON(http.StatusOK, product)
}

// RunsHandler handles scan-run HTTP requests.
type RunsHandler struct {
	repo    RunRepository
	runner  Runner
	baseCtx context.Context
	logger  logger.Interface
}

// NewRunsHandler creates a runs handler. baseCtx outlives individual
// requests and bounds API-triggered scans.
func NewRunsHandler(repo RunRepository, runner Runner, baseCtx context.Context, log logger.Interface) *RunsHandler {
	return &RunsHandler{
		repo:    repo,
		runner:  runner,
		baseCtx: baseCtx,
		logger:  log.WithComponent("api"),
	}
}

// List handles GET /api/v1/runs
func (h *RunsHandler) List(c *gin.Context) {
	runs, err := h.repo.List(
		c.Request.Context(),
		c.Query("status"),
		queryInt(c, "limit", defaultLimit),
		queryInt(c, "offset", defaultOffset),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve runs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// Get handles GET /api/v1/runs/:id
func (h *RunsHandler) Get(c *gin.Context) {
	run, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Run not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve run"})
		return
	}
	c.JSON(http.StatusOK, run)
}

// Trigger handles POST /api/v1/runs. The scan executes in the background;
// clients poll the runs endpoints for progress.
func (h *RunsHandler) Trigger(c *gin.Context) {
	if h.runner == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Scanning is not available"})
		return
	}

	go func() {
		run, err := h.runner.Run(h.baseCtx, domain.RunTriggerAPI)
		if err != nil {
			h.logger.Error("API-triggered scan failed", "error", err)
			return
		}
		h.logger.Info("API-triggered scan completed", "run", run.ID)
	}()

	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

// ReportClient exposes the latest report files.
type ReportClient interface {
	LatestPaths() (mdPath, csvPath string, err error)
}

// ReportsHandler handles report HTTP requests.
type ReportsHandler struct {
	reports ReportClient
}

// NewReportsHandler creates a reports handler.
func NewReportsHandler(reports ReportClient) *ReportsHandler {
	return &ReportsHandler{reports: reports}
}

// Latest handles GET /api/v1/reports/latest, serving the newest markdown
// report.
func (h *ReportsHandler) Latest(c *gin.Context) {
	mdPath, _, err := h.reports.LatestPaths()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No report available"})
		return
	}
	c.Header("Content-Type", "text/markdown; charset=utf-8")
	c.File(mdPath)
}

func queryInt(c *gin.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.DefaultQuery(name, strconv.Itoa(fallback)))
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
