package api

import (
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"woo-analytics/models"
	"woo-analytics/services"
	"woo-analytics/utils"
)

// Handler serves the latest report over HTTP. It starts with no data and
// answers 503 until the first pipeline run lands via SetData.
type Handler struct {
	mu       sync.RWMutex
	report   *models.Report
	pipeline *services.Pipeline
	logger   *utils.Logger
}

// NewHandler creates a Handler; report may be nil while the first run loads.
func NewHandler(report *models.Report, pipeline *services.Pipeline, logger *utils.Logger) *Handler {
	return &Handler{report: report, pipeline: pipeline, logger: logger}
}

// SetData swaps in a freshly generated report.
func (h *Handler) SetData(report *models.Report) {
	h.mu.Lock()
	h.report = report
	h.mu.Unlock()
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api")
	api.GET("/report", h.GetReport)
	api.GET("/orders", h.GetOrders)
	api.GET("/revenue/daily", h.GetDailyRevenue)
	api.GET("/revenue/ranges", h.GetSpendingRanges)
	api.GET("/customers/ages", h.GetAgeRanges)
	api.GET("/products", h.GetProducts)
	api.GET("/categories", h.GetCategories)
	api.POST("/refresh", h.Refresh)
}

// current returns the loaded report or nil.
func (h *Handler) current() *models.Report {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.report
}

func loading(c echo.Context) error {
	return c.JSON(http.StatusServiceUnavailable, map[string]string{
		"error": "report not loaded yet",
	})
}

func getPaginationParams(c echo.Context, defaultLimit int) (int, int) {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	offset, err := strconv.Atoi(c.QueryParam("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (h *Handler) GetReport(c echo.Context) error {
	r := h.current()
	if r == nil {
		return loading(c)
	}
	return c.JSON(http.StatusOK, r)
}

// GetOrders returns the cleaned orders table, paginated.
func (h *Handler) GetOrders(c echo.Context) error {
	r := h.current()
	if r == nil {
		return loading(c)
	}

	total := len(r.Orders)
	limit, offset := getPaginationParams(c, total)

	if offset >= total {
		return c.JSON(http.StatusOK, []models.OrderRecord{})
	}
	end := offset + limit
	if end > total {
		end = total
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":   r.Orders[offset:end],
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *Handler) GetDailyRevenue(c echo.Context) error {
	r := h.current()
	if r == nil {
		return loading(c)
	}
	return c.JSON(http.StatusOK, r.Daily)
}

func (h *Handler) GetSpendingRanges(c echo.Context) error {
	r := h.current()
	if r == nil {
		return loading(c)
	}
	return c.JSON(http.StatusOK, r.SpendingRanges)
}

func (h *Handler) GetAgeRanges(c echo.Context) error {
	r := h.current()
	if r == nil {
		return loading(c)
	}
	return c.JSON(http.StatusOK, r.AgeRanges)
}

func (h *Handler) GetProducts(c echo.Context) error {
	r := h.current()
	if r == nil {
		return loading(c)
	}
	return c.JSON(http.StatusOK, r.ByProduct)
}

func (h *Handler) GetCategories(c echo.Context) error {
	r := h.current()
	if r == nil {
		return loading(c)
	}
	return c.JSON(http.StatusOK, r.ByCategory)
}

// Refresh re-runs the whole pipeline for the requested period and swaps in
// the new report. One run per request; failures leave the old report live.
func (h *Handler) Refresh(c echo.Context) error {
	start, err := time.Parse("2006-01-02", c.QueryParam("from"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "from must be YYYY-MM-DD"})
	}
	end, err := time.Parse("2006-01-02", c.QueryParam("to"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "to must be YYYY-MM-DD"})
	}
	status := c.QueryParam("status")
	if status == "" {
		status = "Tutti"
	}

	report, err := h.pipeline.Run(start, end, status)
	if err != nil {
		h.logger.Error("[api] Refresh failed: %v", err)
		code := http.StatusBadGateway
		if errors.Is(err, services.ErrEndBeforeStart) || errors.Is(err, services.ErrEmptySource) {
			code = http.StatusBadRequest
		} else if errors.Is(err, services.ErrNoOrders) {
			code = http.StatusNotFound
		}
		return c.JSON(code, map[string]string{"error": err.Error()})
	}

	h.SetData(report)
	return c.JSON(http.StatusOK, map[string]string{
		"run_id": report.RunID,
		"status": "ok",
	})
}
