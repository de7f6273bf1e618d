package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	"transaction-dashboard/internal/analytics"
	"transaction-dashboard/internal/database"
	"transaction-dashboard/internal/export"
	"transaction-dashboard/internal/services/seeder"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Seeder imports the remote feed into the store.
type Seeder interface {
	Seed(ctx context.Context) (seeder.SeedSummary, error)
}

type APIHandler struct {
	engine *analytics.Engine
	seeder Seeder
	log    zerolog.Logger
}

func SetupRoutes(r *gin.RouterGroup, engine *analytics.Engine, seed Seeder, log zerolog.Logger) *APIHandler {
	handler := &APIHandler{
		engine: engine,
		seeder: seed,
		log:    log,
	}

	r.GET("/initialize-database", handler.InitializeDatabase)
	r.GET("/search", handler.Search)

	r.GET("/statistics/:month", handler.Statistics)
	r.GET("/pie-chart/:month", handler.PieChart)
	r.GET("/bar-chart/:month", handler.BarChart)
	r.GET("/list-transactions/:month", handler.ListTransactions)
	r.GET("/combined-data/:month", handler.CombinedData)
	r.GET("/export/:month", handler.ExportMonth)

	return handler
}

// InitializeDatabase: GET /api/initialize-database
// Appends the whole feed to the store on every call.
func (h *APIHandler) InitializeDatabase(c *gin.Context) {
	summary, err := h.seeder.Seed(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Database initialized", "inserted": summary.Inserted})
}

// Search: GET /api/search
func (h *APIHandler) Search(c *gin.Context) {
	items, err := h.engine.All(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Statistics: GET /api/statistics/:month
func (h *APIHandler) Statistics(c *gin.Context) {
	stats, err := h.engine.Statistics(c.Request.Context(), c.Param("month"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// PieChart: GET /api/pie-chart/:month
func (h *APIHandler) PieChart(c *gin.Context) {
	pie, err := h.engine.PieChart(c.Request.Context(), c.Param("month"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, pie)
}

// BarChart: GET /api/bar-chart/:month
func (h *APIHandler) BarChart(c *gin.Context) {
	bar, err := h.engine.BarChart(c.Request.Context(), c.Param("month"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, bar)
}

// ListTransactions: GET /api/list-transactions/:month
func (h *APIHandler) ListTransactions(c *gin.Context) {
	items, err := h.engine.ListTransactions(c.Request.Context(), c.Param("month"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// CombinedData: GET /api/combined-data/:month
func (h *APIHandler) CombinedData(c *gin.Context) {
	combined, err := h.engine.Combined(c.Request.Context(), c.Param("month"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, combined)
}

// ExportMonth: GET /api/export/:month -> xlsx attachment
func (h *APIHandler) ExportMonth(c *gin.Context) {
	month := c.Param("month")
	ctx := c.Request.Context()

	items, err := h.engine.ListTransactions(ctx, month)
	if err != nil {
		h.fail(c, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteMonthWorkbook(&buf, month, items, analytics.ComputeStatistics(items)); err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="transactions-%s.xlsx"`, month))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// fail maps domain errors to a status and writes {"error": ...}.
func (h *APIHandler) fail(c *gin.Context, err error) {
	status, msg := classify(err)
	ev := h.log.Error()
	if status < http.StatusInternalServerError {
		ev = h.log.Warn()
	}
	ev.Err(err).
		Str("request_id", c.GetString(requestIDKey)).
		Str("path", c.FullPath()).
		Int("status", status).
		Msg("request failed")
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, analytics.ErrInvalidMonth):
		return http.StatusBadRequest, "Invalid month name"
	case errors.Is(err, seeder.ErrUpstreamFetch):
		return http.StatusInternalServerError, "Failed to fetch seed data"
	case errors.Is(err, seeder.ErrStorageWrite):
		return http.StatusInternalServerError, "Failed to store seed data"
	case errors.Is(err, database.ErrStorageRead):
		return http.StatusInternalServerError, "Failed to read transactions"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
