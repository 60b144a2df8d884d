package rest

import (
	"bytes"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Rushit-Mehta/kuyan/internal/domain"
	"github.com/Rushit-Mehta/kuyan/internal/usecase/registry"
	"github.com/Rushit-Mehta/kuyan/internal/usecase/report"
)

// reportHandler handles HTTP requests for the dashboard, reports, and exports
type reportHandler struct {
	reports         *report.ReportService
	currencies      *registry.CurrencyService
	defaultCurrency domain.CurrencyCode
}

func registerReportRoutes(rg *gin.RouterGroup, reports *report.ReportService, currencies *registry.CurrencyService, defaultCurrency domain.CurrencyCode) {
	h := &reportHandler{reports: reports, currencies: currencies, defaultCurrency: defaultCurrency}

	rg.GET("/dashboard", h.dashboard)

	group := rg.Group("/reports")
	{
		group.GET("/networth", h.netWorthHistory)
		group.GET("/networth/chart", h.netWorthChart)
		group.GET("/growth", h.growthReport)
		group.GET("/yoy", h.yearOverYear)
		group.GET("/export", h.exportCSV)
	}
}

func (h *reportHandler) dashboard(c *gin.Context) {
	target, ok := h.targetCurrency(c)
	if !ok {
		return
	}

	d, err := h.reports.Dashboard(c.Request.Context(), target)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDashboardResponse(d))
}

func (h *reportHandler) netWorthHistory(c *gin.Context) {
	target, ok := h.targetCurrency(c)
	if !ok {
		return
	}

	points, warnings, err := h.reports.NetWorthHistory(c.Request.Context(), target)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toNetWorthResponse(target, points, warnings))
}

// netWorthChart renders the history as a PNG line chart
func (h *reportHandler) netWorthChart(c *gin.Context) {
	target, ok := h.targetCurrency(c)
	if !ok {
		return
	}

	points, _, err := h.reports.NetWorthHistory(c.Request.Context(), target)
	if err != nil {
		respondError(c, err)
		return
	}
	if len(points) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "chart needs at least two recorded months"})
		return
	}

	png, err := report.RenderNetWorthChart(points, target)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// growthReport returns the per-currency index series, rebased to 100 at the
// baseline month (?baseline=YYYY-MM, defaulting to the earliest snapshot)
func (h *reportHandler) growthReport(c *gin.Context) {
	var baseline domain.Month
	if value := c.Query("baseline"); value != "" {
		parsed, ok := parseMonthParam(c, value)
		if !ok {
			return
		}
		baseline = parsed
	}

	series, codes, err := h.reports.Growth(c.Request.Context(), baseline)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toGrowthResponse(series, codes))
}

func (h *reportHandler) yearOverYear(c *gin.Context) {
	target, ok := h.targetCurrency(c)
	if !ok {
		return
	}

	grouped, warnings, err := h.reports.YearOverYear(c.Request.Context(), target)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toYoyResponse(target, grouped, warnings))
}

// exportCSV streams the full history as a CSV attachment
// The body is buffered so a failure mid-export still maps to a clean error
// response instead of a truncated file
func (h *reportHandler) exportCSV(c *gin.Context) {
	target, ok := h.targetCurrency(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.reports.ExportCSV(c.Request.Context(), &buf, target); err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="kuyan_history.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// targetCurrency resolves the ?currency= query, falling back to the
// configured default, and rejects codes that are not enabled
func (h *reportHandler) targetCurrency(c *gin.Context) (domain.CurrencyCode, bool) {
	code := domain.CurrencyCode(strings.ToUpper(strings.TrimSpace(c.Query("currency"))))
	if code == "" {
		code = h.defaultCurrency
	}

	codes, err := h.currencies.Codes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return "", false
	}
	if !slices.Contains(codes, code) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("currency %s is not enabled", code)})
		return "", false
	}
	return code, true
}
