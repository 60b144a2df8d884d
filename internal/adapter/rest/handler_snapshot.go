package rest

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Rushit-Mehta/kuyan/internal/domain"
	"github.com/Rushit-Mehta/kuyan/internal/usecase/snapshot"
)

// snapshotHandler handles HTTP requests for monthly snapshots
type snapshotHandler struct {
	snapshots *snapshot.SnapshotService
}

func registerSnapshotRoutes(rg *gin.RouterGroup, snapshots *snapshot.SnapshotService) {
	h := &snapshotHandler{snapshots: snapshots}

	group := rg.Group("/snapshots")
	{
		group.GET("", h.listSnapshots)
		group.POST("", h.createSnapshot)
		group.GET("/months", h.listMonths)
		group.GET("/:month", h.getSnapshot)
		group.DELETE("/:month", h.deleteSnapshot)
	}
}

// listSnapshots returns all snapshots, oldest first
// An optional ?year= filter narrows the list to one calendar year
func (h *snapshotHandler) listSnapshots(c *gin.Context) {
	var (
		snapshots []*domain.Snapshot
		err       error
	)

	if yearParam := c.Query("year"); yearParam != "" {
		year, convErr := strconv.Atoi(yearParam)
		if convErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "year must be a number"})
			return
		}
		snapshots, err = h.snapshots.ListYear(c.Request.Context(), year)
	} else {
		snapshots, err = h.snapshots.List(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]SnapshotResponse, len(snapshots))
	for i, snap := range snapshots {
		out[i] = toSnapshotResponse(snap)
	}
	c.JSON(http.StatusOK, out)
}

// createSnapshot records a month's balances with rates pinned at save time
func (h *snapshotHandler) createSnapshot(c *gin.Context) {
	var req CreateSnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	month, ok := parseMonthParam(c, req.Month)
	if !ok {
		return
	}

	entries := make([]snapshot.BalanceEntry, len(req.Balances))
	for i, b := range req.Balances {
		accountID, err := uuid.Parse(b.AccountID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "account_id must be a valid UUID"})
			return
		}
		entries[i] = snapshot.BalanceEntry{AccountID: accountID, Amount: b.Amount}
	}

	snap, err := h.snapshots.CreateMonth(c.Request.Context(), month, entries, req.Overwrite)
	if err != nil {
		respondError(c, err)
		return
	}

	LoggerFrom(c).Info("snapshot recorded",
		slog.String("month", snap.Month.String()),
		slog.Int("balances", len(snap.Balances)),
		slog.Bool("overwrite", req.Overwrite),
	)
	c.JSON(http.StatusCreated, toSnapshotResponse(snap))
}

func (h *snapshotHandler) listMonths(c *gin.Context) {
	months, err := h.snapshots.Months(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]string, len(months))
	for i, month := range months {
		out[i] = month.String()
	}
	c.JSON(http.StatusOK, gin.H{"months": out})
}

func (h *snapshotHandler) getSnapshot(c *gin.Context) {
	month, ok := parseMonthParam(c, c.Param("month"))
	if !ok {
		return
	}

	snap, err := h.snapshots.Get(c.Request.Context(), month)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSnapshotResponse(snap))
}

func (h *snapshotHandler) deleteSnapshot(c *gin.Context) {
	month, ok := parseMonthParam(c, c.Param("month"))
	if !ok {
		return
	}

	if err := h.snapshots.Delete(c.Request.Context(), month); err != nil {
		respondError(c, err)
		return
	}

	LoggerFrom(c).Info("snapshot deleted", slog.String("month", month.String()))
	c.Status(http.StatusNoContent)
}

// parseMonthParam parses a YYYY-MM value and writes a 400 on failure
func parseMonthParam(c *gin.Context, value string) (domain.Month, bool) {
	month, err := domain.ParseMonth(value)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must be in YYYY-MM form"})
		return domain.Month{}, false
	}
	return month, true
}
