package rest

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"

	"github.com/Rushit-Mehta/kuyan/internal/domain"
	"github.com/Rushit-Mehta/kuyan/internal/usecase/ratetable"
	"github.com/Rushit-Mehta/kuyan/internal/usecase/registry"
)

// ratesHandler handles live rate previews; nothing it serves is stored
type ratesHandler struct {
	builder    *ratetable.Builder
	currencies *registry.CurrencyService
}

func registerRateRoutes(rg *gin.RouterGroup, builder *ratetable.Builder, currencies *registry.CurrencyService, limiterInstance *limiter.Limiter) {
	h := &ratesHandler{builder: builder, currencies: currencies}

	// rate-limited: every preview fans out to the upstream rate API
	rg.GET("/rates", RateLimit(limiterInstance), h.previewRates)
}

// previewRates fetches a pairwise rate table from the live source
// ?date=YYYY-MM-DD asks for historical rates; ?codes=CAD,USD overrides the
// enabled registry
func (h *ratesHandler) previewRates(c *gin.Context) {
	var asOf time.Time
	dateLabel := "latest"
	if value := c.Query("date"); value != "" {
		parsed, err := time.Parse("2006-01-02", value)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be in YYYY-MM-DD form"})
			return
		}
		asOf = parsed
		dateLabel = value
	}

	codes, ok := h.resolveCodes(c)
	if !ok {
		return
	}

	var (
		rates domain.RateMap
		err   error
	)
	if asOf.IsZero() {
		rates, err = h.builder.BuildLatest(c.Request.Context(), codes)
	} else {
		rates, err = h.builder.Build(c.Request.Context(), codes, asOf)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]string, len(codes))
	for i, code := range codes {
		out[i] = string(code)
	}
	c.JSON(http.StatusOK, RatesResponse{Date: dateLabel, Codes: out, Rates: rates})
}

func (h *ratesHandler) resolveCodes(c *gin.Context) ([]domain.CurrencyCode, bool) {
	raw := c.Query("codes")
	if raw == "" {
		codes, err := h.currencies.Codes(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return nil, false
		}
		return codes, true
	}

	parts := strings.Split(raw, ",")
	codes := make([]domain.CurrencyCode, 0, len(parts))
	for _, part := range parts {
		code := domain.CurrencyCode(strings.ToUpper(strings.TrimSpace(part)))
		if !code.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("currency code %q must be 3 uppercase letters", part)})
			return nil, false
		}
		codes = append(codes, code)
	}
	return codes, true
}
