package rest

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/Rushit-Mehta/kuyan/internal/domain"
	"github.com/Rushit-Mehta/kuyan/internal/usecase/ratetable"
	"github.com/Rushit-Mehta/kuyan/internal/usecase/registry"
	"github.com/Rushit-Mehta/kuyan/internal/usecase/report"
	"github.com/Rushit-Mehta/kuyan/internal/usecase/snapshot"
)

// RouterConfig carries the HTTP surface configuration
type RouterConfig struct {
	Logger          *slog.Logger
	APIToken        string
	AllowedOrigins  []string
	DefaultCurrency domain.CurrencyCode
	Production      bool
}

// Services bundles the use-case services the API exposes
type Services struct {
	Currencies *registry.CurrencyService
	Owners     *registry.OwnerService
	Accounts   *registry.AccountService
	Snapshots  *snapshot.SnapshotService
	Reports    *report.ReportService
	Rates      *ratetable.Builder
}

// NewRouter assembles the gin engine: global middleware, the public health
// probe, and the authenticated /api/v1 surface
func NewRouter(cfg RouterConfig, services Services) *gin.Engine {
	if cfg.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	registerCurrencyCodeValidator()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	router := gin.New()
	router.Use(RequestLogger(logger), gin.Recovery())
	router.Use(cors.New(corsConfig(cfg.AllowedOrigins)))
	if err := router.SetTrustedProxies(nil); err != nil {
		logger.Warn("failed to configure trusted proxies", slog.String("error", err.Error()))
	}

	router.GET("/api/v1/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 10 previews per minute per client IP; each one hits the live rate API
	rate, _ := limiter.NewRateFromFormatted("10-M")
	previewLimiter := limiter.New(memory.NewStore(), rate)

	v1 := router.Group("/api/v1", BearerAuth(cfg.APIToken))
	registerCurrencyRoutes(v1, services.Currencies)
	registerOwnerRoutes(v1, services.Owners)
	registerAccountRoutes(v1, services.Accounts)
	registerSnapshotRoutes(v1, services.Snapshots)
	registerReportRoutes(v1, services.Reports, services.Currencies, cfg.DefaultCurrency)
	registerRateRoutes(v1, services.Rates, services.Currencies, previewLimiter)

	return router
}

func corsConfig(origins []string) cors.Config {
	config := cors.DefaultConfig()
	if len(origins) == 0 {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}
	config.AllowHeaders = append(config.AllowHeaders, "Authorization", "X-Request-ID")
	return config
}

// registerCurrencyCodeValidator teaches gin's binding layer the currencycode
// tag; input is accepted case-insensitively and uppercased by the handlers
func registerCurrencyCodeValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("currencycode", func(fl validator.FieldLevel) bool {
			return domain.CurrencyCode(strings.ToUpper(fl.Field().String())).Valid()
		})
	}
}
