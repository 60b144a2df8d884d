package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	migrate "github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"

	"github.com/Rushit-Mehta/kuyan/internal/adapter/frankfurter"
	"github.com/Rushit-Mehta/kuyan/internal/adapter/repository/postgres"
	"github.com/Rushit-Mehta/kuyan/internal/adapter/rest"
	"github.com/Rushit-Mehta/kuyan/internal/platform/config"
	"github.com/Rushit-Mehta/kuyan/internal/usecase/converter"
	"github.com/Rushit-Mehta/kuyan/internal/usecase/networth"
	"github.com/Rushit-Mehta/kuyan/internal/usecase/ratetable"
	"github.com/Rushit-Mehta/kuyan/internal/usecase/registry"
	"github.com/Rushit-Mehta/kuyan/internal/usecase/report"
	"github.com/Rushit-Mehta/kuyan/internal/usecase/seeder"
	"github.com/Rushit-Mehta/kuyan/internal/usecase/snapshot"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 1. Setup database
	// Add 2-second delay to ensure Postgres is up (Simple retry)
	time.Sleep(2 * time.Second)

	db, err := postgres.NewDB(cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	if err := runMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
		logger.Error("failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Initialize repositories (Postgres)
	currencyRepo := postgres.NewCurrencyRepository(db)
	ownerRepo := postgres.NewOwnerRepository(db)
	accountRepo := postgres.NewAccountRepository(db)
	snapshotRepo := postgres.NewSnapshotRepository(db)

	// 3. Initialize the rate source and conversion engine
	var clientOpts []frankfurter.ClientOption
	if cfg.FrankfurterURL != "" {
		clientOpts = append(clientOpts, frankfurter.WithBaseURL(cfg.FrankfurterURL))
	}
	rateSource := frankfurter.NewClient(logger, clientOpts...)
	builder := ratetable.NewBuilder(rateSource, logger)
	engine := converter.NewEngine(cfg.IntermediaryCurrency)

	// 4. Initialize services (Use Cases)
	currencyService := registry.NewCurrencyService(currencyRepo, accountRepo)
	ownerService := registry.NewOwnerService(ownerRepo)
	accountService := registry.NewAccountService(accountRepo, ownerRepo, currencyRepo)
	snapshotService := snapshot.NewSnapshotService(snapshotRepo, accountRepo, currencyRepo, builder, logger)
	netWorthService := networth.NewNetWorthService(snapshotRepo, engine, logger)
	reportService := report.NewReportService(snapshotRepo, accountRepo, ownerRepo, currencyRepo, netWorthService, logger)

	// Seed the default owner and currency registry, then sample data when asked
	ctx := context.Background()
	registrySeeder := seeder.NewRegistrySeeder(ownerRepo, currencyRepo)
	if err := registrySeeder.SeedDefaults(ctx); err != nil {
		logger.Error("failed to seed registry defaults", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.SeedSampleData {
		sampleSeeder := seeder.NewSampleSeeder(ownerRepo, accountRepo, currencyRepo, snapshotRepo, builder, logger)
		if err := sampleSeeder.SeedSampleData(ctx); err != nil {
			logger.Error("failed to seed sample data", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	// 5. Start HTTP server
	router := rest.NewRouter(rest.RouterConfig{
		Logger:          logger,
		APIToken:        cfg.APIToken,
		AllowedOrigins:  cfg.CORSAllowedOrigins,
		DefaultCurrency: cfg.DefaultCurrency,
		Production:      cfg.IsProduction,
	}, rest.Services{
		Currencies: currencyService,
		Owners:     ownerService,
		Accounts:   accountService,
		Snapshots:  snapshotService,
		Reports:    reportService,
		Rates:      builder,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	waitForShutdown(srv, logger)
}

// runMigrations applies all pending schema migrations before the server
// starts taking traffic. It opens a dedicated connection because migrate
// takes ownership of the *sql.DB it is given and closes it.
func runMigrations(databaseURL, migrationsPath string, logger *slog.Logger) error {
	migrationDB, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return err
	}
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := migratepg.WithInstance(migrationDB, &migratepg.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no new migrations to apply")
	} else {
		logger.Info("database migrations applied")
	}
	return nil
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully drains
// in-flight requests before exiting
func waitForShutdown(srv *http.Server, logger *slog.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logger.Info("shutting down", slog.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown did not complete cleanly", slog.String("error", err.Error()))
		return
	}
	logger.Info("server stopped")
}
