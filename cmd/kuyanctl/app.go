package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
	migrate "github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"

	"github.com/Rushit-Mehta/kuyan/internal/adapter/frankfurter"
	"github.com/Rushit-Mehta/kuyan/internal/adapter/repository/postgres"
	"github.com/Rushit-Mehta/kuyan/internal/domain"
	"github.com/Rushit-Mehta/kuyan/internal/platform/config"
	"github.com/Rushit-Mehta/kuyan/internal/usecase/converter"
	"github.com/Rushit-Mehta/kuyan/internal/usecase/networth"
	"github.com/Rushit-Mehta/kuyan/internal/usecase/ratetable"
	"github.com/Rushit-Mehta/kuyan/internal/usecase/registry"
	"github.com/Rushit-Mehta/kuyan/internal/usecase/report"
	"github.com/Rushit-Mehta/kuyan/internal/usecase/seeder"
)

// app wires the database and services a subcommand needs. Logs go to stderr
// so stdout stays clean for markdown and CSV output.
type app struct {
	cfg    *config.Config
	db     *postgres.DB
	logger *slog.Logger

	currencies     *registry.CurrencyService
	reports        *report.ReportService
	builder        *ratetable.Builder
	registrySeeder *seeder.RegistrySeeder
	sampleSeeder   *seeder.SampleSeeder
}

func newApp() (*app, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	currencyRepo := postgres.NewCurrencyRepository(db)
	ownerRepo := postgres.NewOwnerRepository(db)
	accountRepo := postgres.NewAccountRepository(db)
	snapshotRepo := postgres.NewSnapshotRepository(db)

	var clientOpts []frankfurter.ClientOption
	if cfg.FrankfurterURL != "" {
		clientOpts = append(clientOpts, frankfurter.WithBaseURL(cfg.FrankfurterURL))
	}
	builder := ratetable.NewBuilder(frankfurter.NewClient(logger, clientOpts...), logger)
	engine := converter.NewEngine(cfg.IntermediaryCurrency)
	netWorth := networth.NewNetWorthService(snapshotRepo, engine, logger)

	return &app{
		cfg:            cfg,
		db:             db,
		logger:         logger,
		currencies:     registry.NewCurrencyService(currencyRepo, accountRepo),
		reports:        report.NewReportService(snapshotRepo, accountRepo, ownerRepo, currencyRepo, netWorth, logger),
		builder:        builder,
		registrySeeder: seeder.NewRegistrySeeder(ownerRepo, currencyRepo),
		sampleSeeder:   seeder.NewSampleSeeder(ownerRepo, accountRepo, currencyRepo, snapshotRepo, builder, logger),
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

// resolveCurrency picks the target currency for a report: the flag value when
// given, the configured default otherwise. Either way it must be enabled.
func (a *app) resolveCurrency(ctx context.Context, flagValue string) (domain.CurrencyCode, error) {
	code := a.cfg.DefaultCurrency
	if flagValue != "" {
		code = domain.CurrencyCode(strings.ToUpper(strings.TrimSpace(flagValue)))
	}
	if !code.Valid() {
		return "", fmt.Errorf("currency code %q must be 3 uppercase letters", flagValue)
	}
	enabled, err := a.currencies.Codes(ctx)
	if err != nil {
		return "", err
	}
	if !slices.Contains(enabled, code) {
		return "", fmt.Errorf("currency %s is not enabled", code)
	}
	return code, nil
}

// applyMigrations brings the schema up to date. It opens a dedicated
// connection because migrate takes ownership of the *sql.DB it is given
// and closes it.
func (a *app) applyMigrations() error {
	migrationDB, err := sql.Open("postgres", a.cfg.DatabaseURL)
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

	m, err := migrate.NewWithDatabaseInstance("file://"+a.cfg.MigrationsPath, "postgres", driver)
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
		a.logger.Info("no new migrations to apply")
	} else {
		a.logger.Info("database migrations applied")
	}
	return nil
}

// printMarkdown renders markdown with terminal styling. On any renderer
// failure it falls back to printing the raw markdown.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(0))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
