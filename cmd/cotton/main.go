package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alexanderramin/cotton/internal/cli"
	"github.com/alexanderramin/cotton/internal/config"
	"github.com/alexanderramin/cotton/internal/db"
	"github.com/alexanderramin/cotton/internal/repository"
	"github.com/alexanderramin/cotton/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", cli.Describe(err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	draftFields, err := cfg.Drafts()
	if err != nil {
		return err
	}

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()
	logger.Debug("database ready", "path", cfg.DBPath, "schema_version", db.SchemaVersion())

	// Wire repositories
	sessionRepo := repository.NewSQLiteSessionRepo(database)
	draftRepo := repository.NewSQLiteDraftRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	var observers []service.UseCaseObserver
	if cfg.LogUseCases {
		observers = append(observers, service.NewLogUseCaseObserver(logger))
	}

	// Wire services
	historySvc := service.NewHistoryService(uow, observers...)

	app := &cli.App{
		Sessions:  service.NewSessionService(sessionRepo, uow, observers...),
		History:   historySvc,
		Drafts:    service.NewDraftService(draftRepo, draftFields),
		Reports:   service.NewReportService(historySvc, cfg.ReportLayout(), cfg.Bilingual(), "", observers...),
		ReportDir: cfg.ReportDir,
		Bilingual: cfg.Bilingual(),
	}

	// Prompt only when a person is at the terminal.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
