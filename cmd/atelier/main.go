package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/harlow-digital/atelier/internal/api"
	"github.com/harlow-digital/atelier/internal/auth"
	"github.com/harlow-digital/atelier/internal/cli"
	"github.com/harlow-digital/atelier/internal/config"
	"github.com/harlow-digital/atelier/internal/db"
	"github.com/harlow-digital/atelier/internal/repository"
	"github.com/harlow-digital/atelier/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, nil)
	} else {
		handler = slog.NewTextHandler(os.Stderr, nil)
	}
	logger := slog.New(handler)

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	userRepo := repository.NewSQLiteUserRepo(database)
	clientRepo := repository.NewSQLiteClientRepo(database)
	intakeRepo := repository.NewSQLiteIntakeRepo(database)
	proposalRepo := repository.NewSQLiteProposalRepo(database)
	projectRepo := repository.NewSQLiteProjectRepo(database)
	taskRepo := repository.NewSQLiteTaskRepo(database)
	invoiceRepo := repository.NewSQLiteInvoiceRepo(database)
	eventRepo := repository.NewSQLiteEventRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)
	observer := service.NewLogUseCaseObserver(os.Stderr)

	intakeSvc := service.NewIntakeService(intakeRepo, clientRepo, uow)
	proposalSvc := service.NewProposalService(proposalRepo, intakeRepo, uow, observer)
	projectSvc := service.NewProjectService(projectRepo, uow)
	taskSvc := service.NewTaskService(taskRepo, projectRepo, uow, observer)
	invoiceSvc := service.NewInvoiceService(invoiceRepo, projectRepo, uow)
	clientSvc := service.NewClientService(clientRepo)
	activitySvc := service.NewActivityService(eventRepo, projectRepo)

	resolver := auth.NewResolver([]byte(cfg.JWTSecret), userRepo, clientRepo)
	server := api.NewServer(logger, resolver, api.Services{
		Intakes:   intakeSvc,
		Proposals: proposalSvc,
		Projects:  projectSvc,
		Tasks:     taskSvc,
		Invoices:  invoiceSvc,
		Clients:   clientSvc,
		Activity:  activitySvc,
	})

	app := &cli.App{
		Config:    cfg,
		Logger:    logger,
		DB:        database,
		Users:     userRepo,
		Clients:   clientRepo,
		Intakes:   intakeRepo,
		Proposals: proposalRepo,
		Invoices:  invoiceRepo,
		IntakeSvc: intakeSvc,
		ClientSvc: clientSvc,
		Server:    server,
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
