package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dan9191/finance-planner/internal/calendar"
	"github.com/Dan9191/finance-planner/internal/config"
	"github.com/Dan9191/finance-planner/internal/handler"
	"github.com/Dan9191/finance-planner/internal/integrations/cbr"
	"github.com/Dan9191/finance-planner/internal/notify"
	"github.com/Dan9191/finance-planner/internal/repository"
	"github.com/Dan9191/finance-planner/internal/service"
	"github.com/Dan9191/finance-planner/internal/tuition"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

// app holds the dependencies shared by all commands
type app struct {
	log  *logrus.Logger
	cfg  *config.Config
	loc  *time.Location
	db   *sql.DB
	repo *repository.Repository
}

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)
	return logger
}

// setup loads configuration and connects to the database
func setup(ctx context.Context, logger *logrus.Logger) (*app, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("failed to load calendar time zone: %w", err)
	}

	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &app{log: logger, cfg: cfg, loc: loc, db: db, repo: repository.NewRepository(db)}, nil
}

func (a *app) deriver() *calendar.Deriver {
	return calendar.NewDeriver(a.loc, a.log)
}

func (a *app) reminder() *notify.Reminder {
	sender := notify.NewSMTPSender(a.cfg, a.log)
	return notify.NewReminder(a.repo, a.deriver(), sender, a.cfg.ReminderLookaheadDays, a.log)
}

func serve(ctx context.Context, a *app, migrate bool) error {
	if migrate {
		if err := repository.RunMigrations(a.cfg.DBConn); err != nil {
			return err
		}
		a.log.Info("Database migrations applied")
	}

	rates, err := tuition.LoadRates(a.cfg.TuitionRatesFile)
	if err != nil {
		return err
	}

	svc := service.NewService(a.repo, a.log, a.cfg, a.deriver())
	cbrClient := cbr.NewClient(a.cfg.CBRURL, a.log)
	h := handler.NewHandler(svc, cbrClient, tuition.NewEstimator(rates), a.repo, a.log)

	if a.cfg.RemindersEnabled() {
		scheduler, err := a.reminder().Schedule(ctx, a.cfg.ReminderSchedule)
		if err != nil {
			return err
		}
		scheduler.Start()
		defer func() { <-scheduler.Stop().Done() }()
		a.log.Infof("Payment reminders scheduled: %s", a.cfg.ReminderSchedule)
	}

	server := &http.Server{
		Addr:         a.cfg.Addr(),
		Handler:      h.Router(a.cfg.FrontendURL),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Infof("Starting server on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	a.log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newRootCmd(logger *logrus.Logger) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "finance-planner",
		Short:         "Personal finance tracker API",
		Long:          `Tracks savings and debt accounts and derives a payment calendar from their schedules.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var migrate bool
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd.Context(), logger)
			if err != nil {
				return err
			}
			defer a.db.Close()
			return serve(cmd.Context(), a, migrate)
		},
	}
	serveCmd.Flags().BoolVar(&migrate, "migrate", false, "Apply database migrations before serving")

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewDatabaseConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := repository.RunMigrations(cfg.DBConn); err != nil {
				return err
			}
			logger.Info("Database migrations applied")
			return nil
		},
	}

	remindCmd := &cobra.Command{
		Use:   "remind",
		Short: "Send payment reminder e-mails once",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd.Context(), logger)
			if err != nil {
				return err
			}
			defer a.db.Close()
			if !a.cfg.RemindersEnabled() {
				return errors.New("reminders are disabled: set SMTP_HOST and SENDER_EMAIL")
			}
			_, err = a.reminder().Run(cmd.Context())
			return err
		},
	}

	rootCmd.AddCommand(serveCmd, migrateCmd, remindCmd)
	return rootCmd
}

func main() {
	// Initialize logger
	logger := newLogger()
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(logger).ExecuteContext(ctx); err != nil {
		stop()
		logger.Fatalf("%v", err)
	}
}
