package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"tabelog-sync-service/internal/domain/repository"
	"tabelog-sync-service/internal/infrastructure/config"
	"tabelog-sync-service/internal/infrastructure/oauth"
	"tabelog-sync-service/internal/infrastructure/persistence"
	"tabelog-sync-service/internal/infrastructure/router"
	"tabelog-sync-service/internal/interface/calendar"
	"tabelog-sync-service/internal/interface/gmail"
	repo "tabelog-sync-service/internal/interface/repository"
	"tabelog-sync-service/internal/interface/sheets"
	"tabelog-sync-service/internal/usecase"
	"tabelog-sync-service/pkg/logger"
	"tabelog-sync-service/pkg/metrics"
	"tabelog-sync-service/pkg/utils"
	"tabelog-sync-service/templates"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"
)

func main() {
	// Load configuration before anything touches an external system
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.NewLogger("info", "").Fatal("Failed to load config", "error", err)
	}

	// Create logger
	zl := logger.NewLogger(cfg.LogLevel, cfg.LogFile)
	defer zl.Sync()
	log := zl.With("version", cfg.AppVersion)
	log.Info("Starting Tabelog Sync Service", "timezone", cfg.Timezone, "sink", cfg.SinkBackend)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.NewMetrics("tabelog_sync", prometheus.DefaultRegisterer)

	// Set up MongoDB connection
	log.Info("Connecting to MongoDB")
	mongoClient, db, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDB, cfg.MongoUser, cfg.MongoPassword)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}
	emailRepo := repo.NewMongoEmailRepository(ctx, db, log)

	// Set up Google OAuth, shared by Gmail, Calendar and Sheets
	googleOAuth := oauth.NewGoogleOAuth(
		cfg.GmailClientID,
		cfg.GmailClientSecret,
		cfg.GmailRefreshToken,
		"",
		log,
	)
	clientOpt := option.WithTokenSource(googleOAuth.GetTokenSource(ctx))

	calendarRepo, err := calendar.NewGoogleCalendarRepository(ctx, cfg.CalendarID, cfg.Location, log, clientOpt)
	if err != nil {
		log.Fatal("Failed to create Calendar service", "error", err)
	}

	var reservationLog repository.ReservationLogRepository
	switch cfg.SinkBackend {
	case config.SinkPostgres:
		gormDB, err := persistence.NewPostgresDB(cfg.PostgresDSN)
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", "error", err)
		}
		gormRepo := repo.NewGormReservationLogRepository(gormDB)
		if err := gormRepo.Migrate(ctx); err != nil {
			log.Fatal("Failed to migrate reservation log tables", "error", err)
		}
		reservationLog = gormRepo
	default:
		sheetsRepo, err := sheets.NewSheetsReservationLogRepository(ctx, cfg.SpreadsheetID, cfg.SheetName, cfg.DailySummarySheet, log, clientOpt)
		if err != nil {
			log.Fatal("Failed to create Sheets service", "error", err)
		}
		reservationLog = sheetsRepo
	}

	var notifier repository.NotificationRepository
	if cfg.SlackWebhookURL != "" {
		notifier = repo.NewSlackRepository(cfg.SlackWebhookURL, log)
	} else {
		log.Warn("Slack webhook URL is not configured, notifications disabled")
	}

	parser := utils.NewReservationParser(log)
	reconciler := usecase.NewCalendarReconciler(calendarRepo, cfg.Location, cfg.CalendarLookaheadDays, cfg.EventDurationMinutes, log)
	processor := usecase.NewReservationProcessor(
		parser,
		reconciler,
		reservationLog,
		notifier,
		emailRepo,
		m,
		cfg.Location,
		cfg.DailySummaryEnabled,
		log,
	)

	// Register handlers
	subjectRouter := router.NewSubjectRouter(log)
	subjectRouter.Register(templates.NewDailySummaryHandler(processor, log))
	subjectRouter.Register(templates.NewNewReservationHandler(processor, log))
	subjectRouter.Register(templates.NewChangedReservationHandler(processor, log))
	subjectRouter.Register(templates.NewCancelledReservationHandler(processor, log))

	orchestrator := usecase.NewEmailOrchestrator(emailRepo, subjectRouter, m, log)
	orchestrator.RecoverInterrupted(ctx)

	mailbox, err := gmail.NewMailboxService(
		ctx,
		orchestrator,
		gmail.Labels{Inbox: cfg.LabelInbox, Done: cfg.LabelDone, Contact: cfg.LabelContact},
		m,
		log,
		cfg.GmailPollInterval,
		clientOpt,
	)
	if err != nil {
		log.Fatal("Failed to create Gmail service", "error", err)
	}

	// Set up HTTP server for metrics
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return mailbox.StartPolling(gctx)
	})

	g.Go(func() error {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP server shutdown error", "error", err)
		}
		if err := mongoClient.Disconnect(shutdownCtx); err != nil {
			log.Error("MongoDB disconnect error", "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("Service stopped with error", "error", err)
	}

	log.Info("Tabelog Sync Service stopped")
}
