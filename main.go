package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/shuttle-draw/internal/club"
	"github.com/mauv0809/shuttle-draw/internal/config"
	"github.com/mauv0809/shuttle-draw/internal/database"
	server "github.com/mauv0809/shuttle-draw/internal/http"
	"github.com/mauv0809/shuttle-draw/internal/matchmaking"
	"github.com/mauv0809/shuttle-draw/internal/metrics"
	"github.com/mauv0809/shuttle-draw/internal/notifier/slack"
	"github.com/mauv0809/shuttle-draw/internal/processor"
	"github.com/mauv0809/shuttle-draw/internal/pubsub"
	"github.com/mauv0809/shuttle-draw/internal/session"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.Warn("Unknown log level, keeping default", "level", cfg.LogLevel)
	}

	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken, cfg.MigrationsDir)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	clubStore := club.New(db)
	sessionStore := session.NewStore(db)
	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()
	notifier := slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)
	saver := session.NewAutosaver(sessionStore, metricsSvc, cfg.Draw.SaveTimeout)

	// Without a Google Cloud project, round events are handed to the processor in-process.
	var proc *processor.Processor
	var pubsubClient pubsub.PubSubClient
	if cfg.ProjectID != "" {
		pubsubClient = pubsub.New(cfg.ProjectID)
	} else {
		log.Info("No GCP project configured, delivering events in-process")
		pubsubClient = pubsub.NewLocal(func(topic pubsub.EventType, data []byte) error {
			return proc.HandleMessage(topic, data)
		})
	}
	proc = processor.New(notifier, pubsubClient)

	drawService := matchmaking.NewService(clubStore, sessionStore, saver, pubsubClient, metricsSvc, matchmaking.Options{
		DefaultCourtCount: cfg.Draw.DefaultCourtCount,
		Location:          cfg.Draw.Location,
	})

	s := server.NewServer(
		drawService,
		metricsSvc,
		metricsHandler,
		cfg,
		notifier,
		proc,
		pubsubClient,
	)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Error("Server error", "error", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", "error", err)
	} else {
		log.Info("Server gracefully stopped")
	}

	// Pending sessions must reach the database before it is closed.
	if err := saver.Close(ctx); err != nil {
		log.Error("Failed to flush pending sessions", "error", err)
	}
	pubsubClient.Close()

	log.Info("Server process shutting down")
}
