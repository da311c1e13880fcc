package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"invoice-prize-checker-go/internal/config"
	"invoice-prize-checker-go/internal/db"
	"invoice-prize-checker-go/internal/fetcher"
	"invoice-prize-checker-go/internal/handlers"
	"invoice-prize-checker-go/internal/metrics"
	"invoice-prize-checker-go/internal/refresher"
	"invoice-prize-checker-go/internal/repository"
	"invoice-prize-checker-go/internal/scanner"
	"invoice-prize-checker-go/internal/server"
	"invoice-prize-checker-go/internal/source"
)

// Run initializes and starts the application
func Run() error {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	logrus.Info("Starting Invoice Prize Checker Service")

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	dbConn, err := db.Init(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	m := metrics.NewMetrics()
	repo := repository.New(dbConn)
	feed := source.New(&cfg.Lottery)

	var msgSource fetcher.MessageSource
	if cfg.Gmail.UseIMAP {
		msgSource, err = fetcher.NewIMAPSource(&cfg.Gmail)
		if err != nil {
			return fmt.Errorf("failed to create IMAP source: %w", err)
		}
		logrus.Info("Using IMAP for mailbox scanning")
	} else {
		session := fetcher.NewSession(context.Background(), &cfg.Gmail)
		msgSource, err = fetcher.NewGmailSource(context.Background(), session)
		if err != nil {
			return fmt.Errorf("failed to create Gmail source: %w", err)
		}
		logrus.Info("Using Gmail API for mailbox scanning")
	}

	scan := scanner.New(
		msgSource,
		repo,
		m,
		cfg.Scanner.Label,
		cfg.Scanner.MaxMessages,
		time.Duration(cfg.Scanner.MessageDelayMS)*time.Millisecond,
	)

	fresh := refresher.New(feed, m, cfg.Lottery.RefreshIntervalMinutes)

	h := handlers.NewHandlers(dbConn, repo, feed, scan, m)
	router := server.SetupRouter(h)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	if err := fresh.Start(); err != nil {
		return fmt.Errorf("failed to start refresher: %w", err)
	}

	// Warm the winning-number cache so the first check doesn't pay the
	// feed round trip.
	go func() {
		if _, err := feed.Latest(context.Background(), false); err != nil {
			logrus.Warnf("Initial winning-numbers load failed: %v", err)
		}
	}()

	go func() {
		logrus.Infof("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	scan.Cancel()
	if err := fresh.Stop(); err != nil {
		logrus.Errorf("Failed to stop refresher: %v", err)
	}

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("HTTP server shutdown error: %v", err)
	}

	if err := msgSource.Close(); err != nil {
		logrus.Errorf("Failed to close message source: %v", err)
	}

	logrus.Info("Server stopped gracefully")
	return nil
}
