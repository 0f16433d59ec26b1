package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/vilaca/profile-dashboard/internal/api"
	"github.com/vilaca/profile-dashboard/internal/api/drf"
	"github.com/vilaca/profile-dashboard/internal/config"
	"github.com/vilaca/profile-dashboard/internal/dashboard"
	"github.com/vilaca/profile-dashboard/internal/logging"
	"github.com/vilaca/profile-dashboard/internal/service"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("profile-dashboard: %v", err)
	}
}

func run(args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sessions := buildSessionStore(cfg, logger)
	sessions.Start()
	defer sessions.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           buildServer(cfg, sessions, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveDone := make(chan error, 1)
	go func() {
		serveDone <- server.ListenAndServe()
	}()

	logger.Info("starting profile dashboard",
		"address", "http://localhost"+server.Addr,
		"api_base_url", cfg.APIBaseURL,
		"request_timeout", cfg.RequestTimeout(),
		"session_ttl", cfg.SessionTTL(),
	)

	select {
	case err := <-serveDone:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

// loadConfig layers defaults, the optional YAML file, environment variables
// and command-line flags, in that order.
func loadConfig(args []string) (*config.Config, error) {
	// The config file has to be known before the other flags get their defaults.
	pre := pflag.NewFlagSet("profile-dashboard", pflag.ContinueOnError)
	pre.ParseErrorsWhitelist.UnknownFlags = true
	pre.SetOutput(io.Discard)
	configPath := pre.String("config", "", "")
	_ = pre.Parse(args)

	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		return nil, err
	}

	fs := pflag.NewFlagSet("profile-dashboard", pflag.ExitOnError)
	fs.String("config", *configPath, "path to a YAML configuration file")
	cfg.BindFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// buildSessionStore wires the DRF client, the workflow and the per-browser sessions.
func buildSessionStore(cfg *config.Config, logger *slog.Logger) *service.SessionStore {
	// A zero timeout leaves the transport default in place.
	httpClient := &http.Client{Timeout: cfg.RequestTimeout()}

	client := drf.NewClient(
		api.ClientConfig{BaseURL: cfg.APIBaseURL},
		httpClient,
		logging.NewPrintfLogger(logger, slog.LevelDebug, "drf"),
	)
	workflow := service.NewWorkflow(client, logging.NewPrintfLogger(logger, slog.LevelInfo, "workflow"))

	sessionLogger := logging.NewPrintfLogger(logger, slog.LevelInfo, "session")
	return service.NewSessionStore(func() *service.Session {
		return service.NewSession(workflow, sessionLogger)
	}, cfg.SessionTTL(), sessionLogger)
}

// buildServer wires up the dashboard and returns the configured HTTP handler.
// This is the composition root where all dependencies are created and injected.
func buildServer(cfg *config.Config, sessions *service.SessionStore, logger *slog.Logger) http.Handler {
	handler := dashboard.NewHandler(dashboard.HandlerConfig{
		Renderer:          dashboard.NewHTMLRenderer(),
		Logger:            logging.NewPrintfLogger(logger, slog.LevelInfo, "dashboard"),
		Sessions:          dashboard.NewSessionProvider(sessions),
		UIRefreshInterval: cfg.UIRefreshSeconds,
	})

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	return mux
}
