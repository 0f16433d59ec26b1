// Command drf-mock serves an in-memory copy of the DRF token and profile
// endpoints for local development of the profile dashboard.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/vilaca/profile-dashboard/internal/logging"
	"github.com/vilaca/profile-dashboard/internal/mockdrf"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("drf-mock: %v", err)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet("drf-mock", pflag.ExitOnError)
	addr := fs.String("addr", "127.0.0.1:8000", "listen address")
	seedPath := fs.String("seed", "", "YAML seed file with users and profiles (built-in data when empty)")
	signingKey := fs.String("signing-key", os.Getenv("DRF_MOCK_SIGNING_KEY"), "HMAC key for access tokens (random when empty)")
	accessTTL := fs.Duration("access-ttl", 5*time.Minute, "lifetime of issued access tokens")
	pageSize := fs.Int("page-size", 10, "profiles per page")
	logLevel := fs.String("log-level", "info", "log level: debug, info, warn, error")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger, err := logging.New(os.Stderr, *logLevel, "text")
	if err != nil {
		return err
	}

	seed, err := mockdrf.LoadSeed(*seedPath)
	if err != nil {
		return err
	}

	key := []byte(*signingKey)
	if len(key) == 0 {
		key, err = mockdrf.RandomKey()
		if err != nil {
			return err
		}
	}

	server, err := mockdrf.NewServer(seed, mockdrf.Config{
		SigningKey: key,
		AccessTTL:  *accessTTL,
		PageSize:   *pageSize,
	}, logging.NewPrintfLogger(logger, slog.LevelInfo, "drf-mock"))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveDone := make(chan error, 1)
	go func() {
		serveDone <- httpServer.ListenAndServe()
	}()

	logger.Info("mock DRF backend listening",
		"address", *addr,
		"users", len(seed.Users),
		"profiles", len(seed.Profiles),
	)

	select {
	case err := <-serveDone:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
