// Command swatchd serves surface preview sessions over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gogpu/swatch"
	"github.com/gogpu/swatch/config"
	"github.com/gogpu/swatch/internal/server"
	"github.com/gogpu/swatch/store"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML configuration file")
		addr       = flag.String("addr", "", "listen address (overrides config)")
		dbPath     = flag.String("db", "", "preferences database (overrides config)")
		logLevel   = flag.String("log-level", envOr("LOG_LEVEL", "info"), "debug, info, warn or error")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(*logLevel)}))
	swatch.SetLogger(logger)

	if err := run(*configPath, *addr, *dbPath, logger); err != nil {
		logger.Error("swatchd stopped", "err", err)
		os.Exit(1)
	}
}

func run(configPath, addr, dbPath string, logger *slog.Logger) error {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if dbPath != "" {
		cfg.Server.DBPath = dbPath
	}

	st, err := store.Open(cfg.Server.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	srv, err := server.New(cfg, server.WithStore(st))
	if err != nil {
		return err
	}
	defer srv.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go srv.Janitor(ctx, time.Minute)

	hs := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		logger.Info("swatchd listening", "addr", cfg.Server.Addr, "db", cfg.Server.DBPath)
		errc <- hs.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("swatchd shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return hs.Shutdown(shutdownCtx)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
