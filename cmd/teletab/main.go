// Teletab serves the telemetry-table web application: a registry of
// domain objects (sine wave generators, telemetry tables), live telemetry
// over server-sent events, and the table widget exercised by the e2e
// suite in e2e/.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/teletab/teletab/cmd/teletab/server"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	addr := flag.String("addr", "", "listen address, overrides config")
	flag.Parse()

	cfg, err := server.LoadConfig(*configPath)
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if cfg.Addr == "" || cfg.Addr == ":0" {
		cfg.Addr = ":8080"
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(log)
	cfg.Logger = log

	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Error("create server", "error", err)
		os.Exit(1)
	}

	listenAddr, err := srv.Start()
	if err != nil {
		log.Error("start server", "error", err)
		os.Exit(1)
	}
	log.Info("teletab listening", "addr", listenAddr, "url", srv.BaseURL())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "error", err)
		os.Exit(1)
	}
}
