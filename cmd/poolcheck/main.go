// cmd/poolcheck/main.go
//
// dbpool – pool bootstrap checker and exporter.
//
// Boot sequence
// -------------
//
//  1. Load env vars (jail-wide file → .env fallback).
//
//  2. Start rotating logger (tees to console when running in a TTY).
//
//  3. Load and validate the YAML config; resolve `vault:` secret
//     references when VAULT_ADDR is set.
//
//  4. Bootstrap the connection pool (diagnostic report, then connect).
//
//  5. One-shot mode: ping the pool, report, exit.
//     With -listen: register the Prometheus pool collector and serve
//     /metrics and /healthz until SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/yanizio/dbpool/internal/config"
	"github.com/yanizio/dbpool/internal/database"
	"github.com/yanizio/dbpool/internal/logger"
	"github.com/yanizio/dbpool/internal/metrics"
	"github.com/yanizio/dbpool/internal/vault"
)

const serverEnvPath = "/usr/local/etc/dbpool/global.env"

// loadEnv prefers the jail-wide env file; on dev it falls back to .env.
func loadEnv() {
	if _, err := os.Stat(serverEnvPath); err == nil {
		_ = godotenv.Load(serverEnvPath)
		return
	}
	_ = godotenv.Load()
}

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func init() { loadEnv() }

func main() {
	configPath := flag.String("config", "conf/dbpool.yaml", "path to the YAML config file")
	listenAddr := flag.String("listen", "", "serve /metrics and /healthz on this address instead of exiting")
	flag.Parse()

	rootDir, _ := os.Getwd()
	logOut, err := logger.New(rootDir, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}
	defer logOut.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	//
	// ── 1.  Config load and secret resolution ──────────────────────────
	//
	cfg, err := config.Load(*configPath)
	if err != nil {
		logOut.Fatalw("load config", "file", *configPath, "err", err)
	}

	if os.Getenv("VAULT_ADDR") != "" {
		vcli, err := vault.New()
		if err != nil {
			logOut.Fatalw("vault client", "err", err)
		}
		if err := config.ResolveSecrets(ctx, cfg, vcli); err != nil {
			logOut.Fatalw("resolve secrets", "err", err)
		}
	}

	//
	// ── 2.  Pool bootstrap ──────────────────────────────────────────────
	//
	pool, err := database.CreateConnectionPool(ctx, cfg.Database, logOut)
	if err != nil {
		logOut.Fatalw("create connection pool", "endpoint", cfg.Database.Address(), "err", err)
	}
	defer pool.Close()

	//
	// ── 3.  One-shot check ──────────────────────────────────────────────
	//
	if *listenAddr == "" {
		pingCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Database.PoolOptions.AcquireTimeout))
		defer cancel()
		if err := pool.PingContext(pingCtx); err != nil {
			logOut.Fatalw("pool check failed", "endpoint", pool.Endpoint(), "err", err)
		}
		logOut.Infow("pool check ok", "endpoint", pool.Endpoint())
		return
	}

	//
	// ── 4.  Exporter mode: /metrics and /healthz until signal ──────────
	//
	prometheus.MustRegister(metrics.NewPoolCollector(cfg.Database.DatabaseName, pool))

	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if err := pool.PingContext(req.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: *listenAddr, Handler: r}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logOut.Infow("exporter listening", "addr", *listenAddr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})

	if err := g.Wait(); err != nil {
		logOut.Fatalw("exporter stopped", "err", err)
	}
	logOut.Infow("exporter shut down cleanly")
}
