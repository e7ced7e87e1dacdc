// Command evsessions loads EV charging session datasets into the local
// two-layer cache and prints a per-dataset summary. With -publish it also
// exports the canonical sessions to the configured Kafka sink topic.
//
// Usage:
//
//	evsessions -dataset ACN_Caltech
//	evsessions -dataset ASR -force
//	evsessions -init-token
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/voltcurve/evsessions/internal/adapter/acn"
	httpadapter "github.com/voltcurve/evsessions/internal/adapter/http"
	kafkaadapter "github.com/voltcurve/evsessions/internal/adapter/kafka"
	"github.com/voltcurve/evsessions/internal/config"
	"github.com/voltcurve/evsessions/internal/domain"
	"github.com/voltcurve/evsessions/internal/observability"
	"github.com/voltcurve/evsessions/internal/pipeline"
)

func main() {
	datasets := flag.String("dataset", "", "comma-separated dataset identifiers to load (empty loads all)")
	force := flag.Bool("force", false, "refresh from the source even when cached files exist")
	publish := flag.Bool("publish", false, "publish loaded sessions to the Kafka sink topic")
	initToken := flag.Bool("init-token", false, "create a placeholder ACN API token file and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)

	if *initToken {
		if err := acn.Bootstrap(cfg.ACNTokenFile); err != nil {
			logger.Error("token bootstrap failed", "error", err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s; replace the placeholder with your ACN API token\n", cfg.ACNTokenFile)
		return
	}

	metrics := observability.NewMetrics()

	registry, err := pipeline.NewRegistry(cfg, logger, metrics)
	if err != nil {
		logger.Error("failed to initialize registry", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Metrics endpoint is optional for one-shot runs.
	var srv *httpadapter.Server
	if cfg.MetricsAddr != "" {
		srv = httpadapter.NewServer(cfg.MetricsAddr, registry, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
	}

	var writer *kafkaadapter.Writer
	if *publish {
		if !cfg.KafkaEnabled {
			logger.Error("publish requested but no Kafka brokers configured")
			os.Exit(1)
		}
		writer = kafkaadapter.NewWriter(cfg, logger)
	}

	ids := registry.DatasetIDs()
	if *datasets != "" {
		ids = strings.Split(*datasets, ",")
		for i := range ids {
			ids[i] = strings.TrimSpace(ids[i])
		}
	}

	code := 0
	for _, id := range ids {
		f, err := registry.Load(ctx, id, *force)
		if err != nil {
			logger.Error("load failed", "dataset", id, "error", err)
			code = 1
			continue
		}
		fmt.Printf("%-14s %7d sessions\n", id, f.NumRows())

		if writer != nil {
			sessions, err := domain.Sessions(f)
			if err != nil {
				logger.Error("session conversion failed", "dataset", id, "error", err)
				code = 1
				continue
			}
			if err := writer.PublishSessions(ctx, id, sessions); err != nil {
				logger.Error("publish failed", "dataset", id, "error", err)
				code = 1
				continue
			}
			metrics.SessionsPublished.Add(float64(len(sessions)))
		}
	}

	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
	}
	os.Exit(code)
}
