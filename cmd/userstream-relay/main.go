package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bruth/userstream"
	"github.com/bruth/userstream/id"
	"github.com/bruth/userstream/internal/config"
	"github.com/bruth/userstream/relay"
)

func main() {
	cfgPath := flag.String("config", "", "Path to relay YAML config")
	stdin := flag.Bool("stdin", false, "Read event objects from stdin instead of NATS")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	if err := config.Validate(cfg); err != nil {
		slog.Error("config validation failed", "err", err)
		os.Exit(1)
	}

	level, err := cfg.Level()
	if err != nil {
		slog.Error("invalid log level", "err", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	opts, err := relayOptions(cfg, logger)
	if err != nil {
		slog.Error("invalid relay options", "err", err)
		os.Exit(1)
	}

	nc, err := nats.Connect(cfg.NATS.URL, nats.Name("userstream-relay"))
	if err != nil {
		slog.Error("failed to connect to nats", "url", cfg.NATS.URL, "err", err)
		os.Exit(1)
	}
	defer nc.Drain()

	r, err := relay.New(nc, opts...)
	if err != nil {
		slog.Error("failed to create relay", "err", err)
		os.Exit(1)
	}

	storage := nats.FileStorage
	if cfg.Stream.Storage == "memory" {
		storage = nats.MemoryStorage
	}
	err = r.EnsureStream(&relay.StreamConfig{
		Name:        cfg.Stream.Name,
		Description: "Decoded user stream events",
		Storage:     storage,
		Replicas:    cfg.Stream.Replicas,
	})
	if err != nil {
		slog.Error("failed to ensure stream", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Metrics ──────────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		slog.Info("metrics listening", "addr", cfg.MetricsAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server error", "err", err)
		}
	}()

	// ── Relay ────────────────────────────────────────────────────────────────
	if *stdin {
		n, err := r.Pump(ctx, os.Stdin)
		slog.Info("stdin drained", "records", n)
		if err != nil {
			slog.Error("pump stopped", "err", err)
		}
	} else if err := r.Run(ctx, cfg.NATS.Subject); err != nil {
		slog.Error("relay stopped", "err", err)
	}

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutCancel()
	_ = srv.Shutdown(shutCtx)
	slog.Info("goodbye")
}

// relayOptions builds the relay options named by the config.
func relayOptions(cfg *config.Config, logger *slog.Logger) ([]relay.Option, error) {
	gen, err := id.Get(cfg.ID)
	if err != nil {
		return nil, fmt.Errorf("id: %w", err)
	}

	dec, err := userstream.NewDecoder(userstream.PayloadCodec(cfg.PayloadCodec))
	if err != nil {
		return nil, fmt.Errorf("payload_codec: %w", err)
	}

	return []relay.Option{
		relay.Codec(cfg.Codec),
		relay.ID(gen),
		relay.Subject(cfg.Stream.SubjectPrefix),
		relay.Logger(logger),
		relay.Decoder(dec),
	}, nil
}
