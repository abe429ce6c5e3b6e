package main

import (
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/tuannm99/novabuf/internal"
	"github.com/tuannm99/novabuf/internal/bufferpool"
	"github.com/tuannm99/novabuf/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	pages := flag.Int("pages", 256, "Number of pages to create")
	rounds := flag.Int("rounds", 4, "Read-modify-write passes over the hot set")
	hold := flag.Bool("hold", false, "Keep serving /metrics after the workload until interrupted")
	flag.Parse()

	cfg, err := internal.LoadConfig(*configPath)
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	level, err := cfg.LogLevel()
	if err != nil {
		slog.Error("parse log level", "level", cfg.Log.Level, "err", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	metrics := bufferpool.NewMetrics(reg, cfg.AppName)

	if cfg.Metrics.Addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", "addr", cfg.Metrics.Addr, "err", err)
			}
		}()
		logger.Info("serving metrics", "addr", cfg.Metrics.Addr)
	}

	disk, err := storage.OpenFileDiskManager(storage.LocalFileSet{
		Dir:  cfg.Storage.Workdir,
		Base: cfg.Storage.Base,
	})
	if err != nil {
		logger.Error("open disk manager", "workdir", cfg.Storage.Workdir, "err", err)
		os.Exit(1)
	}

	bpm := bufferpool.NewManager(disk, cfg.BufferPool.PoolSize,
		bufferpool.WithMaxUsageCount(uint32(cfg.BufferPool.MaxUsageCount)),
		bufferpool.WithLogger(logger),
		bufferpool.WithMetrics(metrics),
	)

	runErr := run(bpm, *pages, *rounds, logger)
	if err := bpm.Close(); err != nil {
		logger.Error("close buffer pool", "err", err)
		runErr = multierr.Append(runErr, err)
	}

	s := bpm.Stats()
	logger.Info("workload done",
		"pool_size", bpm.PoolSize(),
		"hits", s.Hits,
		"misses", s.Misses,
		"evictions", s.Evictions,
		"writebacks", s.Writebacks,
		"flushes", s.Flushes,
		"no_free_buffer", s.Exhaustions,
	)

	if *hold && cfg.Metrics.Addr != "" {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
	}
	if runErr != nil {
		os.Exit(1)
	}
}
