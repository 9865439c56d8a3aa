// Command writer периодически собирает измерения среды исполнения и хоста
// и записывает их в bucket InfluxDB v2 (или в TCP-сокет line protocol).
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/RoGogDBD/influx-writer/internal/client"
	"github.com/RoGogDBD/influx-writer/internal/collector"
	"github.com/RoGogDBD/influx-writer/internal/config"
	"github.com/RoGogDBD/influx-writer/internal/version"
	"go.uber.org/zap"
)

func main() {
	version.PrintBuildInfo(os.Stdout)
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("writer failed: %v", err)
	}
}

func run(args []string) error {
	cfg, err := parseWriterConfig(args)
	if err != nil {
		return err
	}

	logger, err := config.Initialize(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	sender, err := newSender(cfg, logger)
	if err != nil {
		return err
	}

	hostname, err := os.Hostname()
	if err != nil {
		logger.Warn("Failed to resolve hostname", zap.Error(err))
	}

	logger.Info("Writer started",
		zap.String("url", cfg.URL),
		zap.String("socket", cfg.Socket),
		zap.String("org", cfg.Org),
		zap.String("bucket", cfg.Bucket),
		zap.Duration("poll_interval", cfg.PollInterval),
		zap.Duration("report_interval", cfg.ReportInterval),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := &writer{
		collector: collector.New(hostname),
		sender:    sender,
		timeout:   cfg.WriteTimeout,
		logger:    logger,
	}
	w.run(ctx, cfg.PollInterval, cfg.ReportInterval)

	logger.Info("Writer stopped")
	return nil
}

// newSender выбирает транспорт: TCP-сокет, если он задан, иначе HTTP API записи.
func newSender(cfg *writerConfig, logger *zap.Logger) (client.Sender, error) {
	if cfg.Socket != "" {
		return client.NewSocketSender(cfg.Socket, logger)
	}
	c, err := client.New(cfg.URL, cfg.Token, client.WithLogger(logger), client.WithGzip(cfg.Gzip))
	if err != nil {
		return nil, err
	}
	return c.Bucket(cfg.Org, cfg.Bucket)
}
