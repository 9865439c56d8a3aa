package main

import (
	"context"
	"time"

	"github.com/RoGogDBD/influx-writer/internal/client"
	"github.com/RoGogDBD/influx-writer/internal/collector"
	"go.uber.org/zap"
)

// writer опрашивает collector и отправляет накопленные измерения через sender.
type writer struct {
	collector *collector.Collector
	sender    client.Sender
	timeout   time.Duration
	logger    *zap.Logger
}

// run работает до отмены ctx. Перед выходом отправляет то, что успело накопиться.
func (w *writer) run(ctx context.Context, poll, report time.Duration) {
	pollTicker := time.NewTicker(poll)
	reportTicker := time.NewTicker(report)
	defer pollTicker.Stop()
	defer reportTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), w.timeout)
			_ = w.flush(shutdownCtx)
			cancel()
			return
		case <-pollTicker.C:
			if err := w.collector.Poll(ctx); err != nil {
				w.logger.Warn("Failed to collect host measurements", zap.Error(err))
			}
		case <-reportTicker.C:
			_ = w.flush(ctx)
		}
	}
}

// flush отправляет накопленные измерения одним пакетом.
// При ошибке пакет отбрасывается.
func (w *writer) flush(ctx context.Context) error {
	ms := w.collector.Drain()
	if len(ms) == 0 {
		return nil
	}
	if err := client.Write(ctx, w.sender, ms, w.timeout); err != nil {
		w.logger.Error("Failed to write measurements", zap.Error(err), zap.Int("count", len(ms)))
		return err
	}
	w.logger.Info("Measurements written", zap.Int("count", len(ms)))
	return nil
}
