// Command ingest — минимальный совместимый с InfluxDB v2 эндпоинт записи.
// Принимает line protocol и хранит точки в памяти или в PostgreSQL.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RoGogDBD/influx-writer/internal/config"
	"github.com/RoGogDBD/influx-writer/internal/config/db"
	"github.com/RoGogDBD/influx-writer/internal/ingest"
	"github.com/RoGogDBD/influx-writer/internal/version"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	version.PrintBuildInfo(os.Stdout)
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("server failed to start: %v", err)
	}
}

func run(args []string) error {
	cfg, err := parseIngestConfig(args)
	if err != nil {
		return err
	}

	logger, err := config.Initialize(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage, closeStorage, err := newStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStorage()

	h := ingest.NewHandler(storage, cfg.Token, logger)

	if mem, ok := storage.(*ingest.MemStorage); ok && cfg.FileStorage != "" {
		stopSnapshots, snapErr := setupSnapshots(ctx, cfg, mem, h, logger)
		if snapErr != nil {
			return snapErr
		}
		defer stopSnapshots()
	}

	am, err := newAuditManager(cfg, logger)
	if err != nil {
		return err
	}
	if am.HasObservers() {
		h.SetAuditManager(am)
	}

	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           ingest.NewRouter(h, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server started", zap.String("address", cfg.Address))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case serveErr := <-errCh:
		if !errors.Is(serveErr, http.ErrServerClosed) {
			return serveErr
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("Shutting down server")
	return srv.Shutdown(shutdownCtx)
}

// newStorage подключает PostgreSQL, если задан DSN, иначе возвращает хранилище в памяти.
func newStorage(ctx context.Context, cfg *ingestConfig, logger *zap.Logger) (ingest.Storage, func(), error) {
	if cfg.DatabaseDSN == "" {
		logger.Info("No DSN provided, using in-memory storage")
		return ingest.NewMemStorage(), func() {}, nil
	}
	pool, err := db.InitDB(ctx, cfg.DatabaseDSN, cfg.MigrationsDir, logger)
	if err != nil {
		return nil, nil, err
	}
	return ingest.NewPostgresStorage(pool), pool.Close, nil
}

// setupSnapshots восстанавливает точки из файла и включает сохранение снимков:
// после каждой записи при нулевом интервале, иначе периодически.
// Возвращённая функция дожидается финального сохранения.
func setupSnapshots(ctx context.Context, cfg *ingestConfig, mem *ingest.MemStorage, h *ingest.Handler, logger *zap.Logger) (func(), error) {
	snap := ingest.NewSnapshotter(mem, cfg.FileStorage, logger)
	if cfg.Restore {
		if err := snap.Load(ctx); err != nil {
			return nil, err
		}
		logger.Info("Points restored", zap.Int("points", mem.Len()), zap.String("path", cfg.FileStorage))
	}

	if cfg.StoreInterval == 0 {
		h.SetWriteHook(snap.SaveLogged)
		return snap.SaveLogged, nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		snap.Run(runCtx, cfg.StoreInterval)
	}()
	return func() {
		cancel()
		<-done
	}, nil
}

func newAuditManager(cfg *ingestConfig, logger *zap.Logger) (*ingest.AuditManager, error) {
	am := ingest.NewAuditManager(logger)
	if cfg.AuditFile != "" {
		obs, err := ingest.NewFileAuditObserver(cfg.AuditFile)
		if err != nil {
			return nil, err
		}
		am.Attach(obs)
	}
	if cfg.AuditURL != "" {
		am.Attach(ingest.NewHTTPAuditObserver(cfg.AuditURL))
	}
	return am, nil
}
