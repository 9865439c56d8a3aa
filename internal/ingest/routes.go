package ingest

import (
	"net/http"

	"github.com/RoGogDBD/influx-writer/internal/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// NewRouter создаёт chi-роутер сервера приёма.
//
// Маршруты:
//   - POST /api/v2/write: запись line protocol
//   - GET /api/v2/points: чтение принятых точек
//   - GET, HEAD /ping: проверка хранилища
func NewRouter(h *Handler, logger *zap.Logger) *chi.Mux {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)         // Уникальный идентификатор запроса
	r.Use(middleware.RealIP)            // Реальный IP клиента
	r.Use(config.RequestLogger(logger)) // Логирование запросов через zap
	r.Use(middleware.Recoverer)         // Восстановление после паники
	r.Use(config.GzipRequestMiddleware) // Распаковка тел с Content-Encoding: gzip

	r.Post("/api/v2/write", h.HandleWrite)
	r.Get("/api/v2/points", h.HandlePoints)
	r.Get("/ping", h.HandlePing)
	r.Head("/ping", h.HandlePing)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found", "route not found")
	})

	return r
}
