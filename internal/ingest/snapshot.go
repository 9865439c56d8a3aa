package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/RoGogDBD/influx-writer/internal/lineprotocol"
	models "github.com/RoGogDBD/influx-writer/internal/model"
	lpv2 "github.com/influxdata/line-protocol/v2/lineprotocol"
	"go.uber.org/zap"
)

// snapshotBucket — точки одного bucket в файле снимка.
// Строки хранятся в line protocol, поэтому типы полей переживают перезапуск.
type snapshotBucket struct {
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
	Lines  string `json:"lines"`
}

// Snapshotter сохраняет содержимое MemStorage в файл и восстанавливает его.
type Snapshotter struct {
	mu      sync.Mutex
	storage *MemStorage
	path    string
	logger  *zap.Logger
}

// NewSnapshotter создаёт Snapshotter для файла path.
func NewSnapshotter(storage *MemStorage, path string, logger *zap.Logger) *Snapshotter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Snapshotter{storage: storage, path: path, logger: logger}
}

// Save записывает снимок во временный файл и атомарно подменяет им основной.
func (s *Snapshotter) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(s.encode())
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return os.Rename(tmp, s.path)
}

// Load добавляет точки из файла снимка в хранилище.
// Отсутствующий файл ошибкой не считается.
func (s *Snapshotter) Load(ctx context.Context) error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}

	var buckets []snapshotBucket
	if err := json.Unmarshal(data, &buckets); err != nil {
		return fmt.Errorf("parse snapshot: %w", err)
	}
	for _, b := range buckets {
		points, err := DecodePoints([]byte(b.Lines), b.Org, b.Bucket, lpv2.Nanosecond, time.Now())
		if err != nil {
			return fmt.Errorf("snapshot bucket %s/%s: %w", b.Org, b.Bucket, err)
		}
		if err := s.storage.Append(ctx, points); err != nil {
			return err
		}
	}
	return nil
}

// SaveLogged сохраняет снимок, записывая ошибку в лог.
func (s *Snapshotter) SaveLogged() {
	if err := s.Save(); err != nil {
		s.logger.Error("Failed to save snapshot", zap.Error(err), zap.String("path", s.path))
	}
}

// Run сохраняет снимок каждые interval до отмены ctx и ещё раз при выходе.
func (s *Snapshotter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.SaveLogged()
			return
		case <-ticker.C:
			s.SaveLogged()
		}
	}
}

// encode переводит хранилище в снимок. Точки, которые нельзя закодировать,
// пропускаются с предупреждением в логе, остальные сохраняются.
func (s *Snapshotter) encode() []snapshotBucket {
	s.storage.mu.RLock()
	defer s.storage.mu.RUnlock()

	keys := make([]bucketKey, 0, len(s.storage.buckets))
	for k := range s.storage.buckets {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b bucketKey) int {
		if c := strings.Compare(a.org, b.org); c != 0 {
			return c
		}
		return strings.Compare(a.bucket, b.bucket)
	})

	out := make([]snapshotBucket, 0, len(keys))
	for _, k := range keys {
		ms := make([]*lineprotocol.Measurement, 0, len(s.storage.buckets[k]))
		for _, p := range s.storage.buckets[k] {
			m, err := pointMeasurement(p)
			if err != nil {
				s.logger.Warn("Point skipped in snapshot",
					zap.Error(err),
					zap.String("org", k.org),
					zap.String("bucket", k.bucket),
					zap.String("measurement", p.Measurement),
				)
				continue
			}
			ms = append(ms, m)
		}
		if len(ms) == 0 {
			continue
		}
		out = append(out, snapshotBucket{Org: k.org, Bucket: k.bucket, Lines: lineprotocol.EncodeBatch(ms)})
	}
	return out
}

func pointMeasurement(p models.Point) (*lineprotocol.Measurement, error) {
	fields := make(map[string]lineprotocol.FieldValue, len(p.Fields))
	for k, v := range p.Fields {
		fv, err := lineprotocol.FieldValueOf(v)
		if err != nil {
			return nil, err
		}
		fields[k] = fv
	}
	ts := time.Unix(0, p.Timestamp)
	return lineprotocol.BuildMeasurement(p.Measurement, fields, p.Tags, &ts)
}
