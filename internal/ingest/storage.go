package ingest

import (
	"context"
	"maps"
	"sync"

	models "github.com/RoGogDBD/influx-writer/internal/model"
)

// Storage — хранилище принятых точек.
type Storage interface {
	// Append сохраняет точки одной записи целиком.
	Append(ctx context.Context, points []models.Point) error
	// Points возвращает точки bucket организации org в порядке приёма.
	Points(ctx context.Context, org, bucket string) ([]models.Point, error)
	// Ping проверяет доступность хранилища.
	Ping(ctx context.Context) error
}

type bucketKey struct {
	org, bucket string
}

// MemStorage хранит точки в памяти, сгруппированными по org и bucket.
type MemStorage struct {
	mu      sync.RWMutex
	buckets map[bucketKey][]models.Point
}

// NewMemStorage создаёт пустое хранилище в памяти.
func NewMemStorage() *MemStorage {
	return &MemStorage{buckets: make(map[bucketKey][]models.Point)}
}

func (s *MemStorage) Append(_ context.Context, points []models.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range points {
		k := bucketKey{org: p.Org, bucket: p.Bucket}
		s.buckets[k] = append(s.buckets[k], clonePoint(p))
	}
	return nil
}

func (s *MemStorage) Points(_ context.Context, org, bucket string) ([]models.Point, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.buckets[bucketKey{org: org, bucket: bucket}]
	out := make([]models.Point, 0, len(stored))
	for _, p := range stored {
		out = append(out, clonePoint(p))
	}
	return out, nil
}

func (s *MemStorage) Ping(context.Context) error { return nil }

// Len возвращает общее число точек во всех bucket.
func (s *MemStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, ps := range s.buckets {
		n += len(ps)
	}
	return n
}

func clonePoint(p models.Point) models.Point {
	p.Tags = maps.Clone(p.Tags)
	p.Fields = maps.Clone(p.Fields)
	return p
}
