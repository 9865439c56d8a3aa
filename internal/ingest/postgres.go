package ingest

import (
	"context"
	"fmt"
	"time"

	models "github.com/RoGogDBD/influx-writer/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	insertPointSQL = `INSERT INTO points (org, bucket, measurement, tags, fields, ts)
VALUES ($1, $2, $3, $4, $5, $6)`
	selectPointsSQL = `SELECT org, bucket, measurement, tags, fields, ts
FROM points WHERE org = $1 AND bucket = $2 ORDER BY id`
)

// PostgresStorage хранит точки в таблице points.
//
// Теги и поля записываются как JSONB; после чтения числовые поля
// приходят в виде float64.
type PostgresStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresStorage оборачивает готовый пул соединений.
func NewPostgresStorage(pool *pgxpool.Pool) *PostgresStorage {
	return &PostgresStorage{pool: pool}
}

// Append вставляет все точки одним batch-запросом внутри транзакции.
func (s *PostgresStorage) Append(ctx context.Context, points []models.Point) error {
	if len(points) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	for _, p := range points {
		tags := p.Tags
		if tags == nil {
			tags = map[string]string{}
		}
		batch.Queue(insertPointSQL, p.Org, p.Bucket, p.Measurement, tags, p.Fields, p.Timestamp)
	}

	br := tx.SendBatch(ctx, batch)
	for range points {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("insert point: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *PostgresStorage) Points(ctx context.Context, org, bucket string) ([]models.Point, error) {
	rows, err := s.pool.Query(ctx, selectPointsSQL, org, bucket)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Point
	for rows.Next() {
		var p models.Point
		if err := rows.Scan(&p.Org, &p.Bucket, &p.Measurement, &p.Tags, &p.Fields, &p.Timestamp); err != nil {
			return nil, err
		}
		if len(p.Tags) == 0 {
			p.Tags = nil
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PostgresStorage) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}
