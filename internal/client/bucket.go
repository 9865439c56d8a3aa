package client

import (
	"context"
	"fmt"
	"time"

	"github.com/RoGogDBD/influx-writer/internal/config"
	"github.com/RoGogDBD/influx-writer/internal/lineprotocol"
	"go.uber.org/zap"
)

// Bucket — эндпоинт записи в конкретный бакет организации.
// Использует resty-клиент породившего его Client.
type Bucket struct {
	client *Client
	org    string
	name   string
	url    string
}

// Org возвращает имя организации.
func (b *Bucket) Org() string { return b.org }

// Name возвращает имя бакета.
func (b *Bucket) Name() string { return b.name }

// URL возвращает адрес записи с параметрами org и bucket.
func (b *Bucket) URL() string { return b.url }

// Write кодирует измерения и отправляет их одним запросом.
func (b *Bucket) Write(ctx context.Context, ms []*lineprotocol.Measurement, timeout time.Duration) error {
	return Write(ctx, b, ms, timeout)
}

// Send отправляет payload POST-запросом на эндпоинт записи.
//
// Успехом считается любой код 2xx. Сетевая ошибка, истечение таймаута или
// иной код ответа возвращаются как *TransportError.
func (b *Bucket) Send(ctx context.Context, payload []byte, timeout time.Duration) error {
	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	logger := b.client.logger
	logger.Debug("Sending measurements",
		zap.String("url", b.url),
		zap.ByteString("body", payload),
	)

	body := payload
	req := b.client.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType)

	if b.client.gzip {
		compressed, err := config.GzipCompress(payload)
		if err != nil {
			return &TransportError{Op: "post", URL: b.url, Err: fmt.Errorf("failed to compress body: %w", err)}
		}
		body = compressed
		req.SetHeader("Content-Encoding", "gzip")
	}

	resp, err := req.SetBody(body).Post(b.url)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("%w: %w", ctxErr, err)
		}
		return &TransportError{Op: "post", URL: b.url, Err: err}
	}

	if !resp.IsSuccess() {
		return &TransportError{
			Op:         "post",
			URL:        b.url,
			StatusCode: resp.StatusCode(),
			Body:       resp.String(),
			Err:        ErrUnexpectedStatus,
		}
	}

	logger.Debug("Measurements written",
		zap.String("url", b.url),
		zap.Int("status", resp.StatusCode()),
		zap.Int("bytes", len(payload)),
	)
	return nil
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
