// Package client доставляет пакеты line protocol до точки приёма:
// HTTP-эндпоинт записи InfluxDB v2 (Client, Bucket) или TCP-сокет (SocketSender).
//
// Повторных попыток и разбиения пакетов нет: ошибка доставки возвращается
// вызывающему как *TransportError.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/RoGogDBD/influx-writer/internal/lineprotocol"
	"github.com/RoGogDBD/influx-writer/internal/version"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	writePath   = "/api/v2/write"
	contentType = "text/plain; charset=utf-8"
)

// Sender — транспорт, принимающий готовое тело запроса.
// Экземпляр уже несёт адрес назначения, аутентификацию и маршрутизацию.
type Sender interface {
	// Send доставляет payload. Таймаут timeout накладывается поверх ctx;
	// timeout <= 0 означает отсутствие собственного дедлайна.
	Send(ctx context.Context, payload []byte, timeout time.Duration) error
}

// Write кодирует измерения в один пакет и передаёт его транспорту s.
// Пустой срез измерений не отправляется.
func Write(ctx context.Context, s Sender, ms []*lineprotocol.Measurement, timeout time.Duration) error {
	if len(ms) == 0 {
		return nil
	}
	return s.Send(ctx, lineprotocol.AppendBatch(nil, ms), timeout)
}

// Option настраивает Client.
type Option func(*Client)

// WithLogger задаёт логгер клиента.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithGzip включает сжатие тела запроса (Content-Encoding: gzip).
func WithGzip(enabled bool) Option {
	return func(c *Client) { c.gzip = enabled }
}

// WithRestyClient задаёт собственный resty-клиент.
func WithRestyClient(rc *resty.Client) Option {
	return func(c *Client) { c.http = rc }
}

// Client — аутентифицированный клиент эндпоинта записи InfluxDB v2.
//
// Один resty-клиент с заголовком авторизации разделяется всеми Bucket,
// полученными от Client.
type Client struct {
	http     *resty.Client
	writeURL *url.URL
	logger   *zap.Logger
	gzip     bool
}

// New создаёт клиент для сервера rawURL с токеном token.
//
// Адрес записи — <rawURL>/api/v2/write, путь rawURL заменяется.
// Токен передаётся как "Token <token>"; значения с префиксом "Token " или
// "Bearer " используются как есть. Пустой токен не добавляет заголовок.
func New(rawURL, token string, opts ...Option) (*Client, error) {
	base, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse url %q: %w", rawURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid url %q: scheme and host are required", rawURL)
	}

	c := &Client{
		writeURL: base.ResolveReference(&url.URL{Path: writePath}),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = resty.New()
	}

	c.http.SetHeader("User-Agent", version.Get().UserAgent())
	if token != "" {
		c.http.SetHeader("Authorization", authorization(token))
	}

	return c, nil
}

func authorization(token string) string {
	if strings.HasPrefix(token, "Token ") || strings.HasPrefix(token, "Bearer ") {
		return token
	}
	return "Token " + token
}

// WriteURL возвращает адрес эндпоинта записи без параметров маршрутизации.
func (c *Client) WriteURL() string {
	return c.writeURL.String()
}

// Bucket возвращает эндпоинт записи в бакет bucket организации org.
func (c *Client) Bucket(org, bucket string) (*Bucket, error) {
	if org == "" {
		return nil, errors.New("org is required")
	}
	if bucket == "" {
		return nil, errors.New("bucket is required")
	}

	u := *c.writeURL
	q := url.Values{}
	q.Set("org", org)
	q.Set("bucket", bucket)
	u.RawQuery = q.Encode()

	return &Bucket{
		client: c,
		org:    org,
		name:   bucket,
		url:    u.String(),
	}, nil
}
