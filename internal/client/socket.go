package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"
)

// SocketSender отправляет пакеты в TCP-сокет, например во входной плагин
// socket_listener Telegraf. Для каждой отправки открывается новое соединение.
type SocketSender struct {
	addr   string
	dialer net.Dialer
	logger *zap.Logger
}

// NewSocketSender создаёт отправителя для адреса host:port.
func NewSocketSender(addr string, logger *zap.Logger) (*SocketSender, error) {
	if addr == "" {
		return nil, errors.New("endpoint is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SocketSender{addr: addr, logger: logger}, nil
}

// Addr возвращает адрес назначения.
func (s *SocketSender) Addr() string { return s.addr }

// Send пишет payload и завершающий перевод строки в новое TCP-соединение.
// Пустой payload не отправляется.
func (s *SocketSender) Send(ctx context.Context, payload []byte, timeout time.Duration) error {
	if len(payload) == 0 {
		return nil
	}

	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	conn, err := s.dialer.DialContext(ctx, "tcp", s.addr)
	if err != nil {
		return &TransportError{Op: "dial", URL: s.addr, Err: fmt.Errorf("failed to connect: %w", err)}
	}
	defer func() { _ = conn.Close() }()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return &TransportError{Op: "write", URL: s.addr, Err: err}
		}
	}

	s.logger.Debug("Sending measurements", zap.String("addr", s.addr), zap.ByteString("body", payload))

	w := bufio.NewWriter(conn)
	if _, err := w.Write(payload); err != nil {
		return &TransportError{Op: "write", URL: s.addr, Err: err}
	}
	if err := w.WriteByte('\n'); err != nil {
		return &TransportError{Op: "write", URL: s.addr, Err: err}
	}
	if err := w.Flush(); err != nil {
		return &TransportError{Op: "write", URL: s.addr, Err: err}
	}
	return nil
}
