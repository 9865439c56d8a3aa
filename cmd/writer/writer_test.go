package main

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/RoGogDBD/influx-writer/internal/collector"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingSender struct {
	mu       sync.Mutex
	payloads []string
	err      error
}

func (s *recordingSender) Send(_ context.Context, payload []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads = append(s.payloads, string(payload))
	return s.err
}

func (s *recordingSender) Payloads() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.payloads...)
}

func TestWriter_Flush(t *testing.T) {
	sender := &recordingSender{}
	w := &writer{
		collector: collector.New("h1", collector.WithHostSource(nil)),
		sender:    sender,
		timeout:   time.Second,
		logger:    zap.NewNop(),
	}

	require.NoError(t, w.flush(context.Background()))
	require.Empty(t, sender.Payloads())

	require.NoError(t, w.collector.Poll(context.Background()))
	require.NoError(t, w.collector.Poll(context.Background()))
	require.NoError(t, w.flush(context.Background()))

	payloads := sender.Payloads()
	require.Len(t, payloads, 1)
	lines := strings.Split(payloads[0], "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		require.True(t, strings.HasPrefix(line, "go_runtime,host=h1 "), line)
	}
}

func TestWriter_FlushErrorDropsBatch(t *testing.T) {
	sender := &recordingSender{err: errors.New("connection refused")}
	w := &writer{
		collector: collector.New("h1", collector.WithHostSource(nil)),
		sender:    sender,
		timeout:   time.Second,
		logger:    zap.NewNop(),
	}

	require.NoError(t, w.collector.Poll(context.Background()))
	require.Error(t, w.flush(context.Background()))
	require.Empty(t, w.collector.Drain())
}

func TestWriter_RunFlushesOnShutdown(t *testing.T) {
	sender := &recordingSender{}
	w := &writer{
		collector: collector.New("h1", collector.WithHostSource(nil)),
		sender:    sender,
		timeout:   time.Second,
		logger:    zap.NewNop(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.run(ctx, 10*time.Millisecond, time.Hour)
		close(done)
	}()

	require.Eventually(t, func() bool { return w.collector.PollCount() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	<-done

	payloads := sender.Payloads()
	require.Len(t, payloads, 1)
	require.GreaterOrEqual(t, strings.Count(payloads[0], "\n")+1, 3)
}
