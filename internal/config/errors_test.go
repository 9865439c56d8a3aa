package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// refusedConnectError возвращает ошибку pgconn для недоступного PostgreSQL,
// такую же, как получает InitDB при старте сервера приёма без базы.
func refusedConnectError(t *testing.T) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := pgconn.Connect(ctx, "postgres://influx@127.0.0.1:1/influx?sslmode=disable&connect_timeout=1")
	require.Error(t, err)
	var connErr *pgconn.ConnectError
	require.ErrorAs(t, err, &connErr)
	return err
}

// TestRetryWithBackoff_TableDriven проверяет повторные попытки на ошибках
// старта сервера приёма: база ещё поднимается, база недоступна, неверный
// пароль, отсутствующий каталог миграций.
func TestRetryWithBackoff_TableDriven(t *testing.T) {
	delay := retryIntervals
	defer func() { retryIntervals = delay }()
	retryIntervals = []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond}

	refused := refusedConnectError(t)
	starting := &pgconn.PgError{Code: "08006", Message: "the database system is starting up"}

	tests := []struct {
		name        string  // Название теста
		errs        []error // Ошибки по попыткам; после исчерпания возвращается nil
		expCalls    int     // Ожидаемое число вызовов
		expWarnings int     // Ожидаемое число предупреждений о повторе
		check       func(t *testing.T, err error)
	}{
		{
			name:        "database starting up then ready",
			errs:        []error{starting},
			expCalls:    2,
			expWarnings: 1,
			check:       func(t *testing.T, err error) { require.NoError(t, err) },
		},
		{
			name:        "ping wrapped class 08 retried",
			errs:        []error{fmt.Errorf("ping postgres: %w", &pgconn.PgError{Code: "08001"}), starting},
			expCalls:    3,
			expWarnings: 2,
			check:       func(t *testing.T, err error) { require.NoError(t, err) },
		},
		{
			name:        "connection refused exhausts attempts",
			errs:        []error{refused, refused, refused, refused},
			expCalls:    3,
			expWarnings: 3,
			check: func(t *testing.T, err error) {
				var connErr *pgconn.ConnectError
				require.ErrorAs(t, err, &connErr)
				require.Contains(t, err.Error(), "operation failed after retries")
			},
		},
		{
			name:     "wrong password fails fast",
			errs:     []error{&pgconn.PgError{Code: "28P01", Message: "password authentication failed"}},
			expCalls: 1,
			check: func(t *testing.T, err error) {
				var pgErr *pgconn.PgError
				require.ErrorAs(t, err, &pgErr)
				require.Equal(t, "28P01", pgErr.Code)
				require.NotContains(t, err.Error(), "after retries")
			},
		},
		{
			name:     "missing migrations fails fast",
			errs:     []error{fmt.Errorf("run migrations: %w", os.ErrNotExist)},
			expCalls: 1,
			check:    func(t *testing.T, err error) { require.ErrorIs(t, err, os.ErrNotExist) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.WarnLevel)
			calls := 0
			err := RetryWithBackoff(context.Background(), zap.New(core), func() error {
				calls++
				if calls <= len(tt.errs) {
					return tt.errs[calls-1]
				}
				return nil
			})

			tt.check(t, err)
			require.Equal(t, tt.expCalls, calls)
			require.Equal(t, tt.expWarnings, logs.FilterMessage("Retriable error").Len())
		})
	}
}

// TestRetryWithBackoff_ContextCanceled проверяет, что остановка сервера во
// время ожидания базы прерывает повторы.
func TestRetryWithBackoff_ContextCanceled(t *testing.T) {
	delay := retryIntervals
	defer func() { retryIntervals = delay }()
	retryIntervals = []time.Duration{time.Minute}

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := RetryWithBackoff(ctx, zap.NewNop(), func() error {
		calls++
		cancel()
		return &pgconn.PgError{Code: "08006"}
	})

	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, calls)
}

// TestIsRetriableError_TableDriven проверяет классификацию ошибок PostgreSQL.
func TestIsRetriableError_TableDriven(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"connection refused", refusedConnectError(t), true},
		{"unable to establish connection", &pgconn.PgError{Code: "08001"}, true},
		{"protocol violation", &pgconn.PgError{Code: "08P01"}, true},
		{"wrapped connection failure", fmt.Errorf("ping: %w", &pgconn.PgError{Code: "08006"}), true},
		{"invalid password", &pgconn.PgError{Code: "28P01"}, false},
		{"database does not exist", &pgconn.PgError{Code: "3D000"}, false},
		{"duplicate points row", &pgconn.PgError{Code: "23505"}, false},
		{"plain error", errors.New("plain"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, isRetriableError(tt.err))
		})
	}
}
