package config

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGzipCompressDecompress(t *testing.T) {
	data := []byte("cpu,host=h1 usage=1.5 0\nmem free=10u 0")

	compressed, err := GzipCompress(data)
	require.NoError(t, err)
	require.NotEqual(t, data, compressed)

	got, err := GzipDecompress(bytes.NewReader(compressed))
	require.NoError(t, err)
	require.Equal(t, data, got)

	_, err = GzipDecompress(bytes.NewReader(data))
	require.Error(t, err)
}

func TestGzipRequestMiddleware_TableDriven(t *testing.T) {
	plain := []byte("m v=1 0")
	compressed, err := GzipCompress(plain)
	require.NoError(t, err)

	tests := []struct {
		name      string
		body      []byte
		encoding  string
		expStatus int
		expBody   string
	}{
		{"plain", plain, "", http.StatusOK, string(plain)},
		{"gzip", compressed, "gzip", http.StatusOK, string(plain)},
		{"broken gzip", plain, "gzip", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			var got []byte
			h := GzipRequestMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, _ = io.ReadAll(r.Body)
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodPost, "/api/v2/write", bytes.NewReader(tt.body))
			if tt.encoding != "" {
				req.Header.Set("Content-Encoding", tt.encoding)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, tt.expStatus, rec.Code)
			if tt.expStatus == http.StatusOK {
				require.Equal(t, tt.expBody, string(got))
			}
		})
	}
}
