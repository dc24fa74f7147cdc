package xtrace

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveWith(t *testing.T, mw func(http.Handler) http.Handler, header string) (seen string, resp *httptest.ResponseRecorder) {
	t.Helper()
	h := mw(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(HeaderRequestID, header)
	}
	resp = httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	return seen, resp
}

func TestHTTPMiddleware(t *testing.T) {
	t.Run("reuse upstream id", func(t *testing.T) {
		seen, resp := serveWith(t, HTTPMiddleware(), "req-abc")
		assert.Equal(t, "req-abc", seen)
		assert.Equal(t, "req-abc", resp.Header().Get(HeaderRequestID))
	})

	t.Run("trim upstream id", func(t *testing.T) {
		seen, _ := serveWith(t, HTTPMiddleware(), "  req-abc ")
		assert.Equal(t, "req-abc", seen)
	})

	t.Run("generate when missing", func(t *testing.T) {
		seen, resp := serveWith(t, HTTPMiddleware(), "")
		require.NotEmpty(t, seen)
		_, err := uuid.Parse(seen)
		require.NoError(t, err)
		assert.Equal(t, seen, resp.Header().Get(HeaderRequestID))
	})

	t.Run("regenerate when invalid", func(t *testing.T) {
		bad := strings.Repeat("x", maxRequestIDLen+1)
		seen, _ := serveWith(t, HTTPMiddleware(), bad)
		assert.NotEqual(t, bad, seen)
		assert.NotEmpty(t, seen)
	})

	t.Run("no auto generate", func(t *testing.T) {
		seen, resp := serveWith(t, HTTPMiddleware(WithAutoGenerate(false)), "")
		assert.Empty(t, seen)
		assert.Empty(t, resp.Header().Get(HeaderRequestID))
	})

	t.Run("no echo", func(t *testing.T) {
		seen, resp := serveWith(t, HTTPMiddleware(WithEcho(false), nil), "req-1")
		assert.Equal(t, "req-1", seen)
		assert.Empty(t, resp.Header().Get(HeaderRequestID))
	})
}

func TestValidRequestID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"", false},
		{"abc-123", true},
		{"has space", false},
		{"tab\t", false},
		{"中文", false},
		{strings.Repeat("a", maxRequestIDLen), true},
		{strings.Repeat("a", maxRequestIDLen+1), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidRequestID(tt.id), "%q", tt.id)
	}
}

func TestInjectToRequest(t *testing.T) {
	ctx := injectRequestID(context.Background(), "req-out", false)

	req := &http.Request{}
	InjectToRequest(ctx, req)
	assert.Equal(t, "req-out", req.Header.Get(HeaderRequestID))

	empty := httptest.NewRequest(http.MethodGet, "/", nil)
	InjectToRequest(context.Background(), empty)
	assert.Empty(t, empty.Header.Get(HeaderRequestID))

	assert.NotPanics(t, func() { InjectToRequest(ctx, nil) })
}
