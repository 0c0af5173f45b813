package http

import (
	"context"
	"errors"
	stdhttp "net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Get(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		assert.Equal(t, "ytingest/1.0", r.Header.Get("User-Agent"))
		w.WriteHeader(stdhttp.StatusOK)
		w.Write([]byte("day,views\n2024-01-01,10\n"))
	}))
	defer srv.Close()

	client := New(DefaultConfig())
	resp, err := client.Get(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, stdhttp.StatusOK, resp.StatusCode)
	assert.Equal(t, "day,views\n2024-01-01,10\n", string(resp.Body))
}

func TestClient_Download(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		w.Write([]byte("report content"))
	}))
	defer srv.Close()

	client := New(DefaultConfig())
	content, err := client.Download(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, "report content", content)
}

func TestClient_NonSuccessStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		stdhttp.Error(w, "nope", stdhttp.StatusNotFound)
	}))
	defer srv.Close()

	client := New(DefaultConfig())
	_, err := client.Download(context.Background(), srv.URL)

	require.Error(t, err)
	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, stdhttp.StatusNotFound, httpErr.StatusCode)
}

func TestClient_NoRetryByDefault(t *testing.T) {
	t.Parallel()

	var calls int32
	srv := httptest.NewServer(stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		atomic.AddInt32(&calls, 1)
		stdhttp.Error(w, "boom", stdhttp.StatusInternalServerError)
	}))
	defer srv.Close()

	client := New(DefaultConfig())
	_, err := client.Download(context.Background(), srv.URL)

	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_RetriesServerErrorsWhenConfigured(t *testing.T) {
	t.Parallel()

	var calls int32
	srv := httptest.NewServer(stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			stdhttp.Error(w, "boom", stdhttp.StatusInternalServerError)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.Retry.MaxRetries = 3
	cfg.Retry.InitialBackoff = 1
	cfg.Retry.MaxBackoff = 1

	client := New(cfg)
	content, err := client.Download(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, "ok", content)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_ClientErrorsAreNotRetried(t *testing.T) {
	t.Parallel()

	var calls int32
	srv := httptest.NewServer(stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		atomic.AddInt32(&calls, 1)
		stdhttp.Error(w, "forbidden", stdhttp.StatusForbidden)
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.Retry.MaxRetries = 3
	cfg.Retry.InitialBackoff = 1

	client := New(cfg)
	_, err := client.Download(context.Background(), srv.URL)

	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestNewWithBase_NilArguments(t *testing.T) {
	t.Parallel()

	client := NewWithBase(nil, nil)
	require.NotNil(t, client)
	assert.Equal(t, DefaultConfig().Timeout, client.base.Timeout)
}
