package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/atomic"
)

func TestHTTPServer(t *testing.T) {
	isReady := atomic.NewBool(false)
	srv := newHTTPServer(ExporterConfig{Host: "127.0.0.1", Port: 8080}, isReady.Load)
	assert.Equal(t, "127.0.0.1:8080", srv.Addr)

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	assert.Equal(t, http.StatusServiceUnavailable, get("/ready").Code)

	isReady.Store(true)
	assert.Equal(t, http.StatusOK, get("/ready").Code)

	metrics := get("/metrics")
	assert.Equal(t, http.StatusOK, metrics.Code)
	assert.Contains(t, metrics.Body.String(), "go_goroutines")
}
