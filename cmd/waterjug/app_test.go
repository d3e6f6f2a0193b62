package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/waterjug/internal/config"
	"github.com/aretw0/waterjug/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApp_Backends(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name    string
		backend string
		cached  bool
	}{
		{"memory", config.CacheMemory, true},
		{"redis", config.CacheRedis, true},
		{"none", config.CacheNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Log.Level = "error"
			cfg.Cache.Backend = tt.backend
			cfg.Redis.Addr = mr.Addr()

			a, err := newApp(&cfg)
			require.NoError(t, err)
			t.Cleanup(a.Close)

			req := domain.Request{XCapacity: 3, YCapacity: 5, ZAmountWanted: 4}
			_, err = a.service.Solve(context.Background(), req)
			require.NoError(t, err)
			second, err := a.service.Solve(context.Background(), req)
			require.NoError(t, err)
			assert.Equal(t, tt.cached, second.FromCache)
		})
	}

	assert.True(t, mr.Exists("waterjug:cache:waterjug_3_5_4"))
}

func TestNewApp_InvalidLogLevel(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "loud"

	_, err := newApp(&cfg)
	assert.ErrorContains(t, err, "invalid log level")
}

func TestAppHandler_RedisHealth(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := config.Default()
	cfg.Log.Level = "error"
	cfg.Cache.Backend = config.CacheRedis
	cfg.Redis.Addr = mr.Addr()

	a, err := newApp(&cfg)
	require.NoError(t, err)
	t.Cleanup(a.Close)
	h := a.handler()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, map[string]any{"redis": "Healthy"}, body["checks"])

	mr.Close()
	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAppHandler_MetricsToggle(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "error"
	cfg.Metrics.Enabled = false

	a, err := newApp(&cfg)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	a.handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNewApp_MemoryJanitor(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "error"
	cfg.Cache.Absolute = time.Millisecond
	cfg.Cache.Sliding = time.Millisecond
	cfg.Cache.PruneInterval = 5 * time.Millisecond

	a, err := newApp(&cfg)
	require.NoError(t, err)
	require.NotNil(t, a.memCache)

	for x := 1; x <= 10; x++ {
		_, err := a.service.Solve(context.Background(), domain.Request{XCapacity: x, YCapacity: 1, ZAmountWanted: 1})
		require.NoError(t, err)
	}

	assert.Eventually(t, func() bool { return a.memCache.Len() == 0 }, time.Second, 5*time.Millisecond)
	a.Close()
}
