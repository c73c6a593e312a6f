package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/riskibarqy/matchday-bot/internal/config"
	"github.com/riskibarqy/matchday-bot/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.Config {
	return config.Config{
		AppEnv:                 config.EnvDev,
		ServiceName:            "matchday-bot",
		HTTPAddr:               "127.0.0.1:0",
		ReadTimeout:            time.Second,
		WriteTimeout:           time.Second,
		ShutdownTimeout:        time.Second,
		LineChannelAccessToken: "channel-token",
		LineChannelSecret:      "channel-secret",
		LineTimeout:            time.Second,
		FootballAPIKey:         "football-key",
		FootballTimeout:        time.Second,
		CommandToday:           config.DefaultCommandToday,
		CommandYesterday:       config.DefaultCommandYesterday,
		CommandTimeout:         time.Second,
		WebhookMaxConcurrency:  2,
		BroadcastEnabled:       true,
		BroadcastInterval:      24 * time.Hour,
		BroadcastTimeout:       time.Second,
		CacheBackend:           config.CacheBackendMemory,
		CacheTTL:               time.Minute,
	}
}

func TestNew_RejectsEmptyAddr(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.HTTPAddr = ""
	_, err := New(cfg, logging.NewNop())
	require.Error(t, err)
}

func TestNew_RejectsMissingLineToken(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.LineChannelAccessToken = ""
	_, err := New(cfg, logging.NewNop())
	require.Error(t, err)
}

func TestApp_HandlerRejectsUnsignedCallback(t *testing.T) {
	t.Parallel()

	a, err := New(testConfig(), logging.NewNop())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/callback", strings.NewReader(`{"events":[]}`))
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.CacheBackend = config.CacheBackendRedis
	cfg.RedisAddr = mr.Addr()

	a, err := New(cfg, logging.NewNop())
	require.NoError(t, err)
	require.NotNil(t, a.redis)
	require.NotNil(t, a.scheduler)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}

func TestApp_BroadcastDisabledHasNoScheduler(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.BroadcastEnabled = false
	cfg.CacheBackend = config.CacheBackendNone

	a, err := New(cfg, logging.NewNop())
	require.NoError(t, err)
	assert.Nil(t, a.scheduler)
	assert.Nil(t, a.redis)
}
