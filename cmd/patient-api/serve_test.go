package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/skssmd/patient-project/database"
	"github.com/skssmd/patient-project/internal/cache"
	"github.com/skssmd/patient-project/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		GinMode:           gin.TestMode,
		DBDriver:          config.DriverSQLite,
		SQLitePath:        ":memory:",
		ProcessingBaseURL: "http://127.0.0.1:1",
		ProcessingTimeout: time.Second,
		RedisTTL:          time.Minute,
	}
}

func testDB(t *testing.T, cfg *config.Config) *gorm.DB {
	t.Helper()
	db, err := database.Connect(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.MigrateDatabase(db, zerolog.Nop()))
	return db
}

func TestNewRouterRegistersRoutes(t *testing.T) {
	cfg := testConfig()
	router := newRouter(cfg, testDB(t, cfg), nil, zerolog.Nop())

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/patients/", http.StatusOK},
		{http.MethodGet, "/patients", http.StatusOK},
		{http.MethodGet, "/patients/1/", http.StatusNotFound},
		{http.MethodGet, "/patients/1/metrics", http.StatusNotFound},
		{http.MethodGet, "/swagger/doc.json", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.path, nil)
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}

func TestNewRouterWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.RedisURL = "redis://" + mr.Addr()

	redisClient, err := cache.NewRedisClient(context.Background(), cfg.RedisURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = redisClient.Close() })

	router := newRouter(cfg, testDB(t, cfg), redisClient, zerolog.Nop())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"redis_health":true`)
}
