package services

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wardpulse/internal/config"
	"wardpulse/internal/dataprocessing"
)

func healthTestStore(t *testing.T, csv string) *dataprocessing.Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "staffing.csv")
	if csv != "" {
		require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Default()
	cfg.Data.SourceFile = path

	loader := dataprocessing.NewLoader(cfg.Data, cfg.Analytics, logger)
	return dataprocessing.NewStore(path, loader, logger)
}

func TestHealthCheckHealthy(t *testing.T) {
	store := healthTestStore(t, sampleCSV)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewHealthService("1.0.0", "2024-01-01", store, logger)

	status := svc.HealthCheck(context.Background())
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "1.0.0", status.Version)

	dataset := status.Services["dataset"].(map[string]interface{})
	assert.Equal(t, "loaded", dataset["status"])
	assert.Equal(t, 3, dataset["days"])
}

func TestHealthCheckDegradedWhenSourceMissing(t *testing.T) {
	store := healthTestStore(t, "")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewHealthService("1.0.0", "", store, logger)

	status := svc.HealthCheck(context.Background())
	assert.Equal(t, "degraded", status.Status)

	dataset := status.Services["dataset"].(map[string]interface{})
	assert.Equal(t, "unavailable", dataset["status"])
}

func TestReadinessCheck(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ready := NewHealthService("1.0.0", "", healthTestStore(t, sampleCSV), logger)
	assert.Equal(t, "ready", ready.ReadinessCheck(context.Background()).Status)

	notReady := NewHealthService("1.0.0", "", healthTestStore(t, ""), logger)
	assert.Equal(t, "not_ready", notReady.ReadinessCheck(context.Background()).Status)
}

func TestLivenessCheck(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewHealthService("1.0.0", "", healthTestStore(t, sampleCSV), logger)

	assert.Equal(t, "alive", svc.LivenessCheck(context.Background()).Status)
}

func TestVersion(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewHealthService("1.2.3", "2024-06-01T00:00:00Z", healthTestStore(t, sampleCSV), logger)

	info := svc.Version()
	assert.Equal(t, "1.2.3", info.Version)
	assert.Equal(t, "2024-06-01T00:00:00Z", info.BuildTime)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS, info.OS)
}
