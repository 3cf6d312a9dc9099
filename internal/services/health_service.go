package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"wardpulse/internal/dataprocessing"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	buildTime string
	store     *dataprocessing.Store
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// VersionInfo describes the running build
type VersionInfo struct {
	Version   string `json:"version"`
	BuildTime string `json:"build_time,omitempty"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// NewHealthService creates a new health service
func NewHealthService(version, buildTime string, store *dataprocessing.Store, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		buildTime: buildTime,
		store:     store,
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// HealthCheck reports overall health including the dataset source.
func (s *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   s.version,
		Services:  map[string]interface{}{},
	}

	if ds, err := s.store.Dataset(ctx); err != nil {
		status.Status = "degraded"
		status.Services["dataset"] = map[string]interface{}{
			"status": "unavailable",
			"source": s.store.Source(),
			"error":  err.Error(),
		}
	} else {
		status.Services["dataset"] = map[string]interface{}{
			"status": "loaded",
			"source": s.store.Source(),
			"days":   len(ds),
		}
	}

	status.Services["uptime"] = time.Since(s.startTime).String()
	return status
}

// ReadinessCheck reports whether the service can answer dashboard queries.
func (s *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	if _, err := s.store.Dataset(ctx); err != nil {
		s.logger.WarnContext(ctx, "readiness check failed",
			slog.String("error", err.Error()))
		return HealthStatus{
			Status:    "not_ready",
			Timestamp: time.Now().UTC(),
			Version:   s.version,
		}
	}
	return HealthStatus{
		Status:    "ready",
		Timestamp: time.Now().UTC(),
		Version:   s.version,
	}
}

// LivenessCheck reports that the process is alive.
func (s *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now().UTC(),
		Version:   s.version,
	}
}

// Version returns build information.
func (s *HealthService) Version() VersionInfo {
	return VersionInfo{
		Version:   s.version,
		BuildTime: s.buildTime,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}
