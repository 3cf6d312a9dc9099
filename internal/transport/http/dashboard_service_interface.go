package http

import (
	"context"
	"io"

	"wardpulse/internal/dataprocessing"
	"wardpulse/internal/services"
	"wardpulse/pkg/contracts/domain"
)

// DashboardServiceInterface defines what the dashboard handler needs from the
// service layer. Defined handler-side so tests can substitute a mock.
type DashboardServiceInterface interface {
	Summary(ctx context.Context, params dataprocessing.FilterParams) (domain.Summary, error)
	Days(ctx context.Context, params dataprocessing.FilterParams) (domain.Dataset, error)
	Series(ctx context.Context, params dataprocessing.FilterParams) ([]domain.SeriesPoint, error)
	Histogram(ctx context.Context, params dataprocessing.FilterParams, bins int) (domain.RatioHistogram, error)
	Occupancy(ctx context.Context, params dataprocessing.FilterParams) ([]domain.OccupancyPoint, error)
	Bounds(ctx context.Context) (services.ControlBounds, error)
	ExportCSV(ctx context.Context, params dataprocessing.FilterParams, w io.Writer) error
	Reload(ctx context.Context) (services.ReloadResult, error)
}

// HealthServiceInterface defines what the health handler needs.
type HealthServiceInterface interface {
	HealthCheck(ctx context.Context) services.HealthStatus
	ReadinessCheck(ctx context.Context) services.HealthStatus
	LivenessCheck(ctx context.Context) services.HealthStatus
	Version() services.VersionInfo
}
