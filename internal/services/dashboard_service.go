package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"wardpulse/internal/config"
	"wardpulse/internal/dataprocessing"
	"wardpulse/internal/exporter"
	"wardpulse/internal/infrastructure"
	"wardpulse/pkg/contracts/domain"
)

// DashboardService orchestrates one dashboard recomputation cycle:
// validate the filter parameters, snapshot the cached dataset, apply both
// predicates, then feed the filtered view to the aggregator or a chart
// builder. Every request recomputes synchronously from the immutable
// dataset; the only shared state is the store's cache.
type DashboardService struct {
	store  *dataprocessing.Store
	cfg    config.AnalyticsConfig
	opts   dataprocessing.AggregateOptions
	logger *slog.Logger
}

// ControlBounds describes the dataset span and the slider limits the
// presentation layer needs to initialise its controls.
type ControlBounds struct {
	Dates         domain.DateBounds `json:"dates"`
	MinRatioFloor float64           `json:"min_ratio_floor"`
	MinRatioCeil  float64           `json:"min_ratio_ceil"`
	RiskRatio     float64           `json:"risk_ratio"`
}

// ReloadResult reports the outcome of an explicit cache refresh.
type ReloadResult struct {
	Source string `json:"source"`
	Days   int    `json:"days"`
}

// NewDashboardService creates the dashboard service.
func NewDashboardService(store *dataprocessing.Store, cfg config.AnalyticsConfig, logger *slog.Logger) (*DashboardService, error) {
	if logger == nil {
		logger = slog.Default()
	}

	opts, err := dataprocessing.OptionsFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("dashboard service: %w", err)
	}

	return &DashboardService{
		store:  store,
		cfg:    cfg,
		opts:   opts,
		logger: logger.With(slog.String("component", "dashboard_service")),
	}, nil
}

// Summary computes the metric-card values over the filtered view.
func (s *DashboardService) Summary(ctx context.Context, params dataprocessing.FilterParams) (domain.Summary, error) {
	view, err := s.view(ctx, params)
	if err != nil {
		return domain.Summary{}, err
	}

	summary, err := dataprocessing.Aggregate(view, s.opts)
	if err != nil {
		return domain.Summary{}, err
	}
	summary.Band = dataprocessing.BandFor(params.MinRatio, s.cfg)

	s.logger.InfoContext(ctx, "summary computed",
		slog.Int("days", summary.Days),
		slog.Int("risk_days", summary.RiskDays),
		slog.Float64("min_ratio", params.MinRatio))

	return summary, nil
}

// Days returns the filtered view itself, for tabular display.
func (s *DashboardService) Days(ctx context.Context, params dataprocessing.FilterParams) (domain.Dataset, error) {
	return s.view(ctx, params)
}

// Series returns the patient influx vs nurse supply chart feed.
func (s *DashboardService) Series(ctx context.Context, params dataprocessing.FilterParams) ([]domain.SeriesPoint, error) {
	view, err := s.view(ctx, params)
	if err != nil {
		return nil, err
	}
	return dataprocessing.Series(view), nil
}

// Histogram returns the ratio frequency chart feed. A non-positive bins
// value falls back to the configured default.
func (s *DashboardService) Histogram(ctx context.Context, params dataprocessing.FilterParams, bins int) (domain.RatioHistogram, error) {
	view, err := s.view(ctx, params)
	if err != nil {
		return domain.RatioHistogram{}, err
	}

	if bins <= 0 {
		bins = s.cfg.HistogramBins
	}
	return dataprocessing.Histogram(view, bins, s.cfg.RiskRatio), nil
}

// Occupancy returns the occupancy vs ratio scatter feed.
func (s *DashboardService) Occupancy(ctx context.Context, params dataprocessing.FilterParams) ([]domain.OccupancyPoint, error) {
	view, err := s.view(ctx, params)
	if err != nil {
		return nil, err
	}
	return dataprocessing.Occupancy(view), nil
}

// Bounds returns the dataset span and control limits.
func (s *DashboardService) Bounds(ctx context.Context) (ControlBounds, error) {
	dates, err := s.store.Bounds(ctx)
	if err != nil {
		return ControlBounds{}, err
	}

	return ControlBounds{
		Dates:         dates,
		MinRatioFloor: s.cfg.MinRatioFloor,
		MinRatioCeil:  s.cfg.MinRatioCeil,
		RiskRatio:     s.cfg.RiskRatio,
	}, nil
}

// ExportCSV streams the filtered view as a CSV download.
func (s *DashboardService) ExportCSV(ctx context.Context, params dataprocessing.FilterParams, w io.Writer) error {
	view, err := s.view(ctx, params)
	if err != nil {
		return err
	}
	return exporter.WriteStaffingDays(w, view, exporter.Options{})
}

// Reload discards the dataset cache and loads the source again.
func (s *DashboardService) Reload(ctx context.Context) (ReloadResult, error) {
	ds, err := s.store.Reload(ctx)
	if err != nil {
		return ReloadResult{}, err
	}

	s.logger.InfoContext(ctx, "dataset reloaded on request",
		slog.String("source", s.store.Source()),
		slog.Int("days", len(ds)))

	return ReloadResult{Source: s.store.Source(), Days: len(ds)}, nil
}

// view runs one validate-snapshot-filter cycle and rejects empty results
// so no consumer ever renders zero-filled output.
func (s *DashboardService) view(ctx context.Context, params dataprocessing.FilterParams) (domain.Dataset, error) {
	if err := params.Validate(s.cfg); err != nil {
		return nil, err
	}

	ds, err := s.store.Dataset(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	view := dataprocessing.Filter(ds, params)
	infrastructure.ObserveRecompute(time.Since(start))

	if len(view) == 0 {
		return nil, fmt.Errorf("%w: start=%s end=%s min_ratio=%v", ErrEmptyResultSet,
			params.Start.Format("2006-01-02"), params.End.Format("2006-01-02"), params.MinRatio)
	}

	return view, nil
}
