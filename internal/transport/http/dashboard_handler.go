package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"wardpulse/internal/dataprocessing"
	apierrors "wardpulse/internal/errors"
	"wardpulse/internal/middleware"
	"wardpulse/internal/services"
)

// filterParamsKey is the context key the FilterCtx middleware stores the
// parsed filter parameters under.
type filterParamsKey struct{}

// DashboardHandler handles dashboard HTTP requests with RFC 7807 compliance
type DashboardHandler struct {
	service      DashboardServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	query        *middleware.QueryParamValidator
}

// NewDashboardHandler creates a new dashboard handler with RFC 7807 error handling
func NewDashboardHandler(service DashboardServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
		query:        middleware.NewQueryParamValidator(logger, errorHandler),
	}
}

// Routes returns the dashboard routes with proper Chi patterns
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/bounds", h.GetBounds)
	r.Post("/reload", h.Reload)

	// Query routes share the filter parsing middleware.
	r.Group(func(r chi.Router) {
		r.Use(h.FilterCtx)
		r.Get("/summary", h.GetSummary)
		r.Get("/days", h.GetDays)
		r.Get("/series", h.GetSeries)
		r.Get("/histogram", h.GetHistogram)
		r.Get("/occupancy", h.GetOccupancy)
		r.Get("/export", h.ExportCSV)
	})

	return r
}

// FilterCtx parses the start, end and min_ratio query parameters into
// FilterParams. Omitted dates default to the dataset bounds and an omitted
// min_ratio defaults to the control floor, matching the initial state of
// the dashboard controls.
func (h *DashboardHandler) FilterCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bounds, err := h.service.Bounds(r.Context())
		if err != nil {
			h.respondError(w, r, err)
			return
		}

		start, ok := h.query.ValidateDate(w, r, "start", bounds.Dates.Min)
		if !ok {
			return
		}
		end, ok := h.query.ValidateDate(w, r, "end", bounds.Dates.Max)
		if !ok {
			return
		}
		minRatio, ok := h.query.ValidateFloat(w, r, "min_ratio",
			bounds.MinRatioFloor, bounds.MinRatioCeil, bounds.MinRatioFloor)
		if !ok {
			return
		}

		params := dataprocessing.FilterParams{Start: start, End: end, MinRatio: minRatio}
		ctx := context.WithValue(r.Context(), filterParamsKey{}, params)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// filterParams retrieves the parameters stored by FilterCtx.
func filterParams(ctx context.Context) dataprocessing.FilterParams {
	params, _ := ctx.Value(filterParamsKey{}).(dataprocessing.FilterParams)
	return params
}

// GetBounds handles GET /api/dashboard/bounds
func (h *DashboardHandler) GetBounds(w http.ResponseWriter, r *http.Request) {
	bounds, err := h.service.Bounds(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   bounds,
	})
}

// GetSummary handles GET /api/dashboard/summary
func (h *DashboardHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	params := filterParams(r.Context())

	summary, err := h.service.Summary(r.Context(), params)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   summary,
		"params": params,
	})
}

// GetDays handles GET /api/dashboard/days
func (h *DashboardHandler) GetDays(w http.ResponseWriter, r *http.Request) {
	params := filterParams(r.Context())

	days, err := h.service.Days(r.Context(), params)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   days,
		"count":  len(days),
		"params": params,
	})
}

// GetSeries handles GET /api/dashboard/series
func (h *DashboardHandler) GetSeries(w http.ResponseWriter, r *http.Request) {
	params := filterParams(r.Context())

	series, err := h.service.Series(r.Context(), params)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   series,
		"count":  len(series),
		"params": params,
	})
}

// GetHistogram handles GET /api/dashboard/histogram
func (h *DashboardHandler) GetHistogram(w http.ResponseWriter, r *http.Request) {
	params := filterParams(r.Context())

	bins, ok := h.query.ValidateInt(w, r, "bins", 1, 100, 0)
	if !ok {
		return
	}

	hist, err := h.service.Histogram(r.Context(), params, bins)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   hist,
		"params": params,
	})
}

// GetOccupancy handles GET /api/dashboard/occupancy
func (h *DashboardHandler) GetOccupancy(w http.ResponseWriter, r *http.Request) {
	params := filterParams(r.Context())

	points, err := h.service.Occupancy(r.Context(), params)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   points,
		"count":  len(points),
		"params": params,
	})
}

// ExportCSV handles GET /api/dashboard/export. On success the filtered view
// streams out as a CSV attachment; errors keep the JSON problem format.
func (h *DashboardHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	params := filterParams(r.Context())

	// Validate before touching the response so errors can still be JSON.
	if _, err := h.service.Days(r.Context(), params); err != nil {
		h.respondError(w, r, err)
		return
	}

	filename := fmt.Sprintf("staffing_%s_%s.csv",
		params.Start.Format("2006-01-02"), params.End.Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if err := h.service.ExportCSV(r.Context(), params, w); err != nil {
		h.logger.ErrorContext(r.Context(), "csv export failed mid-stream",
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
	}
}

// Reload handles POST /api/dashboard/reload
func (h *DashboardHandler) Reload(w http.ResponseWriter, r *http.Request) {
	h.logger.InfoContext(r.Context(), "dataset reload requested",
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	result, err := h.service.Reload(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   result,
	})
}

// respondError maps domain errors onto the API error taxonomy before handing
// off to the central RFC 7807 handler.
func (h *DashboardHandler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "dashboard request failed",
		slog.String("error", err.Error()),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("path", r.URL.Path),
	)

	switch {
	case errors.Is(err, dataprocessing.ErrDataSourceMissing):
		h.errorHandler.HandleError(w, r, apierrors.DataSourceMissingError(err))
	case errors.Is(err, dataprocessing.ErrInvalidDateRange):
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusBadRequest,
			"INVALID_DATE_RANGE",
			"Start date cannot be after end date",
			err.Error(),
		))
	case errors.Is(err, dataprocessing.ErrRatioOutOfRange):
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("min_ratio", err.Error()))
	case errors.Is(err, services.ErrEmptyResultSet):
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusNotFound,
			"EMPTY_RESULT_SET",
			"No staffing days match the current filters",
			err.Error(),
		))
	default:
		h.errorHandler.HandleError(w, r, err)
	}
}
