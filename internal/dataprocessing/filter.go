package dataprocessing

import (
	"errors"
	"fmt"
	"time"

	"wardpulse/internal/config"
	"wardpulse/pkg/contracts/domain"
)

// Filter errors. ErrInvalidDateRange is a user-input error: the filter
// must not run, and the caller surfaces a validation message instead.
var (
	ErrInvalidDateRange = errors.New("start date is after end date")
	ErrRatioOutOfRange  = errors.New("minimum ratio outside allowed range")
)

// FilterParams selects the subsequence of the dataset the dashboard
// renders: an inclusive admission-date range and a minimum
// patients-per-nurse threshold.
type FilterParams struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	MinRatio float64   `json:"min_ratio"`
}

// Validate checks the parameters against the configured control bounds.
// It must be called before Filter; an inverted range fails fast here.
func (p FilterParams) Validate(cfg config.AnalyticsConfig) error {
	if p.Start.IsZero() || p.End.IsZero() {
		return fmt.Errorf("start and end dates are required")
	}
	if DayOf(p.Start).After(DayOf(p.End)) {
		return fmt.Errorf("%w: start=%s end=%s", ErrInvalidDateRange,
			p.Start.Format("2006-01-02"), p.End.Format("2006-01-02"))
	}
	if p.MinRatio < cfg.MinRatioFloor || p.MinRatio > cfg.MinRatioCeil {
		return fmt.Errorf("%w: %v not in [%v, %v]", ErrRatioOutOfRange,
			p.MinRatio, cfg.MinRatioFloor, cfg.MinRatioCeil)
	}
	return nil
}

// Filter returns the days whose admission date falls within
// [Start, End] (inclusive, at day granularity) and whose
// patients-per-nurse ratio is at least MinRatio. The two predicates are
// independent, so their order never changes the result set. An empty
// result is a valid outcome, not an error.
func Filter(ds domain.Dataset, p FilterParams) domain.Dataset {
	start, end := DayOf(p.Start), DayOf(p.End)

	view := make(domain.Dataset, 0, len(ds))
	for _, day := range ds {
		d := DayOf(day.Date)
		if d.Before(start) || d.After(end) {
			continue
		}
		if !(day.PatientsPerNurse >= p.MinRatio) { // NaN ratios never pass
			continue
		}
		view = append(view, day)
	}
	return view
}

// DayOf truncates a timestamp to its calendar day in UTC. Date
// comparisons throughout the filter engine happen at this granularity.
func DayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
