package dataprocessing

import (
	"math"
	"sort"

	"wardpulse/internal/config"
	"wardpulse/pkg/contracts/domain"
)

// Series builds the patient influx vs nurse supply chart feed, ordered by
// admission date. Duplicate dates stay as separate points, matching the
// source rows.
func Series(view domain.Dataset) []domain.SeriesPoint {
	points := make([]domain.SeriesPoint, 0, len(view))
	for _, day := range view {
		points = append(points, domain.SeriesPoint{
			Date:     day.Date,
			Patients: day.PatientCount,
			Nurses:   day.NurseCount,
		})
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	return points
}

// Histogram distributes the view's patients-per-nurse ratios over bins
// equal-width buckets spanning the observed range, carrying the clinical
// threshold so the frontend can draw the danger-zone marker. Days without
// a usable ratio are left out of the distribution.
func Histogram(view domain.Dataset, bins int, threshold float64) domain.RatioHistogram {
	hist := domain.RatioHistogram{Threshold: threshold}
	if bins <= 0 || len(view) == 0 {
		return hist
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	ratios := make([]float64, 0, len(view))
	for _, day := range view {
		if !day.HasRatio() {
			continue
		}
		ratios = append(ratios, day.PatientsPerNurse)
		lo = math.Min(lo, day.PatientsPerNurse)
		hi = math.Max(hi, day.PatientsPerNurse)
	}
	if len(ratios) == 0 {
		return hist
	}

	if lo == hi {
		// Degenerate range: one bucket holding every day.
		hist.Buckets = []domain.HistogramBucket{{Low: lo, High: hi, Count: len(ratios)}}
		return hist
	}

	width := (hi - lo) / float64(bins)
	hist.Buckets = make([]domain.HistogramBucket, bins)
	for i := range hist.Buckets {
		hist.Buckets[i].Low = lo + float64(i)*width
		hist.Buckets[i].High = lo + float64(i+1)*width
	}
	hist.Buckets[bins-1].High = hi

	for _, r := range ratios {
		i := int((r - lo) / width)
		if i >= bins { // the maximum lands in the last bucket
			i = bins - 1
		}
		hist.Buckets[i].Count++
	}

	return hist
}

// Occupancy builds the bed occupancy vs staffing ratio scatter feed,
// with each point sized by that day's patient volume.
func Occupancy(view domain.Dataset) []domain.OccupancyPoint {
	points := make([]domain.OccupancyPoint, 0, len(view))
	for _, day := range view {
		points = append(points, domain.OccupancyPoint{
			Occupancy: day.OccupancyRate,
			Ratio:     day.PatientsPerNurse,
			Patients:  day.PatientCount,
		})
	}
	return points
}

// BandFor classifies the active minimum-ratio filter for the controls:
// at the floor everything shows, at or above the risk threshold only
// critical days remain, anything in between hides the safe days.
func BandFor(minRatio float64, cfg config.AnalyticsConfig) domain.RatioBand {
	switch {
	case minRatio >= cfg.RiskRatio:
		return domain.BandCritical
	case minRatio > cfg.MinRatioFloor:
		return domain.BandElevated
	default:
		return domain.BandAll
	}
}
