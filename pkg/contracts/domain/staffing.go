package domain

import (
	"encoding/json"
	"math"
	"time"
)

// StaffingDay represents one calendar day of hospital staffing state.
// Numeric fields are NaN when the source cell was blank; the aggregation
// layer decides how missing values participate in means.
type StaffingDay struct {
	Date             time.Time `json:"date"`
	PatientCount     float64   `json:"patient_count"`
	NurseCount       float64   `json:"estimated_nurse_count"`
	PatientsPerNurse float64   `json:"patients_per_nurse"`
	OccupancyRate    float64   `json:"occupancy_rate"`
}

// HasRatio reports whether the day carries a usable patients-per-nurse value.
func (d StaffingDay) HasRatio() bool {
	return !math.IsNaN(d.PatientsPerNurse)
}

// nullable maps NaN to nil so missing values render as JSON null;
// encoding/json rejects NaN outright.
func nullable(f float64) *float64 {
	if math.IsNaN(f) {
		return nil
	}
	return &f
}

// MarshalJSON renders missing numeric values as null.
func (d StaffingDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date             time.Time `json:"date"`
		PatientCount     *float64  `json:"patient_count"`
		NurseCount       *float64  `json:"estimated_nurse_count"`
		PatientsPerNurse *float64  `json:"patients_per_nurse"`
		OccupancyRate    *float64  `json:"occupancy_rate"`
	}{
		Date:             d.Date,
		PatientCount:     nullable(d.PatientCount),
		NurseCount:       nullable(d.NurseCount),
		PatientsPerNurse: nullable(d.PatientsPerNurse),
		OccupancyRate:    nullable(d.OccupancyRate),
	})
}

// Dataset is an ordered sequence of staffing days, one per row of the
// source file, in source order. Duplicate dates pass through unchanged.
// A Dataset is immutable once loaded.
type Dataset []StaffingDay

// Bounds returns the earliest and latest admission dates in the dataset.
// ok is false for an empty dataset.
func (ds Dataset) Bounds() (min, max time.Time, ok bool) {
	if len(ds) == 0 {
		return time.Time{}, time.Time{}, false
	}
	min, max = ds[0].Date, ds[0].Date
	for _, d := range ds[1:] {
		if d.Date.Before(min) {
			min = d.Date
		}
		if d.Date.After(max) {
			max = d.Date
		}
	}
	return min, max, true
}

// Summary holds the scalar metrics computed over a filtered view.
type Summary struct {
	AvgPatients float64   `json:"avg_patients"`
	AvgNurses   float64   `json:"avg_nurses"`
	AvgRatio    float64   `json:"avg_ratio"`
	RiskDays    int       `json:"risk_days"`
	Days        int       `json:"days"`
	Band        RatioBand `json:"band"`
}

// MarshalJSON renders poisoned means (propagate policy) as null.
func (s Summary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		AvgPatients *float64  `json:"avg_patients"`
		AvgNurses   *float64  `json:"avg_nurses"`
		AvgRatio    *float64  `json:"avg_ratio"`
		RiskDays    int       `json:"risk_days"`
		Days        int       `json:"days"`
		Band        RatioBand `json:"band"`
	}{
		AvgPatients: nullable(s.AvgPatients),
		AvgNurses:   nullable(s.AvgNurses),
		AvgRatio:    nullable(s.AvgRatio),
		RiskDays:    s.RiskDays,
		Days:        s.Days,
		Band:        s.Band,
	})
}

// RatioBand classifies the active minimum-ratio filter for the controls.
type RatioBand string

const (
	BandAll      RatioBand = "all"
	BandElevated RatioBand = "elevated"
	BandCritical RatioBand = "critical"
)

// SeriesPoint is one day on the patient influx vs nurse supply chart.
type SeriesPoint struct {
	Date     time.Time `json:"date"`
	Patients float64   `json:"patients"`
	Nurses   float64   `json:"nurses"`
}

// MarshalJSON renders missing counts as null.
func (p SeriesPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date     time.Time `json:"date"`
		Patients *float64  `json:"patients"`
		Nurses   *float64  `json:"nurses"`
	}{p.Date, nullable(p.Patients), nullable(p.Nurses)})
}

// HistogramBucket is one bar of the ratio frequency chart. Low is
// inclusive; High is exclusive except for the last bucket.
type HistogramBucket struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// RatioHistogram is the ratio frequency distribution over a filtered view,
// carrying the clinical risk threshold for the danger-zone marker.
type RatioHistogram struct {
	Buckets   []HistogramBucket `json:"buckets"`
	Threshold float64           `json:"threshold"`
}

// OccupancyPoint is one day on the occupancy vs ratio scatter chart,
// sized by patient volume.
type OccupancyPoint struct {
	Occupancy float64 `json:"occupancy"`
	Ratio     float64 `json:"ratio"`
	Patients  float64 `json:"patients"`
}

// MarshalJSON renders missing values as null.
func (p OccupancyPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Occupancy *float64 `json:"occupancy"`
		Ratio     *float64 `json:"ratio"`
		Patients  *float64 `json:"patients"`
	}{nullable(p.Occupancy), nullable(p.Ratio), nullable(p.Patients)})
}

// DateBounds describes the admission-date span of the loaded dataset.
// The presentation layer uses it to initialise the date controls.
type DateBounds struct {
	Min time.Time `json:"min"`
	Max time.Time `json:"max"`
}
