package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wardpulse/internal/config"
	"wardpulse/pkg/contracts/domain"
)

func TestSeriesSortsByDate(t *testing.T) {
	view := domain.Dataset{
		{Date: day(2024, 1, 3), PatientCount: 42, NurseCount: 12},
		{Date: day(2024, 1, 1), PatientCount: 50, NurseCount: 10},
		{Date: day(2024, 1, 2), PatientCount: 40, NurseCount: 20},
	}

	points := Series(view)
	require.Len(t, points, 3)
	assert.True(t, points[0].Date.Equal(day(2024, 1, 1)))
	assert.True(t, points[1].Date.Equal(day(2024, 1, 2)))
	assert.True(t, points[2].Date.Equal(day(2024, 1, 3)))
	assert.Equal(t, 50.0, points[0].Patients)
	assert.Equal(t, 10.0, points[0].Nurses)
}

func TestHistogram(t *testing.T) {
	view := domain.Dataset{
		{PatientsPerNurse: 1.0},
		{PatientsPerNurse: 2.0},
		{PatientsPerNurse: 2.4},
		{PatientsPerNurse: 5.0},
	}

	hist := Histogram(view, 4, 4.0)
	require.Len(t, hist.Buckets, 4)
	assert.Equal(t, 4.0, hist.Threshold)

	total := 0
	for _, b := range hist.Buckets {
		total += b.Count
	}
	assert.Equal(t, 4, total, "every day lands in exactly one bucket")

	assert.Equal(t, 1.0, hist.Buckets[0].Low)
	assert.Equal(t, 5.0, hist.Buckets[3].High)
	assert.Equal(t, 1, hist.Buckets[3].Count, "the maximum lands in the last bucket")
}

func TestHistogramDegenerateRange(t *testing.T) {
	view := domain.Dataset{
		{PatientsPerNurse: 3.0},
		{PatientsPerNurse: 3.0},
	}

	hist := Histogram(view, 20, 4.0)
	require.Len(t, hist.Buckets, 1)
	assert.Equal(t, 2, hist.Buckets[0].Count)
}

func TestHistogramSkipsNaNAndEmpty(t *testing.T) {
	assert.Empty(t, Histogram(domain.Dataset{}, 20, 4.0).Buckets)

	view := domain.Dataset{{PatientsPerNurse: nan()}}
	assert.Empty(t, Histogram(view, 20, 4.0).Buckets)
}

func TestOccupancy(t *testing.T) {
	view := domain.Dataset{
		{OccupancyRate: 80, PatientsPerNurse: 5.0, PatientCount: 50},
		{OccupancyRate: 60, PatientsPerNurse: 2.0, PatientCount: 40},
	}

	points := Occupancy(view)
	require.Len(t, points, 2)
	assert.Equal(t, 80.0, points[0].Occupancy)
	assert.Equal(t, 5.0, points[0].Ratio)
	assert.Equal(t, 50.0, points[0].Patients)
}

func TestBandFor(t *testing.T) {
	cfg := config.Default().Analytics

	tests := []struct {
		minRatio float64
		want     domain.RatioBand
	}{
		{1.0, domain.BandAll},
		{1.1, domain.BandElevated},
		{3.9, domain.BandElevated},
		{4.0, domain.BandCritical},
		{5.0, domain.BandCritical},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, BandFor(tt.minRatio, cfg), "min_ratio=%v", tt.minRatio)
	}
}
