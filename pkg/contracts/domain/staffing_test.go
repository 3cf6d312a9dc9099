package domain

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatasetBounds(t *testing.T) {
	ds := Dataset{
		{Date: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{Date: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)},
		{Date: time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)},
	}

	min, max, ok := ds.Bounds()
	require.True(t, ok)
	assert.True(t, min.Equal(time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)))
	assert.True(t, max.Equal(time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)))
}

func TestDatasetBoundsEmpty(t *testing.T) {
	_, _, ok := Dataset{}.Bounds()
	assert.False(t, ok)
}

func TestHasRatio(t *testing.T) {
	assert.True(t, StaffingDay{PatientsPerNurse: 3.5}.HasRatio())
	assert.False(t, StaffingDay{PatientsPerNurse: math.NaN()}.HasRatio())
}

func TestStaffingDayMarshalNaNAsNull(t *testing.T) {
	day := StaffingDay{
		Date:             time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		PatientCount:     math.NaN(),
		NurseCount:       10,
		PatientsPerNurse: 2.5,
		OccupancyRate:    math.NaN(),
	}

	data, err := json.Marshal(day)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Nil(t, decoded["patient_count"])
	assert.Nil(t, decoded["occupancy_rate"])
	assert.Equal(t, 10.0, decoded["estimated_nurse_count"])
}

func TestSummaryMarshalPoisonedMeanAsNull(t *testing.T) {
	s := Summary{AvgPatients: math.NaN(), AvgNurses: 15, AvgRatio: 3.5, Days: 3, Band: BandAll}

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Nil(t, decoded["avg_patients"])
	assert.Equal(t, 3.5, decoded["avg_ratio"])
	assert.Equal(t, "all", decoded["band"])
}
