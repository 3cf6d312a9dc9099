package exporter

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wardpulse/pkg/contracts/domain"
)

func TestWriteStaffingDays(t *testing.T) {
	view := domain.Dataset{
		{
			Date:             time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			PatientCount:     50,
			NurseCount:       10,
			PatientsPerNurse: 5.0,
			OccupancyRate:    81.5,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteStaffingDays(&buf, view, Options{}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "D.O.A,Patient_Count,Estimated_Nurse_Count,Patients_Per_Nurse,Occupancy_Rate", lines[0])
	assert.Equal(t, "01/02/2024,50,10,5.00,81.5", lines[1], "dates export day-first")
}

func TestWriteStaffingDaysMissingValuesBlank(t *testing.T) {
	view := domain.Dataset{
		{
			Date:             time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			PatientCount:     math.NaN(),
			NurseCount:       10,
			PatientsPerNurse: 2.0,
			OccupancyRate:    60,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteStaffingDays(&buf, view, Options{}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "01/02/2024,,10,2.00,60.0", lines[1])
}

func TestWriteStaffingDaysBOM(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteStaffingDays(&buf, domain.Dataset{}, Options{BOMPrefix: true}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte{0xEF, 0xBB, 0xBF}))
}
