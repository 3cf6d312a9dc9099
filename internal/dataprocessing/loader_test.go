package dataprocessing

import (
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wardpulse/internal/config"
)

func testLoader(t *testing.T) *Loader {
	t.Helper()
	cfg := config.Default()
	return NewLoader(cfg.Data, cfg.Analytics, slog.Default())
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "staffing.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseDayFirstDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "day first not month first",
			input: "01/02/2024",
			want:  time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "fifth of march",
			input: "05/03/2024",
			want:  time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "single digit day and month",
			input: "7/4/2024",
			want:  time.Date(2024, 4, 7, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "dash separated",
			input: "25-12-2023",
			want:  time.Date(2023, 12, 25, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "time of day truncated",
			input: "01/02/2024 13:45",
			want:  time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "iso fallback",
			input: "2024-02-01",
			want:  time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
		{
			name:    "garbage",
			input:   "yesterday",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDayFirstDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %s want %s", got, tt.want)
		})
	}
}

func TestLoadCSV(t *testing.T) {
	path := writeCSV(t, `D.O.A,Patient_Count,Estimated_Nurse_Count,Patients_Per_Nurse,Occupancy_Rate
01/01/2024,50,10,5.0,81.5
02/01/2024,40,20,2.0,64.0
`)

	ds, err := testLoader(t).LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, ds, 2)

	assert.True(t, ds[0].Date.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 50.0, ds[0].PatientCount)
	assert.Equal(t, 10.0, ds[0].NurseCount)
	assert.Equal(t, 5.0, ds[0].PatientsPerNurse)
	assert.Equal(t, 81.5, ds[0].OccupancyRate)

	assert.True(t, ds[1].Date.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)))
}

func TestLoadCSVPreservesSourceOrderAndDuplicates(t *testing.T) {
	path := writeCSV(t, `D.O.A,Patient_Count,Estimated_Nurse_Count,Patients_Per_Nurse,Occupancy_Rate
03/01/2024,30,10,3.0,50
01/01/2024,50,10,5.0,80
01/01/2024,45,10,4.5,78
`)

	ds, err := testLoader(t).LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, ds, 3)

	// Source order, not date order; duplicate dates pass through.
	assert.Equal(t, 30.0, ds[0].PatientCount)
	assert.Equal(t, 50.0, ds[1].PatientCount)
	assert.Equal(t, 45.0, ds[2].PatientCount)
	assert.True(t, ds[1].Date.Equal(ds[2].Date))
}

func TestLoadCSVMissingFile(t *testing.T) {
	_, err := testLoader(t).LoadCSV(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDataSourceMissing)
}

func TestLoadCSVMissingColumns(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{
			name:   "no date column",
			header: "Patient_Count,Estimated_Nurse_Count,Patients_Per_Nurse,Occupancy_Rate",
			want:   "D.O.A",
		},
		{
			name:   "no patient count",
			header: "D.O.A,Estimated_Nurse_Count,Patients_Per_Nurse,Occupancy_Rate",
			want:   "Patient_Count",
		},
		{
			name:   "no occupancy",
			header: "D.O.A,Patient_Count,Estimated_Nurse_Count,Patients_Per_Nurse",
			want:   "Occupancy_Rate",
		},
		{
			name:   "nurses without ratio",
			header: "D.O.A,Patient_Count,Estimated_Nurse_Count,Occupancy_Rate",
			want:   "Patients_Per_Nurse",
		},
		{
			name:   "ratio without nurses",
			header: "D.O.A,Patient_Count,Patients_Per_Nurse,Occupancy_Rate",
			want:   "Estimated_Nurse_Count",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCSV(t, tt.header+"\n")
			_, err := testLoader(t).LoadCSV(path)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMissingColumn)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadCSVEstimatesMissingNurseCounts(t *testing.T) {
	// No nurse or ratio columns: the 1:5 staffing model fills them in.
	path := writeCSV(t, `D.O.A,Patient_Count,Occupancy_Rate
01/01/2024,50,80
02/01/2024,52,82
`)

	ds, err := testLoader(t).LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, ds, 2)

	assert.Equal(t, 10.0, ds[0].NurseCount)
	assert.Equal(t, 5.0, ds[0].PatientsPerNurse)

	// 52 patients need ceil(52/5) = 11 nurses.
	assert.Equal(t, 11.0, ds[1].NurseCount)
	assert.InDelta(t, 52.0/11.0, ds[1].PatientsPerNurse, 1e-9)
}

func TestLoadCSVBlankCellsBecomeNaN(t *testing.T) {
	path := writeCSV(t, `D.O.A,Patient_Count,Estimated_Nurse_Count,Patients_Per_Nurse,Occupancy_Rate
01/01/2024,,10,5.0,80
`)

	ds, err := testLoader(t).LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, ds, 1)
	assert.True(t, math.IsNaN(ds[0].PatientCount))
}

func TestLoadCSVRejectsBadCells(t *testing.T) {
	tests := []struct {
		name string
		row  string
		want string
	}{
		{
			name: "non-numeric patients",
			row:  "01/01/2024,many,10,5.0,80",
			want: "invalid patient count",
		},
		{
			name: "negative nurses",
			row:  "01/01/2024,50,-3,5.0,80",
			want: "negative nurse count",
		},
		{
			name: "bad date",
			row:  "soon,50,10,5.0,80",
			want: "admission date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCSV(t, "D.O.A,Patient_Count,Estimated_Nurse_Count,Patients_Per_Nurse,Occupancy_Rate\n"+tt.row+"\n")
			_, err := testLoader(t).LoadCSV(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadDispatchesOnExtension(t *testing.T) {
	// Unknown extensions fall back to CSV parsing.
	dir := t.TempDir()
	path := filepath.Join(dir, "staffing.dat")
	require.NoError(t, os.WriteFile(path, []byte("D.O.A,Patient_Count,Estimated_Nurse_Count,Patients_Per_Nurse,Occupancy_Rate\n01/01/2024,50,10,5.0,80\n"), 0644))

	ds, err := testLoader(t).Load(path)
	require.NoError(t, err)
	assert.Len(t, ds, 1)
}

func TestLoadExcelMissingFile(t *testing.T) {
	_, err := testLoader(t).LoadExcel(filepath.Join(t.TempDir(), "absent.xlsx"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDataSourceMissing)
}

func TestNormalizeHeader(t *testing.T) {
	assert.Equal(t, "doa", normalizeHeader("D.O.A"))
	assert.Equal(t, "patientcount", normalizeHeader(" Patient_Count "))
	assert.Equal(t, "occupancyrate", normalizeHeader("Occupancy Rate"))
}
