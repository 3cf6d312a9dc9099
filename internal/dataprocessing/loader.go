package dataprocessing

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"wardpulse/internal/config"
	"wardpulse/pkg/contracts/domain"
)

// Loader errors. ErrDataSourceMissing is the halt-everything condition:
// callers must not serve partial or empty output when it occurs.
var (
	ErrDataSourceMissing = errors.New("data source missing or unreadable")
	ErrMissingColumn     = errors.New("required column missing")
)

// dayFirstLayouts are tried in order when parsing the admission date
// column. The source locale writes day before month: "05/03/2024" is
// 5 March, never May 3rd.
var dayFirstLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
	"02/01/2006 15:04",
	"2006-01-02",
}

// Loader reads a staffing dataset from a delimited or Excel file.
type Loader struct {
	dateColumn string
	// nursesPerModel is the 1:N staffing model applied when the source
	// carries patient counts but no nurse estimates.
	nursesPerModel float64
	logger         *slog.Logger
}

// NewLoader creates a loader for the configured date column and staffing model.
func NewLoader(data config.DataConfig, analytics config.AnalyticsConfig, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		dateColumn:     data.DateColumn,
		nursesPerModel: analytics.PatientsPerNurseModel,
		logger:         logger.With(slog.String("component", "loader")),
	}
}

// Load reads the dataset at path, dispatching on the file extension.
// A missing or unreadable file yields ErrDataSourceMissing.
func (l *Loader) Load(path string) (domain.Dataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return l.LoadExcel(path)
	default:
		return l.LoadCSV(path)
	}
}

// LoadCSV reads a comma-delimited staffing dataset.
func (l *Loader) LoadCSV(path string) (domain.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDataSourceMissing, path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrDataSourceMissing, path, err)
		}
		rows = append(rows, row)
	}

	return l.fromRows(path, rows)
}

// LoadExcel reads the first sheet of an Excel workbook as the dataset.
func (l *Loader) LoadExcel(path string) (domain.Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDataSourceMissing, path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: %s: workbook has no sheets", ErrDataSourceMissing, path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDataSourceMissing, path, err)
	}

	return l.fromRows(path, rows)
}

// columns maps normalised header names to their positions.
type columns struct {
	date      int
	patients  int
	nurses    int
	ratio     int
	occupancy int
}

// fromRows converts raw header+data rows into an ordered Dataset.
func (l *Loader) fromRows(path string, rows [][]string) (domain.Dataset, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s: file is empty", ErrDataSourceMissing, path)
	}

	cols, err := l.mapColumns(rows[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	enrich := cols.nurses < 0
	dataset := make(domain.Dataset, 0, len(rows)-1)

	for i, row := range rows[1:] {
		line := i + 2 // 1-based, after the header

		date, err := ParseDayFirstDate(cell(row, cols.date))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, line, err)
		}

		patients, err := parseCount(cell(row, cols.patients), "patient count", line)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		occupancy, err := parseCount(cell(row, cols.occupancy), "occupancy rate", line)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		day := domain.StaffingDay{
			Date:          date,
			PatientCount:  patients,
			OccupancyRate: occupancy,
		}

		if enrich {
			day.NurseCount, day.PatientsPerNurse = l.estimateStaffing(patients)
		} else {
			day.NurseCount, err = parseCount(cell(row, cols.nurses), "nurse count", line)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			day.PatientsPerNurse, err = parseCount(cell(row, cols.ratio), "patients per nurse", line)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
		}

		dataset = append(dataset, day)
	}

	l.logger.Info("dataset loaded",
		slog.String("source", path),
		slog.Int("days", len(dataset)),
		slog.Bool("nurse_counts_estimated", enrich))

	return dataset, nil
}

// mapColumns locates the required columns in the header row. The nurse
// count and ratio columns may both be absent, in which case the loader
// estimates them from the staffing model; every other column is required.
func (l *Loader) mapColumns(header []string) (columns, error) {
	cols := columns{date: -1, patients: -1, nurses: -1, ratio: -1, occupancy: -1}
	wantDate := normalizeHeader(l.dateColumn)

	for i, name := range header {
		switch normalizeHeader(name) {
		case wantDate:
			cols.date = i
		case "patientcount":
			cols.patients = i
		case "estimatednursecount", "nursecount":
			cols.nurses = i
		case "patientspernurse":
			cols.ratio = i
		case "occupancyrate":
			cols.occupancy = i
		}
	}

	switch {
	case cols.date < 0:
		return cols, fmt.Errorf("%w: %s", ErrMissingColumn, l.dateColumn)
	case cols.patients < 0:
		return cols, fmt.Errorf("%w: Patient_Count", ErrMissingColumn)
	case cols.occupancy < 0:
		return cols, fmt.Errorf("%w: Occupancy_Rate", ErrMissingColumn)
	case cols.nurses >= 0 && cols.ratio < 0:
		return cols, fmt.Errorf("%w: Patients_Per_Nurse", ErrMissingColumn)
	case cols.nurses < 0 && cols.ratio >= 0:
		return cols, fmt.Errorf("%w: Estimated_Nurse_Count", ErrMissingColumn)
	}

	return cols, nil
}

// estimateStaffing applies the 1:N staffing model to a patient count.
func (l *Loader) estimateStaffing(patients float64) (nurses, ratio float64) {
	if math.IsNaN(patients) {
		return math.NaN(), math.NaN()
	}
	nurses = math.Ceil(patients / l.nursesPerModel)
	if nurses == 0 {
		nurses = 1
	}
	return nurses, patients / nurses
}

// ParseDayFirstDate parses an admission date with day-first semantics and
// truncates any time-of-day component to midnight UTC.
func ParseDayFirstDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("admission date is empty")
	}

	for _, layout := range dayFirstLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}

	return time.Time{}, fmt.Errorf("unparseable admission date %q (expected day-first, e.g. 05/03/2024)", value)
}

// parseCount parses a non-negative numeric cell. A blank cell becomes NaN
// so the aggregation layer can apply its missing-value policy.
func parseCount(value, column string, line int) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return math.NaN(), nil
	}

	n, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("row %d: invalid %s %q", line, column, value)
	}
	if n < 0 {
		return 0, fmt.Errorf("row %d: negative %s %v", line, column, n)
	}
	return n, nil
}

// cell returns the value at index i, tolerating ragged rows.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// normalizeHeader lowercases a header name and strips everything that is
// not a letter or digit, so "D.O.A", "Patient_Count" and "Patient Count"
// all match their canonical forms.
func normalizeHeader(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
