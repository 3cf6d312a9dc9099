// Package exporter renders filtered staffing views as CSV downloads.
package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"wardpulse/pkg/contracts/domain"
)

// Options configures CSV writing behavior
type Options struct {
	// DateLayout formats the admission date column; empty selects the
	// source's day-first layout.
	DateLayout string
	// BOMPrefix adds a UTF-8 BOM so Excel opens the file correctly.
	BOMPrefix bool
}

// Header is the exported column set, matching the source file's schema.
var Header = []string{"D.O.A", "Patient_Count", "Estimated_Nurse_Count", "Patients_Per_Nurse", "Occupancy_Rate"}

// WriteStaffingDays streams a filtered view as CSV.
func WriteStaffingDays(w io.Writer, view domain.Dataset, opts Options) error {
	layout := opts.DateLayout
	if layout == "" {
		layout = "02/01/2006"
	}

	if opts.BOMPrefix {
		if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)

	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, day := range view {
		record := []string{
			day.Date.Format(layout),
			formatCell(day.PatientCount, -1),
			formatCell(day.NurseCount, -1),
			formatCell(day.PatientsPerNurse, 2),
			formatCell(day.OccupancyRate, 1),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i+1, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// formatCell renders a numeric cell, leaving missing values blank the way
// the source represents them.
func formatCell(v float64, decimals int) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', decimals, 64)
}
