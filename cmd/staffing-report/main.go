package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"wardpulse/internal/config"
	"wardpulse/internal/dataprocessing"
	"wardpulse/internal/exporter"
	"wardpulse/internal/services"
)

func main() {
	source := flag.String("source", "", "staffing CSV/Excel file (defaults to configured source)")
	start := flag.String("start", "", "range start, YYYY-MM-DD (defaults to dataset start)")
	end := flag.String("end", "", "range end, YYYY-MM-DD (defaults to dataset end)")
	minRatio := flag.Float64("min-ratio", 0, "minimum patients-per-nurse ratio (defaults to configured floor)")
	out := flag.String("out", "", "write the filtered view as CSV to this path")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *source != "" {
		cfg.Data.SourceFile = *source
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	loader := dataprocessing.NewLoader(cfg.Data, cfg.Analytics, logger)
	store := dataprocessing.NewStore(cfg.Data.SourceFile, loader, logger)

	service, err := services.NewDashboardService(store, cfg.Analytics, logger)
	if err != nil {
		slog.Error("Failed to initialize dashboard service", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	bounds, err := store.Bounds(ctx)
	if err != nil {
		slog.Error("Failed to load staffing data",
			"source", cfg.Data.SourceFile,
			"error", err,
			"hint", "check that the source file exists and has data rows")
		os.Exit(1)
	}

	params := dataprocessing.FilterParams{
		Start:    bounds.Min,
		End:      bounds.Max,
		MinRatio: cfg.Analytics.MinRatioFloor,
	}
	if *start != "" {
		params.Start, err = time.Parse("2006-01-02", *start)
		if err != nil {
			slog.Error("Invalid -start date, expected YYYY-MM-DD", "value", *start)
			os.Exit(1)
		}
	}
	if *end != "" {
		params.End, err = time.Parse("2006-01-02", *end)
		if err != nil {
			slog.Error("Invalid -end date, expected YYYY-MM-DD", "value", *end)
			os.Exit(1)
		}
	}
	if *minRatio != 0 {
		params.MinRatio = *minRatio
	}

	summary, err := service.Summary(ctx, params)
	if err != nil {
		if errors.Is(err, services.ErrEmptyResultSet) {
			fmt.Printf("No staffing days match the selected range (%s to %s, min ratio %.2f).\n",
				params.Start.Format("2006-01-02"), params.End.Format("2006-01-02"), params.MinRatio)
			return
		}
		slog.Error("Failed to compute summary", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Staffing report: %s\n", cfg.Data.SourceFile)
	fmt.Printf("  Range:        %s to %s (min ratio %.2f)\n",
		params.Start.Format("2006-01-02"), params.End.Format("2006-01-02"), params.MinRatio)
	fmt.Printf("  Days:         %d\n", summary.Days)
	fmt.Printf("  Avg patients: %.1f\n", summary.AvgPatients)
	fmt.Printf("  Avg nurses:   %.1f\n", summary.AvgNurses)
	fmt.Printf("  Avg ratio:    %.2f\n", summary.AvgRatio)
	fmt.Printf("  Risk days:    %d (ratio > %.1f)\n", summary.RiskDays, cfg.Analytics.RiskRatio)

	if *out != "" {
		if err := writeExport(ctx, service, params, *out); err != nil {
			slog.Error("Failed to write CSV export", "path", *out, "error", err)
			os.Exit(1)
		}
		fmt.Printf("  Exported:     %s\n", *out)
	}
}

func writeExport(ctx context.Context, service *services.DashboardService, params dataprocessing.FilterParams, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	view, err := service.Days(ctx, params)
	if err != nil {
		return err
	}
	return exporter.WriteStaffingDays(f, view, exporter.Options{})
}
