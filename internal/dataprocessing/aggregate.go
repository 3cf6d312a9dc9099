package dataprocessing

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"wardpulse/internal/config"
	"wardpulse/pkg/contracts/domain"
)

// ErrEmptyView reports aggregation over a view with no days. Callers are
// expected to reject empty views before aggregating and surface an
// explicit "no data" notice rather than zero-filled metrics.
var ErrEmptyView = errors.New("cannot aggregate an empty view")

// MissingValuePolicy decides how NaN cells participate in means.
type MissingValuePolicy int

const (
	// MissingSkip excludes NaN values from both the numerator and the
	// denominator of the affected column's mean.
	MissingSkip MissingValuePolicy = iota
	// MissingPropagate lets a single NaN poison the affected mean,
	// following standard floating-point semantics.
	MissingPropagate
)

// ParseMissingPolicy converts the configured policy name.
func ParseMissingPolicy(name string) (MissingValuePolicy, error) {
	switch strings.ToLower(name) {
	case "skip", "":
		return MissingSkip, nil
	case "propagate":
		return MissingPropagate, nil
	default:
		return MissingSkip, fmt.Errorf("unknown missing-value policy %q", name)
	}
}

// AggregateOptions carries the staffing constants the aggregator needs.
type AggregateOptions struct {
	// RiskRatio is the fixed clinical threshold for counting risk days.
	// It is deliberately independent of the user's minimum-ratio filter.
	RiskRatio float64
	Missing   MissingValuePolicy
}

// OptionsFromConfig builds aggregate options from the analytics config.
func OptionsFromConfig(cfg config.AnalyticsConfig) (AggregateOptions, error) {
	policy, err := ParseMissingPolicy(cfg.MissingValues)
	if err != nil {
		return AggregateOptions{}, err
	}
	return AggregateOptions{RiskRatio: cfg.RiskRatio, Missing: policy}, nil
}

// Aggregate computes the summary metrics over a non-empty filtered view:
// mean patient count (1dp), mean nurse count (1dp), mean ratio (2dp) and
// the number of days whose ratio exceeds the risk threshold.
func Aggregate(view domain.Dataset, opts AggregateOptions) (domain.Summary, error) {
	if len(view) == 0 {
		return domain.Summary{}, ErrEmptyView
	}

	var patients, nurses, ratios mean
	riskDays := 0

	for _, day := range view {
		patients.add(day.PatientCount, opts.Missing)
		nurses.add(day.NurseCount, opts.Missing)
		ratios.add(day.PatientsPerNurse, opts.Missing)

		if day.PatientsPerNurse > opts.RiskRatio {
			riskDays++
		}
	}

	return domain.Summary{
		AvgPatients: roundTo(patients.value(), 1),
		AvgNurses:   roundTo(nurses.value(), 1),
		AvgRatio:    roundTo(ratios.value(), 2),
		RiskDays:    riskDays,
		Days:        len(view),
	}, nil
}

// mean accumulates a running mean under a missing-value policy.
type mean struct {
	sum    float64
	n      int
	poison bool
}

func (m *mean) add(v float64, policy MissingValuePolicy) {
	if math.IsNaN(v) {
		if policy == MissingPropagate {
			m.poison = true
		}
		return
	}
	m.sum += v
	m.n++
}

// value returns the mean, NaN when every value was missing or when a
// missing value poisoned the column under MissingPropagate.
func (m *mean) value() float64 {
	if m.poison || m.n == 0 {
		return math.NaN()
	}
	return m.sum / float64(m.n)
}

// roundTo rounds half away from zero to the given number of decimals.
// NaN passes through so a poisoned mean stays visibly poisoned.
func roundTo(v float64, decimals int) float64 {
	if math.IsNaN(v) {
		return v
	}
	pow := math.Pow(10, float64(decimals))
	return math.Round(v*pow) / pow
}
