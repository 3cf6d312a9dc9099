// Package dataprocessing implements the staffing analytics core: loading
// the daily staffing dataset from CSV or Excel sources, the cached dataset
// store, the date-range and minimum-ratio filter engine, the summary
// aggregator, and the chart feed builders consumed by the dashboard
// frontend.
//
// The pipeline is strictly synchronous: every parameter change recomputes
// the filtered view and its aggregates from the immutable cached dataset.
package dataprocessing
