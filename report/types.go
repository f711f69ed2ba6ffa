/*
Package report derives daily and monthly activity reports from the trace
log.

PURPOSE:
  Each recorded trace increments a per-day, per-activity counter. Daily
  reports are maintained incrementally on the write path; monthly reports
  are batch-computed on demand by scanning the daily records.

KEY CONCEPTS IN THIS FILE (types.go):
  - DailyReport: One row per calendar day with any recorded activity
  - ActivityLine: Per-(day, activity-label) counter owned by its report
  - MonthlyReport: Per-month rollup with variation and standout activity

DERIVED DATA:
  DailyReport.TotalGeneral is a cache over the report's activity lines.
  The aggregator increments it on the hot path and exposes RecomputeTotal
  as the pure repair path.

SEE ALSO:
  - daily.go: Incremental daily aggregation
  - monthly.go: Batch monthly computation
  - store.go: Persistence interfaces
*/
package report

import (
	"github.com/andina/cylinder-engine/tracking"
)

// =============================================================================
// DAILY REPORT
// =============================================================================

// DailyReport is the per-day activity rollup. Created lazily on the first
// trace of the day.
type DailyReport struct {
	Date         tracking.Date
	TotalGeneral int // Sum of all activity-line counts for this date
}

// ActivityLine is one counter within a daily report, keyed by the
// human-readable activity label. Unique per (report date, activity).
type ActivityLine struct {
	Date     tracking.Date
	Activity string
	Count    int
}

// =============================================================================
// MONTHLY REPORT
// =============================================================================

// MonthlyReport is the per-month rollup, keyed by the first day of the
// month. Computed on demand and overwritten on each computation.
type MonthlyReport struct {
	Month            tracking.Date
	TotalMonth       int
	PercentVariation float64 // vs previous month; 0 when no usable previous month
	StandoutActivity string  // Highest-count activity in the window; empty if none
}
