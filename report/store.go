/*
store.go - Persistence interfaces for reports

PURPOSE:
  Defines how the aggregators read and write daily reports, activity lines,
  and monthly reports. Implementations live in store/sqlite and
  store/memory alongside the tracking stores.

OWNERSHIP:
  A daily report exclusively owns its activity lines; deleting a report
  cascades to its lines (the SQLite schema encodes this).

CONCURRENCY:
  The per-line counter is bumped through IncrementLine, which each
  implementation makes atomic (a single conditional-upsert statement in
  SQLite, one locked read-modify-write section in memory). A
  get-then-save sequence spread over separate calls would lose updates
  under concurrent applies. The cached daily total stays best-effort;
  RecomputeTotal is the repair path.
*/
package report

import (
	"context"

	"github.com/andina/cylinder-engine/tracking"
)

// =============================================================================
// DAILY STORE
// =============================================================================

type DailyStore interface {
	// GetDaily returns the report for a date, or nil if the day has had no
	// activity.
	GetDaily(ctx context.Context, date tracking.Date) (*DailyReport, error)

	// GetOrCreateDaily returns the report for a date, creating an empty one
	// if the day has none yet.
	GetOrCreateDaily(ctx context.Context, date tracking.Date) (DailyReport, error)

	// SaveDaily persists the report's total.
	SaveDaily(ctx context.Context, rep DailyReport) error

	// GetOrCreateLine returns the activity line for (date, activity),
	// creating it with count 0 if absent.
	GetOrCreateLine(ctx context.Context, date tracking.Date, activity string) (ActivityLine, error)

	// IncrementLine atomically bumps the (date, activity) counter by one,
	// creating the line at count 1 if absent. Safe under concurrent
	// applies for the same line.
	IncrementLine(ctx context.Context, date tracking.Date, activity string) error

	// SaveLine persists an activity line's count.
	SaveLine(ctx context.Context, line ActivityLine) error

	// LinesFor returns all activity lines of one daily report, ordered by
	// activity label.
	LinesFor(ctx context.Context, date tracking.Date) ([]ActivityLine, error)

	// DailiesInRange returns daily reports dated in [from, to] inclusive.
	DailiesInRange(ctx context.Context, from, to tracking.Date) ([]DailyReport, error)

	// LinesInRange returns activity lines whose report date falls in
	// [from, to] inclusive.
	LinesInRange(ctx context.Context, from, to tracking.Date) ([]ActivityLine, error)
}

// =============================================================================
// MONTHLY STORE
// =============================================================================

type MonthlyStore interface {
	// GetMonthly returns the report for a month (first-of-month key), or
	// nil if never computed.
	GetMonthly(ctx context.Context, month tracking.Date) (*MonthlyReport, error)

	// UpsertMonthly writes the computed report, overwriting any prior
	// computation for that month.
	UpsertMonthly(ctx context.Context, rep MonthlyReport) error

	// ListMonthly returns all computed monthly reports ordered by month.
	ListMonthly(ctx context.Context) ([]MonthlyReport, error)
}
