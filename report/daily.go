/*
daily.go - Incremental daily aggregation

PURPOSE:
  Maintains the per-day activity counters. Apply is invoked synchronously
  by the recorder for every created trace; it bumps the matching activity
  line by exactly one and refreshes the report's cached total.

DATE RESOLUTION:
  Apply keys the report on the CURRENT date at apply time, not on the
  trace's own timestamp. Since apply runs inline with trace creation, both
  resolve to the same day, which keeps the daily counters consistent with
  the recorder's same-day duplicate check.

REPAIR PATH:
  RecomputeTotal recomputes a report's total from its activity lines. It is
  idempotent and usable independently when a total is suspected stale.

SEE ALSO:
  - tracking/recorder.go: The caller (via the creation notifier)
  - monthly.go: Consumes the daily records this package maintains
*/
package report

import (
	"context"
	"fmt"

	"github.com/andina/cylinder-engine/tracking"
)

// DailyAggregator maintains daily reports from created traces.
type DailyAggregator struct {
	store DailyStore
	clock tracking.Clock
}

// NewDailyAggregator creates a daily aggregator. A nil clock defaults to
// the system clock.
func NewDailyAggregator(store DailyStore, clock tracking.Clock) *DailyAggregator {
	if clock == nil {
		clock = tracking.SystemClock{}
	}
	return &DailyAggregator{store: store, clock: clock}
}

// Apply records one created trace into today's report: get-or-create the
// report, atomically bump the (report, label) line, then recompute and
// persist the total.
func (a *DailyAggregator) Apply(ctx context.Context, tr tracking.Trace) error {
	day := tracking.Today(a.clock)

	rep, err := a.store.GetOrCreateDaily(ctx, day)
	if err != nil {
		return fmt.Errorf("daily report for %s: %w", day, err)
	}

	// The increment must be a single store operation; a read-bump-save
	// sequence here would drop counts under concurrent applies.
	if err := a.store.IncrementLine(ctx, day, tr.Action.Label()); err != nil {
		return fmt.Errorf("increment activity line %q for %s: %w", tr.Action.Label(), day, err)
	}

	if _, err := a.RecomputeTotal(ctx, rep); err != nil {
		return err
	}
	return nil
}

// RecomputeTotal recomputes the report's total as the sum of its activity
// lines' counts, persists it, and returns it. Idempotent: calling it twice
// without intervening writes yields the same total.
func (a *DailyAggregator) RecomputeTotal(ctx context.Context, rep DailyReport) (int, error) {
	lines, err := a.store.LinesFor(ctx, rep.Date)
	if err != nil {
		return 0, fmt.Errorf("lines for %s: %w", rep.Date, err)
	}

	total := 0
	for _, line := range lines {
		total += line.Count
	}

	rep.TotalGeneral = total
	if err := a.store.SaveDaily(ctx, rep); err != nil {
		return 0, fmt.Errorf("save daily report for %s: %w", rep.Date, err)
	}
	return total, nil
}
