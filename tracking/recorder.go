/*
recorder.go - Trace recording and state transition

PURPOSE:
  The Recorder is the single write path for cylinder actions. Recording a
  trace validates the business rules, mutates the cylinder's cached state,
  appends the immutable trace, and notifies the daily report aggregator.

RECORD SEQUENCE:
  1. Load cylinder (must exist and be persisted)
  2. Validate the action kind
  3. TRACED only: reject a second TRACED on the same calendar day
  4. Durably save the new cylinder state BEFORE the trace is appended
  5. Append the trace
  6. Invoke the creation notifier exactly once, synchronously

ORDERING CAVEAT:
  Because the state update commits before the trace, a crash between steps
  4 and 5 leaves the cylinder's derived state one action ahead of its trace
  history. This window is accepted and not corrected automatically.

DUPLICATE-CHECK CAVEAT:
  The same-day check (step 3) and the insert (step 5) are not atomic across
  concurrent callers; two simultaneous submissions can both pass the read.
  The SQLite store carries a partial unique index that makes the loser fail
  at the database when that backend is in use.

NOTIFICATION:
  The notifier is plain dependency injection: wiring code hands the daily
  aggregator's Apply to OnTraceCreated. It fires at most once per created
  trace and never for anything else. A notifier failure is returned to the
  caller as an AggregationError together with the already-persisted trace;
  there is no retry and no queue.

SEE ALSO:
  - report/daily.go: The notifier target
  - errors.go: DuplicateActionError, AggregationError
*/
package tracking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Notifier receives each newly created trace. See OnTraceCreated.
type Notifier func(ctx context.Context, tr Trace) error

// Recorder validates and records cylinder actions.
type Recorder struct {
	cylinders CylinderStore
	traces    TraceStore
	clock     Clock
	notify    Notifier
}

// NewRecorder creates a recorder. A nil clock defaults to the system clock.
func NewRecorder(cylinders CylinderStore, traces TraceStore, clock Clock) *Recorder {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Recorder{cylinders: cylinders, traces: traces, clock: clock}
}

// OnTraceCreated registers the synchronous post-creation notifier,
// normally the daily aggregator's Apply.
func (r *Recorder) OnTraceCreated(fn Notifier) {
	r.notify = fn
}

// Record validates and persists one action against a cylinder.
//
// userID may be empty (the acting user is optional and may since have been
// deleted). On an aggregation failure the returned Trace is still valid:
// it was durably saved before the notifier ran.
func (r *Recorder) Record(ctx context.Context, cylinderID string, action ActionKind, userID, comment string) (Trace, error) {
	cylinder, err := r.cylinders.GetCylinder(ctx, cylinderID)
	if err != nil {
		return Trace{}, err
	}
	if cylinder == nil {
		return Trace{}, fmt.Errorf("%w: %s", ErrCylinderNotFound, cylinderID)
	}

	if !action.Valid() {
		return Trace{}, fmt.Errorf("%w: unknown action kind %q", ErrValidation, action)
	}

	// At most one TRACED per cylinder per calendar day, resolved against
	// the server-local date.
	today := Today(r.clock)
	if action == ActionTraced {
		exists, err := r.traces.HasActionOn(ctx, cylinder.ID, ActionTraced, today)
		if err != nil {
			return Trace{}, fmt.Errorf("failed to check same-day trace: %w", err)
		}
		if exists {
			return Trace{}, &DuplicateActionError{
				CylinderID: cylinder.ID,
				Action:     ActionTraced,
				Date:       today,
			}
		}
	}

	// State first, then trace. The reverse order would let a crash lose an
	// accepted action entirely; this order only leaves the cached state
	// ahead of the history.
	if state, ok := action.ResultingState(); ok {
		if err := r.cylinders.SaveCylinderState(ctx, cylinder.ID, state); err != nil {
			return Trace{}, err
		}
	}

	tr := Trace{
		ID:         uuid.NewString(),
		CylinderID: cylinder.ID,
		Action:     action,
		UserID:     userID,
		At:         r.clock.Now(),
		Comment:    comment,
	}
	if err := r.traces.AppendTrace(ctx, tr); err != nil {
		// Wrap database-level uniqueness errors with the domain error, the
		// same shape the pre-check produces.
		if errors.Is(err, ErrDuplicateAction) {
			return Trace{}, &DuplicateActionError{
				CylinderID: cylinder.ID,
				Action:     action,
				Date:       today,
			}
		}
		return Trace{}, err
	}

	if r.notify != nil {
		if err := r.notify(ctx, tr); err != nil {
			return tr, &AggregationError{TraceID: tr.ID, Err: err}
		}
	}
	return tr, nil
}
