package tracking_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andina/cylinder-engine/store/memory"
	"github.com/andina/cylinder-engine/tracking"
)

// =============================================================================
// TEST SETUP
// =============================================================================

// fixedClock pins "now" to March 1 2024, 10:00 UTC.
func fixedClock() tracking.Clock {
	return tracking.ClockFunc(func() time.Time {
		return time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)
	})
}

func newTestRecorder(t *testing.T, clock tracking.Clock) (*tracking.Recorder, *memory.Store, tracking.Cylinder) {
	t.Helper()
	store := memory.New()
	ctx := context.Background()

	registry := tracking.NewRegistry(store, store, clock)
	_, err := registry.CreateNit(ctx, "900123456-1", "tester")
	require.NoError(t, err)

	cylinder, err := registry.CreateCylinder(ctx, "CYL-0001", "900123456-1", "")
	require.NoError(t, err)

	return tracking.NewRecorder(store, store, clock), store, cylinder
}

// =============================================================================
// STATE TRANSITION TESTS
// =============================================================================

func TestRecord_LabeledTransitionsState(t *testing.T) {
	// GIVEN: A cylinder in RECEIVED
	recorder, store, cylinder := newTestRecorder(t, fixedClock())
	ctx := context.Background()

	// WHEN: Recording a LABELED action
	tr, err := recorder.Record(ctx, cylinder.ID, tracking.ActionLabeled, "user-1", "")

	// THEN: The trace is saved and the cylinder moved to LABELED
	require.NoError(t, err)
	assert.Equal(t, tracking.ActionLabeled, tr.Action)
	assert.Equal(t, cylinder.ID, tr.CylinderID)

	got, err := store.GetCylinder(ctx, cylinder.ID)
	require.NoError(t, err)
	assert.Equal(t, tracking.StateLabeled, got.CurrentState)
}

func TestRecord_TracedTransitionsState(t *testing.T) {
	recorder, store, cylinder := newTestRecorder(t, fixedClock())
	ctx := context.Background()

	_, err := recorder.Record(ctx, cylinder.ID, tracking.ActionTraced, "user-1", "first pass")
	require.NoError(t, err)

	got, err := store.GetCylinder(ctx, cylinder.ID)
	require.NoError(t, err)
	assert.Equal(t, tracking.StateTraced, got.CurrentState)
}

func TestRecord_IdentityCreatedResetsToReceived(t *testing.T) {
	// GIVEN: A cylinder already moved to LABELED
	recorder, store, cylinder := newTestRecorder(t, fixedClock())
	ctx := context.Background()
	_, err := recorder.Record(ctx, cylinder.ID, tracking.ActionLabeled, "user-1", "")
	require.NoError(t, err)

	// WHEN: Recording an IDENTITY_CREATED action
	_, err = recorder.Record(ctx, cylinder.ID, tracking.ActionIdentityCreated, "user-1", "")
	require.NoError(t, err)

	// THEN: The state resets to RECEIVED
	got, err := store.GetCylinder(ctx, cylinder.ID)
	require.NoError(t, err)
	assert.Equal(t, tracking.StateReceived, got.CurrentState)
}

// =============================================================================
// ONCE-PER-DAY INVARIANT TESTS
// =============================================================================

func TestRecord_DuplicateTracedSameDay_Rejected(t *testing.T) {
	// GIVEN: A cylinder already traced today
	recorder, _, cylinder := newTestRecorder(t, fixedClock())
	ctx := context.Background()
	_, err := recorder.Record(ctx, cylinder.ID, tracking.ActionTraced, "user-1", "")
	require.NoError(t, err)

	// WHEN: Tracing the same cylinder again on the same day
	_, err = recorder.Record(ctx, cylinder.ID, tracking.ActionTraced, "user-2", "")

	// THEN: Rejected with DuplicateActionError carrying the details
	require.Error(t, err)
	var dupErr *tracking.DuplicateActionError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, cylinder.ID, dupErr.CylinderID)
	assert.Equal(t, tracking.ActionTraced, dupErr.Action)
	assert.Equal(t, tracking.NewDate(2024, time.March, 1), dupErr.Date)
	assert.True(t, tracking.IsClientError(err))
}

func TestRecord_TracedOnDifferentDays_Allowed(t *testing.T) {
	// GIVEN: A mutable clock starting on March 1
	now := time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)
	clock := tracking.ClockFunc(func() time.Time { return now })
	recorder, _, cylinder := newTestRecorder(t, clock)
	ctx := context.Background()

	_, err := recorder.Record(ctx, cylinder.ID, tracking.ActionTraced, "user-1", "")
	require.NoError(t, err)

	// WHEN: The next day arrives
	now = now.AddDate(0, 0, 1)

	// THEN: A second TRACED is accepted
	_, err = recorder.Record(ctx, cylinder.ID, tracking.ActionTraced, "user-1", "")
	assert.NoError(t, err)
}

func TestRecord_RepeatedLabeledSameDay_Allowed(t *testing.T) {
	// Only TRACED is once-per-day; LABELED may repeat freely.
	recorder, _, cylinder := newTestRecorder(t, fixedClock())
	ctx := context.Background()

	_, err := recorder.Record(ctx, cylinder.ID, tracking.ActionLabeled, "user-1", "")
	require.NoError(t, err)
	_, err = recorder.Record(ctx, cylinder.ID, tracking.ActionLabeled, "user-1", "")
	assert.NoError(t, err)
}

// =============================================================================
// VALIDATION TESTS
// =============================================================================

func TestRecord_UnknownAction_Rejected(t *testing.T) {
	recorder, _, cylinder := newTestRecorder(t, fixedClock())

	_, err := recorder.Record(context.Background(), cylinder.ID, tracking.ActionKind("PAINTED"), "user-1", "")

	require.Error(t, err)
	assert.ErrorIs(t, err, tracking.ErrValidation)
}

func TestRecord_MissingCylinder_Rejected(t *testing.T) {
	recorder, _, _ := newTestRecorder(t, fixedClock())

	_, err := recorder.Record(context.Background(), "no-such-id", tracking.ActionTraced, "user-1", "")

	require.Error(t, err)
	assert.ErrorIs(t, err, tracking.ErrCylinderNotFound)
	assert.True(t, tracking.IsNotFound(err))
}

// =============================================================================
// NOTIFIER TESTS
// =============================================================================

func TestRecord_NotifierFiresOncePerCreatedTrace(t *testing.T) {
	// GIVEN: A recorder with a counting notifier
	recorder, _, cylinder := newTestRecorder(t, fixedClock())
	ctx := context.Background()

	var seen []tracking.Trace
	recorder.OnTraceCreated(func(_ context.Context, tr tracking.Trace) error {
		seen = append(seen, tr)
		return nil
	})

	// WHEN: One trace succeeds and one is rejected
	tr, err := recorder.Record(ctx, cylinder.ID, tracking.ActionTraced, "user-1", "")
	require.NoError(t, err)
	_, err = recorder.Record(ctx, cylinder.ID, tracking.ActionTraced, "user-1", "")
	require.Error(t, err)

	// THEN: The notifier fired exactly once, for the created trace only
	require.Len(t, seen, 1)
	assert.Equal(t, tr.ID, seen[0].ID)
}

func TestRecord_NotifierFailure_ReturnsAggregationErrorWithTrace(t *testing.T) {
	// GIVEN: A notifier that always fails
	recorder, store, cylinder := newTestRecorder(t, fixedClock())
	ctx := context.Background()
	recorder.OnTraceCreated(func(context.Context, tracking.Trace) error {
		return errors.New("report store down")
	})

	// WHEN: Recording a trace
	tr, err := recorder.Record(ctx, cylinder.ID, tracking.ActionLabeled, "user-1", "")

	// THEN: The error is an AggregationError but the trace was persisted
	require.Error(t, err)
	assert.ErrorIs(t, err, tracking.ErrAggregation)
	var aggErr *tracking.AggregationError
	require.ErrorAs(t, err, &aggErr)
	assert.Equal(t, tr.ID, aggErr.TraceID)
	assert.NotEmpty(t, tr.ID)

	traces, err := store.TracesByCylinder(ctx, cylinder.ID)
	require.NoError(t, err)
	require.Len(t, traces, 1)
	assert.Equal(t, tr.ID, traces[0].ID)
}

// =============================================================================
// ACTION LABEL TESTS
// =============================================================================

func TestActionLabels(t *testing.T) {
	assert.Equal(t, "Etiquetado", tracking.ActionLabeled.Label())
	assert.Equal(t, "Trazado", tracking.ActionTraced.Label())
	assert.Equal(t, "NIT Creado", tracking.ActionIdentityCreated.Label())
	// Unknown kinds fall back to the raw value
	assert.Equal(t, "WHATEVER", tracking.ActionKind("WHATEVER").Label())
}
