package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andina/cylinder-engine/report"
	"github.com/andina/cylinder-engine/store/sqlite"
	"github.com/andina/cylinder-engine/tracking"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func seedNitAndCylinder(t *testing.T, store *sqlite.Store, nitCode, cylinderID string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.CreateNit(ctx, tracking.Nit{
		Code:      nitCode,
		Active:    true,
		CreatedAt: time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, store.CreateCylinder(ctx, tracking.Cylinder{
		ID:             cylinderID,
		EngravedNumber: "CYL-" + cylinderID,
		NitCode:        nitCode,
		CurrentState:   tracking.StateReceived,
		IntakeDate:     tracking.NewDate(2024, time.March, 1),
	}))
}

// =============================================================================
// NIT TESTS
// =============================================================================

func TestNitRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	nit := tracking.Nit{
		Code:      "900123456-1",
		Active:    true,
		CreatedBy: "admin",
		CreatedAt: time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.CreateNit(ctx, nit))

	got, err := store.GetNit(ctx, "900123456-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, nit.Code, got.Code)
	assert.True(t, got.Active)
	assert.Equal(t, "admin", got.CreatedBy)
	assert.True(t, nit.CreatedAt.Equal(got.CreatedAt))
}

func TestGetNit_Missing_ReturnsNil(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetNit(context.Background(), "no-such-nit")

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCreateNit_Duplicate_Rejected(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	nit := tracking.Nit{Code: "900123456-1", Active: true, CreatedAt: time.Now().UTC()}
	require.NoError(t, store.CreateNit(ctx, nit))

	err := store.CreateNit(ctx, nit)

	require.Error(t, err)
	assert.ErrorIs(t, err, tracking.ErrDuplicateNit)
}

func TestSaveNit_PersistsActiveFlag(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	nit := tracking.Nit{Code: "900123456-1", Active: true, CreatedAt: time.Now().UTC()}
	require.NoError(t, store.CreateNit(ctx, nit))

	nit.Active = false
	require.NoError(t, store.SaveNit(ctx, nit))

	got, err := store.GetNit(ctx, "900123456-1")
	require.NoError(t, err)
	assert.False(t, got.Active)
}

func TestSaveNit_Missing_Rejected(t *testing.T) {
	store := newTestStore(t)

	err := store.SaveNit(context.Background(), tracking.Nit{Code: "ghost"})

	require.Error(t, err)
	assert.ErrorIs(t, err, tracking.ErrNitNotFound)
}

// =============================================================================
// CYLINDER TESTS
// =============================================================================

func TestCylinderRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedNitAndCylinder(t, store, "900123456-1", "cyl-1")

	got, err := store.GetCylinder(ctx, "cyl-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "CYL-cyl-1", got.EngravedNumber)
	assert.Equal(t, "900123456-1", got.NitCode)
	assert.Equal(t, tracking.StateReceived, got.CurrentState)
	assert.Equal(t, tracking.NewDate(2024, time.March, 1), got.IntakeDate)

	byNit, err := store.GetCylinderByNit(ctx, "900123456-1")
	require.NoError(t, err)
	require.NotNil(t, byNit)
	assert.Equal(t, "cyl-1", byNit.ID)
}

func TestCreateCylinder_NitAlreadyBound_Rejected(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedNitAndCylinder(t, store, "900123456-1", "cyl-1")

	err := store.CreateCylinder(ctx, tracking.Cylinder{
		ID:             "cyl-2",
		EngravedNumber: "CYL-cyl-2",
		NitCode:        "900123456-1",
		CurrentState:   tracking.StateReceived,
		IntakeDate:     tracking.NewDate(2024, time.March, 2),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, tracking.ErrNitAssigned)
}

func TestSaveCylinderState(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedNitAndCylinder(t, store, "900123456-1", "cyl-1")

	require.NoError(t, store.SaveCylinderState(ctx, "cyl-1", tracking.StateTraced))

	got, err := store.GetCylinder(ctx, "cyl-1")
	require.NoError(t, err)
	assert.Equal(t, tracking.StateTraced, got.CurrentState)
}

func TestSaveCylinderState_Missing_Rejected(t *testing.T) {
	store := newTestStore(t)

	err := store.SaveCylinderState(context.Background(), "ghost", tracking.StateTraced)

	require.Error(t, err)
	assert.ErrorIs(t, err, tracking.ErrCylinderNotFound)
}

// =============================================================================
// TRACE TESTS
// =============================================================================

func TestTraceAppendAndQuery(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedNitAndCylinder(t, store, "900123456-1", "cyl-1")

	first := tracking.Trace{
		ID:         "tr-1",
		CylinderID: "cyl-1",
		Action:     tracking.ActionLabeled,
		UserID:     "user-1",
		At:         time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC),
		Comment:    "intake label",
	}
	second := tracking.Trace{
		ID:         "tr-2",
		CylinderID: "cyl-1",
		Action:     tracking.ActionTraced,
		At:         time.Date(2024, time.March, 1, 11, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.AppendTrace(ctx, first))
	require.NoError(t, store.AppendTrace(ctx, second))

	traces, err := store.TracesByCylinder(ctx, "cyl-1")
	require.NoError(t, err)
	require.Len(t, traces, 2)
	assert.Equal(t, "tr-1", traces[0].ID)
	assert.Equal(t, "tr-2", traces[1].ID)
	assert.Equal(t, "intake label", traces[0].Comment)
	assert.True(t, first.At.Equal(traces[0].At))
}

func TestHasActionOn(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedNitAndCylinder(t, store, "900123456-1", "cyl-1")

	require.NoError(t, store.AppendTrace(ctx, tracking.Trace{
		ID:         "tr-1",
		CylinderID: "cyl-1",
		Action:     tracking.ActionTraced,
		At:         time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC),
	}))

	same, err := store.HasActionOn(ctx, "cyl-1", tracking.ActionTraced, tracking.NewDate(2024, time.March, 1))
	require.NoError(t, err)
	assert.True(t, same)

	other, err := store.HasActionOn(ctx, "cyl-1", tracking.ActionTraced, tracking.NewDate(2024, time.March, 2))
	require.NoError(t, err)
	assert.False(t, other)

	otherAction, err := store.HasActionOn(ctx, "cyl-1", tracking.ActionLabeled, tracking.NewDate(2024, time.March, 1))
	require.NoError(t, err)
	assert.False(t, otherAction)
}

func TestAppendTrace_SecondSameDayTraced_RejectedByIndex(t *testing.T) {
	// The partial unique index backstops the recorder's pre-check: a
	// second TRACED on the same calendar day fails at the database.
	store := newTestStore(t)
	ctx := context.Background()
	seedNitAndCylinder(t, store, "900123456-1", "cyl-1")

	require.NoError(t, store.AppendTrace(ctx, tracking.Trace{
		ID:         "tr-1",
		CylinderID: "cyl-1",
		Action:     tracking.ActionTraced,
		At:         time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC),
	}))

	err := store.AppendTrace(ctx, tracking.Trace{
		ID:         "tr-2",
		CylinderID: "cyl-1",
		Action:     tracking.ActionTraced,
		At:         time.Date(2024, time.March, 1, 16, 30, 0, 0, time.UTC),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, tracking.ErrDuplicateAction)
}

func TestAppendTrace_SameLocalDayAcrossUTCBoundary_Rejected(t *testing.T) {
	// 05:00 and 15:00 on March 1 in UTC+9 fall on different UTC dates
	// (Feb 29 20:00Z vs Mar 1 06:00Z) but the same local calendar day.
	// The uniqueness rule keys on the local day the action happened.
	store := newTestStore(t)
	ctx := context.Background()
	seedNitAndCylinder(t, store, "900123456-1", "cyl-1")

	east := time.FixedZone("UTC+9", 9*60*60)
	require.NoError(t, store.AppendTrace(ctx, tracking.Trace{
		ID:         "tr-1",
		CylinderID: "cyl-1",
		Action:     tracking.ActionTraced,
		At:         time.Date(2024, time.March, 1, 5, 0, 0, 0, east),
	}))

	err := store.AppendTrace(ctx, tracking.Trace{
		ID:         "tr-2",
		CylinderID: "cyl-1",
		Action:     tracking.ActionTraced,
		At:         time.Date(2024, time.March, 1, 15, 0, 0, 0, east),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, tracking.ErrDuplicateAction)

	// HasActionOn agrees with the index on the local day
	has, err := store.HasActionOn(ctx, "cyl-1", tracking.ActionTraced, tracking.NewDate(2024, time.March, 1))
	require.NoError(t, err)
	assert.True(t, has)

	prev, err := store.HasActionOn(ctx, "cyl-1", tracking.ActionTraced, tracking.NewDate(2024, time.February, 29))
	require.NoError(t, err)
	assert.False(t, prev)
}

func TestAppendTrace_NextLocalDaySameUTCDay_Allowed(t *testing.T) {
	// 20:00 March 1 and 08:00 March 2 in UTC-5 land on the same UTC date
	// (both March 2 in UTC) but different local days; both must be
	// accepted.
	store := newTestStore(t)
	ctx := context.Background()
	seedNitAndCylinder(t, store, "900123456-1", "cyl-1")

	west := time.FixedZone("UTC-5", -5*60*60)
	require.NoError(t, store.AppendTrace(ctx, tracking.Trace{
		ID:         "tr-1",
		CylinderID: "cyl-1",
		Action:     tracking.ActionTraced,
		At:         time.Date(2024, time.March, 1, 20, 0, 0, 0, west),
	}))
	require.NoError(t, store.AppendTrace(ctx, tracking.Trace{
		ID:         "tr-2",
		CylinderID: "cyl-1",
		Action:     tracking.ActionTraced,
		At:         time.Date(2024, time.March, 2, 8, 0, 0, 0, west),
	}))
}

func TestAppendTrace_SameDayNonTraced_Allowed(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedNitAndCylinder(t, store, "900123456-1", "cyl-1")

	day := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.AppendTrace(ctx, tracking.Trace{
		ID: "tr-1", CylinderID: "cyl-1", Action: tracking.ActionLabeled, At: day,
	}))
	require.NoError(t, store.AppendTrace(ctx, tracking.Trace{
		ID: "tr-2", CylinderID: "cyl-1", Action: tracking.ActionLabeled, At: day.Add(time.Hour),
	}))
}

// =============================================================================
// DAILY REPORT TESTS
// =============================================================================

func TestDailyReportPersistence(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	day := tracking.NewDate(2024, time.March, 1)

	rep, err := store.GetOrCreateDaily(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, 0, rep.TotalGeneral)

	line, err := store.GetOrCreateLine(ctx, day, "Trazado")
	require.NoError(t, err)
	line.Count = 4
	require.NoError(t, store.SaveLine(ctx, line))

	rep.TotalGeneral = 4
	require.NoError(t, store.SaveDaily(ctx, rep))

	got, err := store.GetDaily(ctx, day)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 4, got.TotalGeneral)

	lines, err := store.LinesFor(ctx, day)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "Trazado", lines[0].Activity)
	assert.Equal(t, 4, lines[0].Count)
}

func TestIncrementLine_CreatesThenBumps(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	day := tracking.NewDate(2024, time.March, 1)
	_, err := store.GetOrCreateDaily(ctx, day)
	require.NoError(t, err)

	require.NoError(t, store.IncrementLine(ctx, day, "Trazado"))
	require.NoError(t, store.IncrementLine(ctx, day, "Trazado"))
	require.NoError(t, store.IncrementLine(ctx, day, "Etiquetado"))

	lines, err := store.LinesFor(ctx, day)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	counts := make(map[string]int)
	for _, line := range lines {
		counts[line.Activity] = line.Count
	}
	assert.Equal(t, map[string]int{"Trazado": 2, "Etiquetado": 1}, counts)
}

func TestGetOrCreateDaily_Idempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	day := tracking.NewDate(2024, time.March, 1)

	rep, err := store.GetOrCreateDaily(ctx, day)
	require.NoError(t, err)
	rep.TotalGeneral = 7
	require.NoError(t, store.SaveDaily(ctx, rep))

	again, err := store.GetOrCreateDaily(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, 7, again.TotalGeneral)
}

func TestRangeQueries_Inclusive(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, day := range []tracking.Date{
		tracking.NewDate(2024, time.February, 29),
		tracking.NewDate(2024, time.March, 1),
		tracking.NewDate(2024, time.March, 3),
		tracking.NewDate(2024, time.March, 4),
	} {
		rep, err := store.GetOrCreateDaily(ctx, day)
		require.NoError(t, err)
		rep.TotalGeneral = 1
		require.NoError(t, store.SaveDaily(ctx, rep))

		line, err := store.GetOrCreateLine(ctx, day, "Trazado")
		require.NoError(t, err)
		line.Count = 1
		require.NoError(t, store.SaveLine(ctx, line))
	}

	from := tracking.NewDate(2024, time.March, 1)
	to := tracking.NewDate(2024, time.March, 3)

	dailies, err := store.DailiesInRange(ctx, from, to)
	require.NoError(t, err)
	require.Len(t, dailies, 2)
	assert.Equal(t, from, dailies[0].Date)
	assert.Equal(t, to, dailies[1].Date)

	lines, err := store.LinesInRange(ctx, from, to)
	require.NoError(t, err)
	assert.Len(t, lines, 2)
}

// =============================================================================
// MONTHLY REPORT TESTS
// =============================================================================

func TestMonthlyUpsertOverwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	month := tracking.NewDate(2024, time.March, 1)

	require.NoError(t, store.UpsertMonthly(ctx, report.MonthlyReport{
		Month:            month,
		TotalMonth:       5,
		PercentVariation: 25,
		StandoutActivity: "Trazado",
	}))
	require.NoError(t, store.UpsertMonthly(ctx, report.MonthlyReport{
		Month:            month,
		TotalMonth:       9,
		PercentVariation: 125,
		StandoutActivity: "Etiquetado",
	}))

	got, err := store.GetMonthly(ctx, month)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 9, got.TotalMonth)
	assert.Equal(t, 125.0, got.PercentVariation)
	assert.Equal(t, "Etiquetado", got.StandoutActivity)
}

func TestListMonthly_OldestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertMonthly(ctx, report.MonthlyReport{
		Month: tracking.NewDate(2024, time.March, 1), TotalMonth: 3,
	}))
	require.NoError(t, store.UpsertMonthly(ctx, report.MonthlyReport{
		Month: tracking.NewDate(2024, time.February, 1), TotalMonth: 2,
	}))

	reps, err := store.ListMonthly(ctx)
	require.NoError(t, err)
	require.Len(t, reps, 2)
	assert.Equal(t, tracking.NewDate(2024, time.February, 1), reps[0].Month)
	assert.Equal(t, tracking.NewDate(2024, time.March, 1), reps[1].Month)
}

func TestGetMonthly_NormalizesToFirstOfMonth(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertMonthly(ctx, report.MonthlyReport{
		Month: tracking.NewDate(2024, time.March, 1), TotalMonth: 3,
	}))

	got, err := store.GetMonthly(ctx, tracking.NewDate(2024, time.March, 17))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 3, got.TotalMonth)
}
