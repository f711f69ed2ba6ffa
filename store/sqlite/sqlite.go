/*
Package sqlite provides a SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements all persistence interfaces (tracking.NitStore,
  tracking.CylinderStore, tracking.TraceStore, report.DailyStore,
  report.MonthlyStore) using SQLite.

APPEND-ONLY ENFORCEMENT:
  The traces table has no UPDATE or DELETE path. Traces are immutable.

KEY TABLES:
  nits:            Identity records (unique code, activation flag)
  cylinders:       Physical units with the cached current state
  traces:          Immutable action log
  daily_reports:   Per-day rollups
  activity_lines:  Per-(day, activity) counters, cascade-deleted with
                   their report
  monthly_reports: Per-month rollups, overwritten on recomputation

INDEXES:
  - idx_unique_daily_trace: Backs the one-TRACED-per-cylinder-per-day rule
    at the database, closing the recorder's check-then-insert race for this
    backend. Keys on trace_date, the server-local day captured at write
    time (at is stored in UTC)
  - cylinders.nit_code UNIQUE: Backs the 1:1 NIT-cylinder relation

CONCURRENCY:
  Uses sync.RWMutex for thread-safety, plus WAL mode for better read
  concurrency and crash recovery.

USAGE:
  store, err := sqlite.New("./data/cylinders.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper migration
  tool with versioned migrations.

SEE ALSO:
  - tracking/store.go, report/store.go: Interface definitions
  - store/memory: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/andina/cylinder-engine/report"
	"github.com/andina/cylinder-engine/tracking"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- NITs (identity records)
	CREATE TABLE IF NOT EXISTS nits (
		code TEXT PRIMARY KEY,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_by TEXT,
		created_at TEXT NOT NULL
	);

	-- Cylinders
	CREATE TABLE IF NOT EXISTS cylinders (
		id TEXT PRIMARY KEY,
		engraved_number TEXT NOT NULL,
		nit_code TEXT NOT NULL UNIQUE REFERENCES nits(code),
		current_state TEXT NOT NULL,
		intake_date TEXT NOT NULL,
		notes TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_cylinders_engraved
		ON cylinders(engraved_number);

	-- Traces (append-only action log). trace_date is the server-local
	-- calendar day of the action, computed at write time; at is stored in
	-- UTC, so DATE(at) would key on the wrong day outside UTC.
	CREATE TABLE IF NOT EXISTS traces (
		id TEXT PRIMARY KEY,
		cylinder_id TEXT NOT NULL REFERENCES cylinders(id),
		action TEXT NOT NULL,
		user_id TEXT,
		at TEXT NOT NULL,
		trace_date TEXT NOT NULL,
		comment TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_traces_cylinder
		ON traces(cylinder_id, at);

	-- CRITICAL: a cylinder can be traced at most once per calendar day.
	-- The recorder checks first, but this index makes the loser of a
	-- concurrent check-then-insert race fail at the database.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_unique_daily_trace
		ON traces(cylinder_id, trace_date)
		WHERE action = 'TRACED';

	-- Daily reports
	CREATE TABLE IF NOT EXISTS daily_reports (
		date TEXT PRIMARY KEY,
		total_general INTEGER NOT NULL DEFAULT 0
	);

	-- Activity lines (owned by their daily report)
	CREATE TABLE IF NOT EXISTS activity_lines (
		report_date TEXT NOT NULL REFERENCES daily_reports(date) ON DELETE CASCADE,
		activity TEXT NOT NULL,
		count INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (report_date, activity)
	);

	-- Monthly reports (keyed by first-of-month)
	CREATE TABLE IF NOT EXISTS monthly_reports (
		month TEXT PRIMARY KEY,
		total_month INTEGER NOT NULL DEFAULT 0,
		percent_variation REAL NOT NULL DEFAULT 0,
		standout_activity TEXT
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// NIT STORE (tracking.NitStore interface)
// =============================================================================

func (s *Store) CreateNit(ctx context.Context, nit tracking.Nit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO nits (code, active, created_by, created_at) VALUES (?, ?, ?, ?)",
		nit.Code, nit.Active, nullString(nit.CreatedBy), nit.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: %s", tracking.ErrDuplicateNit, nit.Code)
		}
		return fmt.Errorf("failed to create nit: %w", err)
	}
	return nil
}

func (s *Store) GetNit(ctx context.Context, code string) (*tracking.Nit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		nit       tracking.Nit
		createdBy sql.NullString
		createdAt string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT code, active, created_by, created_at FROM nits WHERE code = ?", code,
	).Scan(&nit.Code, &nit.Active, &createdBy, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	nit.CreatedBy = createdBy.String
	nit.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("corrupt created_at for nit %s: %w", nit.Code, err)
	}
	return &nit, nil
}

func (s *Store) ListNits(ctx context.Context) ([]tracking.Nit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT code, active, created_by, created_at FROM nits ORDER BY code",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var nits []tracking.Nit
	for rows.Next() {
		var (
			nit       tracking.Nit
			createdBy sql.NullString
			createdAt string
		)
		if err := rows.Scan(&nit.Code, &nit.Active, &createdBy, &createdAt); err != nil {
			return nil, err
		}
		nit.CreatedBy = createdBy.String
		nit.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("corrupt created_at for nit %s: %w", nit.Code, err)
		}
		nits = append(nits, nit)
	}
	return nits, rows.Err()
}

func (s *Store) SaveNit(ctx context.Context, nit tracking.Nit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"UPDATE nits SET active = ? WHERE code = ?", nit.Active, nit.Code,
	)
	if err != nil {
		return fmt.Errorf("failed to save nit: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", tracking.ErrNitNotFound, nit.Code)
	}
	return nil
}

// =============================================================================
// CYLINDER STORE (tracking.CylinderStore interface)
// =============================================================================

func (s *Store) CreateCylinder(ctx context.Context, c tracking.Cylinder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cylinders (id, engraved_number, nit_code, current_state, intake_date, notes)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.EngravedNumber, c.NitCode, string(c.CurrentState),
		c.IntakeDate.String(), nullString(c.Notes),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: %s", tracking.ErrNitAssigned, c.NitCode)
		}
		return fmt.Errorf("failed to create cylinder: %w", err)
	}
	return nil
}

func (s *Store) GetCylinder(ctx context.Context, id string) (*tracking.Cylinder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryCylinder(ctx,
		"SELECT id, engraved_number, nit_code, current_state, intake_date, notes FROM cylinders WHERE id = ?",
		id)
}

func (s *Store) GetCylinderByNit(ctx context.Context, nitCode string) (*tracking.Cylinder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryCylinder(ctx,
		"SELECT id, engraved_number, nit_code, current_state, intake_date, notes FROM cylinders WHERE nit_code = ?",
		nitCode)
}

func (s *Store) queryCylinder(ctx context.Context, query string, arg any) (*tracking.Cylinder, error) {
	var (
		c          tracking.Cylinder
		state      string
		intakeDate string
		notes      sql.NullString
	)
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&c.ID, &c.EngravedNumber, &c.NitCode, &state, &intakeDate, &notes,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	c.CurrentState = tracking.State(state)
	c.IntakeDate, err = tracking.ParseDate(intakeDate)
	if err != nil {
		return nil, fmt.Errorf("corrupt intake_date for cylinder %s: %w", c.ID, err)
	}
	c.Notes = notes.String
	return &c, nil
}

func (s *Store) ListCylinders(ctx context.Context) ([]tracking.Cylinder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, engraved_number, nit_code, current_state, intake_date, notes FROM cylinders ORDER BY engraved_number",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cylinders []tracking.Cylinder
	for rows.Next() {
		var (
			c          tracking.Cylinder
			state      string
			intakeDate string
			notes      sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.EngravedNumber, &c.NitCode, &state, &intakeDate, &notes); err != nil {
			return nil, err
		}
		c.CurrentState = tracking.State(state)
		c.IntakeDate, err = tracking.ParseDate(intakeDate)
		if err != nil {
			return nil, fmt.Errorf("corrupt intake_date for cylinder %s: %w", c.ID, err)
		}
		c.Notes = notes.String
		cylinders = append(cylinders, c)
	}
	return cylinders, rows.Err()
}

func (s *Store) SaveCylinderState(ctx context.Context, id string, state tracking.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"UPDATE cylinders SET current_state = ? WHERE id = ?", string(state), id,
	)
	if err != nil {
		return fmt.Errorf("failed to save cylinder state: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", tracking.ErrCylinderNotFound, id)
	}
	return nil
}

// =============================================================================
// TRACE STORE (tracking.TraceStore interface) - append-only
// =============================================================================

func (s *Store) AppendTrace(ctx context.Context, tr tracking.Trace) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// The calendar day is resolved in the timestamp's own location before
	// the UTC conversion, so the uniqueness index and the recorder's
	// Today()-based check agree on day boundaries.
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO traces (id, cylinder_id, action, user_id, at, trace_date, comment) VALUES (?, ?, ?, ?, ?, ?, ?)",
		tr.ID, tr.CylinderID, string(tr.Action), nullString(tr.UserID),
		tr.At.UTC().Format(time.RFC3339), tracking.DateOf(tr.At).String(), nullString(tr.Comment),
	)
	if err != nil {
		if isDailyTraceUniquenessError(err) {
			return fmt.Errorf("%w: cylinder %s", tracking.ErrDuplicateAction, tr.CylinderID)
		}
		return fmt.Errorf("failed to append trace: %w", err)
	}
	return nil
}

func (s *Store) TracesByCylinder(ctx context.Context, cylinderID string) ([]tracking.Trace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, cylinder_id, action, user_id, at, comment FROM traces WHERE cylinder_id = ? ORDER BY at ASC",
		cylinderID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var traces []tracking.Trace
	for rows.Next() {
		var (
			tr      tracking.Trace
			action  string
			userID  sql.NullString
			at      string
			comment sql.NullString
		)
		if err := rows.Scan(&tr.ID, &tr.CylinderID, &action, &userID, &at, &comment); err != nil {
			return nil, err
		}
		tr.Action = tracking.ActionKind(action)
		tr.UserID = userID.String
		tr.At, err = time.Parse(time.RFC3339, at)
		if err != nil {
			return nil, fmt.Errorf("corrupt timestamp for trace %s: %w", tr.ID, err)
		}
		tr.Comment = comment.String
		traces = append(traces, tr)
	}
	return traces, rows.Err()
}

func (s *Store) HasActionOn(ctx context.Context, cylinderID string, action tracking.ActionKind, day tracking.Date) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM traces WHERE cylinder_id = ? AND action = ? AND trace_date = ?",
		cylinderID, string(action), day.String(),
	).Scan(&count)

	return count > 0, err
}

// =============================================================================
// DAILY STORE (report.DailyStore interface)
// =============================================================================

func (s *Store) GetDaily(ctx context.Context, date tracking.Date) (*report.DailyReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		rep     report.DailyReport
		dateStr string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT date, total_general FROM daily_reports WHERE date = ?", date.String(),
	).Scan(&dateStr, &rep.TotalGeneral)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rep.Date, err = tracking.ParseDate(dateStr)
	if err != nil {
		return nil, fmt.Errorf("corrupt date for daily report %q: %w", dateStr, err)
	}
	return &rep, nil
}

func (s *Store) GetOrCreateDaily(ctx context.Context, date tracking.Date) (report.DailyReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO daily_reports (date, total_general) VALUES (?, 0) ON CONFLICT(date) DO NOTHING",
		date.String(),
	)
	if err != nil {
		return report.DailyReport{}, fmt.Errorf("failed to create daily report: %w", err)
	}

	rep := report.DailyReport{Date: date}
	err = s.db.QueryRowContext(ctx,
		"SELECT total_general FROM daily_reports WHERE date = ?", date.String(),
	).Scan(&rep.TotalGeneral)
	if err != nil {
		return report.DailyReport{}, err
	}
	return rep, nil
}

func (s *Store) SaveDaily(ctx context.Context, rep report.DailyReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO daily_reports (date, total_general) VALUES (?, ?)
		 ON CONFLICT(date) DO UPDATE SET total_general = excluded.total_general`,
		rep.Date.String(), rep.TotalGeneral,
	)
	return err
}

func (s *Store) GetOrCreateLine(ctx context.Context, date tracking.Date, activity string) (report.ActivityLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO activity_lines (report_date, activity, count) VALUES (?, ?, 0)
		 ON CONFLICT(report_date, activity) DO NOTHING`,
		date.String(), activity,
	)
	if err != nil {
		return report.ActivityLine{}, fmt.Errorf("failed to create activity line: %w", err)
	}

	line := report.ActivityLine{Date: date, Activity: activity}
	err = s.db.QueryRowContext(ctx,
		"SELECT count FROM activity_lines WHERE report_date = ? AND activity = ?",
		date.String(), activity,
	).Scan(&line.Count)
	if err != nil {
		return report.ActivityLine{}, err
	}
	return line, nil
}

// IncrementLine bumps the counter with a single conditional upsert, so
// concurrent applies for the same line never lose an increment.
func (s *Store) IncrementLine(ctx context.Context, date tracking.Date, activity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO activity_lines (report_date, activity, count) VALUES (?, ?, 1)
		 ON CONFLICT(report_date, activity) DO UPDATE SET count = count + 1`,
		date.String(), activity,
	)
	return err
}

func (s *Store) SaveLine(ctx context.Context, line report.ActivityLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO activity_lines (report_date, activity, count) VALUES (?, ?, ?)
		 ON CONFLICT(report_date, activity) DO UPDATE SET count = excluded.count`,
		line.Date.String(), line.Activity, line.Count,
	)
	return err
}

func (s *Store) LinesFor(ctx context.Context, date tracking.Date) ([]report.ActivityLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryLines(ctx,
		"SELECT report_date, activity, count FROM activity_lines WHERE report_date = ? ORDER BY activity",
		date.String())
}

func (s *Store) DailiesInRange(ctx context.Context, from, to tracking.Date) ([]report.DailyReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT date, total_general FROM daily_reports WHERE date >= ? AND date <= ? ORDER BY date",
		from.String(), to.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reps []report.DailyReport
	for rows.Next() {
		var (
			rep     report.DailyReport
			dateStr string
		)
		if err := rows.Scan(&dateStr, &rep.TotalGeneral); err != nil {
			return nil, err
		}
		rep.Date, err = tracking.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("corrupt date for daily report %q: %w", dateStr, err)
		}
		reps = append(reps, rep)
	}
	return reps, rows.Err()
}

func (s *Store) LinesInRange(ctx context.Context, from, to tracking.Date) ([]report.ActivityLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryLines(ctx,
		"SELECT report_date, activity, count FROM activity_lines WHERE report_date >= ? AND report_date <= ? ORDER BY report_date, activity",
		from.String(), to.String())
}

func (s *Store) queryLines(ctx context.Context, query string, args ...any) ([]report.ActivityLine, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []report.ActivityLine
	for rows.Next() {
		var (
			line    report.ActivityLine
			dateStr string
		)
		if err := rows.Scan(&dateStr, &line.Activity, &line.Count); err != nil {
			return nil, err
		}
		line.Date, err = tracking.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("corrupt date for activity line %q: %w", dateStr, err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// =============================================================================
// MONTHLY STORE (report.MonthlyStore interface)
// =============================================================================

func (s *Store) GetMonthly(ctx context.Context, month tracking.Date) (*report.MonthlyReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		rep      report.MonthlyReport
		monthStr string
		standout sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT month, total_month, percent_variation, standout_activity FROM monthly_reports WHERE month = ?",
		month.FirstOfMonth().String(),
	).Scan(&monthStr, &rep.TotalMonth, &rep.PercentVariation, &standout)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rep.Month, err = tracking.ParseDate(monthStr)
	if err != nil {
		return nil, fmt.Errorf("corrupt month for monthly report %q: %w", monthStr, err)
	}
	rep.StandoutActivity = standout.String
	return &rep, nil
}

func (s *Store) UpsertMonthly(ctx context.Context, rep report.MonthlyReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO monthly_reports (month, total_month, percent_variation, standout_activity)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(month) DO UPDATE SET
			total_month = excluded.total_month,
			percent_variation = excluded.percent_variation,
			standout_activity = excluded.standout_activity`,
		rep.Month.FirstOfMonth().String(), rep.TotalMonth, rep.PercentVariation,
		nullString(rep.StandoutActivity),
	)
	return err
}

func (s *Store) ListMonthly(ctx context.Context) ([]report.MonthlyReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT month, total_month, percent_variation, standout_activity FROM monthly_reports ORDER BY month",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reps []report.MonthlyReport
	for rows.Next() {
		var (
			rep      report.MonthlyReport
			monthStr string
			standout sql.NullString
		)
		if err := rows.Scan(&monthStr, &rep.TotalMonth, &rep.PercentVariation, &standout); err != nil {
			return nil, err
		}
		rep.Month, err = tracking.ParseDate(monthStr)
		if err != nil {
			return nil, fmt.Errorf("corrupt month for monthly report %q: %w", monthStr, err)
		}
		rep.StandoutActivity = standout.String
		reps = append(reps, rep)
	}
	return reps, rows.Err()
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"activity_lines", "daily_reports", "monthly_reports", "traces", "cylinders", "nits"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isDailyTraceUniquenessError matches violations of idx_unique_daily_trace.
// SQLite reports column-based unique indexes by their column list, not the
// index name.
func isDailyTraceUniquenessError(err error) bool {
	return isUniqueConstraintError(err) &&
		strings.Contains(err.Error(), "traces.trace_date")
}
