// Package memory provides an in-memory implementation of every store
// interface (for testing/dev).
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/andina/cylinder-engine/report"
	"github.com/andina/cylinder-engine/tracking"
)

// =============================================================================
// MEMORY STORE
// =============================================================================

// Store holds everything in maps guarded by a single RWMutex, so the
// read-modify-write sequences of the aggregators do not lose updates under
// concurrent test load.
type Store struct {
	mu        sync.RWMutex
	nits      map[string]tracking.Nit
	cylinders map[string]tracking.Cylinder
	nitOwner  map[string]string // nit code -> cylinder ID (1:1 constraint)
	traces    map[string][]tracking.Trace
	dailies   map[string]report.DailyReport  // keyed by date string
	lines     map[string]report.ActivityLine // keyed by date|activity
	monthlies map[string]report.MonthlyReport
}

func New() *Store {
	return &Store{
		nits:      make(map[string]tracking.Nit),
		cylinders: make(map[string]tracking.Cylinder),
		nitOwner:  make(map[string]string),
		traces:    make(map[string][]tracking.Trace),
		dailies:   make(map[string]report.DailyReport),
		lines:     make(map[string]report.ActivityLine),
		monthlies: make(map[string]report.MonthlyReport),
	}
}

func lineKey(date tracking.Date, activity string) string {
	return date.String() + "|" + activity
}

// =============================================================================
// NIT STORE (tracking.NitStore interface)
// =============================================================================

func (s *Store) CreateNit(_ context.Context, nit tracking.Nit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.nits[nit.Code]; exists {
		return fmt.Errorf("%w: %s", tracking.ErrDuplicateNit, nit.Code)
	}
	s.nits[nit.Code] = nit
	return nil
}

func (s *Store) GetNit(_ context.Context, code string) (*tracking.Nit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	nit, ok := s.nits[code]
	if !ok {
		return nil, nil
	}
	return &nit, nil
}

func (s *Store) ListNits(_ context.Context) ([]tracking.Nit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	nits := make([]tracking.Nit, 0, len(s.nits))
	for _, nit := range s.nits {
		nits = append(nits, nit)
	}
	sort.Slice(nits, func(i, j int) bool { return nits[i].Code < nits[j].Code })
	return nits, nil
}

func (s *Store) SaveNit(_ context.Context, nit tracking.Nit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.nits[nit.Code]; !ok {
		return fmt.Errorf("%w: %s", tracking.ErrNitNotFound, nit.Code)
	}
	s.nits[nit.Code] = nit
	return nil
}

// =============================================================================
// CYLINDER STORE (tracking.CylinderStore interface)
// =============================================================================

func (s *Store) CreateCylinder(_ context.Context, c tracking.Cylinder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if owner, taken := s.nitOwner[c.NitCode]; taken && owner != c.ID {
		return fmt.Errorf("%w: %s", tracking.ErrNitAssigned, c.NitCode)
	}
	s.cylinders[c.ID] = c
	s.nitOwner[c.NitCode] = c.ID
	return nil
}

func (s *Store) GetCylinder(_ context.Context, id string) (*tracking.Cylinder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.cylinders[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *Store) GetCylinderByNit(_ context.Context, nitCode string) (*tracking.Cylinder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.nitOwner[nitCode]
	if !ok {
		return nil, nil
	}
	c := s.cylinders[id]
	return &c, nil
}

func (s *Store) ListCylinders(_ context.Context) ([]tracking.Cylinder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cylinders := make([]tracking.Cylinder, 0, len(s.cylinders))
	for _, c := range s.cylinders {
		cylinders = append(cylinders, c)
	}
	sort.Slice(cylinders, func(i, j int) bool {
		return cylinders[i].EngravedNumber < cylinders[j].EngravedNumber
	})
	return cylinders, nil
}

func (s *Store) SaveCylinderState(_ context.Context, id string, state tracking.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cylinders[id]
	if !ok {
		return fmt.Errorf("%w: %s", tracking.ErrCylinderNotFound, id)
	}
	c.CurrentState = state
	s.cylinders[id] = c
	return nil
}

// =============================================================================
// TRACE STORE (tracking.TraceStore interface) - append-only
// =============================================================================

func (s *Store) AppendTrace(_ context.Context, tr tracking.Trace) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.traces[tr.CylinderID] = append(s.traces[tr.CylinderID], tr)
	return nil
}

func (s *Store) TracesByCylinder(_ context.Context, cylinderID string) ([]tracking.Trace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]tracking.Trace, len(s.traces[cylinderID]))
	copy(result, s.traces[cylinderID])
	sort.Slice(result, func(i, j int) bool { return result[i].At.Before(result[j].At) })
	return result, nil
}

func (s *Store) HasActionOn(_ context.Context, cylinderID string, action tracking.ActionKind, day tracking.Date) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, tr := range s.traces[cylinderID] {
		if tr.Action == action && tracking.DateOf(tr.At).Equal(day) {
			return true, nil
		}
	}
	return false, nil
}

// =============================================================================
// DAILY STORE (report.DailyStore interface)
// =============================================================================

func (s *Store) GetDaily(_ context.Context, date tracking.Date) (*report.DailyReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rep, ok := s.dailies[date.String()]
	if !ok {
		return nil, nil
	}
	return &rep, nil
}

func (s *Store) GetOrCreateDaily(_ context.Context, date tracking.Date) (report.DailyReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rep, ok := s.dailies[date.String()]; ok {
		return rep, nil
	}
	rep := report.DailyReport{Date: date}
	s.dailies[date.String()] = rep
	return rep, nil
}

func (s *Store) SaveDaily(_ context.Context, rep report.DailyReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dailies[rep.Date.String()] = rep
	return nil
}

func (s *Store) GetOrCreateLine(_ context.Context, date tracking.Date, activity string) (report.ActivityLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := lineKey(date, activity)
	if line, ok := s.lines[key]; ok {
		return line, nil
	}
	line := report.ActivityLine{Date: date, Activity: activity}
	s.lines[key] = line
	return line, nil
}

// IncrementLine bumps the counter inside one locked section, so
// concurrent applies for the same line never lose an increment.
func (s *Store) IncrementLine(_ context.Context, date tracking.Date, activity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := lineKey(date, activity)
	line, ok := s.lines[key]
	if !ok {
		line = report.ActivityLine{Date: date, Activity: activity}
	}
	line.Count++
	s.lines[key] = line
	return nil
}

func (s *Store) SaveLine(_ context.Context, line report.ActivityLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines[lineKey(line.Date, line.Activity)] = line
	return nil
}

func (s *Store) LinesFor(_ context.Context, date tracking.Date) ([]report.ActivityLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var lines []report.ActivityLine
	for _, line := range s.lines {
		if line.Date.Equal(date) {
			lines = append(lines, line)
		}
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Activity < lines[j].Activity })
	return lines, nil
}

func (s *Store) DailiesInRange(_ context.Context, from, to tracking.Date) ([]report.DailyReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var reps []report.DailyReport
	for _, rep := range s.dailies {
		if from.BeforeOrEqual(rep.Date) && rep.Date.BeforeOrEqual(to) {
			reps = append(reps, rep)
		}
	}
	sort.Slice(reps, func(i, j int) bool { return reps[i].Date.Before(reps[j].Date) })
	return reps, nil
}

func (s *Store) LinesInRange(_ context.Context, from, to tracking.Date) ([]report.ActivityLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var lines []report.ActivityLine
	for _, line := range s.lines {
		if from.BeforeOrEqual(line.Date) && line.Date.BeforeOrEqual(to) {
			lines = append(lines, line)
		}
	}
	sort.Slice(lines, func(i, j int) bool {
		if !lines[i].Date.Equal(lines[j].Date) {
			return lines[i].Date.Before(lines[j].Date)
		}
		return lines[i].Activity < lines[j].Activity
	})
	return lines, nil
}

// =============================================================================
// MONTHLY STORE (report.MonthlyStore interface)
// =============================================================================

func (s *Store) GetMonthly(_ context.Context, month tracking.Date) (*report.MonthlyReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rep, ok := s.monthlies[month.FirstOfMonth().String()]
	if !ok {
		return nil, nil
	}
	return &rep, nil
}

func (s *Store) UpsertMonthly(_ context.Context, rep report.MonthlyReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.monthlies[rep.Month.FirstOfMonth().String()] = rep
	return nil
}

func (s *Store) ListMonthly(_ context.Context) ([]report.MonthlyReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reps := make([]report.MonthlyReport, 0, len(s.monthlies))
	for _, rep := range s.monthlies {
		reps = append(reps, rep)
	}
	sort.Slice(reps, func(i, j int) bool { return reps[i].Month.Before(reps[j].Month) })
	return reps, nil
}
