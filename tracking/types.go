/*
Package tracking provides the core cylinder traceability engine.

PURPOSE:
  This package contains the domain types and logic for tracking physical
  cylinders through the shop workflow. Every action performed on a cylinder
  (labeling, tracing, NIT creation) is recorded as an immutable trace, and
  the cylinder's current state is derived from its most recent trace.

KEY CONCEPTS IN THIS FILE (types.go):
  - Nit: The unique business identifier engraved on a cylinder's tag
  - Cylinder: A physical tracked unit with exactly one NIT
  - Trace: An immutable log entry of one action performed on a cylinder
  - ActionKind/State: The fixed action set and the workflow states it drives

DESIGN PRINCIPLES:
  1. Immutability: Traces are never updated or deleted
  2. Derived State: Cylinder.CurrentState is a cache over the trace history
  3. Fixed Workflow: The action set is closed; no configurable state machine

SEE ALSO:
  - recorder.go: Trace validation, state transition, and recording
  - registry.go: NIT and cylinder creation
  - store.go: Persistence interfaces
*/
package tracking

import (
	"time"
)

// =============================================================================
// ACTION KINDS - The closed set of recordable actions
// =============================================================================

type ActionKind string

const (
	ActionLabeled         ActionKind = "LABELED"
	ActionTraced          ActionKind = "TRACED"
	ActionIdentityCreated ActionKind = "IDENTITY_CREATED"
)

// Valid reports whether a is one of the defined action kinds.
func (a ActionKind) Valid() bool {
	switch a {
	case ActionLabeled, ActionTraced, ActionIdentityCreated:
		return true
	}
	return false
}

// Label returns the human-readable activity name used as the activity-line
// key in daily reports. Unknown kinds fall back to the raw value, matching
// how the reports have always been keyed.
func (a ActionKind) Label() string {
	switch a {
	case ActionLabeled:
		return "Etiquetado"
	case ActionTraced:
		return "Trazado"
	case ActionIdentityCreated:
		return "NIT Creado"
	}
	return string(a)
}

// ResultingState returns the cylinder state implied by recording this
// action. The second return is false for kinds outside the defined set;
// those leave the cylinder state unchanged.
func (a ActionKind) ResultingState() (State, bool) {
	switch a {
	case ActionLabeled:
		return StateLabeled, true
	case ActionTraced:
		return StateTraced, true
	case ActionIdentityCreated:
		return StateReceived, true
	}
	return "", false
}

// =============================================================================
// WORKFLOW STATES
// =============================================================================

// State is a cylinder's position in the shop workflow. Any action kind may
// be applied regardless of the current state; this is a direct mapping, not
// a transition graph with forbidden edges. IN_POLISHER and IN_PAINTER are
// reserved for action kinds not yet modeled.
type State string

const (
	StateReceived   State = "RECEIVED"
	StateLabeled    State = "LABELED"
	StateTraced     State = "TRACED"
	StateInPolisher State = "IN_POLISHER"
	StateInPainter  State = "IN_PAINTER"
)

// =============================================================================
// NIT - Unique business identifier
// =============================================================================

// Nit is the identity record for a cylinder. Created once, never deleted;
// deactivation flips the Active flag.
type Nit struct {
	Code      string
	Active    bool
	CreatedBy string // Actor who registered the NIT; empty if unknown/deleted
	CreatedAt time.Time
}

// =============================================================================
// CYLINDER - Physical tracked unit
// =============================================================================

type Cylinder struct {
	ID             string
	EngravedNumber string
	NitCode        string // 1:1 with a Nit, enforced by the store
	CurrentState   State
	IntakeDate     Date // Immutable, set at creation
	Notes          string
}

// =============================================================================
// TRACE - Immutable action record
// =============================================================================

// Trace records one action performed on a cylinder. Immutable once created.
//
// INVARIANT: at most one TRACED action per cylinder per calendar day,
// enforced at creation time by the Recorder (and by a unique index in the
// SQLite store).
type Trace struct {
	ID         string
	CylinderID string
	Action     ActionKind
	UserID     string // Acting user reference; empty when absent or deleted
	At         time.Time
	Comment    string
}
