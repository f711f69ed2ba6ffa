/*
store.go - Persistence interfaces for the tracking domain

PURPOSE:
  Defines the interface between the tracking logic and the database.
  Different implementations can use SQLite or in-memory storage.

KEY INTERFACES:
  NitStore:      NIT records (create, lookup, activation flag)
  CylinderStore: Cylinder records and the cached current state
  TraceStore:    Immutable trace log (append, query)

APPEND-ONLY CONTRACT:
  TraceStore has no Update or Delete. Traces are immutable once written;
  the trace log is the authoritative history the cylinder state and the
  daily reports are derived from.

UNIQUENESS:
  Two constraints are enforced at the store level in addition to the
  recorder's own checks:
  - NIT codes are unique (ErrDuplicateNit)
  - A NIT belongs to at most one cylinder (ErrNitAssigned)

IMPLEMENTATIONS:
  - store/sqlite: Production SQLite store
  - store/memory: In-memory store for tests and development

SEE ALSO:
  - recorder.go: Uses CylinderStore and TraceStore
  - registry.go: Uses NitStore and CylinderStore
*/
package tracking

import "context"

// =============================================================================
// NIT STORE
// =============================================================================

type NitStore interface {
	// CreateNit persists a new NIT. Returns ErrDuplicateNit when the code
	// is already registered.
	CreateNit(ctx context.Context, nit Nit) error

	// GetNit returns the NIT with the given code, or nil if absent.
	GetNit(ctx context.Context, code string) (*Nit, error)

	// ListNits returns all NITs ordered by code.
	ListNits(ctx context.Context) ([]Nit, error)

	// SaveNit updates an existing NIT (activation flag only; codes and
	// creation metadata never change).
	SaveNit(ctx context.Context, nit Nit) error
}

// =============================================================================
// CYLINDER STORE
// =============================================================================

type CylinderStore interface {
	// CreateCylinder persists a new cylinder. Returns ErrNitAssigned when
	// the NIT is already bound to another cylinder.
	CreateCylinder(ctx context.Context, c Cylinder) error

	// GetCylinder returns the cylinder with the given ID, or nil if absent.
	GetCylinder(ctx context.Context, id string) (*Cylinder, error)

	// GetCylinderByNit returns the cylinder bound to the NIT, or nil.
	GetCylinderByNit(ctx context.Context, nitCode string) (*Cylinder, error)

	// ListCylinders returns all cylinders ordered by engraved number.
	ListCylinders(ctx context.Context) ([]Cylinder, error)

	// SaveCylinderState durably updates only the cached current state.
	// This is the hot-path write the recorder performs before appending
	// the trace.
	SaveCylinderState(ctx context.Context, id string, state State) error
}

// =============================================================================
// TRACE STORE - Append-only
// =============================================================================

type TraceStore interface {
	// AppendTrace persists a trace. This is the ONLY write operation;
	// traces are never updated or deleted.
	AppendTrace(ctx context.Context, tr Trace) error

	// TracesByCylinder returns all traces for a cylinder, chronologically.
	TracesByCylinder(ctx context.Context, cylinderID string) ([]Trace, error)

	// HasActionOn reports whether the cylinder already has a trace of the
	// given kind dated on the given calendar day. Backs the once-per-day
	// rule for TRACED.
	HasActionOn(ctx context.Context, cylinderID string, action ActionKind, day Date) (bool, error)
}
