/*
registry.go - NIT and cylinder registration

PURPOSE:
  Creation entry points for the two leaf entities. The registry carries no
  workflow logic; it validates references and delegates uniqueness to the
  store constraints.

RULES:
  - NIT codes must be non-blank; uniqueness is the store's job
  - A cylinder requires an existing NIT, and each NIT binds at most one
    cylinder (1:1, enforced by the store)
  - Cylinders start in RECEIVED with an immutable intake date of "today"

SEE ALSO:
  - recorder.go: Records actions against registered cylinders
  - store.go: NitStore / CylinderStore contracts
*/
package tracking

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Registry creates and manages NITs and cylinders.
type Registry struct {
	nits      NitStore
	cylinders CylinderStore
	clock     Clock
}

// NewRegistry creates a registry. A nil clock defaults to the system clock.
func NewRegistry(nits NitStore, cylinders CylinderStore, clock Clock) *Registry {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Registry{nits: nits, cylinders: cylinders, clock: clock}
}

// CreateNit registers a new NIT code. The code must be non-blank; the
// store rejects duplicates with ErrDuplicateNit.
func (r *Registry) CreateNit(ctx context.Context, code, createdBy string) (Nit, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Nit{}, fmt.Errorf("%w: nit code must not be blank", ErrValidation)
	}

	nit := Nit{
		Code:      code,
		Active:    true,
		CreatedBy: createdBy,
		CreatedAt: r.clock.Now(),
	}
	if err := r.nits.CreateNit(ctx, nit); err != nil {
		return Nit{}, err
	}
	return nit, nil
}

// DeactivateNit flips the active flag off. NITs are never deleted.
func (r *Registry) DeactivateNit(ctx context.Context, code string) (Nit, error) {
	nit, err := r.nits.GetNit(ctx, code)
	if err != nil {
		return Nit{}, err
	}
	if nit == nil {
		return Nit{}, fmt.Errorf("%w: %s", ErrNitNotFound, code)
	}

	nit.Active = false
	if err := r.nits.SaveNit(ctx, *nit); err != nil {
		return Nit{}, err
	}
	return *nit, nil
}

// CreateCylinder registers a cylinder against an existing NIT. The new
// cylinder starts in RECEIVED with today's intake date.
func (r *Registry) CreateCylinder(ctx context.Context, engravedNumber, nitCode, notes string) (Cylinder, error) {
	engravedNumber = strings.TrimSpace(engravedNumber)
	if engravedNumber == "" {
		return Cylinder{}, fmt.Errorf("%w: engraved number must not be blank", ErrValidation)
	}

	nit, err := r.nits.GetNit(ctx, nitCode)
	if err != nil {
		return Cylinder{}, err
	}
	if nit == nil {
		return Cylinder{}, fmt.Errorf("%w: %s", ErrNitNotFound, nitCode)
	}

	c := Cylinder{
		ID:             uuid.NewString(),
		EngravedNumber: engravedNumber,
		NitCode:        nit.Code,
		CurrentState:   StateReceived,
		IntakeDate:     Today(r.clock),
		Notes:          notes,
	}
	if err := r.cylinders.CreateCylinder(ctx, c); err != nil {
		return Cylinder{}, err
	}
	return c, nil
}
