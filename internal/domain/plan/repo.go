package plan

import (
	"context"

	"github.com/google/uuid"
)

// Repository is durable keyed storage for the CarePlan aggregate. It holds
// no business rules: callers decide what to write, the repository only
// guarantees all-or-nothing persistence and compare-and-swap versioning.
type Repository interface {
	// Create inserts the plan with its items and evaluations in one
	// transaction and sets Version to 1.
	Create(ctx context.Context, cp *CarePlan) error

	// GetByID loads the full aggregate: plan row, items and evaluations in
	// stored order, and the hospitalization record if present. Returns
	// ErrNotFound for unknown ids.
	GetByID(ctx context.Context, id uuid.UUID) (*CarePlan, error)

	// ListByPatient returns the patient's plans ordered by start date
	// descending, optionally filtered by status.
	ListByPatient(ctx context.Context, patientID uuid.UUID, status *Status, limit, offset int) ([]*CarePlan, int, error)

	// Save writes the plan's mutable fields, replaces its items and
	// evaluations, and inserts the hospitalization record if one is set,
	// all in one transaction guarded by expectedVersion. On success the
	// stored and in-memory Version are incremented. Returns ErrConflict
	// on a version mismatch and ErrNotFound for unknown ids; either way
	// the previously committed state is left intact.
	Save(ctx context.Context, cp *CarePlan, expectedVersion int) error

	// Delete removes the aggregate.
	Delete(ctx context.Context, id uuid.UUID) error
}
