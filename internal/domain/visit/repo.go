package visit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound indicates an unknown visit record id.
var ErrNotFound = errors.New("visit record not found")

type Repository interface {
	Create(ctx context.Context, r *Record) error
	GetByID(ctx context.Context, id uuid.UUID) (*Record, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Record, int, error)

	// ListInRange returns the patient's visits with visit_date inside
	// [from, to], longest first.
	ListInRange(ctx context.Context, patientID uuid.UUID, from, to time.Time) ([]*Record, error)

	Delete(ctx context.Context, id uuid.UUID) error
}
