package supply

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound indicates an unknown supply id.
var ErrNotFound = errors.New("care supply not found")

type Repository interface {
	Create(ctx context.Context, s *CareSupply) error
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*CareSupply, error)
	Update(ctx context.Context, s *CareSupply) error
	Delete(ctx context.Context, id uuid.UUID) error
}
