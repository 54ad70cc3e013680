package supply

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, cs *CareSupply) error {
	if cs.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if cs.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.repo.Create(ctx, cs)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*CareSupply, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

func (s *Service) Update(ctx context.Context, cs *CareSupply) error {
	if cs.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.repo.Update(ctx, cs)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
