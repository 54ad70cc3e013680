package plan

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Snapshot is the immutable, fully merged view of a plan handed to the
// document generator. It works identically regardless of plan status: a
// terminated plan is still exportable.
type Snapshot struct {
	Plan            CarePlan       `json:"plan"`
	Patient         *PatientHeader `json:"patient,omitempty"`
	CareSupplies    []CareSupply   `json:"care_supplies,omitempty"`
	SlotsOutOfRange []int          `json:"slots_out_of_window,omitempty"`
	GeneratedAt     time.Time      `json:"generated_at"`
}

// ReportGenerator renders a snapshot into a document. Failures are reported
// as ExternalServiceError by callers.
type ReportGenerator interface {
	Render(ctx context.Context, snap *Snapshot) (data []byte, contentType string, err error)
}

// Export builds a read-only snapshot of the plan: items merged against the
// catalog, evaluations as persisted, hospitalization if present, plus the
// patient header and care supplies from their collaborators when attached.
// Evaluation slots dated outside the plan period are flagged, not rejected,
// and a patient that no longer exists leaves the header empty.
func (s *Service) Export(ctx context.Context, id uuid.UUID) (*Snapshot, error) {
	cp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cp.Items = s.catalog.Merge(cp.Items)

	snap := &Snapshot{Plan: *cp, GeneratedAt: time.Now().UTC()}
	for _, e := range cp.Evaluations {
		if !e.InWindow(cp.StartDate, cp.EndDate) {
			snap.SlotsOutOfRange = append(snap.SlotsOutOfRange, e.Slot)
		}
	}

	if s.patients != nil {
		header, err := s.patients.GetPatient(ctx, cp.PatientID)
		if err != nil {
			return nil, &ExternalServiceError{Service: "patient lookup", Err: err}
		}
		snap.Patient = header
	}
	if s.supplies != nil {
		supplies, err := s.supplies.ListForPatient(ctx, cp.PatientID)
		if err != nil {
			return nil, &ExternalServiceError{Service: "care supplies", Err: err}
		}
		snap.CareSupplies = supplies
	}
	return snap, nil
}
