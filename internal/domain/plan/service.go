package plan

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultEvidenceTolerance is the window around an evaluation target date
// within which a visit counts as evidence for that slot.
const DefaultEvidenceTolerance = 14 * 24 * time.Hour

// SupplyLister is the read-only care-supplies collaborator.
type SupplyLister interface {
	ListForPatient(ctx context.Context, patientID uuid.UUID) ([]CareSupply, error)
}

// PatientLookup is the read-only patient-management collaborator, used to
// populate plan headers for display and export. Implementations return
// (nil, nil) for an unknown patient id; the header is decorative and its
// absence must not block an export.
type PatientLookup interface {
	GetPatient(ctx context.Context, id uuid.UUID) (*PatientHeader, error)
}

// Service owns the care plan state machine: it validates and applies edits,
// enforces terminal-state immutability, executes the hospitalization
// transition, and runs auto-evaluation against the visit-history lookup.
type Service struct {
	repo      Repository
	finder    EvidenceFinder
	catalog   Catalog
	supplies  SupplyLister
	patients  PatientLookup
	tolerance time.Duration
}

func NewService(repo Repository, finder EvidenceFinder) *Service {
	return &Service{
		repo:      repo,
		finder:    finder,
		catalog:   DefaultCatalog(),
		tolerance: DefaultEvidenceTolerance,
	}
}

// SetCatalog overrides the canonical item catalog.
func (s *Service) SetCatalog(c Catalog) { s.catalog = c }

// SetSupplyLister attaches the optional care-supplies collaborator.
func (s *Service) SetSupplyLister(l SupplyLister) { s.supplies = l }

// SetPatientLookup attaches the optional patient collaborator.
func (s *Service) SetPatientLookup(l PatientLookup) { s.patients = l }

// SetEvidenceTolerance overrides the auto-evaluation tolerance window.
func (s *Service) SetEvidenceTolerance(d time.Duration) {
	if d > 0 {
		s.tolerance = d
	}
}

// Create validates and persists a new ACTIVE plan. Items default to the
// catalog seed; evaluations default to two slots at start+3 and start+6
// months with result NONE.
func (s *Service) Create(ctx context.Context, cp *CarePlan) error {
	if cp.PatientID == uuid.Nil {
		return &ValidationError{Field: "patient_id", Reason: "required"}
	}
	if cp.StartDate.IsZero() {
		return &ValidationError{Field: "start_date", Reason: "required"}
	}
	if cp.EndDate.IsZero() {
		return &ValidationError{Field: "end_date", Reason: "required"}
	}
	if cp.EndDate.Before(cp.StartDate) {
		return &ValidationError{Field: "end_date", Reason: "must not precede start_date"}
	}
	cp.Status = StatusActive

	items, err := filterItems(cp.Items)
	if err != nil {
		return err
	}
	cp.Items = items
	if len(cp.Items) == 0 {
		cp.Items = s.catalog.Seed()
	}
	evals, err := filterEvaluations(cp.Evaluations)
	if err != nil {
		return err
	}
	cp.Evaluations = evals
	if len(cp.Evaluations) == 0 {
		cp.Evaluations = []EvaluationSlot{
			{Slot: 1, Date: cp.StartDate.AddDate(0, 3, 0), Result: ResultNone},
			{Slot: 2, Date: cp.StartDate.AddDate(0, 6, 0), Result: ResultNone},
		}
	}
	return s.repo.Create(ctx, cp)
}

// Get returns the full aggregate with items merged against the catalog, so
// callers never observe a partially-initialized item set. Allowed in any
// state.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*CarePlan, error) {
	cp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cp.Items = s.catalog.Merge(cp.Items)
	return cp, nil
}

// ListByPatient returns the patient's plans, items merged, newest first.
func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, status *Status, limit, offset int) ([]*CarePlan, int, error) {
	plans, total, err := s.repo.ListByPatient(ctx, patientID, status, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	for _, cp := range plans {
		cp.Items = s.catalog.Merge(cp.Items)
	}
	return plans, total, nil
}

// Update applies a patch to an ACTIVE plan as a single transactional write.
// Items without an item key and evaluations without a slot number or date
// are dropped before persistence; a repeated item key or slot number is
// rejected. Never changes Status.
func (s *Service) Update(ctx context.Context, id uuid.UUID, expectedVersion int, patch UpdatePatch) (*CarePlan, error) {
	cp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cp.Version != expectedVersion {
		return nil, ErrConflict
	}
	if cp.Terminal() {
		return nil, ErrNotEditable
	}

	applyPatch(cp, patch)
	if cp.EndDate.Before(cp.StartDate) {
		return nil, &ValidationError{Field: "end_date", Reason: "must not precede start_date"}
	}
	if patch.Items != nil {
		items, err := filterItems(patch.Items)
		if err != nil {
			return nil, err
		}
		cp.Items = items
	}
	if patch.Evaluations != nil {
		evals, err := filterEvaluations(patch.Evaluations)
		if err != nil {
			return nil, err
		}
		cp.Evaluations = evals
	}

	if err := s.repo.Save(ctx, cp, expectedVersion); err != nil {
		return nil, err
	}
	cp.Items = s.catalog.Merge(cp.Items)
	return cp, nil
}

// Hospitalize executes the irreversible terminal transition. It succeeds
// exactly once per plan: a second call fails with ErrNotEditable no matter
// what date it carries.
func (s *Service) Hospitalize(ctx context.Context, id uuid.UUID, expectedVersion int, hospitalizedAt time.Time, note *string) (*CarePlan, error) {
	if hospitalizedAt.IsZero() {
		return nil, &ValidationError{Field: "hospitalized_at", Reason: "required"}
	}
	cp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cp.Version != expectedVersion {
		return nil, ErrConflict
	}
	if cp.Terminal() {
		return nil, ErrNotEditable
	}

	now := time.Now().UTC()
	reason := "HOSPITALIZATION"
	cp.Status = StatusEndedByHospitalization
	cp.ClosedAt = &now
	cp.ClosedReason = &reason
	cp.Hospitalization = &Hospitalization{
		PlanID:         cp.ID,
		HospitalizedAt: hospitalizedAt,
		Note:           note,
	}

	if err := s.repo.Save(ctx, cp, expectedVersion); err != nil {
		return nil, err
	}
	cp.Items = s.catalog.Merge(cp.Items)
	return cp, nil
}

// AutoEvaluate materializes any missing scheduled slots and assigns each
// unevaluated in-window slot a result from the visit-history lookup.
// Idempotent given unchanged visit history; existing non-NONE results are
// never downgraded. All evidence lookups complete before anything is
// persisted, so a lookup failure leaves the plan untouched.
func (s *Service) AutoEvaluate(ctx context.Context, id uuid.UUID, expectedVersion int) (*CarePlan, error) {
	cp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cp.Version != expectedVersion {
		return nil, ErrConflict
	}
	if cp.Terminal() {
		return nil, ErrNotEditable
	}

	targets := ScheduledSlotDates(cp.StartDate, cp.EndDate)
	slots := materializeSlots(cp, targets)
	changed, err := evaluateSlots(ctx, s.finder, cp, slots, s.tolerance)
	if err != nil {
		return nil, err
	}

	if changed {
		cp.Evaluations = slots
		if err := s.repo.Save(ctx, cp, expectedVersion); err != nil {
			return nil, err
		}
	}
	cp.Items = s.catalog.Merge(cp.Items)
	return cp, nil
}

// Delete removes a plan and everything it owns.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func applyPatch(cp *CarePlan, p UpdatePatch) {
	if p.StartDate != nil {
		cp.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		cp.EndDate = *p.EndDate
	}
	if p.LongTermGoal != nil {
		cp.LongTermGoal = emptyToNil(p.LongTermGoal)
	}
	if p.ShortTermGoal != nil {
		cp.ShortTermGoal = emptyToNil(p.ShortTermGoal)
	}
	if p.NursingPolicy != nil {
		cp.NursingPolicy = emptyToNil(p.NursingPolicy)
	}
	if p.PatientFamilyWish != nil {
		cp.PatientFamilyWish = emptyToNil(p.PatientFamilyWish)
	}
	if p.HasProcedure != nil {
		cp.HasProcedure = *p.HasProcedure
	}
	if p.ProcedureContent != nil {
		cp.ProcedureContent = emptyToNil(p.ProcedureContent)
	}
	if p.MaterialDetails != nil {
		cp.MaterialDetails = emptyToNil(p.MaterialDetails)
	}
	if p.MaterialAmount != nil {
		cp.MaterialAmount = emptyToNil(p.MaterialAmount)
	}
	if p.ProcedureNote != nil {
		cp.ProcedureNote = emptyToNil(p.ProcedureNote)
	}
}

// emptyToNil maps an explicit empty string to a cleared (NULL) field.
func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

// filterItems drops items without a key and rejects repeated keys, which
// would otherwise only fail at the unique constraint.
func filterItems(items []PlanItem) ([]PlanItem, error) {
	out := make([]PlanItem, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if it.ItemKey == "" {
			continue
		}
		if seen[it.ItemKey] {
			return nil, &ValidationError{Field: "items", Reason: "duplicate item_key " + it.ItemKey}
		}
		seen[it.ItemKey] = true
		out = append(out, it)
	}
	return out, nil
}

// filterEvaluations drops slots without a number or date and rejects
// repeated slot numbers.
func filterEvaluations(evals []EvaluationSlot) ([]EvaluationSlot, error) {
	out := make([]EvaluationSlot, 0, len(evals))
	seen := make(map[int]bool, len(evals))
	for _, e := range evals {
		if e.Slot <= 0 || e.Date.IsZero() {
			continue
		}
		if seen[e.Slot] {
			return nil, &ValidationError{Field: "evaluations", Reason: fmt.Sprintf("duplicate evaluation_slot %d", e.Slot)}
		}
		seen[e.Slot] = true
		if e.Result == "" {
			e.Result = ResultNone
		}
		out = append(out, e)
	}
	return out, nil
}
