package plan

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockPlanRepo struct {
	store map[uuid.UUID]*CarePlan
	saves int
}

func newMockPlanRepo() *mockPlanRepo {
	return &mockPlanRepo{store: make(map[uuid.UUID]*CarePlan)}
}

func clone(cp *CarePlan) *CarePlan {
	out := *cp
	out.Items = append([]PlanItem(nil), cp.Items...)
	out.Evaluations = append([]EvaluationSlot(nil), cp.Evaluations...)
	if cp.Hospitalization != nil {
		h := *cp.Hospitalization
		out.Hospitalization = &h
	}
	return &out
}

func (m *mockPlanRepo) Create(_ context.Context, cp *CarePlan) error {
	cp.ID = uuid.New()
	cp.Version = 1
	m.store[cp.ID] = clone(cp)
	return nil
}

func (m *mockPlanRepo) GetByID(_ context.Context, id uuid.UUID) (*CarePlan, error) {
	cp, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(cp), nil
}

func (m *mockPlanRepo) ListByPatient(_ context.Context, pid uuid.UUID, status *Status, limit, offset int) ([]*CarePlan, int, error) {
	var r []*CarePlan
	for _, cp := range m.store {
		if cp.PatientID != pid {
			continue
		}
		if status != nil && cp.Status != *status {
			continue
		}
		r = append(r, clone(cp))
	}
	return r, len(r), nil
}

func (m *mockPlanRepo) Save(_ context.Context, cp *CarePlan, expectedVersion int) error {
	stored, ok := m.store[cp.ID]
	if !ok {
		return ErrNotFound
	}
	if stored.Version != expectedVersion {
		return ErrConflict
	}
	cp.Version = expectedVersion + 1
	m.store[cp.ID] = clone(cp)
	m.saves++
	return nil
}

func (m *mockPlanRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.store[id]; !ok {
		return ErrNotFound
	}
	delete(m.store, id)
	return nil
}

func newTestService() (*Service, *mockPlanRepo, *stubFinder) {
	repo := newMockPlanRepo()
	finder := &stubFinder{evidence: map[time.Time]*VisitEvidence{}}
	return NewService(repo, finder), repo, finder
}

func activePlan(t *testing.T, svc *Service) *CarePlan {
	t.Helper()
	cp := &CarePlan{
		PatientID: uuid.New(),
		StartDate: date(2025, 1, 1),
		EndDate:   date(2025, 12, 31),
	}
	if err := svc.Create(context.Background(), cp); err != nil {
		t.Fatalf("create: %v", err)
	}
	return cp
}

func TestCreate_Defaults(t *testing.T) {
	svc, _, _ := newTestService()
	cp := activePlan(t, svc)

	if cp.Status != StatusActive {
		t.Errorf("expected ACTIVE, got %s", cp.Status)
	}
	if cp.Version != 1 {
		t.Errorf("expected version 1, got %d", cp.Version)
	}
	if len(cp.Items) != len(DefaultCatalog()) {
		t.Errorf("expected catalog-seeded items, got %d", len(cp.Items))
	}
	if len(cp.Evaluations) != 2 {
		t.Fatalf("expected 2 default evaluation slots, got %d", len(cp.Evaluations))
	}
	if !cp.Evaluations[0].Date.Equal(date(2025, 4, 1)) || !cp.Evaluations[1].Date.Equal(date(2025, 7, 1)) {
		t.Errorf("expected default slots at start+3 and start+6 months, got %s and %s",
			cp.Evaluations[0].Date.Format("2006-01-02"), cp.Evaluations[1].Date.Format("2006-01-02"))
	}
	for _, e := range cp.Evaluations {
		if e.Result != ResultNone {
			t.Errorf("default slot must start NONE, got %s", e.Result)
		}
	}
}

func TestCreate_Validation(t *testing.T) {
	svc, _, _ := newTestService()
	tests := []struct {
		name  string
		cp    *CarePlan
		field string
	}{
		{"missing patient", &CarePlan{StartDate: date(2025, 1, 1), EndDate: date(2025, 12, 31)}, "patient_id"},
		{"missing start", &CarePlan{PatientID: uuid.New(), EndDate: date(2025, 12, 31)}, "start_date"},
		{"missing end", &CarePlan{PatientID: uuid.New(), StartDate: date(2025, 1, 1)}, "end_date"},
		{"inverted period", &CarePlan{PatientID: uuid.New(), StartDate: date(2025, 6, 1), EndDate: date(2025, 1, 1)}, "end_date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Create(context.Background(), tt.cp)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, ve.Field)
			}
		})
	}
}

func TestCreate_DropsKeylessItems(t *testing.T) {
	svc, _, _ := newTestService()
	obs := "appetite"
	cp := &CarePlan{
		PatientID: uuid.New(),
		StartDate: date(2025, 1, 1),
		EndDate:   date(2025, 12, 31),
		Items: []PlanItem{
			{ItemKey: "LONG_TERM", Label: "看護の目標", ObservationText: &obs, SortOrder: 1},
			{Label: "orphan row without a key"},
		},
	}
	if err := svc.Create(context.Background(), cp); err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(cp.Items) != 1 {
		t.Fatalf("expected the keyless item dropped, got %d items", len(cp.Items))
	}
	if cp.Items[0].ItemKey != "LONG_TERM" {
		t.Errorf("wrong survivor: %q", cp.Items[0].ItemKey)
	}
}

func TestCreate_RejectsDuplicateItemKey(t *testing.T) {
	svc, _, _ := newTestService()
	cp := &CarePlan{
		PatientID: uuid.New(),
		StartDate: date(2025, 1, 1),
		EndDate:   date(2025, 12, 31),
		Items: []PlanItem{
			{ItemKey: "LONG_TERM", Label: "看護の目標", SortOrder: 1},
			{ItemKey: "LONG_TERM", Label: "看護の目標(重複)", SortOrder: 2},
		},
	}
	err := svc.Create(context.Background(), cp)
	if !IsValidation(err) {
		t.Fatalf("expected ValidationError for duplicate item_key, got %v", err)
	}
}

func TestUpdate_RejectsDuplicateItemKey(t *testing.T) {
	svc, repo, _ := newTestService()
	cp := activePlan(t, svc)

	_, err := svc.Update(context.Background(), cp.ID, cp.Version, UpdatePatch{
		Items: []PlanItem{
			{ItemKey: "SHORT_TERM", Label: "短期目標", SortOrder: 2},
			{ItemKey: "SHORT_TERM", Label: "短期目標(重複)", SortOrder: 3},
		},
	})
	if !IsValidation(err) {
		t.Fatalf("expected ValidationError for duplicate item_key, got %v", err)
	}
	if repo.store[cp.ID].Version != cp.Version {
		t.Error("rejected update must not bump the version")
	}
}

func TestUpdate_RejectsDuplicateEvaluationSlot(t *testing.T) {
	svc, _, _ := newTestService()
	cp := activePlan(t, svc)

	_, err := svc.Update(context.Background(), cp.ID, cp.Version, UpdatePatch{
		Evaluations: []EvaluationSlot{
			{Slot: 1, Date: date(2025, 4, 1), Result: ResultNone},
			{Slot: 1, Date: date(2025, 7, 1), Result: ResultNone},
		},
	})
	if !IsValidation(err) {
		t.Fatalf("expected ValidationError for duplicate evaluation_slot, got %v", err)
	}
}

func TestGet_MergesCatalog(t *testing.T) {
	svc, repo, _ := newTestService()
	cp := activePlan(t, svc)
	// simulate older data persisted before the catalog grew
	repo.store[cp.ID].Items = []PlanItem{{ItemKey: "POLICY", Label: "看護援助の方針", SortOrder: 3}}

	got, err := svc.Get(context.Background(), cp.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Items) != len(DefaultCatalog()) {
		t.Errorf("expected full catalog after merge, got %d items", len(got.Items))
	}
}

func TestGet_NotFound(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.Get(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdate_AppliesPatch(t *testing.T) {
	svc, _, _ := newTestService()
	cp := activePlan(t, svc)

	goal := "stabilize daily rhythm"
	updated, err := svc.Update(context.Background(), cp.ID, 1, UpdatePatch{LongTermGoal: &goal})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.LongTermGoal == nil || *updated.LongTermGoal != goal {
		t.Error("long term goal not applied")
	}
	if updated.Version != 2 {
		t.Errorf("expected version bump to 2, got %d", updated.Version)
	}
	if updated.Status != StatusActive {
		t.Errorf("update must never change status, got %s", updated.Status)
	}
}

func TestUpdate_NilLeavesUntouched_EmptyClears(t *testing.T) {
	svc, _, _ := newTestService()
	cp := activePlan(t, svc)
	goal := "initial goal"
	if _, err := svc.Update(context.Background(), cp.ID, 1, UpdatePatch{LongTermGoal: &goal}); err != nil {
		t.Fatalf("seed update: %v", err)
	}

	// nil pointer: field survives
	updated, err := svc.Update(context.Background(), cp.ID, 2, UpdatePatch{})
	if err != nil {
		t.Fatalf("noop update: %v", err)
	}
	if updated.LongTermGoal == nil || *updated.LongTermGoal != goal {
		t.Error("nil patch field must leave the stored value untouched")
	}

	// pointer to empty string: field cleared
	empty := ""
	updated, err = svc.Update(context.Background(), cp.ID, 3, UpdatePatch{LongTermGoal: &empty})
	if err != nil {
		t.Fatalf("clearing update: %v", err)
	}
	if updated.LongTermGoal != nil {
		t.Errorf("empty-string patch field must clear the value, got %q", *updated.LongTermGoal)
	}
}

func TestUpdate_VersionConflict(t *testing.T) {
	svc, _, _ := newTestService()
	cp := activePlan(t, svc)

	if _, err := svc.Update(context.Background(), cp.ID, 99, UpdatePatch{}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestUpdate_TerminalPlanRejected(t *testing.T) {
	svc, _, _ := newTestService()
	cp := activePlan(t, svc)
	if _, err := svc.Hospitalize(context.Background(), cp.ID, 1, date(2025, 3, 1), nil); err != nil {
		t.Fatalf("hospitalize: %v", err)
	}

	_, err := svc.Update(context.Background(), cp.ID, 2, UpdatePatch{})
	if !errors.Is(err, ErrNotEditable) {
		t.Fatalf("expected ErrNotEditable, got %v", err)
	}
}

func TestUpdate_StaleVersionOnTerminalPlanIsConflict(t *testing.T) {
	svc, _, _ := newTestService()
	cp := activePlan(t, svc)
	if _, err := svc.Hospitalize(context.Background(), cp.ID, 1, date(2025, 3, 1), nil); err != nil {
		t.Fatalf("hospitalize: %v", err)
	}

	// stale version wins over the terminal-state check so the caller
	// refreshes before learning the plan is closed
	_, err := svc.Update(context.Background(), cp.ID, 1, UpdatePatch{})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for stale version, got %v", err)
	}
}

func TestUpdate_InvertedPeriodRejected(t *testing.T) {
	svc, _, _ := newTestService()
	cp := activePlan(t, svc)

	bad := date(2024, 1, 1)
	_, err := svc.Update(context.Background(), cp.ID, 1, UpdatePatch{EndDate: &bad})
	if !IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestUpdate_ReplacesEvaluationsAndFilters(t *testing.T) {
	svc, _, _ := newTestService()
	cp := activePlan(t, svc)

	updated, err := svc.Update(context.Background(), cp.ID, 1, UpdatePatch{
		Evaluations: []EvaluationSlot{
			{Slot: 1, Date: date(2025, 4, 1), Result: ResultCircle},
			{Slot: 0, Date: date(2025, 7, 1)}, // missing slot number
			{Slot: 2},                         // missing date
			{Slot: 3, Date: date(2025, 10, 1)}, // result defaults to NONE
		},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(updated.Evaluations) != 2 {
		t.Fatalf("expected 2 evaluations after filtering, got %d", len(updated.Evaluations))
	}
	if updated.Evaluations[1].Result != ResultNone {
		t.Errorf("missing result must default to NONE, got %s", updated.Evaluations[1].Result)
	}
}

func TestHospitalize_TerminalTransition(t *testing.T) {
	svc, repo, _ := newTestService()
	cp := activePlan(t, svc)
	note := "admitted to closed ward"

	got, err := svc.Hospitalize(context.Background(), cp.ID, 1, date(2025, 5, 10), &note)
	if err != nil {
		t.Fatalf("hospitalize: %v", err)
	}
	if got.Status != StatusEndedByHospitalization {
		t.Errorf("expected ENDED_BY_HOSPITALIZATION, got %s", got.Status)
	}
	if got.ClosedAt == nil {
		t.Error("closed_at must be set")
	}
	if got.ClosedReason == nil || *got.ClosedReason != "HOSPITALIZATION" {
		t.Error("closed_reason must be HOSPITALIZATION")
	}
	if got.Hospitalization == nil || !got.Hospitalization.HospitalizedAt.Equal(date(2025, 5, 10)) {
		t.Error("hospitalization record missing or wrong date")
	}
	if got.Version != 2 {
		t.Errorf("expected version 2, got %d", got.Version)
	}

	stored := repo.store[cp.ID]
	if stored.Status != StatusEndedByHospitalization {
		t.Error("terminal state not persisted")
	}
}

func TestHospitalize_ExactlyOnce(t *testing.T) {
	svc, _, _ := newTestService()
	cp := activePlan(t, svc)

	if _, err := svc.Hospitalize(context.Background(), cp.ID, 1, date(2025, 5, 10), nil); err != nil {
		t.Fatalf("first hospitalize: %v", err)
	}
	_, err := svc.Hospitalize(context.Background(), cp.ID, 2, date(2025, 6, 1), nil)
	if !errors.Is(err, ErrNotEditable) {
		t.Fatalf("second hospitalize must fail with ErrNotEditable, got %v", err)
	}
}

func TestHospitalize_RequiresDate(t *testing.T) {
	svc, _, _ := newTestService()
	cp := activePlan(t, svc)

	_, err := svc.Hospitalize(context.Background(), cp.ID, 1, time.Time{}, nil)
	if !IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestHospitalize_VersionConflict(t *testing.T) {
	svc, _, _ := newTestService()
	cp := activePlan(t, svc)

	_, err := svc.Hospitalize(context.Background(), cp.ID, 7, date(2025, 5, 10), nil)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestAutoEvaluate_MaterializesAndAssigns(t *testing.T) {
	svc, _, finder := newTestService()
	cp := activePlan(t, svc) // 2025-01-01 .. 2025-12-31, slots at 04-01 and 07-01

	finder.evidence[date(2025, 4, 1)] = &VisitEvidence{VisitDate: date(2025, 4, 3), Result: ResultCircle}
	finder.evidence[date(2025, 7, 1)] = &VisitEvidence{VisitDate: date(2025, 6, 28), Result: ResultCheck}

	got, err := svc.AutoEvaluate(context.Background(), cp.ID, 1)
	if err != nil {
		t.Fatalf("auto-evaluate: %v", err)
	}
	// cadence adds 01-01 and 10-01 on top of the two default slots
	if len(got.Evaluations) != 4 {
		t.Fatalf("expected 4 slots after materialization, got %d", len(got.Evaluations))
	}
	byDate := make(map[time.Time]EvaluationSlot)
	for _, e := range got.Evaluations {
		byDate[dateOnly(e.Date)] = e
	}
	if byDate[date(2025, 4, 1)].Result != ResultCircle {
		t.Errorf("2025-04-01: expected CIRCLE, got %s", byDate[date(2025, 4, 1)].Result)
	}
	if byDate[date(2025, 7, 1)].Result != ResultCheck {
		t.Errorf("2025-07-01: expected CHECK, got %s", byDate[date(2025, 7, 1)].Result)
	}
	if byDate[date(2025, 10, 1)].Result != ResultNone {
		t.Errorf("2025-10-01 without evidence must stay NONE, got %s", byDate[date(2025, 10, 1)].Result)
	}
	if got.Version != 2 {
		t.Errorf("expected version 2 after persisting results, got %d", got.Version)
	}
}

func TestAutoEvaluate_Idempotent(t *testing.T) {
	svc, repo, finder := newTestService()
	cp := activePlan(t, svc)
	finder.evidence[date(2025, 4, 1)] = &VisitEvidence{VisitDate: date(2025, 4, 1), Result: ResultCircle}

	first, err := svc.AutoEvaluate(context.Background(), cp.ID, 1)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	savesAfterFirst := repo.saves

	second, err := svc.AutoEvaluate(context.Background(), cp.ID, first.Version)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if repo.saves != savesAfterFirst {
		t.Error("second run with unchanged history must not persist anything")
	}
	if second.Version != first.Version {
		t.Errorf("second run must not bump the version: %d -> %d", first.Version, second.Version)
	}
	for i := range first.Evaluations {
		if first.Evaluations[i].Result != second.Evaluations[i].Result {
			t.Errorf("slot %d result changed between runs", i)
		}
	}
}

func TestAutoEvaluate_LookupFailureLeavesPlanUntouched(t *testing.T) {
	svc, repo, finder := newTestService()
	cp := activePlan(t, svc)
	finder.err = errors.New("visit service unavailable")

	_, err := svc.AutoEvaluate(context.Background(), cp.ID, 1)
	if !IsExternal(err) {
		t.Fatalf("expected ExternalServiceError, got %v", err)
	}
	if repo.saves != 0 {
		t.Error("a lookup failure must not persist partial results")
	}
	stored := repo.store[cp.ID]
	if len(stored.Evaluations) != 2 || stored.Version != 1 {
		t.Error("stored plan changed despite lookup failure")
	}
}

func TestAutoEvaluate_TerminalPlanRejected(t *testing.T) {
	svc, _, _ := newTestService()
	cp := activePlan(t, svc)
	if _, err := svc.Hospitalize(context.Background(), cp.ID, 1, date(2025, 3, 1), nil); err != nil {
		t.Fatalf("hospitalize: %v", err)
	}

	_, err := svc.AutoEvaluate(context.Background(), cp.ID, 2)
	if !errors.Is(err, ErrNotEditable) {
		t.Fatalf("expected ErrNotEditable, got %v", err)
	}
}

func TestListByPatient_StatusFilter(t *testing.T) {
	svc, _, _ := newTestService()
	pid := uuid.New()
	mk := func() *CarePlan {
		cp := &CarePlan{PatientID: pid, StartDate: date(2025, 1, 1), EndDate: date(2025, 12, 31)}
		if err := svc.Create(context.Background(), cp); err != nil {
			t.Fatalf("create: %v", err)
		}
		return cp
	}
	a := mk()
	mk()
	if _, err := svc.Hospitalize(context.Background(), a.ID, 1, date(2025, 2, 1), nil); err != nil {
		t.Fatalf("hospitalize: %v", err)
	}

	active := StatusActive
	plans, total, err := svc.ListByPatient(context.Background(), pid, &active, 20, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(plans) != 1 {
		t.Fatalf("expected 1 active plan, got %d (total %d)", len(plans), total)
	}
	if plans[0].Status != StatusActive {
		t.Errorf("filter returned %s", plans[0].Status)
	}
}

func TestExport_Snapshot(t *testing.T) {
	svc, _, _ := newTestService()
	cp := activePlan(t, svc)
	svc.SetPatientLookup(patientLookupFunc(func(_ context.Context, id uuid.UUID) (*PatientHeader, error) {
		return &PatientHeader{ID: id, Name: "山田 花子"}, nil
	}))
	svc.SetSupplyLister(supplyListerFunc(func(_ context.Context, _ uuid.UUID) ([]CareSupply, error) {
		return []CareSupply{{Name: "ガーゼ", Amount: "10枚"}}, nil
	}))

	snap, err := svc.Export(context.Background(), cp.ID)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(snap.Plan.Items) != len(DefaultCatalog()) {
		t.Errorf("snapshot items must be catalog-merged, got %d", len(snap.Plan.Items))
	}
	if snap.Patient == nil || snap.Patient.Name != "山田 花子" {
		t.Error("patient header missing from snapshot")
	}
	if len(snap.CareSupplies) != 1 {
		t.Errorf("expected 1 care supply, got %d", len(snap.CareSupplies))
	}
	if snap.GeneratedAt.IsZero() {
		t.Error("generated_at must be set")
	}
}

func TestExport_FlagsOutOfWindowSlots(t *testing.T) {
	svc, repo, _ := newTestService()
	cp := activePlan(t, svc)
	repo.store[cp.ID].Evaluations = append(repo.store[cp.ID].Evaluations,
		EvaluationSlot{Slot: 3, Date: date(2026, 2, 1), Result: ResultNone})

	snap, err := svc.Export(context.Background(), cp.ID)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(snap.SlotsOutOfRange) != 1 || snap.SlotsOutOfRange[0] != 3 {
		t.Errorf("expected slot 3 flagged out of window, got %v", snap.SlotsOutOfRange)
	}
}

func TestExport_TerminalPlanStillExportable(t *testing.T) {
	svc, _, _ := newTestService()
	cp := activePlan(t, svc)
	if _, err := svc.Hospitalize(context.Background(), cp.ID, 1, date(2025, 3, 1), nil); err != nil {
		t.Fatalf("hospitalize: %v", err)
	}

	snap, err := svc.Export(context.Background(), cp.ID)
	if err != nil {
		t.Fatalf("export on terminal plan: %v", err)
	}
	if snap.Plan.Status != StatusEndedByHospitalization {
		t.Errorf("expected terminal status in snapshot, got %s", snap.Plan.Status)
	}
}

func TestExport_MissingPatientDegradesToNilHeader(t *testing.T) {
	svc, _, _ := newTestService()
	cp := activePlan(t, svc)
	// the lookup contract maps an unknown patient to (nil, nil)
	svc.SetPatientLookup(patientLookupFunc(func(_ context.Context, _ uuid.UUID) (*PatientHeader, error) {
		return nil, nil
	}))

	snap, err := svc.Export(context.Background(), cp.ID)
	if err != nil {
		t.Fatalf("export with deleted patient: %v", err)
	}
	if snap.Patient != nil {
		t.Errorf("expected nil patient header, got %+v", snap.Patient)
	}
}

func TestExport_CollaboratorFailure(t *testing.T) {
	svc, _, _ := newTestService()
	cp := activePlan(t, svc)
	svc.SetPatientLookup(patientLookupFunc(func(_ context.Context, _ uuid.UUID) (*PatientHeader, error) {
		return nil, errors.New("patient registry down")
	}))

	_, err := svc.Export(context.Background(), cp.ID)
	if !IsExternal(err) {
		t.Fatalf("expected ExternalServiceError, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	svc, _, _ := newTestService()
	cp := activePlan(t, svc)

	if err := svc.Delete(context.Background(), cp.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(context.Background(), cp.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

type patientLookupFunc func(ctx context.Context, id uuid.UUID) (*PatientHeader, error)

func (f patientLookupFunc) GetPatient(ctx context.Context, id uuid.UUID) (*PatientHeader, error) {
	return f(ctx, id)
}

type supplyListerFunc func(ctx context.Context, patientID uuid.UUID) ([]CareSupply, error)

func (f supplyListerFunc) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]CareSupply, error) {
	return f(ctx, patientID)
}
