package plan

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a care plan. ACTIVE is the initial state;
// ENDED_BY_HOSPITALIZATION is terminal and no transition leaves it.
type Status string

const (
	StatusActive                 Status = "ACTIVE"
	StatusEndedByHospitalization Status = "ENDED_BY_HOSPITALIZATION"
)

// Result is the outcome of one evaluation slot.
type Result string

const (
	ResultNone   Result = "NONE"   // not yet evaluated
	ResultCircle Result = "CIRCLE" // goal met
	ResultCheck  Result = "CHECK"  // partially met, keep monitoring
)

// DecidedBy records whether a slot result was entered manually or assigned
// by auto-evaluation.
type DecidedBy string

const (
	DecidedManual DecidedBy = "MANUAL"
	DecidedAuto   DecidedBy = "AUTO"
)

// CarePlan maps to the care_plan table and aggregates its items, evaluation
// slots and at most one hospitalization record.
type CarePlan struct {
	ID                uuid.UUID  `db:"id" json:"id"`
	PatientID         uuid.UUID  `db:"patient_id" json:"patient_id"`
	Status            Status     `db:"status" json:"status"`
	StartDate         time.Time  `db:"start_date" json:"start_date"`
	EndDate           time.Time  `db:"end_date" json:"end_date"`
	LongTermGoal      *string    `db:"long_term_goal" json:"long_term_goal,omitempty"`
	ShortTermGoal     *string    `db:"short_term_goal" json:"short_term_goal,omitempty"`
	NursingPolicy     *string    `db:"nursing_policy" json:"nursing_policy,omitempty"`
	PatientFamilyWish *string    `db:"patient_family_wish" json:"patient_family_wish,omitempty"`
	HasProcedure      bool       `db:"has_procedure" json:"has_procedure"`
	ProcedureContent  *string    `db:"procedure_content" json:"procedure_content,omitempty"`
	MaterialDetails   *string    `db:"material_details" json:"material_details,omitempty"`
	MaterialAmount    *string    `db:"material_amount" json:"material_amount,omitempty"`
	ProcedureNote     *string    `db:"procedure_note" json:"procedure_note,omitempty"`
	ClosedAt          *time.Time `db:"closed_at" json:"closed_at,omitempty"`
	ClosedReason      *string    `db:"closed_reason" json:"closed_reason,omitempty"`
	Version           int        `db:"version" json:"version"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`

	Items           []PlanItem       `json:"items"`
	Evaluations     []EvaluationSlot `json:"evaluations"`
	Hospitalization *Hospitalization `json:"hospitalization,omitempty"`
}

// Terminal reports whether the plan has reached a terminal state.
func (cp *CarePlan) Terminal() bool {
	return cp.Status == StatusEndedByHospitalization
}

// PlanItem maps to the care_plan_item table: one nursing-care category
// within a plan, keyed by a catalog item key.
type PlanItem struct {
	ID              uuid.UUID `db:"id" json:"id"`
	PlanID          uuid.UUID `db:"plan_id" json:"plan_id"`
	ItemKey         string    `db:"item_key" json:"item_key"`
	Label           string    `db:"label" json:"label"`
	ObservationText *string   `db:"observation_text" json:"observation_text,omitempty"`
	AssistanceText  *string   `db:"assistance_text" json:"assistance_text,omitempty"`
	SortOrder       int       `db:"sort_order" json:"sort_order"`
}

// EvaluationSlot maps to the care_plan_evaluation table: one scheduled
// three-month review within the plan period.
type EvaluationSlot struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	PlanID    uuid.UUID  `db:"plan_id" json:"plan_id"`
	Slot      int        `db:"evaluation_slot" json:"evaluation_slot"`
	Date      time.Time  `db:"evaluation_date" json:"evaluation_date"`
	Result    Result     `db:"result" json:"result"`
	Note      *string    `db:"note" json:"note,omitempty"`
	DecidedBy *DecidedBy `db:"decided_by" json:"decided_by,omitempty"`
}

// InWindow reports whether the slot's date falls inside the plan period.
func (e *EvaluationSlot) InWindow(start, end time.Time) bool {
	return !e.Date.Before(start) && !e.Date.After(end)
}

// Hospitalization maps to the care_plan_hospitalization table. Its
// existence is equivalent to the plan being ENDED_BY_HOSPITALIZATION.
type Hospitalization struct {
	ID             uuid.UUID `db:"id" json:"id"`
	PlanID         uuid.UUID `db:"plan_id" json:"plan_id"`
	HospitalizedAt time.Time `db:"hospitalized_at" json:"hospitalized_at"`
	Note           *string   `db:"note" json:"note,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// UpdatePatch carries a partial edit of a plan's mutable fields. A nil
// pointer leaves the stored value untouched; a pointer to the zero value
// clears it. Items and Evaluations, when non-nil, replace the stored
// sequences wholesale (after filtering, see Service.Update).
type UpdatePatch struct {
	StartDate         *time.Time
	EndDate           *time.Time
	LongTermGoal      *string
	ShortTermGoal     *string
	NursingPolicy     *string
	PatientFamilyWish *string
	HasProcedure      *bool
	ProcedureContent  *string
	MaterialDetails   *string
	MaterialAmount    *string
	ProcedureNote     *string
	Items             []PlanItem
	Evaluations       []EvaluationSlot
}

// CareSupply is a read-only supply descriptor owned by the care-supplies
// collaborator. The plan core never mutates these.
type CareSupply struct {
	Name   string `json:"name"`
	Amount string `json:"amount,omitempty"`
	Note   string `json:"note,omitempty"`
}

// PatientHeader is the subset of patient data the export snapshot carries.
// Patients are owned by the patient-management collaborator.
type PatientHeader struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
}
