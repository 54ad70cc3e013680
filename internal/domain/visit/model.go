package visit

import (
	"time"

	"github.com/google/uuid"
)

// Record maps to the visit_record table: one completed home-nursing visit.
type Record struct {
	ID              uuid.UUID `db:"id" json:"id"`
	PatientID       uuid.UUID `db:"patient_id" json:"patient_id"`
	VisitDate       time.Time `db:"visit_date" json:"visit_date"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	StaffName       *string   `db:"staff_name" json:"staff_name,omitempty"`
	Note            *string   `db:"note" json:"note,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}
