package supply

import (
	"time"

	"github.com/google/uuid"
)

// CareSupply maps to the care_supply table: a medical material provided to
// a patient during home visits, listed on the plan export.
type CareSupply struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`
	Name      string    `db:"name" json:"name"`
	Amount    *string   `db:"amount" json:"amount,omitempty"`
	Note      *string   `db:"note" json:"note,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
