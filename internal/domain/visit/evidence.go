package visit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/visitcare/visitcare/internal/domain/plan"
)

// Duration thresholds for scoring a visit as evaluation evidence. A full
// visit scores CIRCLE, a shortened one CHECK, anything below stays
// unevaluated.
const (
	CircleMinutes = 60
	CheckMinutes  = 30
)

// DurationFinder scores evaluation slots from recorded visit durations. It
// implements the visit-history lookup consumed by plan auto-evaluation.
type DurationFinder struct {
	repo Repository
}

func NewDurationFinder(repo Repository) *DurationFinder {
	return &DurationFinder{repo: repo}
}

// FindQualifyingVisit returns the best evidence among the patient's visits
// within tolerance of target: the longest visit decides, CIRCLE beating
// CHECK. Returns nil when no visit in the window reaches CheckMinutes.
func (f *DurationFinder) FindQualifyingVisit(ctx context.Context, patientID uuid.UUID, target time.Time, tolerance time.Duration) (*plan.VisitEvidence, error) {
	records, err := f.repo.ListInRange(ctx, patientID, target.Add(-tolerance), target.Add(tolerance))
	if err != nil {
		return nil, err
	}

	// records come longest first, so the first qualifying one is the best
	for _, rec := range records {
		switch {
		case rec.DurationMinutes >= CircleMinutes:
			return &plan.VisitEvidence{VisitDate: rec.VisitDate, Result: plan.ResultCircle}, nil
		case rec.DurationMinutes >= CheckMinutes:
			return &plan.VisitEvidence{VisitDate: rec.VisitDate, Result: plan.ResultCheck}, nil
		}
	}
	return nil, nil
}
