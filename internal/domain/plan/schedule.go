package plan

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ScheduledSlotDates returns the canonical evaluation target dates for a
// plan period: a fixed three-month cadence starting at start, stopping at
// the last cadence point on or before end. Deterministic and restartable;
// same inputs always yield the same sequence. An inverted period yields nil.
func ScheduledSlotDates(start, end time.Time) []time.Time {
	if end.Before(start) {
		return nil
	}
	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 3, 0) {
		dates = append(dates, d)
	}
	return dates
}

// VisitEvidence is the determination produced by the external visit-history
// lookup for one target date. Result is CIRCLE or CHECK; the scoring rule
// itself lives in the collaborator, not in the plan engine.
type VisitEvidence struct {
	VisitDate time.Time
	Result    Result
}

// EvidenceFinder is the visit-history lookup consumed by auto-evaluation.
// Implementations must be bounded by ctx; an error (including a context
// timeout) fails the whole auto-evaluate call.
type EvidenceFinder interface {
	FindQualifyingVisit(ctx context.Context, patientID uuid.UUID, target time.Time, tolerance time.Duration) (*VisitEvidence, error)
}

// materializeSlots returns the plan's evaluation slots extended with a new
// NONE slot for every scheduled target date that has no slot yet. New slots
// take the next available slot number. The input slice is not modified.
func materializeSlots(cp *CarePlan, targets []time.Time) []EvaluationSlot {
	slots := make([]EvaluationSlot, len(cp.Evaluations))
	copy(slots, cp.Evaluations)

	nextSlot := 0
	haveDate := make(map[time.Time]bool, len(slots))
	for _, s := range slots {
		if s.Slot > nextSlot {
			nextSlot = s.Slot
		}
		haveDate[dateOnly(s.Date)] = true
	}

	for _, target := range targets {
		if haveDate[dateOnly(target)] {
			continue
		}
		nextSlot++
		slots = append(slots, EvaluationSlot{
			PlanID: cp.ID,
			Slot:   nextSlot,
			Date:   target,
			Result: ResultNone,
		})
	}
	return slots
}

// evaluateSlots fills in results for NONE slots inside the plan window by
// consulting the evidence finder. Existing non-NONE results are never
// downgraded; slots outside [StartDate, EndDate] are never evaluated; slots
// with no qualifying evidence stay NONE. Returns whether anything changed.
// All lookups complete before the caller persists, so a finder error leaves
// no partial updates behind.
func evaluateSlots(ctx context.Context, finder EvidenceFinder, cp *CarePlan, slots []EvaluationSlot, tolerance time.Duration) (bool, error) {
	changed := len(slots) != len(cp.Evaluations)

	for i := range slots {
		s := &slots[i]
		if s.Result != ResultNone {
			continue
		}
		if !s.InWindow(cp.StartDate, cp.EndDate) {
			continue
		}
		ev, err := finder.FindQualifyingVisit(ctx, cp.PatientID, s.Date, tolerance)
		if err != nil {
			return false, &ExternalServiceError{Service: "visit-history lookup", Err: err}
		}
		if ev == nil || ev.Result == ResultNone {
			continue
		}
		s.Result = ev.Result
		decided := DecidedAuto
		s.DecidedBy = &decided
		changed = true
	}
	return changed, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
