package plan

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/visitcare/visitcare/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG returns a PostgreSQL-backed plan repository.
func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const planCols = `id, patient_id, status, start_date, end_date,
	long_term_goal, short_term_goal, nursing_policy, patient_family_wish,
	has_procedure, procedure_content, material_details, material_amount, procedure_note,
	closed_at, closed_reason, version, created_at, updated_at`

func scanPlan(row pgx.Row) (*CarePlan, error) {
	var cp CarePlan
	err := row.Scan(&cp.ID, &cp.PatientID, &cp.Status, &cp.StartDate, &cp.EndDate,
		&cp.LongTermGoal, &cp.ShortTermGoal, &cp.NursingPolicy, &cp.PatientFamilyWish,
		&cp.HasProcedure, &cp.ProcedureContent, &cp.MaterialDetails, &cp.MaterialAmount, &cp.ProcedureNote,
		&cp.ClosedAt, &cp.ClosedReason, &cp.Version, &cp.CreatedAt, &cp.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cp, nil
}

func (r *repoPG) Create(ctx context.Context, cp *CarePlan) error {
	cp.ID = uuid.New()
	cp.Version = 1
	if cp.Status == "" {
		cp.Status = StatusActive
	}

	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO care_plan (id, patient_id, status, start_date, end_date,
				long_term_goal, short_term_goal, nursing_policy, patient_family_wish,
				has_procedure, procedure_content, material_details, material_amount, procedure_note,
				version)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
			cp.ID, cp.PatientID, cp.Status, cp.StartDate, cp.EndDate,
			cp.LongTermGoal, cp.ShortTermGoal, cp.NursingPolicy, cp.PatientFamilyWish,
			cp.HasProcedure, cp.ProcedureContent, cp.MaterialDetails, cp.MaterialAmount, cp.ProcedureNote,
			cp.Version)
		if err != nil {
			return err
		}
		if err := insertItems(ctx, tx, cp.ID, cp.Items); err != nil {
			return err
		}
		return insertEvaluations(ctx, tx, cp.ID, cp.Evaluations)
	})
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*CarePlan, error) {
	q := r.conn(ctx)
	cp, err := scanPlan(q.QueryRow(ctx, `SELECT `+planCols+` FROM care_plan WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadChildren(ctx, q, cp); err != nil {
		return nil, err
	}
	return cp, nil
}

func (r *repoPG) loadChildren(ctx context.Context, q queryable, cp *CarePlan) error {
	rows, err := q.Query(ctx, `
		SELECT id, plan_id, item_key, label, observation_text, assistance_text, sort_order
		FROM care_plan_item WHERE plan_id = $1 ORDER BY sort_order, item_key`, cp.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var it PlanItem
		if err := rows.Scan(&it.ID, &it.PlanID, &it.ItemKey, &it.Label,
			&it.ObservationText, &it.AssistanceText, &it.SortOrder); err != nil {
			return err
		}
		cp.Items = append(cp.Items, it)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = q.Query(ctx, `
		SELECT id, plan_id, evaluation_slot, evaluation_date, result, note, decided_by
		FROM care_plan_evaluation WHERE plan_id = $1 ORDER BY evaluation_slot`, cp.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var e EvaluationSlot
		if err := rows.Scan(&e.ID, &e.PlanID, &e.Slot, &e.Date, &e.Result, &e.Note, &e.DecidedBy); err != nil {
			return err
		}
		cp.Evaluations = append(cp.Evaluations, e)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	var h Hospitalization
	err = q.QueryRow(ctx, `
		SELECT id, plan_id, hospitalized_at, note, created_at
		FROM care_plan_hospitalization WHERE plan_id = $1`, cp.ID).
		Scan(&h.ID, &h.PlanID, &h.HospitalizedAt, &h.Note, &h.CreatedAt)
	if err == nil {
		cp.Hospitalization = &h
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	return nil
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, status *Status, limit, offset int) ([]*CarePlan, int, error) {
	q := r.conn(ctx)

	countQuery := `SELECT COUNT(*) FROM care_plan WHERE patient_id = $1`
	listQuery := `SELECT ` + planCols + ` FROM care_plan WHERE patient_id = $1`
	args := []interface{}{patientID}
	if status != nil {
		countQuery += ` AND status = $2`
		listQuery += ` AND status = $2`
		args = append(args, *status)
	}

	var total int
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listQuery += fmt.Sprintf(` ORDER BY start_date DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var plans []*CarePlan
	for rows.Next() {
		cp, err := scanPlan(rows)
		if err != nil {
			return nil, 0, err
		}
		plans = append(plans, cp)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	for _, cp := range plans {
		if err := r.loadChildren(ctx, q, cp); err != nil {
			return nil, 0, err
		}
	}
	return plans, total, nil
}

func (r *repoPG) Save(ctx context.Context, cp *CarePlan, expectedVersion int) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE care_plan SET status=$2, start_date=$3, end_date=$4,
				long_term_goal=$5, short_term_goal=$6, nursing_policy=$7, patient_family_wish=$8,
				has_procedure=$9, procedure_content=$10, material_details=$11, material_amount=$12, procedure_note=$13,
				closed_at=$14, closed_reason=$15, version=version+1, updated_at=NOW()
			WHERE id = $1 AND version = $16`,
			cp.ID, cp.Status, cp.StartDate, cp.EndDate,
			cp.LongTermGoal, cp.ShortTermGoal, cp.NursingPolicy, cp.PatientFamilyWish,
			cp.HasProcedure, cp.ProcedureContent, cp.MaterialDetails, cp.MaterialAmount, cp.ProcedureNote,
			cp.ClosedAt, cp.ClosedReason, expectedVersion)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			var exists bool
			if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM care_plan WHERE id = $1)`, cp.ID).Scan(&exists); err != nil {
				return err
			}
			if !exists {
				return ErrNotFound
			}
			return ErrConflict
		}

		if _, err := tx.Exec(ctx, `DELETE FROM care_plan_item WHERE plan_id = $1`, cp.ID); err != nil {
			return err
		}
		if err := insertItems(ctx, tx, cp.ID, cp.Items); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM care_plan_evaluation WHERE plan_id = $1`, cp.ID); err != nil {
			return err
		}
		if err := insertEvaluations(ctx, tx, cp.ID, cp.Evaluations); err != nil {
			return err
		}

		if cp.Hospitalization != nil {
			h := cp.Hospitalization
			if h.ID == uuid.Nil {
				h.ID = uuid.New()
			}
			// one hospitalization per plan, ever
			if _, err := tx.Exec(ctx, `
				INSERT INTO care_plan_hospitalization (id, plan_id, hospitalized_at, note)
				VALUES ($1,$2,$3,$4)
				ON CONFLICT (plan_id) DO NOTHING`,
				h.ID, cp.ID, h.HospitalizedAt, h.Note); err != nil {
				return err
			}
		}

		cp.Version = expectedVersion + 1
		return nil
	})
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM care_plan WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func insertItems(ctx context.Context, tx pgx.Tx, planID uuid.UUID, items []PlanItem) error {
	for i := range items {
		it := &items[i]
		if it.ID == uuid.Nil {
			it.ID = uuid.New()
		}
		it.PlanID = planID
		if _, err := tx.Exec(ctx, `
			INSERT INTO care_plan_item (id, plan_id, item_key, label, observation_text, assistance_text, sort_order)
			VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			it.ID, planID, it.ItemKey, it.Label, it.ObservationText, it.AssistanceText, it.SortOrder); err != nil {
			return err
		}
	}
	return nil
}

func insertEvaluations(ctx context.Context, tx pgx.Tx, planID uuid.UUID, evals []EvaluationSlot) error {
	for i := range evals {
		e := &evals[i]
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
		e.PlanID = planID
		if _, err := tx.Exec(ctx, `
			INSERT INTO care_plan_evaluation (id, plan_id, evaluation_slot, evaluation_date, result, note, decided_by)
			VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			e.ID, planID, e.Slot, e.Date, e.Result, e.Note, e.DecidedBy); err != nil {
			return err
		}
	}
	return nil
}
