package supply

import (
	"context"

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

// NewRepoPG returns a PostgreSQL-backed supply repository.
func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *repoPG) Create(ctx context.Context, s *CareSupply) error {
	s.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO care_supply (id, patient_id, name, amount, note)
		VALUES ($1,$2,$3,$4,$5)`,
		s.ID, s.PatientID, s.Name, s.Amount, s.Note)
	return err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*CareSupply, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, patient_id, name, amount, note, created_at, updated_at
		FROM care_supply WHERE patient_id = $1 ORDER BY name`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var supplies []*CareSupply
	for rows.Next() {
		var s CareSupply
		if err := rows.Scan(&s.ID, &s.PatientID, &s.Name, &s.Amount, &s.Note, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		supplies = append(supplies, &s)
	}
	return supplies, rows.Err()
}

func (r *repoPG) Update(ctx context.Context, s *CareSupply) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE care_supply SET name=$2, amount=$3, note=$4, updated_at=NOW()
		WHERE id = $1`,
		s.ID, s.Name, s.Amount, s.Note)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM care_supply WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
