package patient

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ruralcare/clinic/internal/platform/apperror"
	"github.com/ruralcare/clinic/internal/platform/db"
)

type queryable interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// -- Patient repository --

type patientRepoPG struct {
	pool *pgxpool.Pool
}

func NewPatientRepo(pool *pgxpool.Pool) PatientRepository {
	return &patientRepoPG{pool: pool}
}

func (r *patientRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const patientColumns = `id, user_id, name, age, gender, village, symptoms, vitals, risk_level, created_at::text`

func (r *patientRepoPG) Create(ctx context.Context, p *Patient) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO patients (user_id, name, age, gender, village, symptoms, vitals, risk_level)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at::text`,
		p.UserID, p.Name, p.Age, p.Gender, p.Village, p.Symptoms, p.Vitals, p.RiskLevel,
	).Scan(&p.ID, &p.CreatedAt)
}

func (r *patientRepoPG) GetByID(ctx context.Context, id int64) (*Patient, error) {
	return r.scanPatient(r.conn(ctx).QueryRow(ctx,
		`SELECT `+patientColumns+` FROM patients WHERE id = $1`, id))
}

func (r *patientRepoPG) GetByUserID(ctx context.Context, userID int64) (*Patient, error) {
	return r.scanPatient(r.conn(ctx).QueryRow(ctx,
		`SELECT `+patientColumns+` FROM patients WHERE user_id = $1`, userID))
}

func (r *patientRepoPG) Update(ctx context.Context, p *Patient) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE patients
		SET name = $2, age = $3, gender = $4, village = $5, symptoms = $6, vitals = $7, risk_level = $8
		WHERE id = $1`,
		p.ID, p.Name, p.Age, p.Gender, p.Village, p.Symptoms, p.Vitals, p.RiskLevel,
	)
	return err
}

func (r *patientRepoPG) Delete(ctx context.Context, id int64) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	return err
}

func (r *patientRepoPG) List(ctx context.Context) ([]*Patient, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+patientColumns+` FROM patients ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var patients []*Patient
	for rows.Next() {
		var p Patient
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Age, &p.Gender, &p.Village,
			&p.Symptoms, &p.Vitals, &p.RiskLevel, &p.CreatedAt); err != nil {
			return nil, err
		}
		patients = append(patients, &p)
	}
	return patients, rows.Err()
}

func (r *patientRepoPG) scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Age, &p.Gender, &p.Village,
		&p.Symptoms, &p.Vitals, &p.RiskLevel, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFoundf("Patient not found")
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// -- Consultation note repository --

type noteRepoPG struct {
	pool *pgxpool.Pool
}

func NewNoteRepo(pool *pgxpool.Pool) NoteRepository {
	return &noteRepoPG{pool: pool}
}

func (r *noteRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *noteRepoPG) Create(ctx context.Context, n *ConsultationNote) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO consultation_notes (patient_id, raw_note, structured_summary, follow_up_days)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at::text`,
		n.PatientID, n.RawNote, n.StructuredSummary, n.FollowUpDays,
	).Scan(&n.ID, &n.CreatedAt)
}

func (r *noteRepoPG) GetByID(ctx context.Context, id int64) (*ConsultationNote, error) {
	var n ConsultationNote
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, patient_id, raw_note, structured_summary, follow_up_days, created_at::text
		FROM consultation_notes WHERE id = $1`, id,
	).Scan(&n.ID, &n.PatientID, &n.RawNote, &n.StructuredSummary, &n.FollowUpDays, &n.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFoundf("Note not found")
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *noteRepoPG) Delete(ctx context.Context, id int64) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM consultation_notes WHERE id = $1`, id)
	return err
}

const noteJoinQuery = `
	SELECT cn.id, cn.patient_id, cn.raw_note, cn.structured_summary,
	       cn.follow_up_days, cn.created_at::text, p.name AS patient_name
	FROM consultation_notes cn
	JOIN patients p ON cn.patient_id = p.id`

func (r *noteRepoPG) List(ctx context.Context) ([]*ConsultationNote, error) {
	rows, err := r.conn(ctx).Query(ctx, noteJoinQuery+` ORDER BY cn.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanNotes(rows)
}

func (r *noteRepoPG) ListByPatient(ctx context.Context, patientID int64) ([]*ConsultationNote, error) {
	rows, err := r.conn(ctx).Query(ctx,
		noteJoinQuery+` WHERE cn.patient_id = $1 ORDER BY cn.created_at DESC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanNotes(rows)
}

func scanNotes(rows pgx.Rows) ([]*ConsultationNote, error) {
	var notes []*ConsultationNote
	for rows.Next() {
		var n ConsultationNote
		if err := rows.Scan(&n.ID, &n.PatientID, &n.RawNote, &n.StructuredSummary,
			&n.FollowUpDays, &n.CreatedAt, &n.PatientName); err != nil {
			return nil, err
		}
		notes = append(notes, &n)
	}
	return notes, rows.Err()
}
