package vitals

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

type baselineRepoPG struct {
	pool *pgxpool.Pool
}

func NewBaselineRepo(pool *pgxpool.Pool) BaselineRepository {
	return &baselineRepoPG{pool: pool}
}

func (r *baselineRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *baselineRepoPG) SeedIfAbsent(ctx context.Context, patientID int64, heartRate, spo2, glucose int) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO patient_vitals (patient_id, heart_rate, spo2, glucose)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (patient_id) DO NOTHING`,
		patientID, heartRate, spo2, glucose)
	return err
}

func (r *baselineRepoPG) GetByPatient(ctx context.Context, patientID int64) (*Baseline, error) {
	var b Baseline
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, patient_id, heart_rate, spo2, glucose
		FROM patient_vitals WHERE patient_id = $1`, patientID,
	).Scan(&b.ID, &b.PatientID, &b.HeartRate, &b.SpO2, &b.Glucose)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFoundf("No vitals on file yet.")
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *baselineRepoPG) ListWithPatients(ctx context.Context) ([]*BaselineView, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT pv.id, pv.patient_id, pv.heart_rate, pv.spo2, pv.glucose,
		       p.name, p.risk_level
		FROM patient_vitals pv
		JOIN patients p ON pv.patient_id = p.id
		ORDER BY p.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []*BaselineView
	for rows.Next() {
		var v BaselineView
		if err := rows.Scan(&v.ID, &v.PatientID, &v.HeartRate, &v.SpO2, &v.Glucose,
			&v.PatientName, &v.RiskLevel); err != nil {
			return nil, err
		}
		views = append(views, &v)
	}
	return views, rows.Err()
}
