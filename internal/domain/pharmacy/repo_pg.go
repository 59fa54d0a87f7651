package pharmacy

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

// -- Medicine repository --

type medicineRepoPG struct {
	pool *pgxpool.Pool
}

func NewMedicineRepo(pool *pgxpool.Pool) MedicineRepository {
	return &medicineRepoPG{pool: pool}
}

func (r *medicineRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const medicineColumns = `id, name, category, strength, price, stock_quantity`

func (r *medicineRepoPG) List(ctx context.Context) ([]*Medicine, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+medicineColumns+` FROM medicines ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var medicines []*Medicine
	for rows.Next() {
		var m Medicine
		if err := rows.Scan(&m.ID, &m.Name, &m.Category, &m.Strength, &m.Price, &m.StockQuantity); err != nil {
			return nil, err
		}
		medicines = append(medicines, &m)
	}
	return medicines, rows.Err()
}

func (r *medicineRepoPG) GetForUpdate(ctx context.Context, id string) (*Medicine, error) {
	var m Medicine
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT `+medicineColumns+` FROM medicines WHERE id = $1 FOR UPDATE`, id,
	).Scan(&m.ID, &m.Name, &m.Category, &m.Strength, &m.Price, &m.StockQuantity)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFoundf("Medicine not found")
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *medicineRepoPG) DecrementStock(ctx context.Context, id string) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE medicines SET stock_quantity = stock_quantity - 1 WHERE id = $1`, id)
	return err
}

// -- Prescription repository --

type prescriptionRepoPG struct {
	pool *pgxpool.Pool
}

func NewPrescriptionRepo(pool *pgxpool.Pool) PrescriptionRepository {
	return &prescriptionRepoPG{pool: pool}
}

func (r *prescriptionRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *prescriptionRepoPG) Create(ctx context.Context, p *Prescription) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO prescriptions (patient_id, doctor_id, medicine_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at::text`,
		p.PatientID, p.DoctorID, p.MedicineID, p.Status,
	).Scan(&p.ID, &p.CreatedAt)
}

func (r *prescriptionRepoPG) GetForUpdate(ctx context.Context, id int64) (*Prescription, error) {
	var p Prescription
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, patient_id, doctor_id, medicine_id, status, created_at::text, dispensed_at::text
		FROM prescriptions WHERE id = $1 FOR UPDATE`, id,
	).Scan(&p.ID, &p.PatientID, &p.DoctorID, &p.MedicineID, &p.Status, &p.CreatedAt, &p.DispensedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFoundf("Prescription not found")
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *prescriptionRepoPG) MarkDispensed(ctx context.Context, id int64) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE prescriptions SET status = 'dispensed', dispensed_at = NOW() WHERE id = $1`, id)
	return err
}

// 'pending' sorts after 'dispensed', so status DESC keeps undispensed
// work at the top of the counter queue.
func (r *prescriptionRepoPG) List(ctx context.Context) ([]*PrescriptionView, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT p.id, p.patient_id, p.doctor_id, p.medicine_id, p.status,
		       p.created_at::text, p.dispensed_at::text,
		       m.name AS medicine_name, m.strength AS medicine_strength,
		       pt.name AS patient_name, pt.village AS patient_village,
		       d.name AS doctor_name
		FROM prescriptions p
		JOIN medicines m ON p.medicine_id = m.id
		JOIN patients pt ON p.patient_id = pt.id
		JOIN doctors d ON p.doctor_id = d.id
		ORDER BY p.status DESC, p.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []*PrescriptionView
	for rows.Next() {
		var v PrescriptionView
		if err := rows.Scan(&v.ID, &v.PatientID, &v.DoctorID, &v.MedicineID, &v.Status,
			&v.CreatedAt, &v.DispensedAt,
			&v.MedicineName, &v.MedicineStrength,
			&v.PatientName, &v.PatientVillage, &v.DoctorName); err != nil {
			return nil, err
		}
		views = append(views, &v)
	}
	return views, rows.Err()
}

func (r *prescriptionRepoPG) ListForPatient(ctx context.Context, patientID int64) ([]*PrescriptionView, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT p.id, p.patient_id, p.doctor_id, p.medicine_id, p.status,
		       p.created_at::text, p.dispensed_at::text,
		       m.name AS medicine_name, m.strength AS medicine_strength,
		       d.name AS doctor_name
		FROM prescriptions p
		JOIN medicines m ON p.medicine_id = m.id
		JOIN doctors d ON p.doctor_id = d.id
		WHERE p.patient_id = $1
		ORDER BY p.created_at DESC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []*PrescriptionView
	for rows.Next() {
		var v PrescriptionView
		if err := rows.Scan(&v.ID, &v.PatientID, &v.DoctorID, &v.MedicineID, &v.Status,
			&v.CreatedAt, &v.DispensedAt,
			&v.MedicineName, &v.MedicineStrength, &v.DoctorName); err != nil {
			return nil, err
		}
		views = append(views, &v)
	}
	return views, rows.Err()
}
