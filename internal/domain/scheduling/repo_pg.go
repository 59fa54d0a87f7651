package scheduling

import (
	"context"
	"errors"
	"fmt"

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

// -- Doctor repository --

type doctorRepoPG struct {
	pool *pgxpool.Pool
}

func NewDoctorRepo(pool *pgxpool.Pool) DoctorRepository {
	return &doctorRepoPG{pool: pool}
}

func (r *doctorRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *doctorRepoPG) Create(ctx context.Context, d *Doctor) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO doctors (name, specialization, user_id)
		VALUES ($1, $2, $3)
		RETURNING id`,
		d.Name, d.Specialization, d.UserID,
	).Scan(&d.ID)
}

func (r *doctorRepoPG) GetByID(ctx context.Context, id int64) (*Doctor, error) {
	return r.scanDoctor(r.conn(ctx).QueryRow(ctx,
		`SELECT id, name, specialization, user_id FROM doctors WHERE id = $1`, id))
}

func (r *doctorRepoPG) GetByUserID(ctx context.Context, userID int64) (*Doctor, error) {
	return r.scanDoctor(r.conn(ctx).QueryRow(ctx,
		`SELECT id, name, specialization, user_id FROM doctors WHERE user_id = $1`, userID))
}

func (r *doctorRepoPG) List(ctx context.Context) ([]*Doctor, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT id, name, specialization, user_id FROM doctors ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var doctors []*Doctor
	for rows.Next() {
		var d Doctor
		if err := rows.Scan(&d.ID, &d.Name, &d.Specialization, &d.UserID); err != nil {
			return nil, err
		}
		doctors = append(doctors, &d)
	}
	return doctors, rows.Err()
}

func (r *doctorRepoPG) scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	err := row.Scan(&d.ID, &d.Name, &d.Specialization, &d.UserID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFoundf("Doctor not found")
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// -- Slot repository --

type slotRepoPG struct {
	pool *pgxpool.Pool
}

func NewSlotRepo(pool *pgxpool.Pool) SlotRepository {
	return &slotRepoPG{pool: pool}
}

func (r *slotRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const slotColumns = `id, doctor_id, date, start_time, end_time, is_booked`

func (r *slotRepoPG) Create(ctx context.Context, s *Slot) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO doctor_availability (doctor_id, date, start_time, end_time, is_booked)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING id`,
		s.DoctorID, s.Date, s.StartTime, s.EndTime,
	).Scan(&s.ID)
}

func (r *slotRepoPG) GetByID(ctx context.Context, id int64) (*Slot, error) {
	return r.scanSlot(r.conn(ctx).QueryRow(ctx,
		`SELECT `+slotColumns+` FROM doctor_availability WHERE id = $1`, id))
}

func (r *slotRepoPG) GetForUpdate(ctx context.Context, id int64) (*Slot, error) {
	return r.scanSlot(r.conn(ctx).QueryRow(ctx,
		`SELECT `+slotColumns+` FROM doctor_availability WHERE id = $1 FOR UPDATE`, id))
}

func (r *slotRepoPG) ExistsAt(ctx context.Context, doctorID int64, date, startTime string) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM doctor_availability
			WHERE doctor_id = $1 AND date = $2 AND start_time = $3
		)`, doctorID, date, startTime,
	).Scan(&exists)
	return exists, err
}

func (r *slotRepoPG) SetBooked(ctx context.Context, id int64, booked bool) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE doctor_availability SET is_booked = $2 WHERE id = $1`, id, booked)
	return err
}

func (r *slotRepoPG) Delete(ctx context.Context, id int64) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM doctor_availability WHERE id = $1`, id)
	return err
}

func (r *slotRepoPG) List(ctx context.Context, f SlotFilter) ([]*SlotView, error) {
	query := `
		SELECT da.id, da.doctor_id, da.date, da.start_time, da.end_time, da.is_booked,
		       d.name AS doctor_name, d.specialization
		FROM doctor_availability da
		JOIN doctors d ON da.doctor_id = d.id
		WHERE 1=1`
	var args []interface{}

	if f.OwnerDoctorID != nil {
		args = append(args, *f.OwnerDoctorID)
		query += fmt.Sprintf(` AND da.doctor_id = $%d`, len(args))
	}
	if f.OnlyFree {
		query += ` AND da.is_booked = FALSE`
	}
	if f.DoctorID != nil {
		args = append(args, *f.DoctorID)
		query += fmt.Sprintf(` AND da.doctor_id = $%d`, len(args))
	}
	if f.Date != "" {
		args = append(args, f.Date)
		query += fmt.Sprintf(` AND da.date = $%d`, len(args))
	}
	query += ` ORDER BY da.date, da.start_time`

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []*SlotView
	for rows.Next() {
		var v SlotView
		if err := rows.Scan(&v.ID, &v.DoctorID, &v.Date, &v.StartTime, &v.EndTime,
			&v.IsBooked, &v.DoctorName, &v.Specialization); err != nil {
			return nil, err
		}
		slots = append(slots, &v)
	}
	return slots, rows.Err()
}

func (r *slotRepoPG) scanSlot(row pgx.Row) (*Slot, error) {
	var s Slot
	err := row.Scan(&s.ID, &s.DoctorID, &s.Date, &s.StartTime, &s.EndTime, &s.IsBooked)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFoundf("Slot not found")
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// -- Appointment repository --

type appointmentRepoPG struct {
	pool *pgxpool.Pool
}

func NewAppointmentRepo(pool *pgxpool.Pool) AppointmentRepository {
	return &appointmentRepoPG{pool: pool}
}

func (r *appointmentRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *appointmentRepoPG) Create(ctx context.Context, a *Appointment) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO appointments (patient_id, user_id, doctor_id, availability_id, date, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		a.PatientID, a.UserID, a.DoctorID, a.AvailabilityID, a.Date, a.Status,
	).Scan(&a.ID)
}

func (r *appointmentRepoPG) GetByID(ctx context.Context, id int64) (*Appointment, error) {
	var a Appointment
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, patient_id, user_id, doctor_id, availability_id, date, status
		FROM appointments WHERE id = $1`, id,
	).Scan(&a.ID, &a.PatientID, &a.UserID, &a.DoctorID, &a.AvailabilityID, &a.Date, &a.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFoundf("Appointment not found")
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

const appointmentViewQuery = `
	SELECT a.id, a.patient_id, a.user_id, a.doctor_id, a.availability_id, a.date, a.status,
	       d.name AS doctor_name,
	       COALESCE(p.name, u.name) AS patient_name
	FROM appointments a
	LEFT JOIN patients p ON a.patient_id = p.id
	LEFT JOIN users u ON a.user_id = u.id
	JOIN doctors d ON a.doctor_id = d.id`

func (r *appointmentRepoPG) GetViewByID(ctx context.Context, id int64) (*AppointmentView, error) {
	var v AppointmentView
	err := r.conn(ctx).QueryRow(ctx, appointmentViewQuery+` WHERE a.id = $1`, id).Scan(
		&v.ID, &v.PatientID, &v.UserID, &v.DoctorID, &v.AvailabilityID, &v.Date, &v.Status,
		&v.DoctorName, &v.PatientName,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFoundf("Appointment not found")
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *appointmentRepoPG) Update(ctx context.Context, a *Appointment) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointments
		SET patient_id = $2, doctor_id = $3, availability_id = $4, date = $5, status = $6
		WHERE id = $1`,
		a.ID, a.PatientID, a.DoctorID, a.AvailabilityID, a.Date, a.Status,
	)
	return err
}

func (r *appointmentRepoPG) Delete(ctx context.Context, id int64) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	return err
}

func (r *appointmentRepoPG) List(ctx context.Context) ([]*AppointmentView, error) {
	rows, err := r.conn(ctx).Query(ctx, appointmentViewQuery+` ORDER BY a.date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAppointmentViews(rows)
}

func (r *appointmentRepoPG) ListByUser(ctx context.Context, userID int64) ([]*AppointmentView, error) {
	rows, err := r.conn(ctx).Query(ctx,
		appointmentViewQuery+` WHERE a.user_id = $1 ORDER BY a.date DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAppointmentViews(rows)
}

func scanAppointmentViews(rows pgx.Rows) ([]*AppointmentView, error) {
	var views []*AppointmentView
	for rows.Next() {
		var v AppointmentView
		if err := rows.Scan(&v.ID, &v.PatientID, &v.UserID, &v.DoctorID, &v.AvailabilityID,
			&v.Date, &v.Status, &v.DoctorName, &v.PatientName); err != nil {
			return nil, err
		}
		views = append(views, &v)
	}
	return views, rows.Err()
}
