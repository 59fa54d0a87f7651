package scheduling

import "context"

// DoctorRepository defines the persistence interface for the roster.
type DoctorRepository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id int64) (*Doctor, error)
	GetByUserID(ctx context.Context, userID int64) (*Doctor, error)
	List(ctx context.Context) ([]*Doctor, error)
}

// SlotRepository defines the persistence interface for availability slots.
// GetForUpdate locks the slot row until the surrounding transaction ends,
// so two concurrent bookings cannot both see it free.
type SlotRepository interface {
	Create(ctx context.Context, s *Slot) error
	GetByID(ctx context.Context, id int64) (*Slot, error)
	GetForUpdate(ctx context.Context, id int64) (*Slot, error)
	ExistsAt(ctx context.Context, doctorID int64, date, startTime string) (bool, error)
	SetBooked(ctx context.Context, id int64, booked bool) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f SlotFilter) ([]*SlotView, error)
}

// AppointmentRepository defines the persistence interface for appointments.
type AppointmentRepository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id int64) (*Appointment, error)
	GetViewByID(ctx context.Context, id int64) (*AppointmentView, error)
	Update(ctx context.Context, a *Appointment) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*AppointmentView, error)
	ListByUser(ctx context.Context, userID int64) ([]*AppointmentView, error)
}
