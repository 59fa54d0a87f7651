package scheduling

import (
	"context"

	"github.com/ruralcare/clinic/internal/platform/apperror"
	"github.com/ruralcare/clinic/internal/platform/auth"
	"github.com/ruralcare/clinic/internal/platform/db"
)

type Service struct {
	doctors      DoctorRepository
	slots        SlotRepository
	appointments AppointmentRepository
	tx           db.TxRunner
}

func NewService(doctors DoctorRepository, slots SlotRepository, appointments AppointmentRepository, tx db.TxRunner) *Service {
	return &Service{doctors: doctors, slots: slots, appointments: appointments, tx: tx}
}

// -- Doctors --

func (s *Service) ListDoctors(ctx context.Context) ([]*Doctor, error) {
	doctors, err := s.doctors.List(ctx)
	if err != nil {
		return nil, apperror.Internalf(err)
	}
	return doctors, nil
}

func (s *Service) AddDoctor(ctx context.Context, name, specialization string) (*Doctor, error) {
	if name == "" || specialization == "" {
		return nil, apperror.InvalidInputf("name and specialization are required")
	}
	d := &Doctor{Name: name, Specialization: specialization}
	if err := s.doctors.Create(ctx, d); err != nil {
		return nil, apperror.Internalf(err)
	}
	return d, nil
}

// RegisterDoctor adds a roster entry linked to a provisioned login account.
func (s *Service) RegisterDoctor(ctx context.Context, userID int64, name, specialization string) (int64, error) {
	d := &Doctor{Name: name, Specialization: specialization, UserID: &userID}
	if err := s.doctors.Create(ctx, d); err != nil {
		return 0, err
	}
	return d.ID, nil
}

// -- Availability --

// ListAvailability scopes the listing by role: a doctor sees all of their
// own slots, booked or not; everyone else sees only free slots.
func (s *Service) ListAvailability(ctx context.Context, ident auth.Identity, doctorID *int64, date string) ([]*SlotView, error) {
	filter := SlotFilter{DoctorID: doctorID, Date: date}

	if ident.Role == "doctor" {
		own, err := s.doctors.GetByUserID(ctx, ident.ID)
		if err != nil {
			if apperror.IsKind(err, apperror.NotFound) {
				// Account with no roster entry: nothing to show.
				return []*SlotView{}, nil
			}
			return nil, apperror.Internalf(err)
		}
		filter.OwnerDoctorID = &own.ID
	} else {
		filter.OnlyFree = true
	}

	slots, err := s.slots.List(ctx, filter)
	if err != nil {
		return nil, apperror.Internalf(err)
	}
	return slots, nil
}

func (s *Service) CreateSlot(ctx context.Context, ident auth.Identity, in SlotInput) (*Slot, error) {
	if ident.Role != "doctor" && ident.Role != "admin" {
		return nil, apperror.Forbiddenf("Only doctors can create availability slots")
	}
	if in.DoctorID == 0 || in.Date == "" || in.StartTime == "" || in.EndTime == "" {
		return nil, apperror.InvalidInputf("doctor_id, date, start_time, end_time are required")
	}

	if _, err := s.doctors.GetByID(ctx, in.DoctorID); err != nil {
		return nil, err
	}

	clash, err := s.slots.ExistsAt(ctx, in.DoctorID, in.Date, in.StartTime)
	if err != nil {
		return nil, apperror.Internalf(err)
	}
	if clash {
		return nil, apperror.Conflictf("A slot already exists at that time")
	}

	slot := &Slot{DoctorID: in.DoctorID, Date: in.Date, StartTime: in.StartTime, EndTime: in.EndTime}
	if err := s.slots.Create(ctx, slot); err != nil {
		return nil, apperror.Internalf(err)
	}
	return slot, nil
}

func (s *Service) DeleteSlot(ctx context.Context, ident auth.Identity, id int64) error {
	if ident.Role != "doctor" && ident.Role != "admin" {
		return apperror.Forbiddenf("Only doctors/admins can remove slots")
	}

	slot, err := s.slots.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if slot.IsBooked {
		return apperror.Conflictf("Cannot delete a booked slot")
	}
	if err := s.slots.Delete(ctx, id); err != nil {
		return apperror.Internalf(err)
	}
	return nil
}

// -- Appointments --

func isStaff(ident auth.Identity) bool {
	return ident.Role == "admin" || ident.Role == "doctor"
}

func validStatus(status string) bool {
	return status == "scheduled" || status == "completed"
}

func (s *Service) ListAppointments(ctx context.Context, ident auth.Identity) ([]*AppointmentView, error) {
	var (
		views []*AppointmentView
		err   error
	)
	if ident.Role == "patient" {
		views, err = s.appointments.ListByUser(ctx, ident.ID)
	} else {
		views, err = s.appointments.List(ctx)
	}
	if err != nil {
		return nil, apperror.Internalf(err)
	}
	return views, nil
}

func (s *Service) GetAppointment(ctx context.Context, ident auth.Identity, id int64) (*AppointmentView, error) {
	view, err := s.appointments.GetViewByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ident.Role == "patient" && (view.UserID == nil || *view.UserID != ident.ID) {
		return nil, apperror.Forbiddenf("Access denied")
	}
	return view, nil
}

// CreateAppointment books for the calling account. Staff may book on a
// registry patient's behalf via patient_id; patients cannot. When a slot
// is chosen it is locked, verified free, and marked booked in the same
// transaction that inserts the appointment.
func (s *Service) CreateAppointment(ctx context.Context, ident auth.Identity, in CreateAppointmentInput) (*Appointment, error) {
	var patientID *int64
	if isStaff(ident) {
		patientID = in.PatientID
	}

	if in.DoctorID == 0 || (in.Date == "" && in.AvailabilityID == nil) {
		return nil, apperror.InvalidInputf("doctor_id and date are required")
	}
	if in.Status != "" && !validStatus(in.Status) {
		return nil, apperror.InvalidInputf("status must be 'scheduled' or 'completed'")
	}

	if _, err := s.doctors.GetByID(ctx, in.DoctorID); err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = "scheduled"
	}

	appt := &Appointment{
		PatientID:      patientID,
		UserID:         &ident.ID,
		DoctorID:       in.DoctorID,
		AvailabilityID: in.AvailabilityID,
		Date:           in.Date,
		Status:         status,
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if in.AvailabilityID != nil {
			slot, err := s.slots.GetForUpdate(ctx, *in.AvailabilityID)
			if err != nil {
				if apperror.IsKind(err, apperror.NotFound) {
					return apperror.NotFoundf("Availability slot not found")
				}
				return err
			}
			if slot.IsBooked {
				return apperror.Conflictf("That slot is already booked")
			}
			if appt.Date == "" {
				appt.Date = slot.Date
			}
			if err := s.slots.SetBooked(ctx, slot.ID, true); err != nil {
				return err
			}
		}
		return s.appointments.Create(ctx, appt)
	})
	if err != nil {
		if apperror.From(err) != nil {
			return nil, err
		}
		return nil, apperror.Internalf(err)
	}
	return appt, nil
}

// UpdateAppointment reschedules. Patients may only move their own
// appointment's date and slot; staff can rewrite any field. Slot changes
// free the old slot and claim the new one atomically.
func (s *Service) UpdateAppointment(ctx context.Context, ident auth.Identity, id int64, in UpdateAppointmentInput) (*Appointment, error) {
	if in.Status != nil && !validStatus(*in.Status) {
		return nil, apperror.InvalidInputf("status must be 'scheduled' or 'completed'")
	}

	var updated *Appointment
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		existing, err := s.appointments.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if ident.Role == "patient" {
			if existing.UserID == nil || *existing.UserID != ident.ID {
				return apperror.Forbiddenf("You can only reschedule your own appointments")
			}
			if in.Date == "" {
				return apperror.InvalidInputf("date is required for rescheduling")
			}

			if in.AvailabilityProvided && !sameSlot(in.AvailabilityID, existing.AvailabilityID) {
				if err := s.swapSlots(ctx, existing.AvailabilityID, in.AvailabilityID); err != nil {
					return err
				}
				existing.AvailabilityID = in.AvailabilityID
			}
			existing.Date = in.Date

			if err := s.appointments.Update(ctx, existing); err != nil {
				return err
			}
			updated = existing
			return nil
		}

		// Staff update: any field, same slot discipline.
		if in.AvailabilityProvided && !sameSlot(in.AvailabilityID, existing.AvailabilityID) {
			if err := s.swapSlots(ctx, existing.AvailabilityID, in.AvailabilityID); err != nil {
				return err
			}
			existing.AvailabilityID = in.AvailabilityID
		}
		if in.PatientID != nil {
			existing.PatientID = in.PatientID
		}
		if in.DoctorID != nil {
			existing.DoctorID = *in.DoctorID
		}
		if in.Date != "" {
			existing.Date = in.Date
		}
		if in.Status != nil {
			existing.Status = *in.Status
		}

		if err := s.appointments.Update(ctx, existing); err != nil {
			return err
		}
		updated = existing
		return nil
	})
	if err != nil {
		if apperror.From(err) != nil {
			return nil, err
		}
		return nil, apperror.Internalf(err)
	}
	return updated, nil
}

// swapSlots frees the old slot (if any) and claims the new one (if any),
// verifying the new slot exists and is still free under a row lock.
func (s *Service) swapSlots(ctx context.Context, oldID, newID *int64) error {
	if oldID != nil {
		if err := s.slots.SetBooked(ctx, *oldID, false); err != nil {
			return err
		}
	}
	if newID != nil {
		slot, err := s.slots.GetForUpdate(ctx, *newID)
		if err != nil {
			if apperror.IsKind(err, apperror.NotFound) {
				return apperror.NotFoundf("New slot not found")
			}
			return err
		}
		if slot.IsBooked {
			return apperror.Conflictf("New slot is already booked")
		}
		if err := s.slots.SetBooked(ctx, slot.ID, true); err != nil {
			return err
		}
	}
	return nil
}

// DeleteAppointment cancels a booking, freeing its slot in the same
// transaction.
func (s *Service) DeleteAppointment(ctx context.Context, ident auth.Identity, id int64) error {
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		existing, err := s.appointments.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if ident.Role == "patient" && (existing.UserID == nil || *existing.UserID != ident.ID) {
			return apperror.Forbiddenf("You can only cancel your own appointments")
		}

		if existing.AvailabilityID != nil {
			if err := s.slots.SetBooked(ctx, *existing.AvailabilityID, false); err != nil {
				return err
			}
		}
		return s.appointments.Delete(ctx, id)
	})
	if err != nil {
		if apperror.From(err) != nil {
			return err
		}
		return apperror.Internalf(err)
	}
	return nil
}

func sameSlot(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
