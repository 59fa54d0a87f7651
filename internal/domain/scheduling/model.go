// Package scheduling covers the doctor roster, availability slots, and
// appointment booking. Booking and its slot stay consistent: a slot is
// booked exactly while one live appointment references it, and the two
// rows always change together inside one transaction.
package scheduling

import "encoding/json"

// Doctor is a roster entry. UserID links the entry to a login account when
// the doctor was provisioned through the admin endpoint; older seed rows
// may have no account.
type Doctor struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
	UserID         *int64 `json:"user_id"`
}

// Slot is a bookable availability window. Date and times are kept as the
// client-supplied strings (YYYY-MM-DD, HH:MM).
type Slot struct {
	ID        int64  `json:"id"`
	DoctorID  int64  `json:"doctor_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	IsBooked  bool   `json:"is_booked"`
}

// SlotView is a slot joined with its doctor for listing.
type SlotView struct {
	Slot
	DoctorName     string `json:"doctor_name"`
	Specialization string `json:"specialization"`
}

// SlotInput is the create-slot request body.
type SlotInput struct {
	DoctorID  int64  `json:"doctor_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// SlotFilter narrows availability listings.
type SlotFilter struct {
	DoctorID      *int64
	Date          string
	OnlyFree      bool
	OwnerDoctorID *int64 // restrict to one doctor's own slots, any booking state
}

// Appointment is a booking. PatientID points at a registry profile when
// staff booked on a patient's behalf; UserID is the account that made the
// booking; AvailabilityID links the slot held by this appointment.
type Appointment struct {
	ID             int64  `json:"id"`
	PatientID      *int64 `json:"patient_id"`
	UserID         *int64 `json:"user_id"`
	DoctorID       int64  `json:"doctor_id"`
	AvailabilityID *int64 `json:"availability_id"`
	Date           string `json:"date"`
	Status         string `json:"status"`
}

// AppointmentView joins the doctor name and the best-known patient name
// (registry profile name, falling back to the booking account's name).
type AppointmentView struct {
	Appointment
	DoctorName  string `json:"doctor_name"`
	PatientName string `json:"patient_name"`
}

// CreateAppointmentInput is the booking request body.
type CreateAppointmentInput struct {
	PatientID      *int64 `json:"patient_id"`
	DoctorID       int64  `json:"doctor_id"`
	AvailabilityID *int64 `json:"availability_id"`
	Date           string `json:"date"`
	Status         string `json:"status"`
}

// UpdateAppointmentInput distinguishes an absent availability_id from an
// explicit null: absent keeps the current slot, null detaches it. The
// custom unmarshaller records which keys were present.
type UpdateAppointmentInput struct {
	PatientID      *int64
	DoctorID       *int64
	Date           string
	Status         *string
	AvailabilityID *int64

	AvailabilityProvided bool
}

func (in *UpdateAppointmentInput) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if v, ok := raw["patient_id"]; ok {
		if err := json.Unmarshal(v, &in.PatientID); err != nil {
			return err
		}
	}
	if v, ok := raw["doctor_id"]; ok {
		if err := json.Unmarshal(v, &in.DoctorID); err != nil {
			return err
		}
	}
	if v, ok := raw["date"]; ok {
		if err := json.Unmarshal(v, &in.Date); err != nil {
			return err
		}
	}
	if v, ok := raw["status"]; ok {
		if err := json.Unmarshal(v, &in.Status); err != nil {
			return err
		}
	}
	if v, ok := raw["availability_id"]; ok {
		in.AvailabilityProvided = true
		if err := json.Unmarshal(v, &in.AvailabilityID); err != nil {
			return err
		}
	}
	return nil
}
