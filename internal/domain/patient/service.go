package patient

import (
	"context"

	"github.com/ruralcare/clinic/internal/platform/apperror"
)

// BaselineSeeder creates the vitals baseline for a newly registered
// patient, derived from their risk level.
type BaselineSeeder interface {
	SeedBaseline(ctx context.Context, patientID int64, riskLevel string) error
}

type Service struct {
	patients PatientRepository
	notes    NoteRepository
	vitals   BaselineSeeder
}

func NewService(patients PatientRepository, notes NoteRepository, vitals BaselineSeeder) *Service {
	return &Service{patients: patients, notes: notes, vitals: vitals}
}

func (s *Service) List(ctx context.Context) ([]*Patient, error) {
	patients, err := s.patients.List(ctx)
	if err != nil {
		return nil, apperror.Internalf(err)
	}
	return patients, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) GetByUserID(ctx context.Context, userID int64) (*Patient, error) {
	return s.patients.GetByUserID(ctx, userID)
}

// Create registers a walk-in patient. Staff must supply the full clinical
// profile; a vitals baseline is seeded from the risk level so the live
// monitor has something to show immediately.
func (s *Service) Create(ctx context.Context, in PatientInput) (*Patient, error) {
	if in.Name == "" || in.Age == 0 || in.Gender == "" || in.Village == "" ||
		in.Symptoms == "" || in.Vitals == "" || in.RiskLevel == "" {
		return nil, apperror.InvalidInputf("All fields are required")
	}

	p := &Patient{
		Name:      in.Name,
		Age:       &in.Age,
		Gender:    &in.Gender,
		Village:   &in.Village,
		Symptoms:  &in.Symptoms,
		Vitals:    &in.Vitals,
		RiskLevel: in.RiskLevel,
	}
	if err := s.patients.Create(ctx, p); err != nil {
		return nil, apperror.Internalf(err)
	}

	if err := s.vitals.SeedBaseline(ctx, p.ID, p.RiskLevel); err != nil {
		return nil, apperror.Internalf(err)
	}

	return p, nil
}

// CreateForUser backs a self-registered account with a minimal profile row.
// No vitals baseline yet: the account has not been examined at the clinic.
func (s *Service) CreateForUser(ctx context.Context, userID int64, name string) error {
	p := &Patient{UserID: &userID, Name: name, RiskLevel: "low"}
	return s.patients.Create(ctx, p)
}

// Update replaces the full clinical profile.
func (s *Service) Update(ctx context.Context, id int64, in PatientInput) (*Patient, error) {
	existing, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Name = in.Name
	existing.Age = &in.Age
	existing.Gender = &in.Gender
	existing.Village = &in.Village
	existing.Symptoms = &in.Symptoms
	existing.Vitals = &in.Vitals
	existing.RiskLevel = in.RiskLevel

	if err := s.patients.Update(ctx, existing); err != nil {
		return nil, apperror.Internalf(err)
	}
	return existing, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.patients.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.patients.Delete(ctx, id); err != nil {
		return apperror.Internalf(err)
	}
	return nil
}

// -- Consultation notes --

func (s *Service) ListNotes(ctx context.Context) ([]*ConsultationNote, error) {
	notes, err := s.notes.List(ctx)
	if err != nil {
		return nil, apperror.Internalf(err)
	}
	return notes, nil
}

func (s *Service) ListNotesByPatient(ctx context.Context, patientID int64) ([]*ConsultationNote, error) {
	notes, err := s.notes.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, apperror.Internalf(err)
	}
	return notes, nil
}

func (s *Service) CreateNote(ctx context.Context, in NoteInput) (*ConsultationNote, error) {
	if in.PatientID == 0 || in.RawNote == "" {
		return nil, apperror.InvalidInputf("patient_id and raw_note are required")
	}
	if _, err := s.patients.GetByID(ctx, in.PatientID); err != nil {
		return nil, err
	}

	n := &ConsultationNote{
		PatientID:         in.PatientID,
		RawNote:           in.RawNote,
		StructuredSummary: in.StructuredSummary,
		FollowUpDays:      in.FollowUpDays,
	}
	if err := s.notes.Create(ctx, n); err != nil {
		return nil, apperror.Internalf(err)
	}
	return n, nil
}

func (s *Service) DeleteNote(ctx context.Context, id int64) error {
	if _, err := s.notes.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.notes.Delete(ctx, id); err != nil {
		return apperror.Internalf(err)
	}
	return nil
}
