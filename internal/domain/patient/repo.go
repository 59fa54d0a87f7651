package patient

import "context"

// PatientRepository defines the persistence interface for patients.
type PatientRepository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id int64) (*Patient, error)
	GetByUserID(ctx context.Context, userID int64) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*Patient, error)
}

// NoteRepository defines the persistence interface for consultation notes.
type NoteRepository interface {
	Create(ctx context.Context, n *ConsultationNote) error
	GetByID(ctx context.Context, id int64) (*ConsultationNote, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*ConsultationNote, error)
	ListByPatient(ctx context.Context, patientID int64) ([]*ConsultationNote, error)
}
