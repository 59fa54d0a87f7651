package pharmacy

import "context"

type MedicineRepository interface {
	List(ctx context.Context) ([]*Medicine, error)
	// GetForUpdate locks the stock row for the duration of the
	// surrounding transaction.
	GetForUpdate(ctx context.Context, id string) (*Medicine, error)
	DecrementStock(ctx context.Context, id string) error
}

type PrescriptionRepository interface {
	Create(ctx context.Context, p *Prescription) error
	GetForUpdate(ctx context.Context, id int64) (*Prescription, error)
	MarkDispensed(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*PrescriptionView, error)
	ListForPatient(ctx context.Context, patientID int64) ([]*PrescriptionView, error)
}
