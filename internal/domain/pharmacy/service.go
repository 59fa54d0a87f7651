package pharmacy

import (
	"context"

	"github.com/ruralcare/clinic/internal/platform/apperror"
	"github.com/ruralcare/clinic/internal/platform/db"
)

type Service struct {
	medicines     MedicineRepository
	prescriptions PrescriptionRepository
	tx            db.TxRunner
}

func NewService(medicines MedicineRepository, prescriptions PrescriptionRepository, tx db.TxRunner) *Service {
	return &Service{medicines: medicines, prescriptions: prescriptions, tx: tx}
}

func (s *Service) ListMedicines(ctx context.Context) ([]*Medicine, error) {
	medicines, err := s.medicines.List(ctx)
	if err != nil {
		return nil, apperror.Internalf(err)
	}
	return medicines, nil
}

func (s *Service) ListPrescriptions(ctx context.Context) ([]*PrescriptionView, error) {
	views, err := s.prescriptions.List(ctx)
	if err != nil {
		return nil, apperror.Internalf(err)
	}
	return views, nil
}

func (s *Service) ListForPatient(ctx context.Context, patientID int64) ([]*PrescriptionView, error) {
	views, err := s.prescriptions.ListForPatient(ctx, patientID)
	if err != nil {
		return nil, apperror.Internalf(err)
	}
	return views, nil
}

func (s *Service) Prescribe(ctx context.Context, in PrescribeInput) (*PrescribeResult, error) {
	if in.PatientID == 0 || in.MedicineID == "" {
		return nil, apperror.InvalidInputf("patient_id and medicine_id required")
	}
	if in.DoctorID == 0 {
		return nil, apperror.InvalidInputf("doctor_id required")
	}

	p := &Prescription{
		PatientID:  in.PatientID,
		DoctorID:   in.DoctorID,
		MedicineID: in.MedicineID,
		Status:     "pending",
	}
	if err := s.prescriptions.Create(ctx, p); err != nil {
		return nil, apperror.Internalf(err)
	}
	return &PrescribeResult{ID: p.ID, Status: p.Status}, nil
}

// Dispense marks a prescription handed out and decrements the medicine's
// stock. Both rows are locked so two counters can't dispense the last
// unit, or the same prescription, concurrently.
func (s *Service) Dispense(ctx context.Context, id int64) error {
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		p, err := s.prescriptions.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p.Status == "dispensed" {
			return apperror.InvalidInputf("Already dispensed")
		}

		m, err := s.medicines.GetForUpdate(ctx, p.MedicineID)
		if err != nil {
			return err
		}
		if m.StockQuantity <= 0 {
			return apperror.InvalidInputf("Out of stock")
		}

		if err := s.prescriptions.MarkDispensed(ctx, id); err != nil {
			return err
		}
		return s.medicines.DecrementStock(ctx, p.MedicineID)
	})
	if err != nil {
		if apperror.From(err) != nil {
			return err
		}
		return apperror.Internalf(err)
	}
	return nil
}
