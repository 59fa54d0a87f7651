package pharmacy

import (
	"context"
	"sort"
	"testing"

	"github.com/ruralcare/clinic/internal/platform/apperror"
)

type mockMedicineRepo struct {
	medicines map[string]*Medicine
}

func newMockMedicineRepo() *mockMedicineRepo {
	return &mockMedicineRepo{medicines: map[string]*Medicine{
		"med_para": {ID: "med_para", Name: "Paracetamol", Category: "Analgesic", Strength: "500mg", Price: 5.00, StockQuantity: 500},
		"med_azith": {ID: "med_azith", Name: "Azithromycin", Category: "Antibiotic", Strength: "250mg", Price: 25.00, StockQuantity: 1},
		"med_pant": {ID: "med_pant", Name: "Pantoprazole", Category: "Antacid", Strength: "40mg", Price: 14.00, StockQuantity: 0},
	}}
}

func (m *mockMedicineRepo) List(ctx context.Context) ([]*Medicine, error) {
	out := make([]*Medicine, 0, len(m.medicines))
	for _, med := range m.medicines {
		out = append(out, med)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockMedicineRepo) GetForUpdate(ctx context.Context, id string) (*Medicine, error) {
	med, ok := m.medicines[id]
	if !ok {
		return nil, apperror.NotFoundf("Medicine not found")
	}
	copied := *med
	return &copied, nil
}

func (m *mockMedicineRepo) DecrementStock(ctx context.Context, id string) error {
	if med, ok := m.medicines[id]; ok {
		med.StockQuantity--
	}
	return nil
}

type mockPrescriptionRepo struct {
	prescriptions map[int64]*Prescription
	nextID        int64
}

func newMockPrescriptionRepo() *mockPrescriptionRepo {
	return &mockPrescriptionRepo{prescriptions: make(map[int64]*Prescription), nextID: 1}
}

func (m *mockPrescriptionRepo) Create(ctx context.Context, p *Prescription) error {
	p.ID = m.nextID
	m.nextID++
	p.CreatedAt = "2025-07-01 10:00:00"
	copied := *p
	m.prescriptions[p.ID] = &copied
	return nil
}

func (m *mockPrescriptionRepo) GetForUpdate(ctx context.Context, id int64) (*Prescription, error) {
	p, ok := m.prescriptions[id]
	if !ok {
		return nil, apperror.NotFoundf("Prescription not found")
	}
	copied := *p
	return &copied, nil
}

func (m *mockPrescriptionRepo) MarkDispensed(ctx context.Context, id int64) error {
	if p, ok := m.prescriptions[id]; ok {
		p.Status = "dispensed"
		at := "2025-07-01 11:00:00"
		p.DispensedAt = &at
	}
	return nil
}

func (m *mockPrescriptionRepo) List(ctx context.Context) ([]*PrescriptionView, error) {
	var out []*PrescriptionView
	for _, p := range m.prescriptions {
		out = append(out, &PrescriptionView{Prescription: *p})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Status != out[j].Status {
			return out[i].Status > out[j].Status
		}
		return out[i].CreatedAt > out[j].CreatedAt
	})
	return out, nil
}

func (m *mockPrescriptionRepo) ListForPatient(ctx context.Context, patientID int64) ([]*PrescriptionView, error) {
	var out []*PrescriptionView
	for _, p := range m.prescriptions {
		if p.PatientID == patientID {
			out = append(out, &PrescriptionView{Prescription: *p})
		}
	}
	return out, nil
}

type passthroughTx struct{}

func (passthroughTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService() (*Service, *mockMedicineRepo, *mockPrescriptionRepo) {
	medicines := newMockMedicineRepo()
	prescriptions := newMockPrescriptionRepo()
	return NewService(medicines, prescriptions, passthroughTx{}), medicines, prescriptions
}

func TestListMedicines_SortedByName(t *testing.T) {
	svc, _, _ := newTestService()

	medicines, err := svc.ListMedicines(context.Background())
	if err != nil {
		t.Fatalf("ListMedicines() error: %v", err)
	}
	if len(medicines) != 3 {
		t.Fatalf("expected 3 medicines, got %d", len(medicines))
	}
	if medicines[0].Name != "Azithromycin" || medicines[2].Name != "Paracetamol" {
		t.Errorf("order = %q, %q, %q", medicines[0].Name, medicines[1].Name, medicines[2].Name)
	}
}

func TestPrescribe(t *testing.T) {
	svc, _, prescriptions := newTestService()

	result, err := svc.Prescribe(context.Background(), PrescribeInput{
		PatientID: 1, DoctorID: 2, MedicineID: "med_para",
	})
	if err != nil {
		t.Fatalf("Prescribe() error: %v", err)
	}
	if result.ID == 0 || result.Status != "pending" {
		t.Errorf("result = %+v", result)
	}

	stored := prescriptions.prescriptions[result.ID]
	if stored.MedicineID != "med_para" || stored.Status != "pending" {
		t.Errorf("stored = %+v", stored)
	}
}

func TestPrescribe_Validation(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Prescribe(context.Background(), PrescribeInput{DoctorID: 2})
	if !apperror.IsKind(err, apperror.InvalidInput) || err.Error() != "patient_id and medicine_id required" {
		t.Fatalf("missing patient/medicine: %v", err)
	}

	_, err = svc.Prescribe(context.Background(), PrescribeInput{PatientID: 1, MedicineID: "med_para"})
	if !apperror.IsKind(err, apperror.InvalidInput) || err.Error() != "doctor_id required" {
		t.Fatalf("missing doctor: %v", err)
	}
}

func TestDispense(t *testing.T) {
	svc, medicines, prescriptions := newTestService()

	result, err := svc.Prescribe(context.Background(), PrescribeInput{
		PatientID: 1, DoctorID: 2, MedicineID: "med_azith",
	})
	if err != nil {
		t.Fatalf("Prescribe() error: %v", err)
	}

	if err := svc.Dispense(context.Background(), result.ID); err != nil {
		t.Fatalf("Dispense() error: %v", err)
	}

	p := prescriptions.prescriptions[result.ID]
	if p.Status != "dispensed" || p.DispensedAt == nil {
		t.Errorf("prescription = %+v", p)
	}
	if got := medicines.medicines["med_azith"].StockQuantity; got != 0 {
		t.Errorf("stock = %d, want 0", got)
	}
}

func TestDispense_AlreadyDispensed(t *testing.T) {
	svc, _, _ := newTestService()

	result, err := svc.Prescribe(context.Background(), PrescribeInput{
		PatientID: 1, DoctorID: 2, MedicineID: "med_para",
	})
	if err != nil {
		t.Fatalf("Prescribe() error: %v", err)
	}
	if err := svc.Dispense(context.Background(), result.ID); err != nil {
		t.Fatalf("first dispense: %v", err)
	}

	err = svc.Dispense(context.Background(), result.ID)
	if !apperror.IsKind(err, apperror.InvalidInput) || err.Error() != "Already dispensed" {
		t.Fatalf("second dispense: %v", err)
	}
}

func TestDispense_OutOfStock(t *testing.T) {
	svc, medicines, _ := newTestService()

	result, err := svc.Prescribe(context.Background(), PrescribeInput{
		PatientID: 1, DoctorID: 2, MedicineID: "med_pant",
	})
	if err != nil {
		t.Fatalf("Prescribe() error: %v", err)
	}

	err = svc.Dispense(context.Background(), result.ID)
	if !apperror.IsKind(err, apperror.InvalidInput) || err.Error() != "Out of stock" {
		t.Fatalf("dispense empty stock: %v", err)
	}
	if got := medicines.medicines["med_pant"].StockQuantity; got != 0 {
		t.Errorf("stock = %d, must not go negative", got)
	}
}

func TestDispense_NotFound(t *testing.T) {
	svc, _, _ := newTestService()

	err := svc.Dispense(context.Background(), 404)
	if !apperror.IsKind(err, apperror.NotFound) || err.Error() != "Prescription not found" {
		t.Fatalf("unknown prescription: %v", err)
	}
}

func TestListForPatient_ScopedToPatient(t *testing.T) {
	svc, _, _ := newTestService()

	for _, patientID := range []int64{1, 1, 2} {
		if _, err := svc.Prescribe(context.Background(), PrescribeInput{
			PatientID: patientID, DoctorID: 2, MedicineID: "med_para",
		}); err != nil {
			t.Fatalf("Prescribe() error: %v", err)
		}
	}

	views, err := svc.ListForPatient(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListForPatient() error: %v", err)
	}
	if len(views) != 2 {
		t.Errorf("expected 2 prescriptions, got %d", len(views))
	}
}
