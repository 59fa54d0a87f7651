package pharmacy

// Medicine is a formulary entry. IDs are short stable codes ("med_amox")
// rather than serials so the formulary can be referenced from seed data
// and external lists.
type Medicine struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Strength      string  `json:"strength"`
	Price         float64 `json:"price"`
	StockQuantity int     `json:"stock_quantity"`
}

type Prescription struct {
	ID          int64   `json:"id"`
	PatientID   int64   `json:"patient_id"`
	DoctorID    int64   `json:"doctor_id"`
	MedicineID  string  `json:"medicine_id"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
	DispensedAt *string `json:"dispensed_at"`
}

// PrescriptionView joins in the display names the counter staff need.
// Patient fields are only populated on the pharmacy-wide listing.
type PrescriptionView struct {
	Prescription
	MedicineName     string  `json:"medicine_name"`
	MedicineStrength string  `json:"medicine_strength"`
	PatientName      *string `json:"patient_name,omitempty"`
	PatientVillage   *string `json:"patient_village,omitempty"`
	DoctorName       string  `json:"doctor_name"`
}

type PrescribeInput struct {
	PatientID  int64  `json:"patient_id"`
	DoctorID   int64  `json:"doctor_id"`
	MedicineID string `json:"medicine_id"`
}

type PrescribeResult struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}
