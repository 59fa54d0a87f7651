package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// Seeder populates the initial clinic data: the doctor roster, a handful of
// sample patients with baseline vitals, the default admin and pharmacy
// accounts, and the medicine inventory. Every block is idempotent so the
// seed command can run on every startup.
type Seeder struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

func NewSeeder(pool *pgxpool.Pool, log zerolog.Logger) *Seeder {
	return &Seeder{pool: pool, log: log}
}

func (s *Seeder) Run(ctx context.Context) error {
	if err := s.seedDoctors(ctx); err != nil {
		return fmt.Errorf("seed doctors: %w", err)
	}
	if err := s.seedPatients(ctx); err != nil {
		return fmt.Errorf("seed patients: %w", err)
	}
	if err := s.seedVitals(ctx); err != nil {
		return fmt.Errorf("seed vitals: %w", err)
	}
	if err := s.seedAdmin(ctx); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if err := s.seedMedicines(ctx); err != nil {
		return fmt.Errorf("seed medicines: %w", err)
	}
	if err := s.seedPharmacy(ctx); err != nil {
		return fmt.Errorf("seed pharmacy: %w", err)
	}
	return nil
}

func (s *Seeder) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *Seeder) seedDoctors(ctx context.Context) error {
	n, err := s.count(ctx, `SELECT COUNT(*) FROM doctors`)
	if err != nil || n > 0 {
		return err
	}

	doctors := []struct{ name, specialization string }{
		{"Dr. Priya Sharma", "General Medicine"},
		{"Dr. Ravi Kumar", "Pediatrics"},
		{"Dr. Anita Patel", "Obstetrics & Gynecology"},
		{"Dr. Suresh Rao", "Emergency Medicine"},
	}
	for _, d := range doctors {
		if _, err := s.pool.Exec(ctx,
			`INSERT INTO doctors (name, specialization) VALUES ($1, $2)`,
			d.name, d.specialization,
		); err != nil {
			return err
		}
	}
	s.log.Info().Int("count", len(doctors)).Msg("doctors seeded")
	return nil
}

func (s *Seeder) seedPatients(ctx context.Context) error {
	n, err := s.count(ctx, `SELECT COUNT(*) FROM patients`)
	if err != nil || n > 0 {
		return err
	}

	patients := []struct {
		name     string
		age      int
		gender   string
		village  string
		symptoms string
		vitals   string
		risk     string
	}{
		{"Ramesh Kumar", 45, "Male", "Khandwa", "Chest pain, shortness of breath", "BP: 160/100, HR: 92, Temp: 98.6F", "high"},
		{"Sunita Devi", 32, "Female", "Bharatpur", "Fever, cough for 3 days", "BP: 110/70, HR: 80, Temp: 101.2F", "medium"},
		{"Arjun Singh", 8, "Male", "Rajpur", "Stomach ache, vomiting", "BP: 100/65, HR: 88, Temp: 100.4F", "medium"},
		{"Meena Bai", 60, "Female", "Khandwa", "Joint pain, swelling in knees", "BP: 130/85, HR: 74, Temp: 98.4F", "low"},
		{"Vijay Yadav", 28, "Male", "Nandpur", "Minor cut on hand", "BP: 118/76, HR: 70, Temp: 98.6F", "low"},
	}
	for _, p := range patients {
		if _, err := s.pool.Exec(ctx,
			`INSERT INTO patients (name, age, gender, village, symptoms, vitals, risk_level)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			p.name, p.age, p.gender, p.village, p.symptoms, p.vitals, p.risk,
		); err != nil {
			return err
		}
	}
	s.log.Info().Int("count", len(patients)).Msg("sample patients seeded")
	return nil
}

// seedVitals gives every patient without a baseline one derived from their
// risk level. Varied values so the live monitor shows a mix of risk bands.
func (s *Seeder) seedVitals(ctx context.Context) error {
	bases := map[string]struct{ hr, spo2, glucose int }{
		"high":   {128, 91, 195},
		"medium": {108, 93, 155},
		"low":    {78, 98, 92},
	}

	rows, err := s.pool.Query(ctx, `SELECT id, risk_level FROM patients`)
	if err != nil {
		return err
	}
	defer rows.Close()

	type pat struct {
		id   int64
		risk string
	}
	var patients []pat
	for rows.Next() {
		var p pat
		if err := rows.Scan(&p.id, &p.risk); err != nil {
			return err
		}
		patients = append(patients, p)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, p := range patients {
		base, ok := bases[p.risk]
		if !ok {
			base = bases["low"]
		}
		if _, err := s.pool.Exec(ctx,
			`INSERT INTO patient_vitals (patient_id, heart_rate, spo2, glucose)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (patient_id) DO NOTHING`,
			p.id, base.hr, base.spo2, base.glucose,
		); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedAdmin(ctx context.Context) error {
	n, err := s.count(ctx, `SELECT COUNT(*) FROM users`)
	if err != nil || n > 0 {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("Admin@1234"), 10)
	if err != nil {
		return err
	}
	if _, err := s.pool.Exec(ctx,
		`INSERT INTO users (name, email, password, role) VALUES ($1, $2, $3, $4)`,
		"Super Admin", "admin@ruralcare.com", string(hash), "admin",
	); err != nil {
		return err
	}
	s.log.Info().Str("email", "admin@ruralcare.com").Msg("default admin seeded")
	return nil
}

func (s *Seeder) seedMedicines(ctx context.Context) error {
	n, err := s.count(ctx, `SELECT COUNT(*) FROM medicines`)
	if err != nil || n > 0 {
		return err
	}

	medicines := []struct {
		id       string
		name     string
		category string
		strength string
		price    float64
		stock    int
	}{
		{"med_amox", "Amoxicillin", "Antibiotic", "500mg", 12.50, 100},
		{"med_para", "Paracetamol", "Analgesic", "500mg", 5.00, 500},
		{"med_ibu", "Ibuprofen", "NSAID", "400mg", 8.50, 200},
		{"med_met", "Metformin", "Antidiabetic", "500mg", 15.00, 150},
		{"med_azith", "Azithromycin", "Antibiotic", "250mg", 25.00, 50},
		{"med_amlod", "Amlodipine", "Antihypertensive", "5mg", 18.00, 120},
		{"med_cet", "Cetirizine", "Antihistamine", "10mg", 6.50, 300},
		{"med_pant", "Pantoprazole", "Antacid", "40mg", 14.00, 80},
	}
	for _, m := range medicines {
		if _, err := s.pool.Exec(ctx,
			`INSERT INTO medicines (id, name, category, strength, price, stock_quantity)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			m.id, m.name, m.category, m.strength, m.price, m.stock,
		); err != nil {
			return err
		}
	}
	s.log.Info().Int("count", len(medicines)).Msg("default medicines seeded")
	return nil
}

func (s *Seeder) seedPharmacy(ctx context.Context) error {
	n, err := s.count(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, "pharmacy")
	if err != nil || n > 0 {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("Pharmacy@1234"), 10)
	if err != nil {
		return err
	}
	if _, err := s.pool.Exec(ctx,
		`INSERT INTO users (name, email, password, role) VALUES ($1, $2, $3, $4)`,
		"Village Pharmacy", "pharmacy@ruralcare.com", string(hash), "pharmacy",
	); err != nil {
		return err
	}
	s.log.Info().Str("email", "pharmacy@ruralcare.com").Msg("default pharmacy seeded")
	return nil
}
