package reporting

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
)

// RenderPDF lays out the clinical summary: header, patient details,
// diagnosis with a vitals box, prescription table, recommendations.
func RenderPDF(data *ReportData) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 18, 18)
	pdf.AddPage()

	// Header
	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(37, 99, 235)
	pdf.CellFormat(0, 10, "RuralCare Healthcare Management", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.SetTextColor(100, 116, 139)
	pdf.CellFormat(0, 7, "Comprehensive Patient Clinical Report", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(90, 6, "Report ID: "+data.ReportID, "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Date: "+data.ReportDate, "", 1, "R", false, 0, "")
	pdf.Ln(6)

	heading(pdf, "1. Patient Details")
	field(pdf, "Patient Name", data.Name)
	field(pdf, "Age / Gender", fmt.Sprintf("%s Y / %s", data.Age, data.Gender))
	field(pdf, "Village / Contact Location", data.Village)
	field(pdf, "Patient ID", fmt.Sprintf("%d", data.PatientID))
	pdf.Ln(4)

	heading(pdf, "2. Clinical Diagnosis & Vitals")
	field(pdf, "Reported Symptoms", data.Symptoms)
	field(pdf, "Clinical Diagnosis", data.Diagnosis)
	pdf.Ln(2)
	pdf.SetDrawColor(203, 213, 225)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(71, 85, 105)
	vitals := fmt.Sprintf("Heart Rate: %d bpm      SpO2: %d%%      Blood Glucose: %d mg/dL",
		data.HeartRate, data.SpO2, data.Glucose)
	pdf.CellFormat(0, 10, vitals, "1", 1, "L", false, 0, "")
	pdf.Ln(6)

	heading(pdf, "3. Prescription Details")
	if len(data.Prescriptions) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.SetTextColor(100, 116, 139)
		pdf.CellFormat(0, 6, "No active prescriptions found for this patient.", "", 1, "L", false, 0, "")
	} else {
		pdf.SetFillColor(226, 232, 240)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetTextColor(30, 41, 59)
		pdf.CellFormat(80, 7, "Medicine Name", "", 0, "L", true, 0, "")
		pdf.CellFormat(60, 7, "Dosage / Strength", "", 0, "L", true, 0, "")
		pdf.CellFormat(0, 7, "Status", "", 1, "L", true, 0, "")

		pdf.SetFont("Helvetica", "", 10)
		for i, rx := range data.Prescriptions {
			fill := i%2 == 0
			pdf.SetFillColor(248, 250, 252)
			pdf.SetTextColor(15, 23, 42)
			pdf.CellFormat(80, 7, rx.MedicineName, "", 0, "L", fill, 0, "")
			pdf.CellFormat(60, 7, rx.Strength, "", 0, "L", fill, 0, "")
			if rx.Status == "dispensed" {
				pdf.SetTextColor(22, 163, 74)
			} else {
				pdf.SetTextColor(217, 119, 6)
			}
			pdf.CellFormat(0, 7, titleCase(rx.Status), "", 1, "L", fill, 0, "")
		}
	}
	pdf.Ln(6)

	heading(pdf, "4. Recommendations & Follow-up")
	field(pdf, "General Advice",
		"Ensure adequate hydration, maintain a balanced diet, and monitor symptoms. Contact immediately if symptoms worsen.")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(48, 6, "Next Recommended Visit: ", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(220, 38, 38)
	pdf.CellFormat(0, 6, data.NextVisit, "", 1, "L", false, 0, "")

	// Footer
	pdf.SetY(-30)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(148, 163, 184)
	pdf.MultiCell(0, 4,
		"This is a digitally generated report from RuralCare Healthcare Management. Not valid for medico-legal purposes without authorized signature.",
		"", "C", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func heading(pdf *fpdf.Fpdf, title string) {
	pdf.SetFillColor(241, 245, 249)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(30, 41, 59)
	pdf.CellFormat(0, 8, title, "", 1, "L", true, 0, "")
	pdf.Ln(2)
}

func field(pdf *fpdf.Fpdf, label, value string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(52, 6, label+": ", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 6, value, "", "L", false)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
