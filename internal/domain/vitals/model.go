package vitals

// Baseline is the durable per-patient vital signs record. Jitter is
// applied at read time only; the stored values never change after
// seeding.
type Baseline struct {
	ID        int64 `json:"id"`
	PatientID int64 `json:"patient_id"`
	HeartRate int   `json:"heart_rate"`
	SpO2      int   `json:"spo2"`
	Glucose   int   `json:"glucose"`
}

// BaselineView joins in the patient fields the feed needs.
type BaselineView struct {
	Baseline
	PatientName string `json:"patient_name"`
	RiskLevel   string `json:"risk_level"`
}

// Reading is one jittered sample of a patient's vitals, as served to
// the monitor. Risk fields classify each metric and the overall state.
type Reading struct {
	PatientID     int64  `json:"patient_id"`
	PatientName   string `json:"patient_name"`
	RiskLevel     string `json:"risk_level"`
	HeartRate     int    `json:"heart_rate"`
	SpO2          int    `json:"spo2"`
	Glucose       int    `json:"glucose"`
	Timestamp     string `json:"timestamp"`
	HeartRateRisk string `json:"heart_rate_risk"`
	SpO2Risk      string `json:"spo2_risk"`
	GlucoseRisk   string `json:"glucose_risk"`
	OverallRisk   string `json:"overall_risk"`
}
