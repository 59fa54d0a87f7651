package vitals

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/ruralcare/clinic/internal/domain/patient"
	"github.com/ruralcare/clinic/internal/platform/apperror"
	"github.com/ruralcare/clinic/internal/platform/auth"
)

// PatientResolver finds the patient record linked to a login account.
type PatientResolver interface {
	GetByUserID(ctx context.Context, userID int64) (*patient.Patient, error)
}

// Baseline buckets per risk level. Unrecognized levels fall back to low.
var riskBaselines = map[string]struct{ hr, spo2, glucose int }{
	"high":   {128, 91, 195},
	"medium": {108, 93, 155},
	"low":    {78, 98, 92},
}

type Service struct {
	baselines BaselineRepository
	patients  PatientResolver

	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

func NewService(baselines BaselineRepository, patients PatientResolver) *Service {
	return &Service{
		baselines: baselines,
		patients:  patients,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		now:       time.Now,
	}
}

// SeedBaseline stores the bucket values for the patient's risk level.
// Idempotent: an existing baseline is left alone.
func (s *Service) SeedBaseline(ctx context.Context, patientID int64, riskLevel string) error {
	base, ok := riskBaselines[riskLevel]
	if !ok {
		base = riskBaselines["low"]
	}
	return s.baselines.SeedIfAbsent(ctx, patientID, base.hr, base.spo2, base.glucose)
}

// ListAll returns a jittered reading for every monitored patient.
// Patients must use Mine instead.
func (s *Service) ListAll(ctx context.Context, ident auth.Identity) ([]*Reading, error) {
	if ident.Role == "patient" {
		return nil, apperror.Forbiddenf("Use /api/vitals/mine for patient vitals")
	}

	views, err := s.baselines.ListWithPatients(ctx)
	if err != nil {
		return nil, apperror.Internalf(err)
	}

	readings := make([]*Reading, 0, len(views))
	for _, v := range views {
		readings = append(readings, s.sample(v))
	}
	return readings, nil
}

// Mine returns the reading for the patient record linked to the caller.
func (s *Service) Mine(ctx context.Context, ident auth.Identity) (*Reading, error) {
	p, err := s.patients.GetByUserID(ctx, ident.ID)
	if err != nil {
		if apperror.IsKind(err, apperror.NotFound) {
			return nil, apperror.NotFoundf("No health record found for this account. Visit the clinic to register.")
		}
		return nil, apperror.Internalf(err)
	}

	b, err := s.baselines.GetByPatient(ctx, p.ID)
	if err != nil {
		if apperror.From(err) != nil {
			return nil, err
		}
		return nil, apperror.Internalf(err)
	}

	return s.sample(&BaselineView{Baseline: *b, PatientName: p.Name, RiskLevel: p.RiskLevel}), nil
}

// sample perturbs each metric independently and clamps it to its
// physiological range. Nothing is persisted: two consecutive samples of
// the same baseline may differ.
func (s *Service) sample(v *BaselineView) *Reading {
	s.mu.Lock()
	hr := clamp(s.jitter(v.HeartRate, 5), 30, 200)
	spo2 := clamp(s.jitter(v.SpO2, 2), 70, 100)
	glucose := clamp(s.jitter(v.Glucose, 10), 40, 400)
	s.mu.Unlock()

	return &Reading{
		PatientID:     v.PatientID,
		PatientName:   v.PatientName,
		RiskLevel:     v.RiskLevel,
		HeartRate:     hr,
		SpO2:          spo2,
		Glucose:       glucose,
		Timestamp:     s.now().UTC().Format(time.RFC3339),
		HeartRateRisk: heartRateRisk(hr),
		SpO2Risk:      spo2Risk(spo2),
		GlucoseRisk:   glucoseRisk(glucose),
		OverallRisk:   overallRisk(heartRateRisk(hr), spo2Risk(spo2), glucoseRisk(glucose)),
	}
}

// jitter adds a bounded uniform delta to simulate sensor noise. Callers
// must hold s.mu.
func (s *Service) jitter(base, r int) int {
	return int(math.Round(float64(base) + (s.rng.Float64()*2-1)*float64(r)))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// -- Risk classification --

func heartRateRisk(hr int) string {
	switch {
	case hr > 130 || hr < 50:
		return "critical"
	case hr > 100 || hr < 60:
		return "warning"
	default:
		return "normal"
	}
}

func spo2Risk(spo2 int) string {
	switch {
	case spo2 <= 90:
		return "critical"
	case spo2 <= 95:
		return "warning"
	default:
		return "normal"
	}
}

func glucoseRisk(glucose int) string {
	switch {
	case glucose > 200 || glucose < 55:
		return "critical"
	case glucose > 140 || glucose < 70:
		return "warning"
	default:
		return "normal"
	}
}

// overallRisk is the worst of the per-metric classifications.
func overallRisk(risks ...string) string {
	worst := "normal"
	for _, r := range risks {
		if r == "critical" {
			return "critical"
		}
		if r == "warning" {
			worst = "warning"
		}
	}
	return worst
}
