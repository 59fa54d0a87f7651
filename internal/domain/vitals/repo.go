package vitals

import "context"

type BaselineRepository interface {
	// SeedIfAbsent inserts a baseline for the patient unless one
	// already exists.
	SeedIfAbsent(ctx context.Context, patientID int64, heartRate, spo2, glucose int) error
	GetByPatient(ctx context.Context, patientID int64) (*Baseline, error)
	ListWithPatients(ctx context.Context) ([]*BaselineView, error)
}
