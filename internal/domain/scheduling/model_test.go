package scheduling

import (
	"encoding/json"
	"testing"
)

func TestUpdateInput_AbsentAvailability(t *testing.T) {
	var in UpdateAppointmentInput
	if err := json.Unmarshal([]byte(`{"date":"2025-07-01"}`), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if in.AvailabilityProvided {
		t.Error("absent availability_id must not count as provided")
	}
	if in.Date != "2025-07-01" {
		t.Errorf("date = %q", in.Date)
	}
}

func TestUpdateInput_NullAvailability(t *testing.T) {
	var in UpdateAppointmentInput
	if err := json.Unmarshal([]byte(`{"date":"2025-07-01","availability_id":null}`), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !in.AvailabilityProvided {
		t.Error("explicit null availability_id must count as provided")
	}
	if in.AvailabilityID != nil {
		t.Errorf("availability_id = %v, want nil", *in.AvailabilityID)
	}
}

func TestUpdateInput_ValueAvailability(t *testing.T) {
	var in UpdateAppointmentInput
	if err := json.Unmarshal([]byte(`{"availability_id":7,"status":"completed"}`), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !in.AvailabilityProvided || in.AvailabilityID == nil || *in.AvailabilityID != 7 {
		t.Errorf("availability = provided=%v id=%v", in.AvailabilityProvided, in.AvailabilityID)
	}
	if in.Status == nil || *in.Status != "completed" {
		t.Errorf("status = %v", in.Status)
	}
}
