package pharmacy

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ruralcare/clinic/internal/platform/apperror"
)

func doRequest(t *testing.T, h echo.HandlerFunc, method, path, body string, params ...string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for i := 0; i+1 < len(params); i += 2 {
		c.SetParamNames(params[i])
		c.SetParamValues(params[i+1])
	}
	return rec, h(c)
}

func TestListMedicinesHandler(t *testing.T) {
	svc, _, _ := newTestService()
	h := NewHandler(svc)

	rec, err := doRequest(t, h.ListMedicines, http.MethodGet, "/api/medicines", "")
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}

	var medicines []*Medicine
	if err := json.Unmarshal(rec.Body.Bytes(), &medicines); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(medicines) != 3 {
		t.Errorf("expected 3 medicines, got %d", len(medicines))
	}
}

func TestPrescribeHandler(t *testing.T) {
	svc, _, _ := newTestService()
	h := NewHandler(svc)

	rec, err := doRequest(t, h.Prescribe, http.MethodPost, "/api/prescriptions",
		`{"patient_id":1,"doctor_id":2,"medicine_id":"med_para"}`)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}

	var result PrescribeResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Status != "pending" {
		t.Errorf("status = %q, want pending", result.Status)
	}

	_, err = doRequest(t, h.Prescribe, http.MethodPost, "/api/prescriptions",
		`{"doctor_id":2}`)
	if !apperror.IsKind(err, apperror.InvalidInput) {
		t.Fatalf("expected InvalidInput, got %v", err)
	}
}

func TestDispenseHandler(t *testing.T) {
	svc, _, _ := newTestService()
	h := NewHandler(svc)

	if _, err := doRequest(t, h.Prescribe, http.MethodPost, "/api/prescriptions",
		`{"patient_id":1,"doctor_id":2,"medicine_id":"med_para"}`); err != nil {
		t.Fatalf("prescribe: %v", err)
	}

	rec, err := doRequest(t, h.Dispense, http.MethodPatch, "/api/prescriptions/1/dispense", "",
		"id", "1")
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["message"] != "Dispensed successfully" {
		t.Errorf("message = %q", resp["message"])
	}

	_, err = doRequest(t, h.Dispense, http.MethodPatch, "/api/prescriptions/abc/dispense", "",
		"id", "abc")
	if !apperror.IsKind(err, apperror.NotFound) || err.Error() != "Prescription not found" {
		t.Fatalf("non-numeric id: %v", err)
	}
}

func TestListForPatientHandler(t *testing.T) {
	svc, _, _ := newTestService()
	h := NewHandler(svc)

	rec, err := doRequest(t, h.ListForPatient, http.MethodGet, "/api/prescriptions/patient/1", "",
		"id", "1")
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	// No prescriptions yet must render as [] rather than null.
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("body = %q, want []", rec.Body.String())
	}

	_, err = doRequest(t, h.ListForPatient, http.MethodGet, "/api/prescriptions/patient/abc", "",
		"id", "abc")
	if !apperror.IsKind(err, apperror.InvalidInput) {
		t.Fatalf("non-numeric id: %v", err)
	}
}
