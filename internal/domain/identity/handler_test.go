package identity

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ruralcare/clinic/internal/platform/apperror"
)

func postJSON(t *testing.T, h echo.HandlerFunc, path, body string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return rec, h(c)
}

func TestRegisterHandler(t *testing.T) {
	svc, _, _, _ := newTestService()
	h := NewHandler(svc)

	rec, err := postJSON(t, h.Register, "/api/auth/register",
		`{"name":"Meena Bai","email":"meena@example.com","password":"pw12345"}`)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}

	var result AuthResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Token == "" || result.User.Email != "meena@example.com" {
		t.Errorf("result = %+v", result)
	}
}

func TestRegisterHandler_PropagatesServiceError(t *testing.T) {
	svc, _, _, _ := newTestService()
	h := NewHandler(svc)

	_, err := postJSON(t, h.Register, "/api/auth/register", `{"name":"X","email":"","password":""}`)
	if !apperror.IsKind(err, apperror.InvalidInput) {
		t.Fatalf("expected InvalidInput, got %v", err)
	}
}

func TestLoginHandler(t *testing.T) {
	svc, _, _, _ := newTestService()
	h := NewHandler(svc)

	if _, err := postJSON(t, h.Register, "/api/auth/register",
		`{"name":"Vijay Yadav","email":"vijay@example.com","password":"pw12345"}`); err != nil {
		t.Fatalf("register: %v", err)
	}

	rec, err := postJSON(t, h.Login, "/api/auth/login",
		`{"email":"vijay@example.com","password":"pw12345"}`)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}

	_, err = postJSON(t, h.Login, "/api/auth/login",
		`{"email":"vijay@example.com","password":"wrong"}`)
	if !apperror.IsKind(err, apperror.Unauthorized) {
		t.Fatalf("expected Unauthorized, got %v", err)
	}
}

func TestCreateDoctorHandler(t *testing.T) {
	svc, _, _, _ := newTestService()
	h := NewHandler(svc)

	rec, err := postJSON(t, h.CreateDoctor, "/api/admin/create-doctor",
		`{"name":"Dr. Arun Mehta","email":"arun@ruralcare.com","password":"pw","specialization":"Cardiology"}`)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}

	var result CreateDoctorResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Doctor.Name != "Dr. Arun Mehta" || result.User.Role != "doctor" {
		t.Errorf("result = %+v", result)
	}
}

func TestListUsersHandler(t *testing.T) {
	svc, _, _, _ := newTestService()
	h := NewHandler(svc)

	if _, err := postJSON(t, h.Register, "/api/auth/register",
		`{"name":"A","email":"a@example.com","password":"pw"}`); err != nil {
		t.Fatalf("register: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListUsers(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}

	var users []PublicUserWithCreatedAt
	if err := json.Unmarshal(rec.Body.Bytes(), &users); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(users) != 1 {
		t.Errorf("expected 1 user, got %d", len(users))
	}
}
