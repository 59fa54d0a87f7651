package apperror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func TestKindHTTPStatus(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{InvalidInput, http.StatusBadRequest},
		{Unauthorized, http.StatusUnauthorized},
		{Forbidden, http.StatusForbidden},
		{NotFound, http.StatusNotFound},
		{Conflict, http.StatusConflict},
		{Internal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := tc.kind.HTTPStatus(); got != tc.want {
			t.Errorf("Kind(%d).HTTPStatus() = %d, want %d", tc.kind, got, tc.want)
		}
	}
}

func TestFrom_UnwrapsChain(t *testing.T) {
	inner := NotFoundf("Appointment not found")
	wrapped := fmt.Errorf("get appointment: %w", inner)

	appErr := From(wrapped)
	if appErr == nil {
		t.Fatal("expected to find typed error in chain")
	}
	if appErr.Kind != NotFound {
		t.Errorf("Kind = %d, want NotFound", appErr.Kind)
	}
	if appErr.Message != "Appointment not found" {
		t.Errorf("Message = %q", appErr.Message)
	}

	if From(errors.New("plain")) != nil {
		t.Error("expected nil for untyped error")
	}
}

func TestIsKind(t *testing.T) {
	err := Conflictf("That slot is already booked")
	if !IsKind(err, Conflict) {
		t.Error("expected Conflict kind")
	}
	if IsKind(err, NotFound) {
		t.Error("did not expect NotFound kind")
	}
}

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body["error"]
}

func TestHTTPErrorHandler_TypedError(t *testing.T) {
	e := echo.New()
	handler := NewHTTPErrorHandler(zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/appointments/99", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler(NotFoundf("Appointment not found"), c)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if got := decodeErrorBody(t, rec); got != "Appointment not found" {
		t.Errorf("error body = %q", got)
	}
}

func TestHTTPErrorHandler_InternalHidesCause(t *testing.T) {
	e := echo.New()
	handler := NewHTTPErrorHandler(zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/patients", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler(Internalf(errors.New("pq: connection refused")), c)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if got := decodeErrorBody(t, rec); got != "Internal server error" {
		t.Errorf("error body = %q, cause must not leak", got)
	}
}

func TestHTTPErrorHandler_EchoHTTPError(t *testing.T) {
	e := echo.New()
	handler := NewHTTPErrorHandler(zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler(echo.NewHTTPError(http.StatusNotFound, "Not Found"), c)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if got := decodeErrorBody(t, rec); got != "Not Found" {
		t.Errorf("error body = %q", got)
	}
}
