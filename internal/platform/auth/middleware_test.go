package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ruralcare/clinic/internal/platform/apperror"
)

func echoContext(t *testing.T, authHeader string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/patients", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func TestAuthenticate_MissingToken(t *testing.T) {
	tm := NewTokenManager("test-secret")
	c, _ := echoContext(t, "")

	err := Authenticate(tm)(okHandler)(c)
	if !apperror.IsKind(err, apperror.Unauthorized) {
		t.Fatalf("expected Unauthorized, got %v", err)
	}
	if err.Error() != "No token provided" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestAuthenticate_MalformedHeader(t *testing.T) {
	tm := NewTokenManager("test-secret")
	c, _ := echoContext(t, "Token abc123")

	err := Authenticate(tm)(okHandler)(c)
	if !apperror.IsKind(err, apperror.Unauthorized) {
		t.Fatalf("expected Unauthorized, got %v", err)
	}
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	tm := NewTokenManager("test-secret")
	c, _ := echoContext(t, "Bearer garbage")

	err := Authenticate(tm)(okHandler)(c)
	if !apperror.IsKind(err, apperror.Unauthorized) {
		t.Fatalf("expected Unauthorized, got %v", err)
	}
	if err.Error() != "Invalid or expired token" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestAuthenticate_AttachesIdentity(t *testing.T) {
	tm := NewTokenManager("test-secret")
	token, err := tm.Issue(Identity{ID: 42, Name: "Sunita Devi", Email: "sunita@example.com", Role: "patient"})
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	c, _ := echoContext(t, "Bearer "+token)

	var got Identity
	handler := func(c echo.Context) error {
		id, ok := IdentityFromContext(c.Request().Context())
		if !ok {
			t.Fatal("identity missing from request context")
		}
		got = id
		return c.NoContent(http.StatusOK)
	}

	if err := Authenticate(tm)(handler)(c); err != nil {
		t.Fatalf("middleware error: %v", err)
	}
	if got.ID != 42 || got.Role != "patient" {
		t.Errorf("identity = %+v", got)
	}
}

func TestRequireRole(t *testing.T) {
	tm := NewTokenManager("test-secret")

	cases := []struct {
		name     string
		role     string
		required []string
		wantErr  bool
	}{
		{"allowed single", "admin", []string{"admin"}, false},
		{"allowed multi", "pharmacy", []string{"pharmacy", "admin"}, false},
		{"denied", "patient", []string{"admin"}, true},
		{"denied multi", "doctor", []string{"pharmacy", "admin"}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			token, err := tm.Issue(Identity{ID: 1, Role: tc.role})
			if err != nil {
				t.Fatalf("Issue() error: %v", err)
			}
			c, _ := echoContext(t, "Bearer "+token)

			err = Authenticate(tm)(RequireRole(tc.required...)(okHandler))(c)
			if tc.wantErr {
				if !apperror.IsKind(err, apperror.Forbidden) {
					t.Fatalf("expected Forbidden, got %v", err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestRequireRole_DenialMessage(t *testing.T) {
	tm := NewTokenManager("test-secret")
	token, err := tm.Issue(Identity{ID: 1, Role: "patient"})
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}
	c, _ := echoContext(t, "Bearer "+token)

	err = Authenticate(tm)(RequireRole("pharmacy", "admin")(okHandler))(c)
	if err == nil || err.Error() != "Access denied. Required role: pharmacy or admin" {
		t.Errorf("message = %v", err)
	}
}

func TestRequireRole_WithoutAuthenticate(t *testing.T) {
	c, _ := echoContext(t, "")
	err := RequireRole("admin")(okHandler)(c)
	if !apperror.IsKind(err, apperror.Unauthorized) {
		t.Fatalf("expected Unauthorized, got %v", err)
	}
	if err.Error() != "Not authenticated" {
		t.Errorf("message = %q", err.Error())
	}
}
