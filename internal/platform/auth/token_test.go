package auth

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret")

	want := Identity{ID: 7, Name: "Dr. Priya Sharma", Email: "priya@ruralcare.com", Role: "doctor"}
	token, err := tm.Issue(want)
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	got, err := tm.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
	if got != want {
		t.Errorf("Verify() = %+v, want %+v", got, want)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a").Issue(Identity{ID: 1, Role: "patient"})
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	if _, err := NewTokenManager("secret-b").Verify(token); err == nil {
		t.Fatal("expected verification to fail with a different secret")
	}
}

func TestVerify_Expired(t *testing.T) {
	tm := NewTokenManager("test-secret")
	tm.now = func() time.Time { return time.Now().Add(-8 * 24 * time.Hour) }

	token, err := tm.Issue(Identity{ID: 1, Role: "patient"})
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	fresh := NewTokenManager("test-secret")
	if _, err := fresh.Verify(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestVerify_Garbage(t *testing.T) {
	tm := NewTokenManager("test-secret")
	if _, err := tm.Verify("not.a.token"); err == nil {
		t.Fatal("expected malformed token to be rejected")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("Admin@1234")
	if err != nil {
		t.Fatalf("HashPassword() error: %v", err)
	}
	if hash == "Admin@1234" {
		t.Fatal("hash must not equal plaintext")
	}
	if !CheckPassword(hash, "Admin@1234") {
		t.Error("expected correct password to verify")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("expected wrong password to fail")
	}
}
