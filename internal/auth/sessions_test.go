package auth

import (
	"testing"
	"time"
)

func TestSessionCreateResolve(t *testing.T) {
	store := NewSessionStore(time.Hour, time.Hour)
	defer store.Stop()

	token := store.Create(42)
	if token == "" {
		t.Fatal("Create() returned empty token")
	}

	userID, ok := store.Resolve(token)
	if !ok {
		t.Fatal("Resolve() returned ok = false for fresh token")
	}
	if userID != 42 {
		t.Errorf("Resolve() userID = %d, want 42", userID)
	}

	if _, ok := store.Resolve("unknown-token"); ok {
		t.Error("Resolve() accepted unknown token")
	}
}

func TestSessionExpiry(t *testing.T) {
	store := NewSessionStore(10*time.Millisecond, time.Hour)
	defer store.Stop()

	token := store.Create(1)
	time.Sleep(20 * time.Millisecond)

	if _, ok := store.Resolve(token); ok {
		t.Error("Resolve() accepted expired token")
	}
	if n := store.ActiveSessions(); n != 0 {
		t.Errorf("ActiveSessions() = %d after expiry, want 0", n)
	}
}

func TestSessionRevoke(t *testing.T) {
	store := NewSessionStore(time.Hour, time.Hour)
	defer store.Stop()

	token := store.Create(7)
	store.Revoke(token)

	if _, ok := store.Resolve(token); ok {
		t.Error("Resolve() accepted revoked token")
	}

	store.Revoke("never-existed")
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery", 4)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if err := CheckPassword(hash, "correct horse battery"); err != nil {
		t.Errorf("CheckPassword() error = %v for matching password", err)
	}
	if err := CheckPassword(hash, "wrong password"); err != ErrInvalidCredentials {
		t.Errorf("CheckPassword() error = %v, want ErrInvalidCredentials", err)
	}
}
