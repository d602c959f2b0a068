package auth

import (
	"errors"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokenRoundTrip(t *testing.T) {
	mgr, err := NewTokenManager(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}

	token, err := mgr.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	subject, err := mgr.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if subject != "user-123" {
		t.Fatalf("subject = %q, want user-123", subject)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	mgr, err := NewTokenManager(testSecret, time.Nanosecond)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}

	token, err := mgr.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	if _, err := mgr.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Verify expired token error = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer, _ := NewTokenManager(testSecret, time.Hour)
	verifier, _ := NewTokenManager("ffffffffffffffffffffffffffffffff", time.Hour)

	token, err := issuer.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := verifier.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Verify with wrong secret error = %v, want ErrInvalidToken", err)
	}
}

func TestNewTokenManagerValidation(t *testing.T) {
	if _, err := NewTokenManager("", time.Hour); err == nil {
		t.Fatalf("expected error for empty secret")
	}
	if _, err := NewTokenManager(testSecret, 0); err == nil {
		t.Fatalf("expected error for non-positive ttl")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-password")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "s3cret-password" {
		t.Fatalf("hash must not equal the input")
	}
	if !CheckPassword(hash, "s3cret-password") {
		t.Fatalf("CheckPassword rejected the original password")
	}
	if CheckPassword(hash, "wrong-password") {
		t.Fatalf("CheckPassword accepted a wrong password")
	}
}

func FuzzVerify(f *testing.F) {
	mgr, err := NewTokenManager(testSecret, time.Hour)
	if err != nil {
		f.Fatalf("NewTokenManager: %v", err)
	}
	valid, err := mgr.Issue("user-123")
	if err != nil {
		f.Fatalf("Issue: %v", err)
	}

	f.Add(valid)
	f.Add("")
	f.Add("not.a.jwt")
	f.Add("eyJhbGciOiJub25lIn0.eyJzdWIiOiJ4In0.")

	f.Fuzz(func(t *testing.T, tokenString string) {
		subject, err := mgr.Verify(tokenString)
		if err != nil && subject != "" {
			t.Fatalf("Verify returned subject %q alongside error %v", subject, err)
		}
	})
}
