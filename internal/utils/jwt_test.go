package utils

import (
	"strings"
	"testing"
	"time"
)

const testSecret = "unit-test-secret"

func TestIssueAndVerifyToken(t *testing.T) {
	for _, tt := range []TokenType{TokenAccess, TokenRefresh} {
		issued, err := IssueToken(testSecret, tt, 42, time.Minute)
		if err != nil {
			t.Fatalf("IssueToken(%s): %v", tt, err)
		}
		uid, iat, err := VerifyToken(testSecret, tt, issued.Token)
		if err != nil {
			t.Fatalf("VerifyToken(%s): %v", tt, err)
		}
		if uid != 42 {
			t.Errorf("got uid %d, want 42", uid)
		}
		if iat.IsZero() {
			t.Errorf("iat not populated")
		}
	}
}

func TestVerifyTokenRejectsWrongType(t *testing.T) {
	issued, err := IssueToken(testSecret, TokenRefresh, 7, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := VerifyToken(testSecret, TokenAccess, issued.Token); err != ErrInvalidToken {
		t.Errorf("refresh token accepted as access token: %v", err)
	}
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	issued, err := IssueToken(testSecret, TokenAccess, 7, -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := VerifyToken(testSecret, TokenAccess, issued.Token); err != ErrInvalidToken {
		t.Errorf("expired token accepted: %v", err)
	}
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	issued, err := IssueToken(testSecret, TokenAccess, 7, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := VerifyToken("other-secret", TokenAccess, issued.Token); err != ErrInvalidToken {
		t.Errorf("token with wrong secret accepted: %v", err)
	}
}

func TestVerifyTokenRejectsTampered(t *testing.T) {
	issued, err := IssueToken(testSecret, TokenAccess, 7, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	parts := strings.Split(issued.Token, ".")
	tampered := parts[0] + ".eyJzdWIiOjk5OX0." + parts[2]
	if _, _, err := VerifyToken(testSecret, TokenAccess, tampered); err != ErrInvalidToken {
		t.Errorf("tampered token accepted: %v", err)
	}
	if _, _, err := VerifyToken(testSecret, TokenAccess, "not-a-jwt"); err != ErrInvalidToken {
		t.Errorf("garbage accepted: %v", err)
	}
}
