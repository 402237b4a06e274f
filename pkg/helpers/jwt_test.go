package helpers

import (
	"errors"
	"testing"
	"time"
)

func testManager() *JWTManager {
	return NewJWTManager("test-secret", 30*time.Minute, 168*time.Hour)
}

func TestGenerateAndParseAccessToken(t *testing.T) {
	m := testManager()

	token, exp, err := m.GenerateAccessToken("a@x.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Fatal("expiry must be in the future")
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "a@x.com" {
		t.Errorf("expected subject a@x.com, got %s", claims.Subject)
	}
	if !claims.IsAccess() || claims.IsRefresh() {
		t.Errorf("expected access type, got %s", claims.TokenType)
	}
}

func TestGenerateRefreshTokenType(t *testing.T) {
	m := testManager()

	token, _, err := m.GenerateRefreshToken("a@x.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !claims.IsRefresh() {
		t.Errorf("expected refresh type, got %s", claims.TokenType)
	}
}

func TestParseExpiredToken(t *testing.T) {
	m := NewJWTManager("test-secret", -time.Minute, -time.Minute)

	token, _, err := m.GenerateAccessToken("a@x.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := m.Parse(token); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("expected ErrExpiredToken, got %v", err)
	}
}

func TestParseGarbage(t *testing.T) {
	m := testManager()
	for _, tok := range []string{"", "garbage", "a.b.c"} {
		if _, err := m.Parse(tok); !errors.Is(err, ErrMalformedToken) {
			t.Errorf("Parse(%q): expected ErrMalformedToken, got %v", tok, err)
		}
	}
}

func TestParseWrongSecret(t *testing.T) {
	m := testManager()
	other := NewJWTManager("other-secret", 30*time.Minute, 168*time.Hour)

	token, _, err := m.GenerateAccessToken("a@x.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := other.Parse(token); !errors.Is(err, ErrMalformedToken) {
		t.Errorf("expected ErrMalformedToken for wrong secret, got %v", err)
	}
}
