package utils

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken("s3cret", Claims{OperatorID: 42, Role: "ADMIN", Name: "김관리"}, 15)
	if err != nil {
		t.Fatal(err)
	}
	c, err := ParseAccessToken("s3cret", tok.Token)
	if err != nil {
		t.Fatalf("ParseAccessToken() error = %v", err)
	}
	if c.OperatorID != 42 || c.Role != "ADMIN" || c.Name != "김관리" {
		t.Errorf("claims = %+v", c)
	}
}

func TestParseAccessToken_Rejects(t *testing.T) {
	good, _ := NewAccessToken("s3cret", Claims{OperatorID: 1, Role: "OPERATOR"}, 15)
	expired, _ := NewAccessToken("s3cret", Claims{OperatorID: 1, Role: "OPERATOR"}, -5)
	noRole, _ := NewAccessToken("s3cret", Claims{OperatorID: 1}, 15)

	tests := map[string]struct{ secret, raw string }{
		"wrong secret": {"other", good.Token},
		"expired":      {"s3cret", expired.Token},
		"missing role": {"s3cret", noRole.Token},
		"garbage":      {"s3cret", "not.a.jwt"},
	}
	for name, tt := range tests {
		if _, err := ParseAccessToken(tt.secret, tt.raw); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("%s: error = %v, want ErrInvalidToken", name, err)
		}
	}
}

func TestRefreshToken(t *testing.T) {
	a, err := NewRefreshToken(14)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := NewRefreshToken(14)
	if len(a.Raw) != 96 || a.Raw == b.Raw {
		t.Errorf("raw tokens %q / %q", a.Raw, b.Raw)
	}
	if HashRefreshRaw(a.Raw) != HashRefreshRaw(a.Raw) || len(HashRefreshRaw(a.Raw)) != 64 {
		t.Error("hash is not a stable sha256 hex digest")
	}
}

func TestPassword(t *testing.T) {
	if _, err := HashPassword("short", bcrypt.MinCost); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("short password error = %v", err)
	}
	h, err := HashPassword("correct horse", bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	if !VerifyPassword(h, "correct horse") || VerifyPassword(h, "wrong horse!") {
		t.Error("VerifyPassword mismatch")
	}
}

func TestIDs(t *testing.T) {
	if got := BookingID(2026, 31); got != "ACM-2026-00031" {
		t.Errorf("BookingID = %s", got)
	}
	if got := HoldID(4); got != "HOLD-004" {
		t.Errorf("HoldID = %s", got)
	}
}
