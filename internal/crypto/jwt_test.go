package crypto

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestTokenService() *TokenService {
	return NewTokenService(testSecret, time.Hour, "web-games")
}

func TestIssueAndVerify(t *testing.T) {
	svc := newTestTokenService()

	token, err := svc.Issue("DaBob123", map[string]any{"role": "USER_PLAYER"})
	if err != nil {
		t.Fatalf("Issue() unexpected error: %v", err)
	}
	if token == "" {
		t.Fatal("Issue() returned empty string")
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify() unexpected error: %v", err)
	}
	if claims.Subject != "DaBob123" {
		t.Errorf("Verify() Subject = %q, want %q", claims.Subject, "DaBob123")
	}
	if claims.Extra["role"] != "USER_PLAYER" {
		t.Errorf("Verify() role = %v, want %q", claims.Extra["role"], "USER_PLAYER")
	}
	if claims.ID == "" {
		t.Error("Verify() expected a token id")
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt); got != time.Hour {
		t.Errorf("expiry window = %v, want %v", got, time.Hour)
	}
}

func TestIssueRegisteredClaimsWinOverExtra(t *testing.T) {
	svc := newTestTokenService()

	token, err := svc.Issue("alice", map[string]any{"sub": "mallory", "iss": "elsewhere"})
	if err != nil {
		t.Fatalf("Issue() unexpected error: %v", err)
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify() unexpected error: %v", err)
	}
	if claims.Subject != "alice" {
		t.Errorf("Subject = %q, want %q", claims.Subject, "alice")
	}
}

func TestIssueProducesDistinctTokens(t *testing.T) {
	svc := newTestTokenService()

	a, _ := svc.Issue("alice", nil)
	b, _ := svc.Issue("alice", nil)
	if a == b {
		t.Error("Issue() produced identical tokens for consecutive calls")
	}
}

func TestVerifyMalformed(t *testing.T) {
	svc := newTestTokenService()

	for _, token := range []string{"", "not-a-valid-token", "a.b.c"} {
		if _, err := svc.Verify(token); err != ErrInvalidToken {
			t.Errorf("Verify(%q) error = %v, want ErrInvalidToken", token, err)
		}
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	token, err := NewTokenService([]byte("another-secret-another-secret-00"), time.Hour, "web-games").Issue("alice", nil)
	if err != nil {
		t.Fatalf("Issue() unexpected error: %v", err)
	}

	if _, err := newTestTokenService().Verify(token); err != ErrInvalidToken {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyWrongIssuer(t *testing.T) {
	token, err := NewTokenService(testSecret, time.Hour, "wrong-issuer").Issue("alice", nil)
	if err != nil {
		t.Fatalf("Issue() unexpected error: %v", err)
	}

	if _, err := newTestTokenService().Verify(token); err != ErrInvalidToken {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyRejectsOtherAlgorithms(t *testing.T) {
	claims := jwt.MapClaims{
		"sub": "alice",
		"iss": "web-games",
		"iat": jwt.NewNumericDate(time.Now()),
		"exp": jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	tokenString, err := token.SignedString(testSecret)
	if err != nil {
		t.Fatalf("SignedString() unexpected error: %v", err)
	}

	if _, err := newTestTokenService().Verify(tokenString); err != ErrInvalidToken {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyMissingSubject(t *testing.T) {
	claims := jwt.MapClaims{
		"iss": "web-games",
		"iat": jwt.NewNumericDate(time.Now()),
		"exp": jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	if err != nil {
		t.Fatalf("SignedString() unexpected error: %v", err)
	}

	if _, err := newTestTokenService().Verify(tokenString); err != ErrInvalidToken {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestIsExpired(t *testing.T) {
	svc := newTestTokenService()
	fresh, _ := svc.Issue("alice", nil)
	if svc.IsExpired(fresh) {
		t.Error("IsExpired() = true for a fresh token")
	}

	stale, _ := NewTokenService(testSecret, -time.Minute, "web-games").Issue("alice", nil)
	if !svc.IsExpired(stale) {
		t.Error("IsExpired() = false for a token past its expiry")
	}

	if !svc.IsExpired("garbage") {
		t.Error("IsExpired() = false for an unverifiable token")
	}
}

func TestVerifyAcceptsExpiredSignature(t *testing.T) {
	stale, _ := NewTokenService(testSecret, -time.Minute, "web-games").Issue("alice", nil)

	claims, err := newTestTokenService().Verify(stale)
	if err != nil {
		t.Fatalf("Verify() unexpected error: %v", err)
	}
	if !claims.Expired(time.Now()) {
		t.Error("Claims.Expired() = false for a token past its expiry")
	}
}

func TestIsValidFor(t *testing.T) {
	svc := newTestTokenService()
	token, _ := svc.Issue("alice", nil)

	if !svc.IsValidFor(token, "alice") {
		t.Error("IsValidFor() = false for matching subject")
	}
	if svc.IsValidFor(token, "bob") {
		t.Error("IsValidFor() = true for a different subject")
	}

	stale, _ := NewTokenService(testSecret, -time.Minute, "web-games").Issue("alice", nil)
	if svc.IsValidFor(stale, "alice") {
		t.Error("IsValidFor() = true for an expired token")
	}
}

func TestClaimsExpiredBoundary(t *testing.T) {
	exp := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := &Claims{Subject: "alice", ExpiresAt: exp}

	if c.Expired(exp.Add(-time.Second)) {
		t.Error("Expired() = true before expiry")
	}
	if !c.Expired(exp) {
		t.Error("Expired() = false at expiry")
	}
}
