package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestModeratorTokenService_IssueParse(t *testing.T) {
	svc := NewModeratorTokenService("secret", 30*time.Minute)

	tok, err := svc.Issue("mod-1", "Ana")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if tok.AccessToken == "" || tok.ExpiresIn != 1800 {
		t.Fatalf("unexpected token: %+v", tok)
	}

	claims, err := svc.Parse(tok.AccessToken)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.ModeratorID != "mod-1" || claims.DisplayName != "Ana" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestModeratorTokenService_RejectsEmptySecretOrID(t *testing.T) {
	if _, err := NewModeratorTokenService("", time.Minute).Issue("mod-1", ""); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid on empty secret, got %v", err)
	}
	if _, err := NewModeratorTokenService("secret", time.Minute).Issue("  ", ""); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid on empty moderator, got %v", err)
	}
}

func TestModeratorTokenService_RejectsWrongSecret(t *testing.T) {
	tok, err := NewModeratorTokenService("secret", time.Minute).Issue("mod-1", "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := NewModeratorTokenService("other", time.Minute).Parse(tok.AccessToken); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func signModeratorClaims(t *testing.T, claims ModeratorClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestModeratorTokenService_Expired(t *testing.T) {
	svc := NewModeratorTokenService("secret", time.Minute)
	past := time.Now().UTC().Add(-time.Hour)
	signed := signModeratorClaims(t, ModeratorClaims{
		ModeratorID: "mod-1",
		TokenType:   moderatorTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "divisafe-support",
			Subject:   "mod-1",
			IssuedAt:  jwt.NewNumericDate(past),
			ExpiresAt: jwt.NewNumericDate(past.Add(time.Minute)),
		},
	})
	if _, err := svc.Parse(signed); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestModeratorTokenService_RejectsWrongIssuerOrType(t *testing.T) {
	svc := NewModeratorTokenService("secret", time.Minute)
	now := time.Now().UTC()
	base := jwt.RegisteredClaims{
		Subject:   "mod-1",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(10 * time.Minute)),
	}

	wrongIssuer := base
	wrongIssuer.Issuer = "other-issuer"
	if _, err := svc.Parse(signModeratorClaims(t, ModeratorClaims{ModeratorID: "mod-1", TokenType: moderatorTokenType, RegisteredClaims: wrongIssuer})); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for wrong issuer, got %v", err)
	}

	wrongType := base
	wrongType.Issuer = "divisafe-support"
	if _, err := svc.Parse(signModeratorClaims(t, ModeratorClaims{ModeratorID: "mod-1", TokenType: "access", RegisteredClaims: wrongType})); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for wrong type, got %v", err)
	}
}
