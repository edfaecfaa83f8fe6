package jwt

import (
	"errors"
	"testing"
)

const testSecret = "unit-test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(42, "jo@example.com", "Jo", "finance", testSecret, 15)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	claims, err := ValidateAccessToken(token, testSecret)
	if err != nil {
		t.Fatalf("ValidateAccessToken() error = %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Email != "jo@example.com" {
		t.Errorf("Email = %q", claims.Email)
	}
	if claims.Role != "finance" {
		t.Errorf("Role = %q, want finance", claims.Role)
	}
}

func TestValidateAccessToken_WrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(1, "a@b.c", "A", "employee", testSecret, 15)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	if _, err := ValidateAccessToken(token, "other-secret"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("error = %v, want ErrTokenInvalid", err)
	}
}

func TestValidateAccessToken_Garbage(t *testing.T) {
	if _, err := ValidateAccessToken("not.a.token", testSecret); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("error = %v, want ErrTokenInvalid", err)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	token, err := GenerateRefreshToken(7, "tok-123", testSecret, 7)
	if err != nil {
		t.Fatalf("GenerateRefreshToken() error = %v", err)
	}

	claims, err := ValidateRefreshToken(token, testSecret)
	if err != nil {
		t.Fatalf("ValidateRefreshToken() error = %v", err)
	}
	if claims.UserID != 7 || claims.TokenID != "tok-123" {
		t.Errorf("claims = %+v", claims)
	}
}
