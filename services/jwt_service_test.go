package services

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestAuthTokenRoundTrip(t *testing.T) {
	service := NewJWTService("test-secret")

	token, err := service.GenerateAuthToken("64f1c0ffee0000000000abcd", "admin")
	if err != nil {
		t.Fatalf("GenerateAuthToken() error = %v", err)
	}

	claims, err := service.ValidateAuthToken(token)
	if err != nil {
		t.Fatalf("ValidateAuthToken() error = %v", err)
	}
	if claims.UserID != "64f1c0ffee0000000000abcd" {
		t.Errorf("UserID = %q", claims.UserID)
	}
	if claims.Role != "admin" {
		t.Errorf("Role = %q", claims.Role)
	}
}

func TestInviteTokenRoundTrip(t *testing.T) {
	service := NewJWTService("test-secret")

	token, err := service.GenerateInviteToken("invitee@example.com", "plumber")
	if err != nil {
		t.Fatalf("GenerateInviteToken() error = %v", err)
	}

	claims, err := service.ValidateInviteToken(token)
	if err != nil {
		t.Fatalf("ValidateInviteToken() error = %v", err)
	}
	if claims.Email != "invitee@example.com" || claims.Speciality != "plumber" {
		t.Errorf("claims = %q/%q", claims.Email, claims.Speciality)
	}
}

func TestValidateInviteTokenPastExpiry(t *testing.T) {
	// The invitation record's expiresAt governs freshness, so a token
	// whose exp has passed must still yield its claims; otherwise the
	// lazy pending->expired transition on the record could never run.
	secret := "test-secret"
	claims := &InviteClaims{
		Email:      "invitee@example.com",
		Speciality: "plumber",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing: %v", err)
	}

	got, err := NewJWTService(secret).ValidateInviteToken(token)
	if err != nil {
		t.Fatalf("ValidateInviteToken() error = %v, want claims despite past exp", err)
	}
	if got.Email != "invitee@example.com" || got.Speciality != "plumber" {
		t.Errorf("claims = %q/%q", got.Email, got.Speciality)
	}
}

func TestValidateInviteTokenWrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a").GenerateInviteToken("invitee@example.com", "plumber")
	if err != nil {
		t.Fatalf("GenerateInviteToken() error = %v", err)
	}

	_, err = NewJWTService("secret-b").ValidateInviteToken(token)
	if !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("ValidateInviteToken() error = %v, want ErrUnauthenticated", err)
	}
}

func TestValidateAuthTokenWrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a").GenerateAuthToken("id", "user")
	if err != nil {
		t.Fatalf("GenerateAuthToken() error = %v", err)
	}

	_, err = NewJWTService("secret-b").ValidateAuthToken(token)
	if !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("ValidateAuthToken() error = %v, want ErrUnauthenticated", err)
	}
}

func TestValidateAuthTokenExpired(t *testing.T) {
	secret := "test-secret"
	claims := &AuthClaims{
		UserID: "id",
		Role:   "user",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing: %v", err)
	}

	_, err = NewJWTService(secret).ValidateAuthToken(token)
	if !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("ValidateAuthToken() error = %v, want ErrUnauthenticated", err)
	}
}

func TestValidateAuthTokenGarbage(t *testing.T) {
	_, err := NewJWTService("test-secret").ValidateAuthToken("not-a-token")
	if !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("ValidateAuthToken() error = %v, want ErrUnauthenticated", err)
	}
}
