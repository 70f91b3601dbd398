package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	authTokenTTL   = 7 * 24 * time.Hour
	inviteTokenTTL = 48 * time.Hour
)

// AuthClaims identifies a logged-in caller.
type AuthClaims struct {
	UserID string `json:"id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// InviteClaims carries an invitation's payload inside its token.
type InviteClaims struct {
	Email      string `json:"email"`
	Speciality string `json:"speciality"`
	jwt.RegisteredClaims
}

// JWTService signs and validates the service's tokens.
type JWTService struct {
	secret []byte
}

func NewJWTService(secret string) *JWTService {
	return &JWTService{secret: []byte(secret)}
}

func (s *JWTService) GenerateAuthToken(userID, role string) (string, error) {
	claims := &AuthClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(authTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *JWTService) ValidateAuthToken(tokenStr string) (*AuthClaims, error) {
	claims := &AuthClaims{}
	if err := s.parse(tokenStr, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *JWTService) GenerateInviteToken(email, speciality string) (string, error) {
	claims := &InviteClaims{
		Email:      email,
		Speciality: speciality,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(inviteTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateInviteToken checks the token signature and returns its payload.
// The token's exp claim is deliberately not validated here: the stored
// invitation's expiresAt is the single freshness source, and a stale token
// still has to reach the lazy pending->expired transition on the record.
func (s *JWTService) ValidateInviteToken(tokenStr string) (*InviteClaims, error) {
	claims := &InviteClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token: %w", ErrUnauthenticated)
	}
	return claims, nil
}

func (s *JWTService) parse(tokenStr string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return fmt.Errorf("invalid token: %w", ErrUnauthenticated)
	}
	return nil
}
