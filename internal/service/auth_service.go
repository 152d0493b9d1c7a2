package service

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/lumelearn/player-backend/internal/config"
)

// Claims are the learner claims carried by LMS-issued tokens. This service
// never mints tokens; it only validates the shared-secret signature and
// extracts the learner identity, then forwards the raw bearer upstream.
type Claims struct {
	jwt.RegisteredClaims
	LearnerID string `json:"learner_id,omitempty"`
	Name      string `json:"name,omitempty"`
}

// Learner returns the learner identity: the learner_id claim when present,
// otherwise the token subject.
func (c *Claims) Learner() string {
	if c.LearnerID != "" {
		return c.LearnerID
	}
	return c.Subject
}

// AuthService validates LMS-issued learner JWTs.
type AuthService struct {
	cfg *config.Config
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{cfg: cfg}
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.Learner() == "" {
		return nil, errors.New("token carries no learner identity")
	}

	return claims, nil
}
