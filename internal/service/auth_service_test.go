package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumelearn/player-backend/internal/config"
)

const testSecret = "test-shared-secret"

func newAuthService() *AuthService {
	return NewAuthService(&config.Config{JWTSecret: testSecret})
}

func mintToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestValidateTokenAcceptsLearnerToken(t *testing.T) {
	svc := newAuthService()
	tokenStr := mintToken(t, testSecret, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "learner-42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		LearnerID: "learner-42",
		Name:      "Ada",
	})

	claims, err := svc.ValidateToken(tokenStr)

	require.NoError(t, err)
	assert.Equal(t, "learner-42", claims.Learner())
	assert.Equal(t, "Ada", claims.Name)
}

func TestValidateTokenFallsBackToSubject(t *testing.T) {
	svc := newAuthService()
	tokenStr := mintToken(t, testSecret, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "subject-7",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := svc.ValidateToken(tokenStr)

	require.NoError(t, err)
	assert.Equal(t, "subject-7", claims.Learner())
}

func TestValidateTokenRejections(t *testing.T) {
	svc := newAuthService()

	// Wrong secret.
	bad := mintToken(t, "other-secret", Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "learner-42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	_, err := svc.ValidateToken(bad)
	assert.Error(t, err)

	// Expired.
	expired := mintToken(t, testSecret, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "learner-42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	_, err = svc.ValidateToken(expired)
	assert.Error(t, err)

	// No learner identity at all.
	anonymous := mintToken(t, testSecret, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	_, err = svc.ValidateToken(anonymous)
	assert.Error(t, err)

	// Garbage.
	_, err = svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}
