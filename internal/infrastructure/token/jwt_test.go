package token

import (
	"testing"
	"time"

	"answer-hub/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func TestJWTIssuer_IssueAssertion(t *testing.T) {
	issuer := NewJWTIssuer(JWTConfig{
		Secret:   "this-is-a-valid-assertion-secret-32-chars-long!!",
		Issuer:   "answer-hub",
		Audience: "answer-hub-app",
		TTL:      5 * time.Minute,
	})

	account := &domain.Account{
		ID:    "user-123",
		Email: "test@example.com",
		Name:  "Test User",
	}

	tokenStr, err := issuer.IssueAssertion(account, "session-abc")
	assert.NoError(t, err)
	assert.NotEmpty(t, tokenStr)

	parsed, err := jwt.ParseWithClaims(tokenStr, &assertionClaims{}, func(token *jwt.Token) (any, error) {
		return []byte("this-is-a-valid-assertion-secret-32-chars-long!!"), nil
	})
	assert.NoError(t, err)
	assert.True(t, parsed.Valid)

	claims := parsed.Claims.(*assertionClaims)
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, "test@example.com", claims.Email)
	assert.Equal(t, "Test User", claims.Name)
	assert.Equal(t, "session-abc", claims.Sid)
	assert.Equal(t, "answer-hub", claims.Issuer)
	assert.Contains(t, claims.Audience, "answer-hub-app")
}

func TestJWTIssuer_ExpiredToken(t *testing.T) {
	issuer := NewJWTIssuer(JWTConfig{
		Secret:   "this-is-a-valid-assertion-secret-32-chars-long!!",
		Issuer:   "answer-hub",
		Audience: "answer-hub-app",
		TTL:      -1 * time.Minute, // Already expired
	})

	account := &domain.Account{ID: "user-123", Email: "test@example.com"}

	tokenStr, err := issuer.IssueAssertion(account, "session-abc")
	assert.NoError(t, err) // Generation succeeds

	// Parsing should fail due to expiration
	_, err = jwt.ParseWithClaims(tokenStr, &assertionClaims{}, func(token *jwt.Token) (any, error) {
		return []byte("this-is-a-valid-assertion-secret-32-chars-long!!"), nil
	})
	assert.Error(t, err)
}

func TestJWTIssuer_InvalidSignature(t *testing.T) {
	issuer := NewJWTIssuer(JWTConfig{
		Secret:   "this-is-a-valid-assertion-secret-32-chars-long!!",
		Issuer:   "answer-hub",
		Audience: "answer-hub-app",
		TTL:      5 * time.Minute,
	})

	account := &domain.Account{ID: "user-123", Email: "test@example.com"}

	tokenStr, err := issuer.IssueAssertion(account, "session-abc")
	assert.NoError(t, err)

	// Parse with wrong secret
	_, err = jwt.ParseWithClaims(tokenStr, &assertionClaims{}, func(token *jwt.Token) (any, error) {
		return []byte("wrong-secret-that-should-fail-validation"), nil
	})
	assert.Error(t, err)
}

func TestJWTIssuer_NilAccount(t *testing.T) {
	issuer := NewJWTIssuer(JWTConfig{
		Secret:   "this-is-a-valid-assertion-secret-32-chars-long!!",
		Issuer:   "answer-hub",
		Audience: "answer-hub-app",
		TTL:      5 * time.Minute,
	})

	tokenStr, err := issuer.IssueAssertion(nil, "session-abc")
	assert.Empty(t, tokenStr)
	assert.ErrorIs(t, err, domain.ErrTokenGeneration)
}
