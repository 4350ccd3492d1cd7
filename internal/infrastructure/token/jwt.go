package token

import (
	"time"

	"answer-hub/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// JWTConfig holds assertion signing configuration.
type JWTConfig struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

// assertionClaims are the claims stamped onto verified requests.
type assertionClaims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Sid   string `json:"sid"`
	jwt.RegisteredClaims
}

// JWTIssuer signs identity assertions for upstream handlers.
// Implements domain.AssertionIssuer.
type JWTIssuer struct {
	cfg JWTConfig
}

// NewJWTIssuer creates a new assertion issuer.
func NewJWTIssuer(cfg JWTConfig) *JWTIssuer {
	return &JWTIssuer{cfg: cfg}
}

// IssueAssertion generates a signed HS256 token for a provider-verified
// account.
func (j *JWTIssuer) IssueAssertion(account *domain.Account, sessionID string) (string, error) {
	if account == nil {
		return "", domain.ErrTokenGeneration
	}

	now := time.Now()
	claims := assertionClaims{
		Email: account.Email,
		Name:  account.Name,
		Sid:   sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.cfg.Issuer,
			Audience:  jwt.ClaimStrings{j.cfg.Audience},
			Subject:   account.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.cfg.TTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.cfg.Secret))
}
