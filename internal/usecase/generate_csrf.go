package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"answer-hub/internal/domain"
)

// GenerateCSRF issues a CSRF token bound to a provider-verified session.
type GenerateCSRF struct {
	provider domain.IdentityProvider
	csrf     domain.CSRFTokenGenerator
	logger   *slog.Logger
}

// NewGenerateCSRF creates a new GenerateCSRF usecase.
func NewGenerateCSRF(p domain.IdentityProvider, csrf domain.CSRFTokenGenerator, l *slog.Logger) *GenerateCSRF {
	return &GenerateCSRF{provider: p, csrf: csrf, logger: l}
}

// Execute verifies the ambient credentials with the identity provider and
// generates a token bound to the current session.
func (uc *GenerateCSRF) Execute(ctx context.Context, creds domain.Credentials) (string, error) {
	if creds == "" {
		return "", domain.ErrSessionNotFound
	}

	if _, err := uc.provider.CurrentAccount(ctx, creds); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrAuthFailed, err)
	}

	session, err := uc.provider.GetSession(ctx, creds, domain.CurrentSessionID)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrAuthFailed, err)
	}

	token, err := uc.csrf.Generate(session.ID)
	if err != nil {
		uc.logger.ErrorContext(ctx, "failed to generate CSRF token", "error", err)
		return "", fmt.Errorf("%w: %w", domain.ErrCSRFSecretMissing, err)
	}

	return token, nil
}
