package usecase

import (
	"context"
	"log/slog"
	"testing"

	"answer-hub/internal/domain"

	"github.com/stretchr/testify/assert"
)

func newEvaluateRequest(p *mockProvider) *EvaluateRequest {
	return NewEvaluateRequest(p, domain.DefaultRouteTable(), "/", "/login", slog.Default())
}

func TestEvaluateRequest_PublicPathSkipsVerification(t *testing.T) {
	provider := &mockProvider{current: &domain.Account{ID: "user-1"}}
	uc := newEvaluateRequest(provider)

	decision := uc.Execute(context.Background(), "/", "session=abc")

	assert.Equal(t, ActionAllow, decision.Action)
	assert.Nil(t, decision.Account)
	assert.Equal(t, 0, provider.currentCalls, "public paths must not call the provider")
}

func TestEvaluateRequest_ProtectedWithoutCookies(t *testing.T) {
	provider := &mockProvider{}
	uc := newEvaluateRequest(provider)

	decision := uc.Execute(context.Background(), "/questions/123", "")

	assert.Equal(t, ActionRedirect, decision.Action)
	assert.Equal(t, "/login?redirect=%2Fquestions%2F123", decision.Target)
	assert.Equal(t, 0, provider.currentCalls, "empty credentials must not call the provider")
}

func TestEvaluateRequest_ProtectedWithValidSession(t *testing.T) {
	provider := &mockProvider{current: &domain.Account{ID: "user-1", Email: "a@example.com"}}
	uc := newEvaluateRequest(provider)

	decision := uc.Execute(context.Background(), "/questions/123", "session=abc")

	assert.Equal(t, ActionAllow, decision.Action)
	assert.NotNil(t, decision.Account)
	assert.Equal(t, "user-1", decision.Account.ID)
	assert.Equal(t, 1, provider.currentCalls)
	assert.Equal(t, domain.Credentials("session=abc"), provider.lastCreds)
}

func TestEvaluateRequest_ProviderFailureFailsClosed(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "rejected credentials", err: domain.ErrAuthFailed},
		{name: "provider unreachable", err: domain.ErrProviderUnavailable},
		{name: "timeout", err: context.DeadlineExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &mockProvider{currentErr: tt.err}
			uc := newEvaluateRequest(provider)

			decision := uc.Execute(context.Background(), "/profile", "session=stale")

			assert.Equal(t, ActionRedirect, decision.Action)
			assert.Equal(t, "/login?redirect=%2Fprofile", decision.Target)
			assert.Nil(t, decision.Account)
		})
	}
}

func TestEvaluateRequest_AuthPageWhileAuthenticated(t *testing.T) {
	provider := &mockProvider{current: &domain.Account{ID: "user-1"}}
	uc := newEvaluateRequest(provider)

	decision := uc.Execute(context.Background(), "/login", "session=abc")

	assert.Equal(t, ActionRedirect, decision.Action)
	assert.Equal(t, "/", decision.Target)
	assert.NotNil(t, decision.Account)
}

func TestEvaluateRequest_AuthPageWhileAnonymous(t *testing.T) {
	provider := &mockProvider{currentErr: domain.ErrAuthFailed}
	uc := newEvaluateRequest(provider)

	decision := uc.Execute(context.Background(), "/register", "session=stale")

	assert.Equal(t, ActionAllow, decision.Action)
	assert.Nil(t, decision.Account)
}

func TestEvaluateRequest_RedirectPreservesDestination(t *testing.T) {
	provider := &mockProvider{}
	uc := newEvaluateRequest(provider)

	decision := uc.Execute(context.Background(), "/questions/ask", "")

	assert.Equal(t, "/login?redirect=%2Fquestions%2Fask", decision.Target)
}
