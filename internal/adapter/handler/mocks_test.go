package handler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"answer-hub/internal/domain"
	"answer-hub/internal/infrastructure/token"
	"answer-hub/internal/usecase"
)

// fakeProvider implements domain.IdentityProvider for handler tests.
type fakeProvider struct {
	account    *domain.Account
	accountErr error

	session    *domain.Session
	sessionErr error

	current    *domain.Account
	currentErr error

	currentSession *domain.Session
	getErr         error

	deleteErr error
}

func (f *fakeProvider) CreateAccount(context.Context, string, string, string) (*domain.Account, error) {
	if f.accountErr != nil {
		return nil, f.accountErr
	}
	return f.account, nil
}

func (f *fakeProvider) CreateSession(context.Context, string, string) (*domain.Session, error) {
	if f.sessionErr != nil {
		return nil, f.sessionErr
	}
	return f.session, nil
}

func (f *fakeProvider) Credentials(s *domain.Session) domain.Credentials {
	if s == nil || s.Secret == "" {
		return ""
	}
	return domain.Credentials("session=" + s.Secret)
}

func (f *fakeProvider) CurrentAccount(context.Context, domain.Credentials) (*domain.Account, error) {
	if f.currentErr != nil {
		return nil, f.currentErr
	}
	return f.current, nil
}

func (f *fakeProvider) GetSession(context.Context, domain.Credentials, string) (*domain.Session, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.currentSession == nil {
		return nil, domain.ErrSessionNotFound
	}
	return f.currentSession, nil
}

func (f *fakeProvider) DeleteSession(context.Context, domain.Credentials, string) error {
	return f.deleteErr
}

// fakeProfiles implements domain.ProfileStore; every account already has a
// profile unless configured otherwise.
type fakeProfiles struct {
	lookupErr error
	createErr error
}

func (f *fakeProfiles) ProfileByUser(_ context.Context, userID string) (*domain.Profile, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	return &domain.Profile{ID: "doc-1", UserID: userID}, nil
}

func (f *fakeProfiles) CreateProfile(_ context.Context, p domain.Profile) (*domain.Profile, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &p, nil
}

// fakeSnapshots is an in-memory domain.SnapshotStore. The session cache
// persists asynchronously, so access is serialized.
type fakeSnapshots struct {
	mu       sync.Mutex
	snapshot *domain.Snapshot
}

func (f *fakeSnapshots) Load(context.Context) (*domain.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.snapshot == nil {
		return nil, domain.ErrSnapshotNotFound
	}
	return f.snapshot, nil
}

func (f *fakeSnapshots) Save(_ context.Context, s *domain.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshot = s
	return nil
}

func (f *fakeSnapshots) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshot = nil
	return nil
}

func newTestAuthState(provider *fakeProvider) *usecase.AuthState {
	login := usecase.NewLoginUser(provider, &fakeProfiles{}, slog.Default())
	return usecase.NewAuthState(provider, &fakeSnapshots{}, login, slog.Default())
}

func newTestIssuer() *token.JWTIssuer {
	return token.NewJWTIssuer(token.JWTConfig{
		Secret:   "test-secret-at-least-32-bytes-long!!",
		Issuer:   "answer-hub",
		Audience: "answer-hub-app",
		TTL:      5 * time.Minute,
	})
}
