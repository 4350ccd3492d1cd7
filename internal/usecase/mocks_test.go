package usecase

import (
	"context"
	"sync"

	"answer-hub/internal/domain"
)

// mockProvider implements domain.IdentityProvider for testing.
type mockProvider struct {
	mu sync.Mutex

	account    *domain.Account
	accountErr error

	session    *domain.Session
	sessionErr error

	current    *domain.Account
	currentErr error

	currentSession *domain.Session
	getErr         error

	deleteErr error

	createAccountCalls int
	createSessionCalls int
	currentCalls       int
	getCalls           int
	deleteCalls        int
	deletedIDs         []string
	lastCreds          domain.Credentials
}

func (m *mockProvider) CreateAccount(_ context.Context, _, _, _ string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createAccountCalls++
	if m.accountErr != nil {
		return nil, m.accountErr
	}
	return m.account, nil
}

func (m *mockProvider) CreateSession(_ context.Context, _, _ string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createSessionCalls++
	if m.sessionErr != nil {
		return nil, m.sessionErr
	}
	return m.session, nil
}

func (m *mockProvider) Credentials(s *domain.Session) domain.Credentials {
	if s == nil || s.Secret == "" {
		return ""
	}
	return domain.Credentials("session=" + s.Secret)
}

func (m *mockProvider) CurrentAccount(_ context.Context, creds domain.Credentials) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentCalls++
	m.lastCreds = creds
	if m.currentErr != nil {
		return nil, m.currentErr
	}
	return m.current, nil
}

func (m *mockProvider) GetSession(_ context.Context, creds domain.Credentials, _ string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	m.lastCreds = creds
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.currentSession == nil {
		return nil, domain.ErrSessionNotFound
	}
	// Hand out a copy so tests can mutate the template safely.
	s := *m.currentSession
	return &s, nil
}

func (m *mockProvider) DeleteSession(_ context.Context, _ domain.Credentials, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteCalls++
	m.deletedIDs = append(m.deletedIDs, id)
	return m.deleteErr
}

// mockProfiles implements domain.ProfileStore for testing.
type mockProfiles struct {
	mu sync.Mutex

	profile   *domain.Profile
	lookupErr error
	createErr error

	lookupCalls int
	created     []domain.Profile
}

func (m *mockProfiles) ProfileByUser(_ context.Context, _ string) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookupCalls++
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	return m.profile, nil
}

func (m *mockProfiles) CreateProfile(_ context.Context, p domain.Profile) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.created = append(m.created, p)
	return &p, nil
}

// mockSnapshots implements domain.SnapshotStore for testing. Mutations are
// counted under a mutex because the session cache persists asynchronously.
type mockSnapshots struct {
	mu sync.Mutex

	snapshot *domain.Snapshot
	loadErr  error
	saveErr  error

	saveCalls  int
	clearCalls int
	lastSaved  *domain.Snapshot
}

func (m *mockSnapshots) Load(_ context.Context) (*domain.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.snapshot == nil {
		return nil, domain.ErrSnapshotNotFound
	}
	return m.snapshot, nil
}

func (m *mockSnapshots) Save(_ context.Context, s *domain.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saveCalls++
	m.lastSaved = s
	return nil
}

func (m *mockSnapshots) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearCalls++
	return nil
}

func (m *mockSnapshots) saved() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveCalls
}

func (m *mockSnapshots) cleared() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clearCalls
}

// mockState implements SessionState for testing the registration saga.
type mockState struct {
	account    *domain.Account
	session    *domain.Session
	applyCalls int
	clearCalls int
}

func (m *mockState) Apply(account *domain.Account, session *domain.Session) {
	m.applyCalls++
	m.account = account
	m.session = session
}

func (m *mockState) Clear() {
	m.clearCalls++
	m.account = nil
	m.session = nil
}
