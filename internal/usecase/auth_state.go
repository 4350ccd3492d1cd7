package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"answer-hub/internal/domain"
)

// AuthState is the application's current belief about who is logged in. It is
// constructed once at startup and passed by reference into consumers; there is
// no package-level instance. A locally held session is only a snapshot: it is
// revalidated with the provider before any security-sensitive use.
//
// Only account and session survive a restart (through the snapshot store);
// the loading and hydration flags always reset to their initial values.
type AuthState struct {
	mu        sync.Mutex
	provider  domain.IdentityProvider
	snapshots domain.SnapshotStore
	login     *LoginUser
	logger    *slog.Logger

	persistTimeout time.Duration

	account    *domain.Account
	session    *domain.Session
	isLoading  bool
	isHydrated bool
}

// NewAuthState creates the session cache. snapshots may not be nil; use an
// in-memory store when persistence is not wanted.
func NewAuthState(p domain.IdentityProvider, snapshots domain.SnapshotStore, login *LoginUser, l *slog.Logger) *AuthState {
	return &AuthState{
		provider:       p,
		snapshots:      snapshots,
		login:          login,
		logger:         l,
		persistTimeout: 3 * time.Second,
	}
}

// Restore loads the persisted snapshot. Account and session are adopted as-is
// while isLoading and isHydrated keep their initial values, so a fresh
// hydration pass is never blocked by stale flags.
func (a *AuthState) Restore(ctx context.Context) {
	snap, err := a.snapshots.Load(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrSnapshotNotFound) {
			a.logger.WarnContext(ctx, "snapshot restore failed", "error", err)
		}
		return
	}

	a.mu.Lock()
	a.account = snap.Account
	a.session = snap.Session
	a.mu.Unlock()
}

// Hydrate populates the cache from the identity provider. It is skipped when
// the cache is already hydrated or a session is present. Both outcomes mark
// the cache hydrated; failure clears account and session with no retry.
// Deduplication of concurrent calls is the caller's responsibility.
func (a *AuthState) Hydrate(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.isHydrated || a.session != nil {
		return
	}

	a.isLoading = true
	defer func() {
		a.isLoading = false
		a.isHydrated = true
	}()

	account, session, ok := a.fetchLocked(ctx)
	if !ok {
		a.clearLocked(ctx)
		return
	}

	a.adoptLocked(ctx, account, session)
}

// VerifySession unconditionally re-queries the identity provider. On success
// the cached snapshot is refreshed; on any failure it is cleared immediately.
// Reports whether the session is valid.
func (a *AuthState) VerifySession(ctx context.Context) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	account, session, ok := a.fetchLocked(ctx)
	if !ok {
		a.clearLocked(ctx)
		return false
	}

	a.adoptLocked(ctx, account, session)
	return true
}

// Login authenticates and adopts the resulting account and session.
func (a *AuthState) Login(ctx context.Context, email, password string) Result {
	a.mu.Lock()
	a.isLoading = true
	a.mu.Unlock()

	outcome := a.login.Execute(ctx, email, password)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.isLoading = false

	if outcome.Result.Success {
		a.adoptLocked(ctx, outcome.Account, outcome.Session)
		a.isHydrated = true
	}
	return outcome.Result
}

// Logout revokes the provider session and clears the cache. Local state is
// cleared regardless of the provider's response: logout must not be held
// hostage to provider availability.
func (a *AuthState) Logout(ctx context.Context) Result {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.session != nil {
		creds := a.provider.Credentials(a.session)
		if err := a.provider.DeleteSession(ctx, creds, a.session.ID); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
			a.logger.WarnContext(ctx, "provider session delete failed during logout", "error", err)
		}
	}

	a.clearLocked(ctx)
	a.isHydrated = true
	return Result{Success: true, Message: MsgLoggedOut}
}

// Apply adopts an externally established identity (the registration saga's
// auto-login) and marks the cache hydrated.
func (a *AuthState) Apply(account *domain.Account, session *domain.Session) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.adoptLocked(context.Background(), account, session)
	a.isHydrated = true
}

// Clear drops account and session, forcing the anonymous state.
func (a *AuthState) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.clearLocked(context.Background())
}

// Current returns the cached account and session snapshot.
func (a *AuthState) Current() (*domain.Account, *domain.Session) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.account, a.session
}

// IsHydrated reports whether a hydration pass has completed.
func (a *AuthState) IsHydrated() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.isHydrated
}

// IsLoading reports whether an auth operation is in flight.
func (a *AuthState) IsLoading() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.isLoading
}

// Credentials derives the ambient credentials of the cached session, empty
// when anonymous.
func (a *AuthState) Credentials() domain.Credentials {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return ""
	}
	return a.provider.Credentials(a.session)
}

// fetchLocked queries account and current session with the cached
// credentials. Callers hold the mutex.
func (a *AuthState) fetchLocked(ctx context.Context) (*domain.Account, *domain.Session, bool) {
	var creds domain.Credentials
	if a.session != nil {
		creds = a.provider.Credentials(a.session)
	}

	account, err := a.provider.CurrentAccount(ctx, creds)
	if err != nil {
		a.logger.DebugContext(ctx, "current account fetch failed", "error", err)
		return nil, nil, false
	}

	session, err := a.provider.GetSession(ctx, creds, domain.CurrentSessionID)
	if err != nil {
		a.logger.DebugContext(ctx, "current session fetch failed", "error", err)
		return nil, nil, false
	}

	// The provider only hands out the secret at session creation; keep the
	// one we already hold so credentials stay derivable.
	if session.Secret == "" && a.session != nil {
		session.Secret = a.session.Secret
	}

	return account, session, true
}

func (a *AuthState) adoptLocked(ctx context.Context, account *domain.Account, session *domain.Session) {
	a.account = account
	a.session = session
	a.persist(ctx, &domain.Snapshot{Account: account, Session: session})
}

func (a *AuthState) clearLocked(ctx context.Context) {
	a.account = nil
	a.session = nil
	a.persist(ctx, nil)
}

// persist writes the snapshot asynchronously and best-effort; a failed write
// never fails the state mutation it trails.
func (a *AuthState) persist(_ context.Context, snap *domain.Snapshot) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), a.persistTimeout)
		defer cancel()

		var err error
		if snap == nil {
			err = a.snapshots.Clear(ctx)
		} else {
			err = a.snapshots.Save(ctx, snap)
		}
		if err != nil {
			a.logger.Warn("snapshot persist failed", "error", err)
		}
	}()
}
