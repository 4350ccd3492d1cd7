package domain

import "context"

// CurrentSessionID addresses a session by its ambient credentials rather than
// an explicit ID, the provider's alias for "the session these cookies belong
// to".
const CurrentSessionID = "current"

// IdentityProvider is the external system of record for accounts and
// sessions. All methods must honor the context deadline; implementations are
// expected to impose their own bounded timeout as well.
type IdentityProvider interface {
	// CreateAccount registers a new account. Returns ErrAccountExists when
	// the email is already taken.
	CreateAccount(ctx context.Context, email, password, name string) (*Account, error)

	// CreateSession performs an email/password login. The returned session
	// carries the secret needed to derive credentials.
	CreateSession(ctx context.Context, email, password string) (*Session, error)

	// Credentials derives the ambient credential set for a session obtained
	// from CreateSession.
	Credentials(s *Session) Credentials

	// CurrentAccount verifies credentials with the provider and returns the
	// owning account. Any failure means the credentials must be treated as
	// unauthenticated.
	CurrentAccount(ctx context.Context, creds Credentials) (*Account, error)

	// GetSession fetches a session by ID; id may be CurrentSessionID.
	GetSession(ctx context.Context, creds Credentials, id string) (*Session, error)

	// DeleteSession revokes a session; id may be CurrentSessionID.
	DeleteSession(ctx context.Context, creds Credentials, id string) error
}

// ProfileStore is the external document store for user profiles.
type ProfileStore interface {
	// ProfileByUser returns the profile keyed by account ID, or
	// ErrProfileNotFound when none exists.
	ProfileByUser(ctx context.Context, userID string) (*Profile, error)

	// CreateProfile creates a profile document. Returns ErrProfileExists when
	// the store's uniqueness constraint on userId rejects the write.
	CreateProfile(ctx context.Context, p Profile) (*Profile, error)
}

// SnapshotStore persists the client session cache snapshot across restarts.
type SnapshotStore interface {
	// Load returns the persisted snapshot, or ErrSnapshotNotFound.
	Load(ctx context.Context) (*Snapshot, error)

	// Save persists the snapshot, replacing any previous one.
	Save(ctx context.Context, s *Snapshot) error

	// Clear removes the persisted snapshot. Clearing an absent snapshot is
	// not an error.
	Clear(ctx context.Context) error
}

// AssertionIssuer signs identity assertions stamped onto verified requests.
type AssertionIssuer interface {
	IssueAssertion(account *Account, sessionID string) (string, error)
}

// CSRFTokenGenerator generates CSRF tokens from session identifiers.
type CSRFTokenGenerator interface {
	Generate(sessionID string) (string, error)
}
