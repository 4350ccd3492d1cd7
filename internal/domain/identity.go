package domain

import "time"

// Account represents a user account owned by the external identity provider.
// It is created once at registration and never mutated here.
type Account struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Session is a provider-issued proof of authentication. Secret is the raw
// session secret from which ambient credentials are derived. A local copy of a
// Session is a snapshot, never proof of validity; only the provider is
// authoritative.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Provider  string    `json:"provider"`
	Secret    string    `json:"secret,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Credentials is an ambient credential set forwarded to the identity provider,
// encoded as an HTTP cookie header value. It is untrusted client input until
// the provider has verified it.
type Credentials string

// Profile holds application-specific user data keyed by account ID. Exactly
// one profile exists per account; uniqueness is enforced by the profile
// store's index on userId, not by this module.
type Profile struct {
	ID             string `json:"id"`
	UserID         string `json:"userId"`
	Reputation     int    `json:"reputation"`
	Bio            string `json:"bio,omitempty"`
	AvatarID       string `json:"avatarId,omitempty"`
	QuestionsAsked int    `json:"questionsAsked"`
	AnswersGiven   int    `json:"answersGiven"`
}

// NewDefaultProfile returns the profile created for a fresh account:
// zero reputation, zero activity counts, no bio or avatar.
func NewDefaultProfile(userID string) Profile {
	return Profile{
		UserID:         userID,
		Reputation:     0,
		QuestionsAsked: 0,
		AnswersGiven:   0,
	}
}

// Snapshot is the client session cache state that survives a restart.
// It intentionally carries only account and session; loading and hydration
// flags are always reset on load.
type Snapshot struct {
	Account *Account
	Session *Session
}
