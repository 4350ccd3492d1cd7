package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"answer-hub/internal/domain"

	"github.com/redis/go-redis/v9"
)

// snapshotFormatVersion is bumped whenever the persisted shape changes.
// Blobs with an unknown version are rejected as corrupt rather than guessed
// at.
const snapshotFormatVersion = 1

// DefaultSnapshotKey is the single named blob under which the session cache
// snapshot lives.
const DefaultSnapshotKey = "auth-storage"

// persistedAccount whitelists the account fields that survive a restart.
type persistedAccount struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// persistedSession whitelists the session fields that survive a restart.
type persistedSession struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Provider  string    `json:"provider"`
	Secret    string    `json:"secret,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// persistedSnapshot is the versioned envelope written to the store. It
// deliberately carries only account and session; loading/hydration flags are
// in-memory state and must never be persisted.
type persistedSnapshot struct {
	Version int               `json:"v"`
	Account *persistedAccount `json:"account"`
	Session *persistedSession `json:"session"`
}

// encodeSnapshot serializes the whitelisted fields.
func encodeSnapshot(s *domain.Snapshot) ([]byte, error) {
	env := persistedSnapshot{Version: snapshotFormatVersion}
	if s.Account != nil {
		env.Account = &persistedAccount{
			ID:        s.Account.ID,
			Email:     s.Account.Email,
			Name:      s.Account.Name,
			CreatedAt: s.Account.CreatedAt,
		}
	}
	if s.Session != nil {
		env.Session = &persistedSession{
			ID:        s.Session.ID,
			UserID:    s.Session.UserID,
			Provider:  s.Session.Provider,
			Secret:    s.Session.Secret,
			CreatedAt: s.Session.CreatedAt,
			ExpiresAt: s.Session.ExpiresAt,
		}
	}
	return json.Marshal(env)
}

// decodeSnapshot parses and version-checks a persisted blob.
func decodeSnapshot(data []byte) (*domain.Snapshot, error) {
	var env persistedSnapshot
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSnapshotCorrupt, err)
	}
	if env.Version != snapshotFormatVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", domain.ErrSnapshotCorrupt, env.Version)
	}

	snap := &domain.Snapshot{}
	if env.Account != nil {
		snap.Account = &domain.Account{
			ID:        env.Account.ID,
			Email:     env.Account.Email,
			Name:      env.Account.Name,
			CreatedAt: env.Account.CreatedAt,
		}
	}
	if env.Session != nil {
		snap.Session = &domain.Session{
			ID:        env.Session.ID,
			UserID:    env.Session.UserID,
			Provider:  env.Session.Provider,
			Secret:    env.Session.Secret,
			CreatedAt: env.Session.CreatedAt,
			ExpiresAt: env.Session.ExpiresAt,
		}
	}
	return snap, nil
}

// SnapshotStore persists the session cache snapshot in Redis under a single
// named key. Implements domain.SnapshotStore.
type SnapshotStore struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

// NewSnapshotStore creates a Redis-backed snapshot store. A zero ttl keeps
// the blob until explicitly cleared.
func NewSnapshotStore(rdb *redis.Client, key string, ttl time.Duration) *SnapshotStore {
	if key == "" {
		key = DefaultSnapshotKey
	}
	return &SnapshotStore{rdb: rdb, key: key, ttl: ttl}
}

// Load returns the persisted snapshot, or domain.ErrSnapshotNotFound.
func (s *SnapshotStore) Load(ctx context.Context) (*domain.Snapshot, error) {
	data, err := s.rdb.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return decodeSnapshot(data)
}

// Save persists the snapshot, replacing any previous one.
func (s *SnapshotStore) Save(ctx context.Context, snap *domain.Snapshot) error {
	data, err := encodeSnapshot(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.rdb.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Clear removes the persisted snapshot; clearing an absent one is a no-op.
func (s *SnapshotStore) Clear(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}
	return nil
}
