package sessionstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/celestial-scale/internal/domain/weighin"
)

// ValkeyStore persists sessions in a Valkey-compatible database so several
// replicas can serve the same visitor.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "celestial"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

// Get implements weighin.SessionStore.
func (s *ValkeyStore) Get(ctx context.Context, id string) (weighin.Session, bool, error) {
	if id == "" {
		return weighin.Session{}, false, nil
	}
	cmd := s.client.B().Get().Key(s.sessionKey(id)).Build()
	payload, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return weighin.Session{}, false, nil
		}
		return weighin.Session{}, false, err
	}
	var session weighin.Session
	if err := json.Unmarshal([]byte(payload), &session); err != nil {
		return weighin.Session{}, false, fmt.Errorf("decode session %s: %w", id, err)
	}
	return session, true, nil
}

// Save implements weighin.SessionStore.
func (s *ValkeyStore) Save(ctx context.Context, session weighin.Session, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	builder := s.client.B().Set().Key(s.sessionKey(session.ID)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) sessionKey(id string) string {
	return fmt.Sprintf("%s:session:%s", s.prefix, id)
}

var _ weighin.SessionStore = (*ValkeyStore)(nil)
