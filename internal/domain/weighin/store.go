package weighin

import (
	"context"
	"time"
)

// SessionStore keeps per-visitor carousel state between requests.
type SessionStore interface {
	Get(ctx context.Context, id string) (Session, bool, error)
	Save(ctx context.Context, session Session, ttl time.Duration) error
}
