package sessionstore

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/celestial-scale/internal/domain/weighin"
)

func TestMemoryStoreSaveAndGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)

	carousel, err := weighin.Carousel{}.Load([]weighin.DerivedResult{{BodyID: "Earth", RelativeWeight: 70}})
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, weighin.Session{ID: "s1", Name: "Ana", Carousel: carousel}, time.Minute))

	got, ok, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Ana", got.Name)
	require.Equal(t, 1, got.Carousel.Len())
	require.Equal(t, 1, store.Len())
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, weighin.Session{ID: "short"}, time.Minute))
	require.NoError(t, store.Save(ctx, weighin.Session{ID: "forever"}, 0))

	now = now.Add(2 * time.Minute)
	_, ok, err := store.Get(ctx, "short")
	require.NoError(t, err)
	require.False(t, ok)

	_, ok, err = store.Get(ctx, "forever")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, store.Len())
}

func TestSessionSurvivesJSONEncoding(t *testing.T) {
	carousel, err := weighin.Carousel{}.Load([]weighin.DerivedResult{
		{BodyID: "Earth", RelativeWeight: 70, RelativeAge: weighin.Applicable(30)},
		{BodyID: "Moon", RelativeWeight: 11.55, RelativeAge: weighin.NotApplicable},
	})
	require.NoError(t, err)
	session := weighin.Session{ID: "s1", Name: "Ana", Carousel: carousel.Next(), Visible: true}

	payload, err := json.Marshal(session)
	require.NoError(t, err)
	var decoded weighin.Session
	require.NoError(t, json.Unmarshal(payload, &decoded))

	require.Equal(t, 1, decoded.Carousel.Index())
	cur, err := decoded.Carousel.Current()
	require.NoError(t, err)
	require.Equal(t, "Moon", cur.BodyID)
	require.Equal(t, weighin.NotApplicable, cur.RelativeAge)
	require.Equal(t, NewValkeyStore(nil, "").sessionKey("s1"), "celestial:session:s1")
}
