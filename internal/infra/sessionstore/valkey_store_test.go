package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/valkey-io/valkey-go/mock"
	"go.uber.org/mock/gomock"

	"github.com/yanqian/celestial-scale/internal/domain/weighin"
)

func TestValkeyStoreGetDecodesSession(t *testing.T) {
	ctx := context.Background()
	client := mock.NewClient(gomock.NewController(t))
	store := NewValkeyStore(client, "test")

	carousel, err := weighin.Carousel{}.Load([]weighin.DerivedResult{
		{BodyID: "Earth", RelativeWeight: 70, RelativeAge: weighin.Applicable(30)},
		{BodyID: "Sun", RelativeWeight: 1953, RelativeAge: weighin.NotApplicable},
	})
	require.NoError(t, err)
	payload, err := json.Marshal(weighin.Session{ID: "s1", Name: "Ana", Carousel: carousel.Previous(), Visible: true})
	require.NoError(t, err)

	client.EXPECT().
		Do(ctx, mock.Match("GET", "test:session:s1")).
		Return(mock.Result(mock.ValkeyString(string(payload))))

	got, ok, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Ana", got.Name)
	require.True(t, got.Visible)
	cur, err := got.Carousel.Current()
	require.NoError(t, err)
	require.Equal(t, "Sun", cur.BodyID)
}

func TestValkeyStoreGetMiss(t *testing.T) {
	ctx := context.Background()
	client := mock.NewClient(gomock.NewController(t))
	store := NewValkeyStore(client, "test")

	client.EXPECT().
		Do(ctx, mock.Match("GET", "test:session:gone")).
		Return(mock.Result(mock.ValkeyNil()))

	_, ok, err := store.Get(ctx, "gone")
	require.NoError(t, err)
	require.False(t, ok)

	_, ok, err = store.Get(ctx, "")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestValkeyStoreGetErrors(t *testing.T) {
	ctx := context.Background()
	client := mock.NewClient(gomock.NewController(t))
	store := NewValkeyStore(client, "test")

	client.EXPECT().
		Do(ctx, mock.Match("GET", "test:session:down")).
		Return(mock.ErrorResult(errors.New("connection refused")))
	client.EXPECT().
		Do(ctx, mock.Match("GET", "test:session:corrupt")).
		Return(mock.Result(mock.ValkeyString("{not json")))

	_, _, err := store.Get(ctx, "down")
	require.ErrorContains(t, err, "connection refused")

	_, ok, err := store.Get(ctx, "corrupt")
	require.ErrorContains(t, err, "decode session corrupt")
	require.False(t, ok)
}

func TestValkeyStoreSaveSetsExpiry(t *testing.T) {
	ctx := context.Background()
	client := mock.NewClient(gomock.NewController(t))
	store := NewValkeyStore(client, "")

	session := weighin.Session{ID: "s1", Name: "Ana", UpdatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	payload, err := json.Marshal(session)
	require.NoError(t, err)

	gomock.InOrder(
		client.EXPECT().
			Do(ctx, mock.Match("SET", "celestial:session:s1", string(payload), "EX", "7200")).
			Return(mock.Result(mock.ValkeyString("OK"))),
		client.EXPECT().
			Do(ctx, mock.Match("SET", "celestial:session:s1", string(payload), "EX", "1")).
			Return(mock.Result(mock.ValkeyString("OK"))),
		client.EXPECT().
			Do(ctx, mock.Match("SET", "celestial:session:s1", string(payload))).
			Return(mock.ErrorResult(errors.New("readonly replica"))),
	)

	require.NoError(t, store.Save(ctx, session, 2*time.Hour))
	require.NoError(t, store.Save(ctx, session, 200*time.Millisecond))
	require.ErrorContains(t, store.Save(ctx, session, 0), "readonly replica")
}
