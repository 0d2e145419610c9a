package weighin

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/celestial-scale/internal/domain/bodies"
	apperrors "github.com/yanqian/celestial-scale/pkg/errors"
)

func TestServiceSubmitLoadsCarousel(t *testing.T) {
	store := newStubStore()
	svc := newServiceUnderTest(store)

	view, err := svc.Submit(context.Background(), "s1", SubmitRequest{Name: " Ana ", Age: "30", Weight: "70"})
	require.NoError(t, err)
	require.Equal(t, "Ana", view.Name)
	require.Equal(t, 0, view.Index)
	require.Equal(t, 5, view.Total)
	require.True(t, view.Visible)
	require.Equal(t, "Mercury", view.Slide.Body.ID)
	require.Equal(t, 26.6, view.Slide.Result.RelativeWeight)

	saved := store.sessions["s1"]
	require.Equal(t, 5, saved.Carousel.Len())
	require.Equal(t, time.Unix(1700000000, 0).UTC(), saved.UpdatedAt)
	require.Equal(t, 30*time.Minute, store.lastTTL)
}

func TestServiceSubmitValidationLeavesStateUntouched(t *testing.T) {
	store := newStubStore()
	svc := newServiceUnderTest(store)
	ctx := context.Background()

	_, err := svc.Submit(ctx, "s1", SubmitRequest{Name: "Ana", Age: "30", Weight: "70"})
	require.NoError(t, err)
	_, err = svc.Next(ctx, "s1")
	require.NoError(t, err)
	saves := store.saves

	_, err = svc.Submit(ctx, "s1", SubmitRequest{Name: "", Age: "0", Weight: "x"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Reasons, 3)

	require.Equal(t, saves, store.saves)
	view, err := svc.Current(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, 1, view.Index)
}

func TestServiceNavigationWraps(t *testing.T) {
	svc := newServiceUnderTest(newStubStore())
	ctx := context.Background()

	_, err := svc.Submit(ctx, "s1", SubmitRequest{Name: "Ana", Age: "30", Weight: "70"})
	require.NoError(t, err)

	view, err := svc.Previous(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, 4, view.Index)
	require.Equal(t, "Sun", view.Slide.Body.ID)

	view, err = svc.Next(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, 0, view.Index)

	_, err = svc.Next(ctx, "s1")
	require.NoError(t, err)
	view, err = svc.Submit(ctx, "s1", SubmitRequest{Name: "Bo", Age: "10", Weight: "50"})
	require.NoError(t, err)
	require.Equal(t, 0, view.Index)
	require.Equal(t, "Bo", view.Name)
}

func TestServiceEmptySession(t *testing.T) {
	svc := newServiceUnderTest(newStubStore())
	ctx := context.Background()

	_, err := svc.Current(ctx, "fresh")
	require.True(t, apperrors.IsCode(err, apperrors.CodeNoResults))
	require.ErrorIs(t, err, ErrEmptyState)

	_, err = svc.Next(ctx, "fresh")
	require.True(t, apperrors.IsCode(err, apperrors.CodeNoResults))

	view, err := svc.Close(ctx, "fresh")
	require.NoError(t, err)
	require.Nil(t, view.Slide)

	_, err = svc.Current(ctx, "")
	require.True(t, apperrors.IsCode(err, apperrors.CodeSessionFailure))
}

func TestServiceCloseKeepsCarousel(t *testing.T) {
	svc := newServiceUnderTest(newStubStore())
	ctx := context.Background()

	_, err := svc.Submit(ctx, "s1", SubmitRequest{Name: "Ana", Age: "30", Weight: "70"})
	require.NoError(t, err)
	_, err = svc.Next(ctx, "s1")
	require.NoError(t, err)

	view, err := svc.Close(ctx, "s1")
	require.NoError(t, err)
	require.False(t, view.Visible)
	require.Equal(t, 1, view.Index)

	view, err = svc.Next(ctx, "s1")
	require.NoError(t, err)
	require.True(t, view.Visible)
	require.Equal(t, 2, view.Index)
}

func TestServicePreviewIsStateless(t *testing.T) {
	store := newStubStore()
	svc := newServiceUnderTest(store)

	preview, err := svc.Preview(context.Background(), SubmitRequest{Name: "Ana", Age: "10", Weight: "70"})
	require.NoError(t, err)
	require.Len(t, preview.Slides, 5)
	require.Equal(t, Applicable(41.48), preview.Slides[0].Result.RelativeAge)
	require.Equal(t, 0, store.saves)

	_, err = svc.Preview(context.Background(), SubmitRequest{Name: "Ana", Age: "200", Weight: "70"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestServiceStoreFailure(t *testing.T) {
	store := newStubStore()
	store.err = errors.New("connection refused")
	svc := newServiceUnderTest(store)

	_, err := svc.Submit(context.Background(), "s1", SubmitRequest{Name: "Ana", Age: "30", Weight: "70"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeSessionFailure))
}

func TestServiceUnknownBodyIsInvariantViolation(t *testing.T) {
	store := newStubStore()
	stale, err := Carousel{}.Load([]DerivedResult{{BodyID: "Vulcan", RelativeWeight: 1}})
	require.NoError(t, err)
	store.sessions["s1"] = Session{ID: "s1", Carousel: stale}
	svc := newServiceUnderTest(store)

	_, err = svc.Current(context.Background(), "s1")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvariant))
	var nf *bodies.NotFoundError
	require.True(t, errors.As(err, &nf))
}

func newServiceUnderTest(store SessionStore) *service {
	return &service{
		cfg:     Config{SessionTTL: 30 * time.Minute},
		catalog: bodies.DefaultCatalog(),
		store:   store,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     func() time.Time { return time.Unix(1700000000, 0) },
	}
}

type stubStore struct {
	mu       sync.Mutex
	sessions map[string]Session
	saves    int
	lastTTL  time.Duration
	err      error
}

func newStubStore() *stubStore {
	return &stubStore{sessions: make(map[string]Session)}
}

func (s *stubStore) Get(_ context.Context, id string) (Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return Session{}, false, s.err
	}
	session, ok := s.sessions[id]
	return session, ok, nil
}

func (s *stubStore) Save(_ context.Context, session Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sessions[session.ID] = session
	s.saves++
	s.lastTTL = ttl
	return nil
}

func TestServiceSubmitRejectsOverflowingWeight(t *testing.T) {
	store := newStubStore()
	svc := newServiceUnderTest(store)
	ctx := context.Background()

	_, err := svc.Submit(ctx, "s1", SubmitRequest{Name: "Ana", Age: "30", Weight: "1e307"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.True(t, verr.Has(FieldWeight))
	require.Zero(t, store.saves)

	_, err = svc.Preview(ctx, SubmitRequest{Name: "Ana", Age: "30", Weight: "1e307"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	view, err := svc.Submit(ctx, "s1", SubmitRequest{Name: "Ana", Age: "30", Weight: "1e305"})
	require.NoError(t, err)
	weight := 1e305
	require.Equal(t, weight*0.38, view.Slide.Result.RelativeWeight)
}
