package weighin

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/yanqian/celestial-scale/internal/domain/bodies"
	apperrors "github.com/yanqian/celestial-scale/pkg/errors"
)

// Service binds derivation and carousel navigation to visitor sessions.
type Service interface {
	Preview(ctx context.Context, req SubmitRequest) (Preview, error)
	Submit(ctx context.Context, sessionID string, req SubmitRequest) (View, error)
	Current(ctx context.Context, sessionID string) (View, error)
	Next(ctx context.Context, sessionID string) (View, error)
	Previous(ctx context.Context, sessionID string) (View, error)
	Close(ctx context.Context, sessionID string) (View, error)
}

type service struct {
	cfg     Config
	catalog *bodies.Catalog
	store   SessionStore
	logger  *slog.Logger
	now     func() time.Time
}

// NewService wires up the weigh-in domain.
func NewService(cfg Config, catalog *bodies.Catalog, store SessionStore, logger *slog.Logger) Service {
	return &service{
		cfg:     cfg,
		catalog: catalog,
		store:   store,
		logger:  logger.With("component", "weighin.service"),
		now:     time.Now,
	}
}

func (s *service) Preview(_ context.Context, req SubmitRequest) (Preview, error) {
	input, err := ParseInput(req.Name, string(req.Age), string(req.Weight))
	if err != nil {
		return Preview{}, apperrors.Wrap(apperrors.CodeInvalidInput, "invalid weigh-in", err)
	}
	results, err := DeriveChecked(input, s.catalog)
	if err != nil {
		return Preview{}, apperrors.Wrap(apperrors.CodeInvalidInput, "invalid weigh-in", err)
	}
	slides := make([]Slide, 0, len(results))
	for _, res := range results {
		slide, err := s.slideFor(res)
		if err != nil {
			return Preview{}, err
		}
		slides = append(slides, slide)
	}
	return Preview{Name: input.Name, Slides: slides}, nil
}

func (s *service) Submit(ctx context.Context, sessionID string, req SubmitRequest) (View, error) {
	if err := requireSession(sessionID); err != nil {
		return View{}, err
	}
	input, err := ParseInput(req.Name, string(req.Age), string(req.Weight))
	if err != nil {
		return View{}, apperrors.Wrap(apperrors.CodeInvalidInput, "invalid weigh-in", err)
	}

	results, err := DeriveChecked(input, s.catalog)
	if err != nil {
		return View{}, apperrors.Wrap(apperrors.CodeInvalidInput, "invalid weigh-in", err)
	}

	session, err := s.load(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	carousel, err := session.Carousel.Load(results)
	if err != nil {
		return View{}, apperrors.Wrap(apperrors.CodeInvariant, "derivation produced no results", err)
	}
	session.Name = input.Name
	session.Carousel = carousel
	session.Visible = true
	if err := s.save(ctx, session); err != nil {
		return View{}, err
	}
	s.logger.Info("weigh-in submitted", "session", sessionID, "slides", carousel.Len())
	return s.viewOf(session)
}

func (s *service) Current(ctx context.Context, sessionID string) (View, error) {
	if err := requireSession(sessionID); err != nil {
		return View{}, err
	}
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	return s.viewOf(session)
}

func (s *service) Next(ctx context.Context, sessionID string) (View, error) {
	return s.navigate(ctx, sessionID, Carousel.Next)
}

func (s *service) Previous(ctx context.Context, sessionID string) (View, error) {
	return s.navigate(ctx, sessionID, Carousel.Previous)
}

func (s *service) Close(ctx context.Context, sessionID string) (View, error) {
	if err := requireSession(sessionID); err != nil {
		return View{}, err
	}
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	if session.Carousel.Empty() {
		return View{}, nil
	}
	session.Visible = false
	if err := s.save(ctx, session); err != nil {
		return View{}, err
	}
	return s.viewOf(session)
}

func (s *service) navigate(ctx context.Context, sessionID string, step func(Carousel) Carousel) (View, error) {
	if err := requireSession(sessionID); err != nil {
		return View{}, err
	}
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	if session.Carousel.Empty() {
		return View{}, noResults()
	}
	session.Carousel = step(session.Carousel)
	session.Visible = true
	if err := s.save(ctx, session); err != nil {
		return View{}, err
	}
	return s.viewOf(session)
}

func (s *service) load(ctx context.Context, sessionID string) (Session, error) {
	session, ok, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return Session{}, apperrors.Wrap(apperrors.CodeSessionFailure, "failed to load session", err)
	}
	if !ok {
		return Session{ID: sessionID}, nil
	}
	session.ID = sessionID
	return session, nil
}

func (s *service) save(ctx context.Context, session Session) error {
	session.UpdatedAt = s.now().UTC()
	if err := s.store.Save(ctx, session, s.cfg.SessionTTL); err != nil {
		return apperrors.Wrap(apperrors.CodeSessionFailure, "failed to save session", err)
	}
	return nil
}

func (s *service) viewOf(session Session) (View, error) {
	current, err := session.Carousel.Current()
	if err != nil {
		return View{}, noResults()
	}
	slide, err := s.slideFor(current)
	if err != nil {
		return View{}, err
	}
	return View{
		Name:    session.Name,
		Index:   session.Carousel.Index(),
		Total:   session.Carousel.Len(),
		Visible: session.Visible,
		Slide:   &slide,
	}, nil
}

func (s *service) slideFor(res DerivedResult) (Slide, error) {
	body, err := s.catalog.Lookup(res.BodyID)
	if err != nil {
		var nf *bodies.NotFoundError
		if errors.As(err, &nf) {
			return Slide{}, apperrors.Wrap(apperrors.CodeInvariant, "result refers to an unknown body", err)
		}
		return Slide{}, err
	}
	return Slide{Body: body, Result: res}, nil
}

func requireSession(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return apperrors.Wrap(apperrors.CodeSessionFailure, "session id missing", nil)
	}
	return nil
}

func noResults() error {
	return apperrors.Wrap(apperrors.CodeNoResults, "no weigh-in submitted yet", ErrEmptyState)
}
