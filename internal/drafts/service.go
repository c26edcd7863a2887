package drafts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/mergefield/internal/log"
	"github.com/zjrosen/mergefield/internal/revdiff"
	"github.com/zjrosen/mergefield/internal/segment"
	"github.com/zjrosen/mergefield/internal/tracing"
)

// Service is the draft API used by commands and the editor.
type Service struct {
	repo   Repository
	tracer trace.Tracer
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithTracer sets the tracer. The default is the global provider.
func WithTracer(t trace.Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService wraps repo.
func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		tracer: otel.Tracer("github.com/zjrosen/mergefield/internal/drafts"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) start(ctx context.Context, op, name string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, tracing.SpanDraftOp+op,
		trace.WithAttributes(attribute.String(tracing.AttrDraftName, name)))
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// Save stores value as the newest revision of the named draft, creating the
// draft on first save. The value is canonicalized first. Saving a value equal
// to the head returns the head and false.
func (s *Service) Save(ctx context.Context, name, mode, value string) (*Revision, bool, error) {
	ctx, span := s.start(ctx, "save", name)
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, fail(span, errors.New("draft name is required"))
	}
	value = segment.Serialize(segment.Parse(value))
	now := s.now()

	d, err := s.repo.FindByName(ctx, name)
	var nf *NotFoundError
	switch {
	case errors.As(err, &nf):
		d = &Draft{ID: uuid.NewString(), Name: name, Mode: mode, CreatedAt: now, UpdatedAt: now}
		if err := s.repo.Create(ctx, d); err != nil {
			return nil, false, fail(span, fmt.Errorf("creating draft: %w", err))
		}
		log.Info(log.CatDrafts, "draft created", "name", name, "id", d.ID)
	case err != nil:
		return nil, false, fail(span, err)
	}

	if d.Head > 0 && d.Value == value {
		head, err := s.repo.Revision(ctx, d.ID, d.Head)
		if err != nil {
			return nil, false, fail(span, err)
		}
		span.SetAttributes(attribute.Int("draft.revision", head.Number), attribute.Bool("draft.changed", false))
		return head, false, nil
	}

	rev, err := s.repo.AddRevision(ctx, d.ID, value, now)
	if err != nil {
		return nil, false, fail(span, fmt.Errorf("saving revision: %w", err))
	}
	span.SetAttributes(attribute.Int("draft.revision", rev.Number), attribute.Bool("draft.changed", true))
	log.Debug(log.CatDrafts, "revision saved", "name", name, "revision", rev.Number, "length", len(value))
	return rev, true, nil
}

// Get returns the named draft.
func (s *Service) Get(ctx context.Context, name string) (*Draft, error) {
	ctx, span := s.start(ctx, "get", name)
	defer span.End()

	d, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, fail(span, err)
	}
	return d, nil
}

// List returns drafts, most recently updated first.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Draft, error) {
	ctx, span := s.start(ctx, "list", "")
	defer span.End()

	ds, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fail(span, err)
	}
	return ds, nil
}

// History returns every revision of the named draft, oldest first.
func (s *Service) History(ctx context.Context, name string) ([]*Revision, error) {
	ctx, span := s.start(ctx, "history", name)
	defer span.End()

	d, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, fail(span, err)
	}
	revs, err := s.repo.Revisions(ctx, d.ID)
	if err != nil {
		return nil, fail(span, err)
	}
	return revs, nil
}

// Revision returns revision number of the named draft. Number 0 means the
// head; negative numbers count back from it.
func (s *Service) Revision(ctx context.Context, name string, number int) (*Revision, error) {
	ctx, span := s.start(ctx, "revision", name)
	defer span.End()

	d, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, fail(span, err)
	}
	n := number
	if n <= 0 {
		n = d.Head + number
	}
	if n < 1 || n > d.Head {
		return nil, fail(span, &NotFoundError{Name: name, Revision: number})
	}
	rev, err := s.repo.Revision(ctx, d.ID, n)
	if err != nil {
		return nil, fail(span, err)
	}
	return rev, nil
}

// Diff compares two revisions of the named draft.
func (s *Service) Diff(ctx context.Context, name string, from, to int) ([]revdiff.Change, error) {
	a, err := s.Revision(ctx, name, from)
	if err != nil {
		return nil, err
	}
	b, err := s.Revision(ctx, name, to)
	if err != nil {
		return nil, err
	}
	return revdiff.Diff(a.Value, b.Value), nil
}

// Delete removes the named draft.
func (s *Service) Delete(ctx context.Context, name string) error {
	ctx, span := s.start(ctx, "delete", name)
	defer span.End()

	if err := s.repo.Delete(ctx, name); err != nil {
		return fail(span, err)
	}
	log.Info(log.CatDrafts, "draft deleted", "name", name)
	return nil
}

// Close closes the repository.
func (s *Service) Close() error {
	return s.repo.Close()
}
