package venues

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Togather-Foundation/venues/internal/domain/ids"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/Togather-Foundation/venues/internal/domain/venues"

// Service is the consistency engine over the venue and event tables.
//
// The tables have no joins and no cross-record transactions of their own, so
// the service serializes every mutating operation behind a single lock and
// holds it for the whole read-validate-write sequence. Reads share the lock
// and never observe a half-applied operation from this process.
//
// Multi-record operations always write the event record first and the venue
// record second. The venue's event list is the commit point: re-driving an
// operation that stopped between the two writes converges on the intended
// end state instead of reporting a spurious conflict.
type Service struct {
	repo      Repository
	mu        sync.RWMutex
	now       func() time.Time
	newID     func() (string, error)
	logger    zerolog.Logger
	observe   func(op string, err error)
	validator *validator.Validate
	tracer    trace.Tracer
}

type Option func(*Service)

// WithClock overrides the timestamp source (defaults to time.Now in UTC).
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides how venue and event ids are minted.
func WithIDGenerator(fn func() (string, error)) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = logger.With().Str("component", "venues").Logger()
	}
}

// WithObserver registers a callback invoked once per operation with the
// operation name and its outcome.
func WithObserver(fn func(op string, err error)) Option {
	return func(s *Service) {
		s.observe = fn
	}
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     ids.NewULID,
		logger:    zerolog.Nop(),
		validator: newValidator(),
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// write runs fn under the exclusive lock inside a repository transaction.
// Cancellation is honoured only until the lock is held: once the first write
// may have happened, the sequence runs to completion so a caller going away
// cannot leave an event and its venue disagreeing.
func (s *Service) write(ctx context.Context, op string, fn func(context.Context, Repository) error) (err error) {
	ctx, span := s.tracer.Start(ctx, "venues."+op)
	defer func() { s.finish(span, op, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return storageError(op, err)
	}
	if err := s.repo.WithTx(context.WithoutCancel(ctx), fn); err != nil {
		if isEngineError(err) {
			return err
		}
		return storageError(op, err)
	}
	return nil
}

// read runs fn under the shared lock.
func (s *Service) read(ctx context.Context, op string, fn func(context.Context, Repository) error) (err error) {
	ctx, span := s.tracer.Start(ctx, "venues."+op)
	defer func() { s.finish(span, op, err) }()

	s.mu.RLock()
	defer s.mu.RUnlock()

	return fn(ctx, s.repo)
}

func (s *Service) finish(span trace.Span, op string, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, ErrInternal) {
			s.logger.Error().Err(err).Str("op", op).Msg("operation failed")
		}
	}
	span.End()
	if s.observe != nil {
		s.observe(op, err)
	}
}

func (s *Service) timestamp() *time.Time {
	now := s.now()
	return &now
}

func isEngineError(err error) bool {
	var engineErr *Error
	var validationErr ValidationError
	return errors.As(err, &engineErr) || errors.As(err, &validationErr)
}

func spanAttrs(ctx context.Context, kv ...attribute.KeyValue) {
	trace.SpanFromContext(ctx).SetAttributes(kv...)
}

func loadVenue(ctx context.Context, repo Repository, id string) (Venue, error) {
	venue, ok, err := repo.Venues().Get(ctx, id)
	if err != nil {
		return Venue{}, storageError("load venue", err)
	}
	if !ok {
		return Venue{}, ErrVenueNotFound.with("venue with id=%s does not exist", id)
	}
	return venue, nil
}

func loadEvent(ctx context.Context, repo Repository, id string) (Event, error) {
	event, ok, err := repo.Events().Get(ctx, id)
	if err != nil {
		return Event{}, storageError("load event", err)
	}
	if !ok {
		return Event{}, ErrEventNotFound.with("event with id=%s does not exist", id)
	}
	return event, nil
}

func saveVenue(ctx context.Context, repo Repository, venue Venue) (Venue, error) {
	stored, err := repo.Venues().Insert(ctx, venue.ID, venue)
	if err != nil {
		return Venue{}, storageError("save venue", err)
	}
	return stored, nil
}

func saveEvent(ctx context.Context, repo Repository, event Event) (Event, error) {
	stored, err := repo.Events().Insert(ctx, event.ID, event)
	if err != nil {
		return Event{}, storageError("save event", err)
	}
	return stored, nil
}
