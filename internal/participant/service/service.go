package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"golfbot/internal/participant/events"
	participantmetrics "golfbot/internal/participant/metrics"
	"golfbot/internal/participant/models"
	"golfbot/internal/sentinel"
	id "golfbot/pkg/domain"
	dErrors "golfbot/pkg/domain-errors"
)

// Store is the document store the service adapts.
type Store interface {
	Create(ctx context.Context, p *models.Participant) error
	FindAll(ctx context.Context) ([]*models.Participant, error)
	FindByID(ctx context.Context, participantID id.ParticipantID) (*models.Participant, error)
	UpdateByID(ctx context.Context, participantID id.ParticipantID, patch models.Patch) (*models.Participant, error)
	DeleteByID(ctx context.Context, participantID id.ParticipantID) error
	Ping(ctx context.Context) error
}

// EventPublisher receives participant changes after they are stored.
// Implementations must not block the request path.
type EventPublisher interface {
	ParticipantCreated(ctx context.Context, p *models.Participant)
	ParticipantUpdated(ctx context.Context, p *models.Participant)
	ParticipantDeleted(ctx context.Context, participantID id.ParticipantID)
}

// Service adapts a participant Store. It parses identifiers before touching
// the store and surfaces only two typed failures: a malformed identifier
// (CodeInvalidInput) and a missing record (CodeNotFound). Every other store
// failure becomes CodeInternal.
type Service struct {
	store     Store
	logger    *slog.Logger
	metrics   *participantmetrics.Metrics
	publisher EventPublisher
	tracer    trace.Tracer
}

func New(store Store, opts ...Option) *Service {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.publisher == nil {
		cfg.publisher = events.Noop{}
	}
	if cfg.tracer == nil {
		cfg.tracer = otel.Tracer("golfbot/participant")
	}
	return &Service{
		store:     store,
		logger:    cfg.logger,
		metrics:   cfg.metrics,
		publisher: cfg.publisher,
		tracer:    cfg.tracer,
	}
}

// Create stores a new participant with the given name and no scores.
func (s *Service) Create(ctx context.Context, name string) (p *models.Participant, err error) {
	ctx, span := s.tracer.Start(ctx, "participant.create")
	defer func() { endSpan(span, err) }()

	p, err = models.NewParticipant(name)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	err = s.store.Create(ctx, p)
	s.observe("create", start)
	if err != nil {
		return nil, s.storeErr(ctx, err, "failed to create participant")
	}

	span.SetAttributes(attribute.String("participant.id", p.ID.String()))
	if s.metrics != nil {
		s.metrics.IncrementCreated()
	}
	s.publisher.ParticipantCreated(ctx, p)
	return p, nil
}

// List returns every participant in insertion order, never nil.
func (s *Service) List(ctx context.Context) (participants []*models.Participant, err error) {
	ctx, span := s.tracer.Start(ctx, "participant.list")
	defer func() { endSpan(span, err) }()

	start := time.Now()
	participants, err = s.store.FindAll(ctx)
	s.observe("find_all", start)
	if err != nil {
		return nil, s.storeErr(ctx, err, "failed to list participants")
	}
	if participants == nil {
		participants = []*models.Participant{}
	}
	span.SetAttributes(attribute.Int("participant.count", len(participants)))
	return participants, nil
}

// Get returns the participant with the given raw identifier.
func (s *Service) Get(ctx context.Context, rawID string) (p *models.Participant, err error) {
	ctx, span := s.tracer.Start(ctx, "participant.get")
	defer func() { endSpan(span, err) }()

	participantID, err := id.ParseParticipantID(rawID)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("participant.id", participantID.String()))

	start := time.Now()
	p, err = s.store.FindByID(ctx, participantID)
	s.observe("find_by_id", start)
	if err != nil {
		return nil, s.storeErr(ctx, err, "failed to load participant")
	}
	return p, nil
}

// Update merges patch into the stored participant and returns the result.
func (s *Service) Update(ctx context.Context, rawID string, patch models.Patch) (p *models.Participant, err error) {
	ctx, span := s.tracer.Start(ctx, "participant.update")
	defer func() { endSpan(span, err) }()

	participantID, err := id.ParseParticipantID(rawID)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.String("participant.id", participantID.String()),
		attribute.Bool("patch.name", patch.Name != nil),
		attribute.Bool("patch.scores", patch.Scores != nil),
	)

	start := time.Now()
	p, err = s.store.UpdateByID(ctx, participantID, patch)
	s.observe("update_by_id", start)
	if err != nil {
		return nil, s.storeErr(ctx, err, "failed to update participant")
	}

	if s.metrics != nil {
		s.metrics.IncrementUpdated()
	}
	s.publisher.ParticipantUpdated(ctx, p)
	return p, nil
}

// Delete removes the participant. Deleting an absent participant succeeds.
func (s *Service) Delete(ctx context.Context, rawID string) (err error) {
	ctx, span := s.tracer.Start(ctx, "participant.delete")
	defer func() { endSpan(span, err) }()

	participantID, err := id.ParseParticipantID(rawID)
	if err != nil {
		return err
	}
	span.SetAttributes(attribute.String("participant.id", participantID.String()))

	start := time.Now()
	err = s.store.DeleteByID(ctx, participantID)
	s.observe("delete_by_id", start)
	if err != nil {
		return s.storeErr(ctx, err, "failed to delete participant")
	}

	if s.metrics != nil {
		s.metrics.IncrementDeleted()
	}
	s.publisher.ParticipantDeleted(ctx, participantID)
	return nil
}

// Ping reports whether the backing store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *Service) observe(operation string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveStore(operation, start)
	}
}

// storeErr translates a store failure into a domain error. Outages and
// exhausted write retries are also logged at warn.
func (s *Service) storeErr(ctx context.Context, err error, action string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "Not Found")
	case errors.Is(err, sentinel.ErrUnavailable):
		s.warn(ctx, "participant store unavailable", action, err)
	case errors.Is(err, sentinel.ErrConflict):
		s.warn(ctx, "participant write contention", action, err)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, action)
}

func (s *Service) warn(ctx context.Context, msg, action string, err error) {
	if s.logger == nil {
		return
	}
	s.logger.WarnContext(ctx, msg, "action", action, "error", err)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			span.SetStatus(codes.Error, err.Error())
		}
	}
	span.End()
}
