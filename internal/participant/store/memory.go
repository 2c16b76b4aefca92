package store

import (
	"context"
	"slices"
	"sync"

	"golfbot/internal/participant/models"
	"golfbot/internal/sentinel"
	id "golfbot/pkg/domain"
)

// ErrNotFound is returned when a participant is not found.
var ErrNotFound = sentinel.ErrNotFound

// InMemory stores participants in process memory. It is the default backend
// and the one used by handler and end-to-end tests.
type InMemory struct {
	mu           sync.RWMutex
	participants map[id.ParticipantID]*models.Participant
	order        []id.ParticipantID
}

// NewInMemory creates an empty in-memory participant store.
func NewInMemory() *InMemory {
	return &InMemory{
		participants: make(map[id.ParticipantID]*models.Participant),
	}
}

// Create assigns a fresh ID to p and stores a copy of it.
func (s *InMemory) Create(_ context.Context, p *models.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	participantID := id.NewParticipantID()
	for _, taken := s.participants[participantID]; taken; _, taken = s.participants[participantID] {
		participantID = id.NewParticipantID()
	}
	p.ID = participantID
	s.participants[participantID] = p.Clone()
	s.order = append(s.order, participantID)
	return nil
}

// FindAll returns every participant in insertion order.
func (s *InMemory) FindAll(_ context.Context) ([]*models.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Participant, 0, len(s.order))
	for _, participantID := range s.order {
		out = append(out, s.participants[participantID].Clone())
	}
	return out, nil
}

// FindByID retrieves a participant by its ID.
func (s *InMemory) FindByID(_ context.Context, participantID id.ParticipantID) (*models.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.participants[participantID]; ok {
		return p.Clone(), nil
	}
	return nil, ErrNotFound
}

// UpdateByID merges patch into the stored participant and returns the result.
func (s *InMemory) UpdateByID(_ context.Context, participantID id.ParticipantID, patch models.Patch) (*models.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.participants[participantID]
	if !ok {
		return nil, ErrNotFound
	}
	patch.Apply(p)
	return p.Clone(), nil
}

// DeleteByID removes the participant. Deleting an absent ID is not an error.
func (s *InMemory) DeleteByID(_ context.Context, participantID id.ParticipantID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.participants[participantID]; !ok {
		return nil
	}
	delete(s.participants, participantID)
	s.order = slices.DeleteFunc(s.order, func(other id.ParticipantID) bool {
		return other == participantID
	})
	return nil
}

// Ping always succeeds.
func (s *InMemory) Ping(_ context.Context) error {
	return nil
}
