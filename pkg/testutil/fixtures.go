package testutil

import (
	"github.com/google/uuid"

	"golfbot/internal/participant/models"
	id "golfbot/pkg/domain"
)

// TestIDs provides fixed participant IDs for deterministic test data.
var TestIDs = struct {
	Participant1 id.ParticipantID
	Participant2 id.ParticipantID
	Absent       id.ParticipantID
}{
	Participant1: id.ParticipantID(uuid.MustParse("11111111-1111-4111-8111-111111111111")),
	Participant2: id.ParticipantID(uuid.MustParse("22222222-2222-4222-8222-222222222222")),
	Absent:       id.ParticipantID(uuid.MustParse("00000000-0000-4000-8000-000000000000")),
}

// ParticipantBuilder provides a fluent interface for building test participants.
type ParticipantBuilder struct {
	participant *models.Participant
}

// NewParticipantBuilder starts from a saved participant named "ann" with no scores.
func NewParticipantBuilder() *ParticipantBuilder {
	return &ParticipantBuilder{
		participant: &models.Participant{
			ID:     id.NewParticipantID(),
			Name:   "ann",
			Scores: []int{},
		},
	}
}

func (b *ParticipantBuilder) WithID(participantID id.ParticipantID) *ParticipantBuilder {
	b.participant.ID = participantID
	return b
}

func (b *ParticipantBuilder) WithName(name string) *ParticipantBuilder {
	b.participant.Name = name
	return b
}

func (b *ParticipantBuilder) WithScores(scores ...int) *ParticipantBuilder {
	b.participant.Scores = append([]int{}, scores...)
	return b
}

// WithNilScores models a record whose scores were never written.
func (b *ParticipantBuilder) WithNilScores() *ParticipantBuilder {
	b.participant.Scores = nil
	return b
}

// Build returns a copy of the participant. Nil scores are kept nil.
func (b *ParticipantBuilder) Build() *models.Participant {
	p := b.participant.Clone()
	if b.participant.Scores == nil {
		p.Scores = nil
	}
	return p
}

// NewTestParticipant creates a saved participant with the given ID and name.
func NewTestParticipant(participantID id.ParticipantID, name string) *models.Participant {
	return NewParticipantBuilder().WithID(participantID).WithName(name).Build()
}
