package models

import (
	"slices"

	id "golfbot/pkg/domain"
	dErrors "golfbot/pkg/domain-errors"
)

// Participant is the only document kind the service stores.
// ID is zero until the store assigns one on create.
type Participant struct {
	ID     id.ParticipantID
	Name   string
	Scores []int
}

// NewParticipant builds an unsaved participant with no scores.
func NewParticipant(name string) (*Participant, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return &Participant{Name: name, Scores: []int{}}, nil
}

// Clone returns a deep copy so callers never share the Scores backing array.
func (p *Participant) Clone() *Participant {
	if p == nil {
		return nil
	}
	c := *p
	c.Scores = cloneScores(p.Scores)
	return &c
}

// Patch is a partial update. Nil fields are left untouched by Apply.
type Patch struct {
	Name   *string
	Scores *[]int
}

// SetName marks name as present in the patch.
func (p *Patch) SetName(name string) {
	p.Name = &name
}

// SetScores marks scores as present in the patch.
func (p *Patch) SetScores(scores []int) {
	s := cloneScores(scores)
	p.Scores = &s
}

// IsEmpty reports whether applying the patch would change nothing.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Scores == nil
}

// Apply overwrites the fields present in the patch.
func (p Patch) Apply(target *Participant) {
	if p.Name != nil {
		target.Name = *p.Name
	}
	if p.Scores != nil {
		target.Scores = cloneScores(*p.Scores)
	}
}

// cloneScores copies s and never returns nil, so an empty list serializes as [].
func cloneScores(s []int) []int {
	if s == nil {
		return []int{}
	}
	return slices.Clone(s)
}
