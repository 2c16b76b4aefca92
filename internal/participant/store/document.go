package store

import (
	"encoding/json"
	"fmt"

	"golfbot/internal/participant/models"
	id "golfbot/pkg/domain"
)

// document is the stored body of a participant. The identifier lives in the
// key (Redis) or the primary key column (Postgres), never inside the body.
type document struct {
	Name   string `json:"name"`
	Scores []int  `json:"scores"`
}

// patchDocument carries only the keys present in a models.Patch, so merging it
// into a stored document leaves every other key untouched.
type patchDocument struct {
	Name   *string `json:"name,omitempty"`
	Scores *[]int  `json:"scores,omitempty"`
}

func encodeDocument(p *models.Participant) ([]byte, error) {
	scores := p.Scores
	if scores == nil {
		scores = []int{}
	}
	data, err := json.Marshal(document{Name: p.Name, Scores: scores})
	if err != nil {
		return nil, fmt.Errorf("encode participant document: %w", err)
	}
	return data, nil
}

func decodeDocument(participantID id.ParticipantID, data []byte) (*models.Participant, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode participant document %s: %w", participantID, err)
	}
	if doc.Scores == nil {
		doc.Scores = []int{}
	}
	return &models.Participant{ID: participantID, Name: doc.Name, Scores: doc.Scores}, nil
}

func encodePatch(patch models.Patch) ([]byte, error) {
	data, err := json.Marshal(patchDocument{Name: patch.Name, Scores: patch.Scores})
	if err != nil {
		return nil, fmt.Errorf("encode participant patch: %w", err)
	}
	return data, nil
}
