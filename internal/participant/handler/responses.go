package handler

import "golfbot/internal/participant/models"

type ParticipantResponse struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Scores []int  `json:"scores"`
}

type DeleteResponse struct {
	OK bool `json:"ok"`
}

func toParticipantResponse(p *models.Participant) *ParticipantResponse {
	scores := p.Scores
	if scores == nil {
		scores = []int{}
	}
	return &ParticipantResponse{
		ID:     p.ID.String(),
		Name:   p.Name,
		Scores: scores,
	}
}

func toParticipantResponses(participants []*models.Participant) []*ParticipantResponse {
	out := make([]*ParticipantResponse, 0, len(participants))
	for _, p := range participants {
		out = append(out, toParticipantResponse(p))
	}
	return out
}
