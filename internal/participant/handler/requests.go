package handler

import (
	"golfbot/internal/participant/models"
	dErrors "golfbot/pkg/domain-errors"
	"golfbot/pkg/validation"
)

// HTTP request DTOs. Unknown JSON fields are ignored by the decoder.

type CreateParticipantRequest struct {
	Name string `json:"name" validate:"required"`
}

func (r *CreateParticipantRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return validation.Validate(r)
}

// UpdateParticipantRequest distinguishes absent fields (nil) from present
// ones. A JSON null leaves the pointer nil, so it counts as absent. Score
// elements are pointers so a null inside the array can be rejected.
type UpdateParticipantRequest struct {
	Name   *string `json:"name"`
	Scores *[]*int `json:"scores"`
}

// Validate rejects null score elements; scores must be numbers.
func (r *UpdateParticipantRequest) Validate() error {
	if r == nil || r.Scores == nil {
		return nil
	}
	for _, score := range *r.Scores {
		if score == nil {
			return dErrors.New(dErrors.CodeBadRequest, "")
		}
	}
	return nil
}

// ToPatch converts a validated request into a merge patch.
func (r *UpdateParticipantRequest) ToPatch() models.Patch {
	var patch models.Patch
	if r == nil {
		return patch
	}
	if r.Name != nil {
		patch.SetName(*r.Name)
	}
	if r.Scores != nil {
		scores := make([]int, 0, len(*r.Scores))
		for _, score := range *r.Scores {
			if score != nil {
				scores = append(scores, *score)
			}
		}
		patch.SetScores(scores)
	}
	return patch
}
