// Package domain provides type-safe identifiers for records owned by the document store.
package domain

import (
	"github.com/google/uuid"

	dErrors "golfbot/pkg/domain-errors"
)

// ParticipantID names one participant document. The store assigns it at creation.
type ParticipantID uuid.UUID

// NewParticipantID returns a fresh random identifier.
func NewParticipantID() ParticipantID {
	return ParticipantID(uuid.New())
}

// ParseParticipantID is used at trust boundaries. Anything that is not a UUID is
// reported with CodeInvalidInput so callers can tell it apart from "not found".
func ParseParticipantID(s string) (ParticipantID, error) {
	id, err := parseUUID(s, "participant ID")
	return ParticipantID(id), err
}

func (id ParticipantID) String() string { return uuid.UUID(id).String() }

func (id ParticipantID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// MarshalText lets ParticipantID serialize as its canonical string form in JSON.
func (id ParticipantID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

func (id *ParticipantID) UnmarshalText(data []byte) error {
	parsed, err := ParseParticipantID(string(data))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// parseUUID is the shared validation logic.
// Nil UUIDs are well-formed: lookups return "not found" for them.
func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label+" format")
	}
	return id, nil
}
