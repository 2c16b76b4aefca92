package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "golfbot/pkg/domain-errors"
)

func TestParseParticipantID(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseParticipantID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		for _, raw := range []string{"lol", "5b59532c8daa0f23d45e22fa", "123"} {
			_, err := ParseParticipantID(raw)
			require.Error(t, err, raw)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput), raw)
		}
	})

	t.Run("accepts nil UUID as well-formed", func(t *testing.T) {
		id, err := ParseParticipantID(uuid.Nil.String())
		require.NoError(t, err)
		assert.True(t, id.IsNil())
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		raw := uuid.New()
		id, err := ParseParticipantID(raw.String())
		require.NoError(t, err)
		assert.Equal(t, ParticipantID(raw), id)
		assert.Equal(t, raw.String(), id.String())
	})
}

func TestParticipantIDJSON(t *testing.T) {
	id := NewParticipantID()
	data, err := json.Marshal(struct {
		ID ParticipantID `json:"_id"`
	}{ID: id})
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"`+id.String()+`"}`, string(data))

	var decoded struct {
		ID ParticipantID `json:"_id"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, id, decoded.ID)

	err = json.Unmarshal([]byte(`{"_id":"lol"}`), &decoded)
	require.Error(t, err)
}
