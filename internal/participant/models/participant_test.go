package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "golfbot/pkg/domain-errors"
)

func TestNewParticipant(t *testing.T) {
	t.Run("starts with empty scores", func(t *testing.T) {
		p, err := NewParticipant("Alice")
		require.NoError(t, err)
		assert.Equal(t, "Alice", p.Name)
		assert.NotNil(t, p.Scores)
		assert.Empty(t, p.Scores)
		assert.True(t, p.ID.IsNil())
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewParticipant("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		assert.Equal(t, "name is required", err.Error())
	})
}

// TestPatchApply covers the merge law: present keys overwrite, absent keys stay.
func TestPatchApply(t *testing.T) {
	base := func() *Participant {
		return &Participant{Name: "Alice", Scores: []int{1, 2, 3}}
	}

	t.Run("empty patch is a no-op", func(t *testing.T) {
		p := base()
		Patch{}.Apply(p)
		assert.Equal(t, base(), p)
		assert.True(t, Patch{}.IsEmpty())
	})

	t.Run("name only", func(t *testing.T) {
		var patch Patch
		patch.SetName("Elaine")
		p := base()
		patch.Apply(p)
		assert.Equal(t, "Elaine", p.Name)
		assert.Equal(t, []int{1, 2, 3}, p.Scores)
		assert.False(t, patch.IsEmpty())
	})

	t.Run("scores only", func(t *testing.T) {
		var patch Patch
		patch.SetScores([]int{8, 4, 9})
		p := base()
		patch.Apply(p)
		assert.Equal(t, "Alice", p.Name)
		assert.Equal(t, []int{8, 4, 9}, p.Scores)
	})

	t.Run("explicit empty values are applied", func(t *testing.T) {
		var patch Patch
		patch.SetName("")
		patch.SetScores(nil)
		p := base()
		patch.Apply(p)
		assert.Equal(t, "", p.Name)
		assert.Equal(t, []int{}, p.Scores)
	})

	t.Run("applied scores do not alias the patch", func(t *testing.T) {
		scores := []int{5}
		var patch Patch
		patch.SetScores(scores)
		p := base()
		patch.Apply(p)
		scores[0] = 99
		(*patch.Scores)[0] = 42
		assert.Equal(t, []int{5}, p.Scores)
	})
}

func TestClone(t *testing.T) {
	p := &Participant{Name: "Bob", Scores: []int{1}}
	c := p.Clone()
	c.Scores[0] = 7
	assert.Equal(t, []int{1}, p.Scores)

	var nilP *Participant
	assert.Nil(t, nilP.Clone())
}
