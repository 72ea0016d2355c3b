package galton

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck_SmallMachinesHold(t *testing.T) {
	res, err := Check(3, 5, 1)
	require.NoError(t, err)
	assert.Equal(t, 4*5, res.Machines)
	assert.Positive(t, res.Ticks)
}

func TestVerify_DetectsLostBeads(t *testing.T) {
	m := NewWithState(3, skillBeads(1, 0), nil, filledSlots(1, 1, 0))
	err := m.Verify(5)
	require.Error(t, err)
	assert.True(t, IsInvariantError(err, ErrCodeConservation))
	assert.False(t, IsInvariantError(err, ErrCodeIllegalPosition))
}

func TestVerify_DetectsIllegalPosition(t *testing.T) {
	b := NewBeadWith(ModeSkill, &scriptedSource{}, 9, 0, 0)
	for i := 0; i < 4; i++ {
		b.Step()
	}
	m := NewWithState(3, nil, []*Bead{b}, nil)
	err := m.Verify(1)
	require.Error(t, err)
	assert.True(t, IsInvariantError(err, ErrCodeIllegalPosition))

	var ie *InvariantError
	require.True(t, errors.As(err, &ie))
	assert.Contains(t, ie.Error(), "ILLEGAL_POSITION")
}

func TestIsInvariantError_Unrelated(t *testing.T) {
	assert.False(t, IsInvariantError(errors.New("boom"), ErrCodeConservation))
	assert.False(t, IsInvariantError(nil, ErrCodeConservation))
}
