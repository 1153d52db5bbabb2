package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAgeCriteria(t *testing.T) {
	tests := []struct {
		in   string
		want AgeCriteria
	}{
		{"9-12", AgeRange{Min: 9, Max: 12}},
		{" 6 - 8 ", AgeRange{Min: 6, Max: 8}},
		{"41+", AgeAtLeast{Min: 41}},
		{"10", AgeExact{Age: 10}},
	}
	for _, tt := range tests {
		got, err := ParseAgeCriteria(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseAgeCriteria_Invalid(t *testing.T) {
	for _, in := range []string{"", "teen", "12-9", "-5", "+", "a+", "1-b"} {
		_, err := ParseAgeCriteria(in)
		assert.ErrorIs(t, err, ErrInvalidAgeCriteria, in)
	}
}

func TestAgeCriteria_Matches(t *testing.T) {
	atLeast, err := ParseAgeCriteria("41+")
	require.NoError(t, err)
	assert.True(t, atLeast.Matches(45))
	assert.True(t, atLeast.Matches(41))
	assert.False(t, atLeast.Matches(40))

	rng := AgeRange{Min: 9, Max: 12}
	assert.True(t, rng.Matches(9))
	assert.True(t, rng.Matches(12))
	assert.False(t, rng.Matches(13))

	assert.True(t, AgeExact{Age: 7}.Matches(7))
	assert.False(t, AgeExact{Age: 7}.Matches(8))
	assert.Equal(t, "13-16", AgeRange{Min: 13, Max: 16}.String())
}
