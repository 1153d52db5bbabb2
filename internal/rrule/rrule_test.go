package rrule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNext_Weekly(t *testing.T) {
	start := time.Date(2026, time.October, 12, 10, 0, 0, 0, time.UTC) // Monday

	next, err := Next("RRULE:FREQ=WEEKLY;BYDAY=MO", start, start)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, start.AddDate(0, 0, 7), next.UTC())
}

func TestNext_Exhausted(t *testing.T) {
	start := time.Date(2026, time.October, 12, 10, 0, 0, 0, time.UTC)

	next, err := Next("FREQ=DAILY;COUNT=1", start, start)
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate("FREQ=MONTHLY;INTERVAL=2"))
	assert.Error(t, Validate("every tuesday"))
	assert.Error(t, Validate("FREQ=SOMETIMES"))
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "repeats daily", Describe("FREQ=DAILY"))
	assert.Equal(t, "every 2 weeks on Mon, Thu", Describe("RRULE:FREQ=WEEKLY;INTERVAL=2;BYDAY=MO,TH"))
	assert.Equal(t, "repeats monthly, 3 times", Describe("FREQ=MONTHLY;COUNT=3"))
	assert.Equal(t, "once", Describe(""))
}
