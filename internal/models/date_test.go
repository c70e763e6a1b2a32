package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDay(t *testing.T) {
	parsed, err := ParseDay("2023-02-06")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, time.February, 6, 0, 0, 0, 0, time.UTC), parsed)

	_, err = ParseDay("06.02.2023")
	assert.Error(t, err)
}

func TestFormatDayRoundTrip(t *testing.T) {
	parsed, err := ParseDay("2023-12-31")
	require.NoError(t, err)
	assert.Equal(t, "2023-12-31", FormatDay(parsed))
}

func TestDayTruncation(t *testing.T) {
	stamp := time.Date(2023, time.February, 6, 15, 4, 5, 0, time.FixedZone("CET", 3600))
	assert.Equal(t, time.Date(2023, time.February, 6, 0, 0, 0, 0, time.UTC), Day(stamp))
}

func TestTermContains(t *testing.T) {
	start, _ := ParseDay("2023-02-01")
	end, _ := ParseDay("2023-04-06")
	term := Term{StartDate: start, EndDate: end}

	inside, _ := ParseDay("2023-03-15")
	before, _ := ParseDay("2023-01-31")
	after, _ := ParseDay("2023-04-07")

	assert.True(t, term.Contains(start))
	assert.True(t, term.Contains(end))
	assert.True(t, term.Contains(inside))
	assert.False(t, term.Contains(before))
	assert.False(t, term.Contains(after))
}
