package scheduler

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEveryAlignsToWallClock(t *testing.T) {
	s := Every(5 * time.Minute)

	at := time.Date(2024, 3, 4, 12, 3, 10, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 4, 12, 5, 0, 0, time.UTC), s.Next(at))

	at = time.Date(2024, 3, 4, 12, 5, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 4, 12, 10, 0, 0, time.UTC), s.Next(at))
}

func TestWeeklyMondayMorningInLagos(t *testing.T) {
	lagos, err := time.LoadLocation("Africa/Lagos")
	require.NoError(t, err)
	s := Weekly(time.Monday, 6, 0, lagos)

	// Monday 05:59 Lagos
	at := time.Date(2024, 3, 4, 4, 59, 0, 0, time.UTC)
	assert.True(t, time.Date(2024, 3, 4, 6, 0, 0, 0, lagos).Equal(s.Next(at)))

	// exactly at the slot moves to the following week
	at = time.Date(2024, 3, 4, 6, 0, 0, 0, lagos)
	assert.True(t, time.Date(2024, 3, 11, 6, 0, 0, 0, lagos).Equal(s.Next(at)))

	// Wednesday
	at = time.Date(2024, 3, 6, 12, 0, 0, 0, lagos)
	next := s.Next(at)
	assert.Equal(t, time.Monday, next.Weekday())
	assert.True(t, time.Date(2024, 3, 11, 6, 0, 0, 0, lagos).Equal(next))
}
