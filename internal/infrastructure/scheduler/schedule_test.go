package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDailySchedule(t *testing.T) {
	s, err := ParseDailySchedule("30 3 * * *")
	require.NoError(t, err)
	assert.Equal(t, DailySchedule{Hour: 3, Minute: 30}, s)
	assert.Equal(t, "30 3 * * *", s.String())

	for _, bad := range []string{"", "0 3 * *", "0 3 1 * *", "60 3 * * *", "0 24 * * *", "a b * * *", "*/5 * * * *"} {
		_, err := ParseDailySchedule(bad)
		assert.ErrorIs(t, err, ErrInvalidSchedule, bad)
	}
}

func TestDailySchedule_Matches(t *testing.T) {
	s := DailySchedule{Hour: 3, Minute: 0}
	assert.True(t, s.Matches(time.Date(2026, 5, 1, 3, 0, 42, 0, time.Local)))
	assert.False(t, s.Matches(time.Date(2026, 5, 1, 3, 1, 0, 0, time.Local)))
	assert.False(t, s.Matches(time.Date(2026, 5, 1, 15, 0, 0, 0, time.Local)))
}
