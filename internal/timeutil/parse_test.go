package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromStr(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	got, err := FromStr("20 minutes ago", now)
	require.NoError(t, err)
	assert.True(t, got.Equal(now.Add(-20*time.Minute)), got)

	_, err = FromStr("  ", now)
	assert.Error(t, err)
}

func TestPeriodBounds(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 30, 0, 0, loc)

	start, end, ok := PeriodBounds(Period7Days, now)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 3, 4, 0, 0, 0, 0, loc), start)
	assert.Equal(t, now, end)

	start, end, ok = PeriodBounds(PeriodYesterday, now)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 3, 9, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, loc), end)

	_, _, ok = PeriodBounds("fortnight", now)
	assert.False(t, ok)
}
