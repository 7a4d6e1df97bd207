package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeRange(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	s, u, err := TimeRange("2d", "", now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(-48*time.Hour), s)
	assert.True(t, u.IsZero())

	s, u, err = TimeRange("2024-05-09", "1w", now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(-7*24*time.Hour), s)
	assert.Equal(t, time.Date(2024, 5, 9, 0, 0, 0, 0, time.UTC), u)

	_, _, err = TimeRange("soon", "", now)
	assert.ErrorContains(t, err, "invalid --since")
}

func TestInRange(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.True(t, InRange(base, time.Time{}, time.Time{}))
	assert.True(t, InRange(base, base, base))
	assert.False(t, InRange(base, base.Add(time.Second), time.Time{}))
	assert.False(t, InRange(base, time.Time{}, base.Add(-time.Second)))
}

func TestScoreCompletions(t *testing.T) {
	students := []string{"anna-k", "bohdan", "andrii", "olena"}
	assert.Equal(t, students, ScoreCompletions("", students, 2))

	got := ScoreCompletions("an", students, 0)
	require.NotEmpty(t, got)
	assert.Contains(t, got, "anna-k")
	assert.NotContains(t, got, "olena")

	assert.Len(t, ScoreCompletions("a", students, 1), 1)
	assert.Nil(t, ScoreCompletions("zzz", students, 5))
}
