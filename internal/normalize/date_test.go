package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	want := time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)
	for _, raw := range []string{"02 Jan 2024", "Jan 2, 2024", "02-01-2024", "2024-01-02", " 02 Jan  2024 "} {
		got, err := ParseDate("date", raw)
		require.NoError(t, err, raw)
		require.True(t, want.Equal(got), "%s -> %v", raw, got)
	}
}

func TestParseDateCustomLayout(t *testing.T) {
	got, err := ParseDate("date", "2024/03/15", "2006/01/02")
	require.NoError(t, err)
	require.Equal(t, time.March, got.Month())

	_, err = ParseDate("date", "2024/03/15")
	require.ErrorIs(t, err, ErrBadDate)

	_, err = ParseDate("date", "")
	require.ErrorIs(t, err, ErrEmpty)
}

func TestDayTruncates(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	got := Day(time.Date(2024, 5, 6, 23, 59, 0, 0, ist))
	require.Equal(t, time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC), got)
}

func TestCleanText(t *testing.T) {
	require.Equal(t, "Sensex ends higher", CleanText("  Sensex  ends\n\thigher\u200b "))
}
