package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Sunday, June 15 2025, noon UTC.
func fixedNow() time.Time {
	return time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
}

func TestExtractFullRequest(t *testing.T) {
	c, err := Extract("book a consultation tomorrow at 2pm, email test@example.com", fixedNow())
	require.NoError(t, err)

	assert.Equal(t, "test@example.com", c.Email)
	assert.Equal(t, "tomorrow 2pm", c.DatePhrase)
	assert.Equal(t, time.Date(2025, time.June, 16, 0, 0, 0, 0, time.UTC), c.Date)
	require.True(t, c.HasTime)
	assert.Equal(t, 14, c.Hour)
	assert.Equal(t, 0, c.Minute)
}

func TestExtractEmailFirstMatchWins(t *testing.T) {
	c, err := Extract("reach me at First.Last+horse@stephex.be or backup@example.org", fixedNow())
	require.NoError(t, err)
	assert.Equal(t, "first.last+horse@stephex.be", c.Email)
}

func TestExtractDates(t *testing.T) {
	now := fixedNow() // Sunday the 15th
	tests := []struct {
		text string
		want time.Time
	}{
		{"come by today", time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)},
		{"tomorrow works", time.Date(2025, time.June, 16, 0, 0, 0, 0, time.UTC)},
		{"maybe next week", time.Date(2025, time.June, 22, 0, 0, 0, 0, time.UTC)},
		{"in 3 days", time.Date(2025, time.June, 18, 0, 0, 0, 0, time.UTC)},
		{"two days from now", time.Date(2025, time.June, 17, 0, 0, 0, 0, time.UTC)},
		{"friday afternoon", time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC)},
		// Same weekday as now resolves a full week ahead, never today.
		{"next sunday", time.Date(2025, time.June, 22, 0, 0, 0, 0, time.UTC)},
		// Bare day-of-month rolls forward past the current date.
		{"the 3rd would suit me", time.Date(2025, time.July, 3, 0, 0, 0, 0, time.UTC)},
		{"on the 20th", time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		c, err := Extract(tt.text, now)
		require.NoError(t, err, tt.text)
		assert.Equal(t, tt.want, c.Date, "Extract(%q)", tt.text)
	}
}

func TestExtractWeekdayFromMonday(t *testing.T) {
	monday := time.Date(2025, time.June, 16, 9, 0, 0, 0, time.UTC)
	c, err := Extract("see you next monday", monday)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.June, 23, 0, 0, 0, 0, time.UTC), c.Date)
}

func TestExtractTimes(t *testing.T) {
	tests := []struct {
		text         string
		hour, minute int
	}{
		{"at 2pm", 14, 0},
		{"at 2:30pm", 14, 30},
		{"at 10am", 10, 0},
		{"12pm sharp", 12, 0},
		{"12am if you're open", 0, 0},
		{"around 14:00", 14, 0},
		{"9:15 works", 9, 15},
	}

	for _, tt := range tests {
		c, err := Extract(tt.text, fixedNow())
		require.NoError(t, err, tt.text)
		require.True(t, c.HasTime, "Extract(%q) should find a time", tt.text)
		assert.Equal(t, tt.hour, c.Hour, "Extract(%q) hour", tt.text)
		assert.Equal(t, tt.minute, c.Minute, "Extract(%q) minute", tt.text)
	}
}

func TestExtractNoTime(t *testing.T) {
	c, err := Extract("do you have any 5 horse trucks", fixedNow())
	require.NoError(t, err)
	assert.False(t, c.HasTime)
	assert.False(t, c.HasDate())
	assert.Empty(t, c.DatePhrase)
	assert.Equal(t, "5-horse", c.TruckType)
}

func TestExtractZoneHint(t *testing.T) {
	c, err := Extract("10am london time tomorrow", fixedNow())
	require.NoError(t, err)
	assert.Equal(t, "Europe/London", c.Timezone)
}

func TestExtractZoneHintFirstListedPlaceWins(t *testing.T) {
	// Two place names in one message must resolve the same way every run.
	for i := 0; i < 5; i++ {
		c, err := Extract("I'm flying tokyo to london, say 10am tomorrow", fixedNow())
		require.NoError(t, err)
		assert.Equal(t, "Europe/London", c.Timezone)
	}
}

func TestStartInstantLocalizesIntoHintedZone(t *testing.T) {
	// 10:00 in London during BST is 09:00 UTC; a convert-then-localize bug
	// would yield 10:00 UTC.
	c, err := Extract("can we talk at 10am london time", fixedNow())
	require.NoError(t, err)

	start, err := c.StartInstant(fixedNow(), 14)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.June, 15, 9, 0, 0, 0, time.UTC), start.UTC())
}

func TestStartInstantDefaultHour(t *testing.T) {
	c, err := Extract("tomorrow please", fixedNow())
	require.NoError(t, err)
	require.False(t, c.HasTime)

	start, err := c.StartInstant(fixedNow(), 14)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.June, 16, 14, 0, 0, 0, time.UTC), start)
}

func TestExtractTruckType(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a 2 horse truck", "2-horse"},
		{"the two horse model", "2-horse"},
		{"six horse ketterer", "6-horse"},
		{"any horse trucks at all", "horse truck"},
		{"just saying hello", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtractTruckType(tt.in), "ExtractTruckType(%q)", tt.in)
	}
}

func TestExtractRejectsZeroNow(t *testing.T) {
	_, err := Extract("tomorrow at 2pm", time.Time{})
	assert.ErrorIs(t, err, ErrInvalidNow)
}
