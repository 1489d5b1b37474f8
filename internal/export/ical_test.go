package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteICal(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	events := []CalendarEvent{
		{
			UID:      EventUID(7),
			Summary:  "The Hollow Pines — Red Rocks",
			Location: "Morrison, CO",
			Date:     time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			Notes:    "Doors 18:00, curfew 23:00",
		},
		{
			UID:     EventUID(8),
			Summary: "The Hollow Pines — The Fillmore",
			Date:    time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteICal(&buf, "Summer Run", events, now))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR\r\n"))
	assert.True(t, strings.HasSuffix(out, "END:VCALENDAR\r\n"))
	assert.Contains(t, out, "X-WR-CALNAME:Summer Run\r\n")
	assert.Contains(t, out, "UID:show-7@tourline\r\n")
	assert.Contains(t, out, "DTSTART;VALUE=DATE:20250601\r\n")
	assert.Contains(t, out, "DTEND;VALUE=DATE:20250602\r\n")
	assert.Contains(t, out, "DTSTAMP:20250501T120000Z\r\n")
	assert.Contains(t, out, "LOCATION:Morrison\\, CO\r\n")
	assert.Equal(t, 2, strings.Count(out, "BEGIN:VEVENT"))

	// second event has no location or description lines
	assert.Equal(t, 1, strings.Count(out, "LOCATION:"))
	assert.Equal(t, 1, strings.Count(out, "DESCRIPTION:"))
}

func TestICalEscape(t *testing.T) {
	assert.Equal(t, "a\\;b\\,c\\nd", escape("a;b,c\nd"))
}
