package export

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// CalendarEvent is one confirmed show on the tour calendar.
type CalendarEvent struct {
	UID      string
	Summary  string
	Location string
	Date     time.Time
	Notes    string
}

// WriteICal renders confirmed shows as an iCalendar feed. Shows are
// all-day events; most promoters drop the feed straight into Google
// Calendar.
func WriteICal(w io.Writer, calName string, events []CalendarEvent, now time.Time) error {
	var b strings.Builder
	line(&b, "BEGIN:VCALENDAR")
	line(&b, "VERSION:2.0")
	line(&b, "PRODID:-//tourline//tour-calendar//EN")
	line(&b, "CALSCALE:GREGORIAN")
	line(&b, "X-WR-CALNAME:"+escape(calName))

	stamp := now.UTC().Format("20060102T150405Z")
	for _, ev := range events {
		day := ev.Date.Format("20060102")
		next := ev.Date.AddDate(0, 0, 1).Format("20060102")

		line(&b, "BEGIN:VEVENT")
		line(&b, "UID:"+ev.UID)
		line(&b, "DTSTAMP:"+stamp)
		line(&b, "DTSTART;VALUE=DATE:"+day)
		line(&b, "DTEND;VALUE=DATE:"+next)
		line(&b, "SUMMARY:"+escape(ev.Summary))
		if ev.Location != "" {
			line(&b, "LOCATION:"+escape(ev.Location))
		}
		if ev.Notes != "" {
			line(&b, "DESCRIPTION:"+escape(ev.Notes))
		}
		line(&b, "END:VEVENT")
	}

	line(&b, "END:VCALENDAR")
	_, err := io.WriteString(w, b.String())
	return err
}

// line writes one content line with the CRLF terminator RFC 5545 requires.
func line(b *strings.Builder, s string) {
	b.WriteString(s)
	b.WriteString("\r\n")
}

func escape(s string) string {
	r := strings.NewReplacer("\\", "\\\\", ";", "\\;", ",", "\\,", "\n", "\\n")
	return r.Replace(s)
}

// EventUID builds a stable per-show UID.
func EventUID(showID int64) string {
	return fmt.Sprintf("show-%d@tourline", showID)
}
