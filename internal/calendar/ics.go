package calendar

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pericialab/backend/internal/models"
)

// Event is one scheduled diligence flattened for export.
type Event struct {
	UID         string
	Summary     string
	Location    string
	Description string
	Start       time.Time
	End         time.Time
	// ReminderMinutes > 0 adds a VALARM block.
	ReminderMinutes int
}

const (
	icsDateFormat = "20060102T150405"
	defaultLength = time.Hour
)

// EventsForProcess builds one event per diligence with a parseable date.
// Diligences whose date cannot be parsed are skipped: the feed is an
// export convenience, not the system of record.
func EventsForProcess(p models.Process, reminderMinutes int) []Event {
	var out []Event
	for i, d := range p.Diligences {
		start, ok := parseSchedule(d.Date, d.Time)
		if !ok {
			continue
		}
		location := d.Address
		if d.City != "" {
			if location != "" {
				location += ", "
			}
			location += d.City
		}
		out = append(out, Event{
			UID:             fmt.Sprintf("%s-%d@pericialab", p.ID, i+1),
			Summary:         "Perícia: " + p.ProcessNumber,
			Location:        location,
			Description:     d.Description,
			Start:           start,
			End:             start.Add(defaultLength),
			ReminderMinutes: reminderMinutes,
		})
	}
	return out
}

// ICS renders an iCalendar file with one VEVENT per event.
func ICS(events []Event, now time.Time) string {
	var b strings.Builder
	writeLine(&b, "BEGIN:VCALENDAR")
	writeLine(&b, "VERSION:2.0")
	writeLine(&b, "PRODID:-//pericialab//backend//PT-BR")
	writeLine(&b, "CALSCALE:GREGORIAN")
	for _, e := range events {
		writeLine(&b, "BEGIN:VEVENT")
		writeLine(&b, "UID:"+escapeText(e.UID))
		writeLine(&b, "DTSTAMP:"+now.UTC().Format(icsDateFormat)+"Z")
		writeLine(&b, "DTSTART:"+e.Start.Format(icsDateFormat))
		writeLine(&b, "DTEND:"+e.End.Format(icsDateFormat))
		writeLine(&b, "SUMMARY:"+escapeText(e.Summary))
		if e.Location != "" {
			writeLine(&b, "LOCATION:"+escapeText(e.Location))
		}
		if e.Description != "" {
			writeLine(&b, "DESCRIPTION:"+escapeText(e.Description))
		}
		if e.ReminderMinutes > 0 {
			writeLine(&b, "BEGIN:VALARM")
			writeLine(&b, "ACTION:DISPLAY")
			writeLine(&b, "DESCRIPTION:"+escapeText(e.Summary))
			writeLine(&b, fmt.Sprintf("TRIGGER:-PT%dM", e.ReminderMinutes))
			writeLine(&b, "END:VALARM")
		}
		writeLine(&b, "END:VEVENT")
	}
	writeLine(&b, "END:VCALENDAR")
	return b.String()
}

// parseSchedule combines the free-text date and time fields. Dates are
// stored dd/mm/yyyy; a missing or malformed time defaults to 09:00.
func parseSchedule(date, timeOfDay string) (time.Time, bool) {
	d, err := time.Parse("02/01/2006", strings.TrimSpace(date))
	if err != nil {
		return time.Time{}, false
	}
	if t, err := time.Parse("15:04", strings.TrimSpace(timeOfDay)); err == nil {
		return d.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute), true
	}
	return d.Add(9 * time.Hour), true
}

// writeLine appends one content line, folded at 75 octets per RFC 5545.
// The fold point backs up to a rune boundary so a multi-octet character
// is never split across physical lines.
func writeLine(b *strings.Builder, line string) {
	for len(line) > 75 {
		cut := 75
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		b.WriteString(line[:cut])
		b.WriteString("\r\n ")
		line = line[cut:]
	}
	b.WriteString(line)
	b.WriteString("\r\n")
}

func escapeText(v string) string {
	v = strings.ReplaceAll(v, "\\", "\\\\")
	v = strings.ReplaceAll(v, ";", "\\;")
	v = strings.ReplaceAll(v, ",", "\\,")
	v = strings.ReplaceAll(v, "\n", "\\n")
	return v
}
