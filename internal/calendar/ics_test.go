package calendar

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/pericialab/backend/internal/models"
)

func testProcess() models.Process {
	return models.Process{
		ID:            "p1",
		ProcessNumber: "0001234-56.2024.5.02.0011",
		Diligences: []models.Diligence{
			{Date: "10/02/2026", Time: "14:30", Address: "Rua das Flores, 100", City: "São Paulo"},
			{Date: "data inválida", Address: "ignorada"},
			{Date: "11/02/2026"},
		},
	}
}

func TestEventsForProcess(t *testing.T) {
	events := EventsForProcess(testProcess(), 60)
	if len(events) != 2 {
		t.Fatalf("expected 2 events (unparseable date skipped), got %d", len(events))
	}

	first := events[0]
	if first.Start.Format("02/01/2006 15:04") != "10/02/2026 14:30" {
		t.Fatalf("start time %v", first.Start)
	}
	if first.End.Sub(first.Start) != time.Hour {
		t.Fatalf("default length should be one hour")
	}
	if first.Location != "Rua das Flores, 100, São Paulo" {
		t.Fatalf("location %q", first.Location)
	}
	if !strings.Contains(first.Summary, "0001234-56.2024.5.02.0011") {
		t.Fatalf("summary %q", first.Summary)
	}

	// Missing time of day defaults to 09:00.
	if events[1].Start.Hour() != 9 {
		t.Fatalf("default hour %d", events[1].Start.Hour())
	}
}

func TestICSStructure(t *testing.T) {
	events := EventsForProcess(testProcess(), 30)
	out := ICS(events, time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC))

	if !strings.HasPrefix(out, "BEGIN:VCALENDAR\r\n") {
		t.Fatalf("missing calendar envelope")
	}
	if !strings.HasSuffix(out, "END:VCALENDAR\r\n") {
		t.Fatalf("missing calendar terminator")
	}
	if strings.Count(out, "BEGIN:VEVENT") != 2 {
		t.Fatalf("expected 2 VEVENT blocks")
	}
	if !strings.Contains(out, "DTSTART:20260210T143000") {
		t.Fatalf("DTSTART wrong:\n%s", out)
	}
	if !strings.Contains(out, "DTSTAMP:20260105T120000Z") {
		t.Fatalf("DTSTAMP wrong")
	}
	if !strings.Contains(out, "TRIGGER:-PT30M") {
		t.Fatalf("VALARM trigger missing")
	}
	if strings.Count(out, "BEGIN:VALARM") != 2 {
		t.Fatalf("each event should carry a reminder")
	}
	// Commas in locations must be escaped.
	if !strings.Contains(out, "Rua das Flores\\, 100\\, São Paulo") {
		t.Fatalf("location not escaped:\n%s", out)
	}
}

func TestICSNoReminder(t *testing.T) {
	events := EventsForProcess(testProcess(), 0)
	out := ICS(events, time.Now().UTC())
	if strings.Contains(out, "VALARM") {
		t.Fatalf("no VALARM expected when reminder is zero")
	}
}

func TestICSLineFolding(t *testing.T) {
	e := Event{
		UID:     "uid-1",
		Summary: strings.Repeat("a", 120),
		Start:   time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC),
		End:     time.Date(2026, 2, 10, 10, 0, 0, 0, time.UTC),
	}
	out := ICS([]Event{e}, time.Now().UTC())
	for _, line := range strings.Split(out, "\r\n") {
		if len(line) > 75 {
			t.Fatalf("unfolded line of %d octets: %q", len(line), line)
		}
	}
}

func TestWriteLineFoldsOnRuneBoundary(t *testing.T) {
	var b strings.Builder
	writeLine(&b, strings.Repeat("a", 74)+"íxxxx")

	for _, line := range strings.Split(strings.TrimSuffix(b.String(), "\r\n"), "\r\n") {
		if !utf8.ValidString(line) {
			t.Fatalf("folded line is not valid UTF-8: %q", line)
		}
		if len(line) > 75 {
			t.Fatalf("line of %d octets not folded: %q", len(line), line)
		}
	}
	unfolded := strings.ReplaceAll(b.String(), "\r\n ", "")
	if unfolded != strings.Repeat("a", 74)+"íxxxx\r\n" {
		t.Fatalf("content changed by folding: %q", unfolded)
	}
}

func TestGoogleCalendarLink(t *testing.T) {
	e := Event{
		Summary:  "Perícia: 123",
		Location: "Rua A, 10",
		Start:    time.Date(2026, 2, 10, 14, 30, 0, 0, time.UTC),
		End:      time.Date(2026, 2, 10, 15, 30, 0, 0, time.UTC),
	}
	link := GoogleCalendarLink(e)
	if !strings.HasPrefix(link, "https://calendar.google.com/calendar/render?") {
		t.Fatalf("link base wrong: %q", link)
	}
	if !strings.Contains(link, "action=TEMPLATE") {
		t.Fatalf("missing action param")
	}
	if !strings.Contains(link, "dates=20260210T143000%2F20260210T153000") &&
		!strings.Contains(link, "dates=20260210T143000/20260210T153000") {
		t.Fatalf("dates param wrong: %q", link)
	}
}
