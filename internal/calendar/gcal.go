package calendar

import (
	"net/url"
)

const gcalBase = "https://calendar.google.com/calendar/render"

// GoogleCalendarLink builds the event-creation deep link for one event.
func GoogleCalendarLink(e Event) string {
	q := url.Values{}
	q.Set("action", "TEMPLATE")
	q.Set("text", e.Summary)
	q.Set("dates", e.Start.Format(icsDateFormat)+"/"+e.End.Format(icsDateFormat))
	if e.Location != "" {
		q.Set("location", e.Location)
	}
	if e.Description != "" {
		q.Set("details", e.Description)
	}
	return gcalBase + "?" + q.Encode()
}
