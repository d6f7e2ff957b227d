package booking

import (
	"fmt"
	"net/url"
	"time"
)

const (
	calendarRenderURL = "https://calendar.google.com/calendar/render"
	// Showroom visits are blocked out for one hour.
	appointmentDuration = time.Hour
	calendarTimeLayout  = "20060102T150405Z"
)

// CalendarLinkBuilder renders Google Calendar deep links for confirmed
// bookings so the customer can add the visit with one click.
type CalendarLinkBuilder struct {
	Company       string
	SalesContacts string
	Location      string
}

// Link builds the add-to-calendar URL for a completed resolution. Start must
// be set; the event runs for one hour and both endpoints are emitted in UTC.
func (b CalendarLinkBuilder) Link(res Resolution) string {
	start := res.Start.UTC()
	end := start.Add(appointmentDuration)

	details := fmt.Sprintf("Showroom appointment for %s.\nContact: %s\nSales team: %s",
		res.TruckType, res.Email, b.SalesContacts)

	q := url.Values{}
	q.Set("action", "TEMPLATE")
	q.Set("text", fmt.Sprintf("%s - %s", b.Company, res.TruckType))
	q.Set("dates", start.Format(calendarTimeLayout)+"/"+end.Format(calendarTimeLayout))
	q.Set("details", details)
	if b.Location != "" {
		q.Set("location", b.Location)
	}

	return calendarRenderURL + "?" + q.Encode()
}
