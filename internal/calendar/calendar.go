// Package calendar provides the Google Calendar adapter for the scheduling flow.
package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/proelectricos/charlie-bot/internal/googleauth"
	"github.com/proelectricos/charlie-bot/internal/models"
)

// DefaultCalendarID targets the authenticated account's primary calendar.
const DefaultCalendarID = "primary"

// Service defines the calendar operations the scheduling flow depends on.
// Availability failures caused by missing authentication surface as
// models.ErrCalendarNotAuthenticated, distinct from other failures.
type Service interface {
	// CheckAvailability reports whether [start, end) is free on the calendar.
	CheckAvailability(ctx context.Context, start, end time.Time) (bool, error)

	// CreateEvent books the appointment on the calendar.
	CreateEvent(ctx context.Context, ev models.EventDetails) error
}

// Opts holds configuration options for the Google Calendar adapter.
type Opts struct {
	CalendarID string
}

// Option defines a configuration option for the Google Calendar adapter.
type Option func(*Opts)

// WithCalendarID targets a calendar other than "primary".
func WithCalendarID(id string) Option {
	return func(o *Opts) { o.CalendarID = id }
}

// GoogleCalendar implements Service against the Google Calendar v3 API.
type GoogleCalendar struct {
	auth       *googleauth.Manager
	calendarID string
}

// NewGoogleCalendar creates the adapter. The auth manager supplies the OAuth
// token source; calls fail with models.ErrCalendarNotAuthenticated until the
// login flow has completed.
func NewGoogleCalendar(auth *googleauth.Manager, opts ...Option) *GoogleCalendar {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.CalendarID == "" {
		cfg.CalendarID = DefaultCalendarID
	}
	slog.Debug("GoogleCalendar adapter created", "calendar_id", cfg.CalendarID)
	return &GoogleCalendar{auth: auth, calendarID: cfg.CalendarID}
}

// service builds an API client for this call. The token source refreshes
// itself, so building per call keeps the adapter free of connection state.
func (g *GoogleCalendar) service(ctx context.Context) (*gcal.Service, error) {
	ts, err := g.auth.TokenSource(ctx)
	if err != nil {
		return nil, err
	}
	svc, err := gcal.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("building calendar service: %w", err)
	}
	return svc, nil
}

// CheckAvailability queries free/busy for the slot.
func (g *GoogleCalendar) CheckAvailability(ctx context.Context, start, end time.Time) (bool, error) {
	svc, err := g.service(ctx)
	if err != nil {
		return false, err
	}

	req := &gcal.FreeBusyRequest{
		TimeMin: start.Format(time.RFC3339),
		TimeMax: end.Format(time.RFC3339),
		Items:   []*gcal.FreeBusyRequestItem{{Id: g.calendarID}},
	}
	resp, err := svc.Freebusy.Query(req).Context(ctx).Do()
	if err != nil {
		slog.Error("GoogleCalendar freebusy query failed", "error", err)
		return false, fmt.Errorf("querying availability: %w", err)
	}

	cal, ok := resp.Calendars[g.calendarID]
	if !ok {
		return false, fmt.Errorf("calendar %q missing from freebusy response", g.calendarID)
	}
	available := len(cal.Busy) == 0
	slog.Debug("GoogleCalendar availability checked", "start", start, "end", end, "available", available)
	return available, nil
}

// CreateEvent inserts the appointment with the attendee's contact details.
func (g *GoogleCalendar) CreateEvent(ctx context.Context, ev models.EventDetails) error {
	svc, err := g.service(ctx)
	if err != nil {
		return err
	}

	event := &gcal.Event{
		Summary: ev.Title,
		Description: fmt.Sprintf("Cita agendada para %s\nTeléfono: %s\nCorreo: %s",
			ev.AttendeeName, ev.AttendeePhone, ev.AttendeeEmail),
		Start:     &gcal.EventDateTime{DateTime: ev.Start.Format(time.RFC3339)},
		End:       &gcal.EventDateTime{DateTime: ev.End.Format(time.RFC3339)},
		Attendees: []*gcal.EventAttendee{{Email: ev.AttendeeEmail, DisplayName: ev.AttendeeName}},
	}

	created, err := svc.Events.Insert(g.calendarID, event).Context(ctx).Do()
	if err != nil {
		slog.Error("GoogleCalendar event insert failed", "error", err, "title", ev.Title)
		return fmt.Errorf("creating calendar event: %w", err)
	}
	slog.Info("GoogleCalendar event created", "event_id", created.Id, "title", ev.Title, "start", ev.Start)
	return nil
}
