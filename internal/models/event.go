package models

import "time"

// DefaultAppointmentDuration is the fixed slot length used for availability
// checks and bookings.
const DefaultAppointmentDuration = 60 * time.Minute

// EventDetails describes a booked appointment, shared between the calendar
// adapter and the confirmation email sender.
type EventDetails struct {
	Title         string    `json:"title"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	AttendeeEmail string    `json:"attendee_email"`
	AttendeeName  string    `json:"attendee_name"`
	AttendeePhone string    `json:"attendee_phone"`
}

// Duration returns the appointment length.
func (e EventDetails) Duration() time.Duration {
	return e.End.Sub(e.Start)
}
