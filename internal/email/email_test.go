package email

import (
	"strings"
	"testing"
	"time"

	"github.com/proelectricos/charlie-bot/internal/models"
)

func testEvent() models.EventDetails {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	return models.EventDetails{
		Title:         "Cita: Ana",
		Start:         start,
		End:           start.Add(time.Hour),
		AttendeeName:  "Ana",
		AttendeeEmail: "ana@example.com",
		AttendeePhone: "573168641671",
	}
}

func TestFormatSpanishDateTime(t *testing.T) {
	got := FormatSpanishDateTime(time.Date(2026, 3, 2, 10, 5, 0, 0, time.UTC))
	if got != "lunes, 2 de marzo de 2026, 10:05" {
		t.Errorf("FormatSpanishDateTime = %q", got)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{time.Hour, "1 hora"},
		{2 * time.Hour, "2 horas"},
		{90 * time.Minute, "1 hora y 30 minutos"},
		{45 * time.Minute, "45 minutos"},
		{time.Minute, "1 minuto"},
	}
	for _, tc := range cases {
		if got := FormatDuration(tc.in); got != tc.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestBuildInvite(t *testing.T) {
	invite := buildInvite(testEvent())

	for _, want := range []string{
		"METHOD:REQUEST",
		"SUMMARY:Cita: Ana",
		"mailto:ana@example.com",
		"DTSTART:20260302T100000Z",
		"DTEND:20260302T110000Z",
	} {
		if !strings.Contains(invite, want) {
			t.Errorf("expected %q in invite:\n%s", want, invite)
		}
	}
}

func TestConfirmationBody(t *testing.T) {
	body := confirmationBody(testEvent())

	for _, want := range []string{"Ana", "ana@example.com", "573168641671", "lunes, 2 de marzo de 2026, 10:00", "1 hora"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in confirmation body", want)
		}
	}
}

func TestDisabledSenderDoesNotPanic(t *testing.T) {
	t.Setenv("EMAIL_USER", "")
	t.Setenv("EMAIL_PASSWORD", "")

	s := NewGomailSender()
	s.SendConfirmation(testEvent())
}
