// Package email sends the best-effort booking confirmation.
//
// A failure here must never affect the booking outcome: the sender logs and
// swallows its own errors, and disables itself entirely when no SMTP
// credentials are configured.
package email

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	gomail "gopkg.in/gomail.v2"

	"github.com/proelectricos/charlie-bot/internal/models"
)

// Default SMTP settings match the original Gmail deployment.
const (
	DefaultSMTPHost = "smtp.gmail.com"
	DefaultSMTPPort = 587
)

// Sender delivers booking confirmations.
type Sender interface {
	// SendConfirmation emails the attendee. Errors are handled internally;
	// callers never learn about them.
	SendConfirmation(ev models.EventDetails)
}

// Opts holds configuration options for the confirmation sender.
type Opts struct {
	Host     string
	Port     int
	User     string
	Password string
}

// Option defines a configuration option for the confirmation sender.
type Option func(*Opts)

// WithSMTPHost sets the SMTP server host.
func WithSMTPHost(host string) Option {
	return func(o *Opts) { o.Host = host }
}

// WithSMTPPort sets the SMTP server port.
func WithSMTPPort(port int) Option {
	return func(o *Opts) { o.Port = port }
}

// WithCredentials sets the SMTP account. The user doubles as the From address.
func WithCredentials(user, password string) Option {
	return func(o *Opts) { o.User = user; o.Password = password }
}

// GomailSender implements Sender over SMTP with an ICS invite attached.
type GomailSender struct {
	dialer  *gomail.Dialer
	from    string
	enabled bool
}

// NewGomailSender creates the sender, falling back to the EMAIL_USER and
// EMAIL_PASSWORD environment variables. Without credentials the sender is
// created disabled and every SendConfirmation becomes a warn-logged no-op.
func NewGomailSender(opts ...Option) *GomailSender {
	cfg := Opts{Host: DefaultSMTPHost, Port: DefaultSMTPPort}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.User == "" {
		cfg.User = os.Getenv("EMAIL_USER")
	}
	if cfg.Password == "" {
		cfg.Password = os.Getenv("EMAIL_PASSWORD")
	}

	if cfg.User == "" || cfg.Password == "" {
		slog.Warn("Email sender disabled: EMAIL_USER or EMAIL_PASSWORD not configured")
		return &GomailSender{enabled: false}
	}

	return &GomailSender{
		dialer:  gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:    cfg.User,
		enabled: true,
	}
}

// SendConfirmation emails the booking summary with an ICS invite attached.
func (s *GomailSender) SendConfirmation(ev models.EventDetails) {
	if !s.enabled {
		slog.Warn("Email sender disabled, skipping confirmation", "to", ev.AttendeeEmail)
		return
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", ev.AttendeeEmail)
	msg.SetHeader("Subject", fmt.Sprintf("✅ Cita Agendada - %s", ev.AttendeeName))
	msg.SetBody("text/html", confirmationBody(ev))

	invite := buildInvite(ev)
	msg.Attach("cita.ics", gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := io.Copy(w, strings.NewReader(invite))
		return err
	}))

	if err := s.dialer.DialAndSend(msg); err != nil {
		slog.Error("Email confirmation send failed", "error", err, "to", ev.AttendeeEmail)
		return
	}
	slog.Info("Email confirmation sent", "to", ev.AttendeeEmail)
}

// buildInvite renders the appointment as an ICS request so mail clients offer
// to add it to the attendee's own calendar.
func buildInvite(ev models.EventDetails) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodRequest)

	event := cal.AddEvent(uuid.NewString())
	event.SetCreatedTime(time.Now())
	event.SetDtStampTime(time.Now())
	event.SetStartAt(ev.Start)
	event.SetEndAt(ev.End)
	event.SetSummary(ev.Title)
	event.SetDescription(fmt.Sprintf("Cita para %s (tel. %s)", ev.AttendeeName, ev.AttendeePhone))
	event.AddAttendee(ev.AttendeeEmail, ical.ParticipationStatusNeedsAction)

	return cal.Serialize()
}

// confirmationBody renders the HTML summary sent to the attendee.
func confirmationBody(ev models.EventDetails) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>¡Tu cita ha sido agendada! 🎊</h2>
  <div style="background-color: #ecf0f1; padding: 20px; border-radius: 8px;">
    <h3>Detalles de tu cita:</h3>
    <p><strong>Nombre:</strong> %s</p>
    <p><strong>Teléfono:</strong> %s</p>
    <p><strong>Correo:</strong> %s</p>
    <p><strong>Fecha y Hora:</strong> %s</p>
    <p><strong>Duración:</strong> %s</p>
  </div>
  <p style="color: #7f8c8d;">Este es un correo de confirmación enviado automáticamente por Charlie Bot.</p>
</div>`,
		ev.AttendeeName, ev.AttendeePhone, ev.AttendeeEmail,
		FormatSpanishDateTime(ev.Start), FormatDuration(ev.Duration()))
}

var spanishWeekdays = [...]string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"}

var spanishMonths = [...]string{"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"}

// FormatSpanishDateTime renders a long es-CO style date, e.g.
// "lunes, 2 de marzo de 2026, 10:00".
func FormatSpanishDateTime(t time.Time) string {
	return fmt.Sprintf("%s, %d de %s de %d, %02d:%02d",
		spanishWeekdays[t.Weekday()], t.Day(), spanishMonths[t.Month()-1], t.Year(), t.Hour(), t.Minute())
}

// FormatDuration renders a duration like "1 hora", "2 horas y 30 minutos".
func FormatDuration(d time.Duration) string {
	minutes := int(d.Round(time.Minute) / time.Minute)
	hours := minutes / 60
	mins := minutes % 60

	plural := func(n int, singular, pluralForm string) string {
		if n == 1 {
			return fmt.Sprintf("%d %s", n, singular)
		}
		return fmt.Sprintf("%d %s", n, pluralForm)
	}

	switch {
	case hours > 0 && mins > 0:
		return plural(hours, "hora", "horas") + " y " + plural(mins, "minuto", "minutos")
	case hours > 0:
		return plural(hours, "hora", "horas")
	default:
		return plural(mins, "minuto", "minutos")
	}
}
