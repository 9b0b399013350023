package bot

import (
	"context"
	"errors"
	"log/slog"
	"regexp"

	"github.com/proelectricos/charlie-bot/internal/metrics"
	"github.com/proelectricos/charlie-bot/internal/models"
	"github.com/proelectricos/charlie-bot/internal/session"
)

// AppointmentDuration is the fixed length of every appointment slot.
const AppointmentDuration = models.DefaultAppointmentDuration

// emailRegex accepts any non-whitespace local part and a dotted domain.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// handleScheduleStart serves menu option 2: discard any stale scratch data and
// ask for the desired date.
func (b *Bot) handleScheduleStart(ctx context.Context, t *turn) {
	t.sess = session.Session{State: models.StateAwaitingDate}
	b.reply(ctx, t, replyDatePrompt)
}

// handleScheduleDate parses the message as a natural-language date, checks the
// calendar for the fixed-length slot starting there, and on success records
// the proposal and asks for the attendee name. Every failure keeps the
// conversation in the date-capture state so the counterpart can just retry.
func (b *Bot) handleScheduleDate(ctx context.Context, t *turn) {
	if b.opts.Dates == nil {
		slog.Warn("Bot date requested but no parser configured", "turn_id", t.turnID)
		b.reply(ctx, t, replyDateNotUnderstood)
		return
	}

	candidates := b.opts.Dates.Parse(t.text, b.opts.Clock())
	if len(candidates) == 0 {
		b.reply(ctx, t, replyDateNotUnderstood)
		return
	}
	start := candidates[0]
	end := start.Add(AppointmentDuration)

	if b.opts.Calendar == nil {
		slog.Warn("Bot availability check requested but no calendar configured", "turn_id", t.turnID)
		b.reply(ctx, t, replyAvailabilityFailed)
		return
	}

	available, err := b.opts.Calendar.CheckAvailability(ctx, start, end)
	if err != nil {
		if errors.Is(err, models.ErrCalendarNotAuthenticated) {
			slog.Warn("Bot calendar not authenticated", "turn_id", t.turnID)
			b.reply(ctx, t, authRequiredText(b.opts.LoginURL))
			return
		}
		slog.Error("Bot availability check failed", "error", err, "turn_id", t.turnID)
		b.reply(ctx, t, replyAvailabilityFailed)
		return
	}
	if !available {
		b.reply(ctx, t, replySlotTaken)
		return
	}

	t.sess.Scratch = models.Scratch{ProposedStart: start, ProposedEnd: end}
	t.sess.State = models.StateAwaitingName
	b.reply(ctx, t, slotAvailableText(start))
}

// handleScheduleName stores the message verbatim as the attendee name and asks
// for the email address.
func (b *Bot) handleScheduleName(ctx context.Context, t *turn) {
	t.sess.Scratch.AttendeeName = t.text
	t.sess.State = models.StateAwaitingEmail
	b.reply(ctx, t, replyEmailPrompt)
}

// handleScheduleEmail validates the email, books the appointment and closes
// the flow. Whatever the booking outcome, the collected scratch data is
// discarded and the conversation returns to the pre-menu state; only a failed
// email validation keeps the flow open for a retry.
func (b *Bot) handleScheduleEmail(ctx context.Context, t *turn) {
	if !emailRegex.MatchString(t.text) {
		b.reply(ctx, t, replyEmailInvalid)
		return
	}
	t.sess.Scratch.AttendeeEmail = t.text

	details := models.EventDetails{
		Title:         "Cita: " + t.sess.Scratch.AttendeeName,
		Start:         t.sess.Scratch.ProposedStart,
		End:           t.sess.Scratch.ProposedEnd,
		AttendeeName:  t.sess.Scratch.AttendeeName,
		AttendeeEmail: t.sess.Scratch.AttendeeEmail,
		AttendeePhone: t.phone,
	}

	t.sess = session.Session{}

	if b.opts.Calendar == nil {
		slog.Warn("Bot booking requested but no calendar configured", "turn_id", t.turnID)
		metrics.BookingsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		b.reply(ctx, t, replyBookingFailed)
		return
	}
	if err := b.opts.Calendar.CreateEvent(ctx, details); err != nil {
		slog.Error("Bot booking failed", "error", err, "turn_id", t.turnID)
		metrics.BookingsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		b.reply(ctx, t, replyBookingFailed)
		return
	}
	metrics.BookingsTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	slog.Info("Bot appointment booked", "turn_id", t.turnID, "start", details.Start, "attendee", details.AttendeeEmail)

	if b.opts.Email != nil {
		// Best effort. The sender logs and swallows its own failures.
		b.opts.Email.SendConfirmation(details)
	}

	b.reply(ctx, t, bookingConfirmedText(details))
}
