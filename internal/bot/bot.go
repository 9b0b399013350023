// Package bot implements the per-conversation state machine of Charlie Bot.
//
// The orchestrator receives one inbound message at a time, classifies it
// against the counterpart's current state, dispatches to the matching turn
// handler, and commits the resulting state. Handlers reply through the
// transport's reply emitter and never let a collaborator failure escape the
// turn: every recognized message produces at least one reply and exactly one
// state transition.
package bot

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/proelectricos/charlie-bot/internal/calendar"
	"github.com/proelectricos/charlie-bot/internal/dateparse"
	"github.com/proelectricos/charlie-bot/internal/email"
	"github.com/proelectricos/charlie-bot/internal/metrics"
	"github.com/proelectricos/charlie-bot/internal/models"
	"github.com/proelectricos/charlie-bot/internal/session"
)

// DefaultPacingDelay spaces consecutive replies of a multi-message turn to
// respect transport rate expectations.
const DefaultPacingDelay = 500 * time.Millisecond

// DefaultDisplayName heads the main menu.
const DefaultDisplayName = "Charlie Bot"

// DefaultBusinessName is the business the AI persona identifies with.
const DefaultBusinessName = "Proelectricos"

// ReplyEmitter sends replies back to the originating counterpart. It is owned
// by the transport collaborator; messaging.Service satisfies it.
type ReplyEmitter interface {
	SendMessage(ctx context.Context, to string, body string) error
	SendTyping(ctx context.Context, to string) error
}

// OrderFetcher looks up production-order line items.
type OrderFetcher interface {
	FetchOrder(ctx context.Context, orderNumber string) ([]models.OrderLine, error)
}

// Completer generates the AI fallback reply.
type Completer interface {
	GeneratePrompt(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Opts holds the bot's optional collaborators and tuning knobs.
type Opts struct {
	Orders       OrderFetcher
	Calendar     calendar.Service
	Dates        dateparse.Parser
	Email        email.Sender
	AI           Completer
	DisplayName  string
	BusinessName string
	LoginURL     string
	PacingDelay  time.Duration
	Clock        func() time.Time
}

// Option defines a configuration option for the bot.
type Option func(*Opts)

// WithOrderFetcher wires the production-order lookup collaborator.
func WithOrderFetcher(f OrderFetcher) Option {
	return func(o *Opts) { o.Orders = f }
}

// WithCalendar wires the calendar collaborator.
func WithCalendar(c calendar.Service) Option {
	return func(o *Opts) { o.Calendar = c }
}

// WithDateParser wires the natural-language date parser.
func WithDateParser(p dateparse.Parser) Option {
	return func(o *Opts) { o.Dates = p }
}

// WithEmailSender wires the best-effort confirmation email sender.
func WithEmailSender(s email.Sender) Option {
	return func(o *Opts) { o.Email = s }
}

// WithCompleter wires the AI fallback collaborator.
func WithCompleter(c Completer) Option {
	return func(o *Opts) { o.AI = c }
}

// WithDisplayName sets the bot name shown in the main menu.
func WithDisplayName(name string) Option {
	return func(o *Opts) { o.DisplayName = name }
}

// WithBusinessName sets the business the AI persona identifies with.
func WithBusinessName(name string) Option {
	return func(o *Opts) { o.BusinessName = name }
}

// WithLoginURL sets the OAuth login URL quoted in the authorization instruction.
func WithLoginURL(u string) Option {
	return func(o *Opts) { o.LoginURL = u }
}

// WithPacingDelay overrides the delay between consecutive replies of one turn.
func WithPacingDelay(d time.Duration) Option {
	return func(o *Opts) { o.PacingDelay = d }
}

// WithClock overrides the time source (used by tests).
func WithClock(clock func() time.Time) Option {
	return func(o *Opts) { o.Clock = clock }
}

// Bot is the turn-processing orchestrator.
type Bot struct {
	emitter  ReplyEmitter
	sessions session.Store
	opts     Opts
	handlers map[handlerKey]handlerFunc
}

// turn carries the working copy of one inbound message's processing.
// Handlers mutate sess; the orchestrator commits it once the handler returns.
type turn struct {
	id     string // canonical counterpart address
	phone  string // derived phone identifier, for event traceability only
	text   string
	turnID string
	sess   session.Session
}

type handlerFunc func(ctx context.Context, t *turn)

// New creates the orchestrator. Collaborators left unwired degrade to the
// corresponding failure reply instead of crashing a turn.
func New(emitter ReplyEmitter, sessions session.Store, opts ...Option) *Bot {
	cfg := Opts{
		DisplayName:  DefaultDisplayName,
		BusinessName: DefaultBusinessName,
		PacingDelay:  DefaultPacingDelay,
		Clock:        time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	b := &Bot{emitter: emitter, sessions: sessions, opts: cfg}
	b.handlers = map[handlerKey]handlerFunc{
		handlerGreeting:      b.handleGreeting,
		handlerOrderStart:    b.handleOrderStart,
		handlerOrderNumber:   b.handleOrderNumber,
		handlerScheduleStart: b.handleScheduleStart,
		handlerScheduleDate:  b.handleScheduleDate,
		handlerScheduleName:  b.handleScheduleName,
		handlerScheduleEmail: b.handleScheduleEmail,
		handlerContact:       b.handleContact,
		handlerAIFallback:    b.handleAIFallback,
	}
	return b
}

// HandleMessage processes one inbound message: load state, classify, dispatch,
// commit. Messages with an empty body or missing counterpart are ignored
// without reply or state change. Turns for the same counterpart are
// serialized; distinct counterparts proceed concurrently.
func (b *Bot) HandleMessage(ctx context.Context, counterpartID, text string) {
	if counterpartID == "" || strings.TrimSpace(text) == "" {
		slog.Debug("Bot ignoring malformed inbound message", "id_set", counterpartID != "")
		return
	}

	unlock := b.sessions.Lock(counterpartID)
	defer unlock()

	t := &turn{
		id:     counterpartID,
		phone:  models.PhoneFromAddress(counterpartID),
		text:   strings.TrimSpace(text),
		turnID: uuid.NewString(),
		sess:   b.sessions.Get(counterpartID),
	}

	key := classify(t.sess.State, t.text)
	slog.Debug("Bot dispatching turn", "turn_id", t.turnID, "from", t.id, "state", t.sess.State, "handler", key)

	if key == handlerNone {
		// Pre-menu text that is neither a greeting nor "1": the original bot
		// stays silent until the counterpart greets.
		metrics.TurnsTotal.WithLabelValues("none").Inc()
		return
	}

	b.handlers[key](ctx, t)
	b.sessions.Set(t.id, t.sess)
	metrics.TurnsTotal.WithLabelValues(string(key)).Inc()
	slog.Info("Bot turn completed", "turn_id", t.turnID, "from", t.id, "handler", key, "new_state", t.sess.State)
}

// reply sends one outbound message; delivery failures are logged, never
// propagated into the turn outcome.
func (b *Bot) reply(ctx context.Context, t *turn, body string) {
	if err := b.emitter.SendMessage(ctx, t.id, body); err != nil {
		slog.Error("Bot reply delivery failed", "error", err, "turn_id", t.turnID, "to", t.id)
		metrics.RepliesTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return
	}
	metrics.RepliesTotal.WithLabelValues(metrics.OutcomeOK).Inc()
}

// pause waits the pacing delay between consecutive replies of one turn.
func (b *Bot) pause(ctx context.Context) {
	if b.opts.PacingDelay <= 0 {
		return
	}
	select {
	case <-time.After(b.opts.PacingDelay):
	case <-ctx.Done():
	}
}

// handleGreeting resets the conversation to the main menu from any state and
// discards scratch data.
func (b *Bot) handleGreeting(ctx context.Context, t *turn) {
	t.sess = session.Session{State: models.StateMainMenu}
	b.reply(ctx, t, menuText(b.opts.DisplayName))
}

// handleContact serves menu option 3.
func (b *Bot) handleContact(ctx context.Context, t *turn) {
	b.reply(ctx, t, replyContact)
}
