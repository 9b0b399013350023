package bot

import (
	"context"
	"errors"
	"log/slog"

	"github.com/proelectricos/charlie-bot/internal/metrics"
	"github.com/proelectricos/charlie-bot/internal/models"
)

// handleOrderStart serves menu option 1: ask for the order number and move to
// the capture state.
func (b *Bot) handleOrderStart(ctx context.Context, t *turn) {
	t.sess.State = models.StateAwaitingOrderNumber
	b.reply(ctx, t, replyOrderPrompt)
}

// handleOrderNumber treats the message as an order number, looks it up and
// replies once per line item, paced so the transport delivers them in order.
// The conversation always lands back on the main menu, whatever the outcome.
func (b *Bot) handleOrderNumber(ctx context.Context, t *turn) {
	orderNumber := t.text
	t.sess.State = models.StateMainMenu

	b.reply(ctx, t, searchingText(orderNumber))

	if b.opts.Orders == nil {
		slog.Warn("Bot order lookup requested but no order collaborator configured", "turn_id", t.turnID)
		metrics.OrderLookupsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		b.reply(ctx, t, replyOrderLookupFailed)
		return
	}

	lines, err := b.opts.Orders.FetchOrder(ctx, orderNumber)
	if err != nil {
		if errors.Is(err, models.ErrOrderNotFound) {
			slog.Info("Bot order not found", "turn_id", t.turnID, "order", orderNumber)
		} else {
			slog.Error("Bot order lookup failed", "error", err, "turn_id", t.turnID, "order", orderNumber)
		}
		metrics.OrderLookupsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		b.reply(ctx, t, replyOrderLookupFailed)
		return
	}
	if len(lines) == 0 {
		metrics.OrderLookupsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		b.reply(ctx, t, replyOrderNotFound)
		return
	}

	metrics.OrderLookupsTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	for i, line := range lines {
		if i > 0 {
			b.pause(ctx)
		}
		b.reply(ctx, t, orderLineText(line))
	}
}
