package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// personaTemplate is the system prompt of the AI fallback. It keeps the
// assistant on-brand and steers counterparts back to the menu options.
const personaTemplate = `Eres Charlie, el asistente virtual de %s por WhatsApp.
Tu tono es profesional, amable y conciso. Respondes siempre en español y en pocas líneas.
Si el usuario quiere consultar un pedido, indícale que escriba *1*.
Si quiere agendar una cita, indícale que escriba *2*.
Si busca información de contacto, indícale que escriba *3*.
Nunca inventes números de pedido, fechas ni datos de la empresa.`

// handleAIFallback answers free-form text from the main menu with the AI
// collaborator. The conversation state never changes here: whatever the model
// says, the counterpart stays in the menu.
func (b *Bot) handleAIFallback(ctx context.Context, t *turn) {
	// Typing indicator is best effort while the completion is in flight.
	if err := b.emitter.SendTyping(ctx, t.id); err != nil {
		slog.Debug("Bot typing indicator failed", "error", err, "turn_id", t.turnID)
	}

	if b.opts.AI == nil {
		slog.Warn("Bot AI fallback requested but no completer configured", "turn_id", t.turnID)
		b.reply(ctx, t, replyAIApology)
		return
	}

	system := fmt.Sprintf(personaTemplate, b.opts.BusinessName)
	answer, err := b.opts.AI.GeneratePrompt(ctx, system, t.text)
	if err != nil || strings.TrimSpace(answer) == "" {
		slog.Error("Bot AI fallback failed", "error", err, "turn_id", t.turnID)
		b.reply(ctx, t, replyAIApology)
		return
	}
	b.reply(ctx, t, answer)
}
