package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/proelectricos/charlie-bot/internal/models"
)

// Reply texts. The bot speaks Spanish to its counterparts.
const (
	replyOrderPrompt = "🔢 Por favor, ingresa el *número de pedido* que deseas consultar:"

	replyOrderNotFound = "❌ No se encontraron pedidos para ese número."

	replyOrderLookupFailed = "❌ No pude encontrar el pedido o el sistema de consultas está fuera de línea. Verifica el número e intenta más tarde."

	replyDatePrompt = "📅 ¿Para cuándo quieres la cita?\n_(Ej: \"Mañana a las 10am\" o \"El lunes a las 3pm\")_"

	replyDateNotUnderstood = "❌ No entendí la fecha. Intenta de nuevo.\n_(Ej: \"Mañana a las 10am\")_"

	replySlotTaken = "🚫 Ese horario ya está ocupado. Prueba con otra fecha u hora."

	replyAvailabilityFailed = "❌ No pude verificar la disponibilidad. Intenta más tarde."

	replyEmailPrompt = "📧 Por último, escribe tu correo electrónico:"

	replyEmailInvalid = "❌ Por favor, escribe un correo electrónico válido.\n_(Ej: usuario@ejemplo.com)_"

	replyBookingFailed = "❌ Ocurrió un error al agendar la cita. Por favor, intenta más tarde."

	replyContact = "📞 *Contacto*\nMuy pronto tendremos esta opción disponible.\n\nEscribe *Menu* para volver al menú principal."

	replyAIApology = "Lo siento, tuve un pequeño corto circuito mental. ¿Me repites?"
)

// menuText renders the main menu.
func menuText(displayName string) string {
	return fmt.Sprintf("🤖 *%s*\n1. Ver pedidos\n2. Agendar Cita\n3. Contacto", displayName)
}

// searchingText acknowledges an order lookup before the collaborator call.
func searchingText(orderNumber string) string {
	return fmt.Sprintf("🔍 Buscando el pedido *%s*...", orderNumber)
}

// authRequiredText instructs the operator to complete the OAuth flow.
func authRequiredText(loginURL string) string {
	return fmt.Sprintf("⚠️ El bot aún no está autorizado con Google Calendar.\nPide al administrador que visite: %s", loginURL)
}

// slotAvailableText confirms the proposed slot and asks for the attendee name.
func slotAvailableText(start time.Time) string {
	return fmt.Sprintf("✅ Disponible para: *%s*\n\n¿A nombre de quién agendamos la cita?", formatSlot(start))
}

// bookingConfirmedText summarizes the created appointment.
func bookingConfirmedText(ev models.EventDetails) string {
	return fmt.Sprintf(
		"🎊 ¡Listo! Cita agendada para: *%s*\n\n📧 Datos registrados:\n• Nombre: %s\n• Correo: %s\n• Teléfono: %s\n\n✅ El evento quedó en el calendario y enviamos la confirmación a tu correo.",
		formatSlot(ev.Start), ev.AttendeeName, ev.AttendeeEmail, ev.AttendeePhone)
}

// formatSlot renders an appointment start in the counterpart's locale.
func formatSlot(t time.Time) string {
	return t.Format("02/01/2006, 15:04")
}

// spanishShortMonths matches the es-ES short month names used for milestone dates.
var spanishShortMonths = [...]string{
	"ene", "feb", "mar", "abr", "may", "jun",
	"jul", "ago", "sep", "oct", "nov", "dic",
}

// milestoneDateLayouts are the timestamp shapes the order system emits.
var milestoneDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// formatMilestoneDate renders an upstream milestone timestamp as a short
// Spanish date ("05 ene 2026"). Missing or unparseable values become "N/A".
func formatMilestoneDate(raw *string) string {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return "N/A"
	}
	for _, layout := range milestoneDateLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(*raw)); err == nil {
			return fmt.Sprintf("%02d %s %d", t.Day(), spanishShortMonths[t.Month()-1], t.Year())
		}
	}
	return "N/A"
}

// orderLineText renders one production-order line item with its nine
// manufacturing milestones.
func orderLineText(line models.OrderLine) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📦 *Pedido %s*\n", textOr(line.OrderNumber, "N/A"))
	fmt.Fprintf(&sb, "🔧 Artículo: %s\n", textOr(line.Description, "N/A"))
	fmt.Fprintf(&sb, "🏷️ Proyecto: %s\n", textOr(line.Project, "N/A"))
	fmt.Fprintf(&sb, "🔢 Cantidad: %s | Pendiente: %s\n", formatQuantity(line.Quantity), formatQuantity(line.Pending))
	fmt.Fprintf(&sb, "🆔 OP: %d\n\n", line.ProductionOrder)

	sb.WriteString("📅 *Etapas de fabricación:*\n")
	for _, m := range line.Milestones() {
		fmt.Fprintf(&sb, "• %s: %s\n", m.Label, formatMilestoneDate(m.Date))
	}

	sb.WriteString("\n¿Deseas algo más? Escribe *Menu* para volver al menú.")
	return sb.String()
}

// formatQuantity drops the decimal part when the upstream value is whole.
func formatQuantity(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}

func textOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
