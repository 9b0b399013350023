package bot

import (
	"strings"
	"testing"
	"time"

	"github.com/proelectricos/charlie-bot/internal/models"
)

func strPtr(s string) *string { return &s }

func TestFormatMilestoneDate(t *testing.T) {
	cases := []struct {
		name string
		in   *string
		want string
	}{
		{"nil", nil, "N/A"},
		{"empty", strPtr(""), "N/A"},
		{"blank", strPtr("   "), "N/A"},
		{"date only", strPtr("2026-01-05"), "05 ene 2026"},
		{"datetime", strPtr("2026-12-24T14:30:00"), "24 dic 2026"},
		{"rfc3339", strPtr("2026-07-01T09:00:00Z"), "01 jul 2026"},
		{"garbage", strPtr("mañana"), "N/A"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := formatMilestoneDate(tc.in); got != tc.want {
				t.Errorf("formatMilestoneDate(%v) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestOrderLineTextListsAllMilestones(t *testing.T) {
	line := models.OrderLine{
		OrderNumber:     "4512",
		Description:     "Tablero principal",
		Project:         "Subestación Norte",
		Quantity:        2,
		Pending:         1,
		ProductionOrder: 88,
		DateApproval:    strPtr("2026-01-05"),
	}

	text := orderLineText(line)

	labels := []string{
		"Disp elec y mec", "Aprobacion", "Comp y final", "Compras", "LMF Cons",
		"Dis mecanico", "Metalmecanica", "Entr mater ele", "Despacho",
	}
	for _, label := range labels {
		if !strings.Contains(text, label) {
			t.Errorf("expected milestone label %q in rendering:\n%s", label, text)
		}
	}
	if !strings.Contains(text, "Aprobacion: 05 ene 2026") {
		t.Errorf("expected the set milestone rendered with its date:\n%s", text)
	}
	if strings.Count(text, "N/A") != 8 {
		t.Errorf("expected 8 unset milestones as N/A, rendering:\n%s", text)
	}
	if !strings.Contains(text, "Tablero principal") || !strings.Contains(text, "4512") {
		t.Errorf("expected order header fields in rendering:\n%s", text)
	}
}

func TestFormatQuantity(t *testing.T) {
	if got := formatQuantity(2); got != "2" {
		t.Errorf("formatQuantity(2) = %q", got)
	}
	if got := formatQuantity(2.5); got != "2.5" {
		t.Errorf("formatQuantity(2.5) = %q", got)
	}
}

func TestMenuText(t *testing.T) {
	text := menuText("Charlie Bot")
	for _, want := range []string{"Charlie Bot", "1. Ver pedidos", "2. Agendar Cita", "3. Contacto"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in menu, got %q", want, text)
		}
	}
}

func TestFormatSlot(t *testing.T) {
	slot := time.Date(2026, 3, 3, 10, 5, 0, 0, time.UTC)
	if got := formatSlot(slot); got != "03/03/2026, 10:05" {
		t.Errorf("formatSlot = %q", got)
	}
}

func TestClassifyGreetingPrecedence(t *testing.T) {
	states := []models.State{
		models.StateNone, models.StateMainMenu, models.StateAwaitingOrderNumber,
		models.StateAwaitingDate, models.StateAwaitingName, models.StateAwaitingEmail,
	}
	for _, st := range states {
		for _, text := range []string{"hola", "Hola", "MENU", "menú"} {
			if got := classify(st, text); got != handlerGreeting {
				t.Errorf("classify(%q, %q) = %q, want greeting", st, text, got)
			}
		}
	}
}

func TestClassifyMenuSelections(t *testing.T) {
	cases := []struct {
		text string
		want handlerKey
	}{
		{"1", handlerOrderStart},
		{"2", handlerScheduleStart},
		{"3", handlerContact},
		{"4", handlerAIFallback},
		{"quiero información", handlerAIFallback},
	}
	for _, tc := range cases {
		if got := classify(models.StateMainMenu, tc.text); got != tc.want {
			t.Errorf("classify(MAIN_MENU, %q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestClassifyPreMenu(t *testing.T) {
	if got := classify(models.StateNone, "buenas"); got != handlerNone {
		t.Errorf("classify(none, buenas) = %q, want none", got)
	}
	if got := classify(models.StateNone, "1"); got != handlerOrderStart {
		t.Errorf("classify(none, 1) = %q, want order_start", got)
	}
}
