package bot

import (
	"strings"

	"github.com/proelectricos/charlie-bot/internal/models"
)

// handlerKey identifies the turn handler a message dispatches to.
type handlerKey string

const (
	handlerNone          handlerKey = ""
	handlerGreeting      handlerKey = "greeting"
	handlerOrderStart    handlerKey = "order_start"
	handlerOrderNumber   handlerKey = "order_number"
	handlerScheduleStart handlerKey = "schedule_start"
	handlerScheduleDate  handlerKey = "schedule_date"
	handlerScheduleName  handlerKey = "schedule_name"
	handlerScheduleEmail handlerKey = "schedule_email"
	handlerContact       handlerKey = "contact"
	handlerAIFallback    handlerKey = "ai_fallback"
)

// greetingKeywords reset the conversation to the main menu regardless of the
// current state. Matching is case-insensitive on the trimmed text.
var greetingKeywords = map[string]bool{
	"hola": true,
	"menu": true,
	"menú": true,
}

// classify maps (state, trimmed text) to a handler key. Greetings take
// precedence over everything, including in-flow prompts, so a counterpart is
// never trapped mid-flow. handlerNone means the message is dropped silently.
func classify(state models.State, text string) handlerKey {
	if greetingKeywords[strings.ToLower(text)] {
		return handlerGreeting
	}

	switch state {
	case models.StateNone:
		// Before the first greeting only option 1 is honored; anything else
		// stays unanswered.
		if text == "1" {
			return handlerOrderStart
		}
		return handlerNone
	case models.StateMainMenu:
		switch text {
		case "1":
			return handlerOrderStart
		case "2":
			return handlerScheduleStart
		case "3":
			return handlerContact
		}
		return handlerAIFallback
	case models.StateAwaitingOrderNumber:
		return handlerOrderNumber
	case models.StateAwaitingDate:
		return handlerScheduleDate
	case models.StateAwaitingName:
		return handlerScheduleName
	case models.StateAwaitingEmail:
		return handlerScheduleEmail
	}
	return handlerNone
}
