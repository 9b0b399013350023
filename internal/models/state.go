// Package models defines state management structures for Charlie Bot conversations.
package models

import "time"

// State identifies where a conversation currently is in the menu and flows.
// The zero value means the counterpart has not greeted yet (implicit pre-menu).
type State string

const (
	// StateNone is the implicit pre-menu state before the first greeting.
	StateNone State = ""
	// StateMainMenu means the main menu has been shown and a selection is expected.
	StateMainMenu State = "MAIN_MENU"
	// StateAwaitingOrderNumber means the next message is treated as an order number.
	StateAwaitingOrderNumber State = "AWAITING_ORDER_NUMBER"
	// StateAwaitingDate means the next message is parsed as an appointment date.
	StateAwaitingDate State = "AWAITING_DATE"
	// StateAwaitingName means the next message is stored as the attendee name.
	StateAwaitingName State = "AWAITING_NAME"
	// StateAwaitingEmail means the next message is validated as the attendee email.
	StateAwaitingEmail State = "AWAITING_EMAIL"
)

// IsValidState checks if the given state is one of the closed enumeration.
func IsValidState(s State) bool {
	switch s {
	case StateNone, StateMainMenu, StateAwaitingOrderNumber, StateAwaitingDate, StateAwaitingName, StateAwaitingEmail:
		return true
	default:
		return false
	}
}

// Scratch holds the data collected across the scheduling flow. Fields are
// populated strictly in the order Start/End, Name, Email; the state machine
// makes a later step unreachable without its predecessor's transition.
type Scratch struct {
	ProposedStart time.Time `json:"proposed_start,omitzero"`
	ProposedEnd   time.Time `json:"proposed_end,omitzero"`
	AttendeeName  string    `json:"attendee_name,omitempty"`
	AttendeeEmail string    `json:"attendee_email,omitempty"`
}

// IsZero reports whether no scratch data has been collected yet.
func (s Scratch) IsZero() bool {
	return s.ProposedStart.IsZero() && s.ProposedEnd.IsZero() && s.AttendeeName == "" && s.AttendeeEmail == ""
}
