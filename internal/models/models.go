// Package models defines the core data structures for Charlie Bot.
//
// It includes the conversation state enumeration, inbound/outbound message
// types, and the order and appointment records shared across modules.
package models

import (
	"errors"
	"strings"
)

// Error variables for better error handling and testability
var (
	// ErrOrderNotFound indicates the order endpoint answered but knows no such order.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderServiceUnavailable indicates the order endpoint could not be reached
	// or answered with a non-success status.
	ErrOrderServiceUnavailable = errors.New("order service unavailable")
	// ErrCalendarNotAuthenticated indicates the calendar client has no OAuth
	// credentials and the operator must complete the login flow first.
	ErrCalendarNotAuthenticated = errors.New("calendar not authenticated")
)

// MessageStatus represents the delivery status of a message.
type MessageStatus string

const (
	// MessageStatusSent indicates the message was sent.
	MessageStatusSent MessageStatus = "sent"
	// MessageStatusDelivered indicates the message was delivered.
	MessageStatusDelivered MessageStatus = "delivered"
	// MessageStatusRead indicates the message was read.
	MessageStatusRead MessageStatus = "read"
	// MessageStatusFailed indicates the message failed to send.
	MessageStatusFailed MessageStatus = "failed"
)

// Receipt records the delivery status of an outbound message.
type Receipt struct {
	To     string        `json:"to"`
	Status MessageStatus `json:"status"`
	Time   int64         `json:"time"`
}

// Response represents an incoming message from a counterpart. From carries the
// full transport address (e.g. "573168641671@s.whatsapp.net").
type Response struct {
	From string `json:"from"`
	Body string `json:"body"`
	Time int64  `json:"time"`
}

// PhoneFromAddress derives the phone-like identifier from a transport address
// by taking the substring before the domain separator. The derived value is
// only attached to booked events for traceability, never used as a lookup key.
func PhoneFromAddress(addr string) string {
	if i := strings.IndexByte(addr, '@'); i >= 0 {
		return addr[:i]
	}
	return addr
}
