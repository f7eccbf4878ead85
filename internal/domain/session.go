// Package domain contains core domain types for the cashier top-up service.
package domain

import (
	"fmt"
	"time"
)

// State names a position in the per-user conversation state machine.
type State string

const (
	// StateInitial is the entry state for new or restarted conversations.
	StateInitial State = "initial"
	// StateNoAccount holds users who declined registration until they retry.
	StateNoAccount      State = "no_account"
	StateAwaitingName   State = "awaiting_name"
	StateAwaitingAge    State = "awaiting_age"
	StateMainMenu       State = "main_menu"
	StateAwaitingMethod State = "awaiting_method"
	StateAwaitingAmount State = "awaiting_amount"
	StateAwaitingSent   State = "awaiting_sent"
	StateAwaitingCode   State = "awaiting_code"
)

// ParseState converts a stored state name back into a State.
// Unknown names are rejected rather than silently defaulted.
func ParseState(s string) (State, error) {
	switch State(s) {
	case StateInitial, StateNoAccount, StateAwaitingName, StateAwaitingAge,
		StateMainMenu, StateAwaitingMethod, StateAwaitingAmount,
		StateAwaitingSent, StateAwaitingCode:
		return State(s), nil
	}
	return "", fmt.Errorf("unknown conversation state %q", s)
}

// Method identifies a top-up payment channel.
type Method string

// MethodSyriatelCash is the only payment channel currently offered.
const MethodSyriatelCash Method = "syriatel_cash"

// PendingClaim describes an in-flight top-up request. It exists only while
// the session is inside the top-up sub-flow.
type PendingClaim struct {
	Method Method `json:"method"`
	Amount int64  `json:"amount"`
}

// Session is the per-user conversation record.
type Session struct {
	UserID           int64         `json:"user_id"`
	ChatID           int64         `json:"chat_id"`
	Username         string        `json:"username"`
	FullName         string        `json:"full_name,omitempty"`
	Age              int           `json:"age,omitempty"`
	SuccessfulTopups int           `json:"successful_topups"`
	State            State         `json:"state"`
	Pending          *PendingClaim `json:"pending,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// Registered returns true once both mandatory profile fields are captured.
func (s *Session) Registered() bool {
	return s.FullName != "" && s.Age > 0
}

// InTopupFlow returns true while the session may carry a pending claim.
func (s *Session) InTopupFlow() bool {
	switch s.State {
	case StateAwaitingAmount, StateAwaitingSent, StateAwaitingCode:
		return true
	}
	return false
}
