package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStepEnter EventType = "step_enter"
	EventStepLeave EventType = "step_leave"
	EventMessage   EventType = "message"
)

// StepEvent represents entry to or exit from a conversation step.
type StepEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
	StepID    string    `json:"step_id"`
}

// MessageEvent represents one staged message being delivered or cancelled.
type MessageEvent struct {
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"session_id"`
	StepID    string    `json:"step_id"`
	Cancelled bool      `json:"cancelled,omitempty"`
}

// Message is one entry of the ordered log the presentation layer renders
// from. The core appends to the log; it never renders directly.
type Message struct {
	Seq    int       `json:"seq"`
	StepID string    `json:"step_id"`
	Text   string    `json:"text"`
	At     time.Time `json:"at"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnStepEnter func(context.Context, *StepEvent)
	OnStepLeave func(context.Context, *StepEvent)
	OnMessage   func(context.Context, *MessageEvent)
}
