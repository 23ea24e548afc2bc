package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventQuestion       EventType = "question"
	EventAnswer         EventType = "answer"
	EventDecision       EventType = "decision"
	EventNarrationError EventType = "narration_error"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// QuestionEvent is emitted when a question is presented.
type QuestionEvent struct {
	EventBase
	Key      string `json:"key"`
	Progress int    `json:"progress"`
}

// AnswerEvent is emitted after an input has been applied to the state.
type AnswerEvent struct {
	EventBase
	Key      string            `json:"key,omitempty"`
	Control  bool              `json:"control,omitempty"`
	Rejected bool              `json:"rejected,omitempty"`
	Changes  map[string]string `json:"changes,omitempty"`
}

// DecisionEvent is emitted when an interview completes.
type DecisionEvent struct {
	EventBase
	Decision *Decision `json:"decision"`
}

// NarrationEvent is emitted when the narrator falls back to the template rendering.
type NarrationEvent struct {
	EventBase
	Err     error         `json:"-"`
	Latency time.Duration `json:"latency"`
}

// LifecycleHooks defines callbacks for observability.
type LifecycleHooks struct {
	OnQuestion       func(context.Context, *QuestionEvent)
	OnAnswer         func(context.Context, *AnswerEvent)
	OnDecision       func(context.Context, *DecisionEvent)
	OnNarrationError func(context.Context, *NarrationEvent)
}
