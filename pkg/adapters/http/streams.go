package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/aretw0/admitcheck/internal/logging"
	"github.com/aretw0/admitcheck/pkg/domain"
)

// StreamEvent is one server-sent event payload.
type StreamEvent struct {
	Type     domain.EventType  `json:"type"`
	Key      string            `json:"key,omitempty"`
	Progress int               `json:"progress,omitempty"`
	Changes  map[string]string `json:"changes,omitempty"`
	Verdict  domain.Verdict    `json:"verdict,omitempty"`
}

// StreamManager fans session events out to SSE subscribers.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // SessionID -> Set of Channels
	logger      *slog.Logger
}

// NewStreamManager creates an empty stream manager.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a channel for a session. The returned func
// unsubscribes and closes the channel.
func (sm *StreamManager) Subscribe(sessionID string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[sessionID]; !ok {
		sm.subscribers[sessionID] = make(map[chan<- string]struct{})
	}
	sm.subscribers[sessionID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[sessionID]; ok {
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, sessionID)
			}
		}
	}
}

// Broadcast sends msg to every subscriber of the session. Slow clients
// lose messages rather than block the turn.
func (sm *StreamManager) Broadcast(sessionID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[sessionID] {
		select {
		case ch <- msg:
		default:
			sm.logger.Warn("SSE: Client buffer full, dropping message", "session_id", sessionID)
		}
	}
}

func (sm *StreamManager) publish(sessionID string, ev StreamEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		sm.logger.Error("SSE: encode failed", "session_id", sessionID, "err", err)
		return
	}
	sm.Broadcast(sessionID, string(data))
}

// Hooks returns lifecycle hooks that publish question, answer and decision
// events to the session's subscribers.
func (sm *StreamManager) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnQuestion: func(_ context.Context, e *domain.QuestionEvent) {
			sm.publish(e.SessionID, StreamEvent{Type: e.Type, Key: e.Key, Progress: e.Progress})
		},
		OnAnswer: func(_ context.Context, e *domain.AnswerEvent) {
			if len(e.Changes) == 0 {
				return
			}
			sm.publish(e.SessionID, StreamEvent{Type: e.Type, Key: e.Key, Changes: e.Changes})
		},
		OnDecision: func(_ context.Context, e *domain.DecisionEvent) {
			sm.publish(e.SessionID, StreamEvent{Type: e.Type, Verdict: e.Decision.Verdict})
		},
	}
}
