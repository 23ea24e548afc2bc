package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/admitcheck/pkg/domain"
)

// Combine fans every event out to each hook set in order.
func Combine(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnQuestion: func(ctx context.Context, e *domain.QuestionEvent) {
			for _, s := range sets {
				if s.OnQuestion != nil {
					s.OnQuestion(ctx, e)
				}
			}
		},
		OnAnswer: func(ctx context.Context, e *domain.AnswerEvent) {
			for _, s := range sets {
				if s.OnAnswer != nil {
					s.OnAnswer(ctx, e)
				}
			}
		},
		OnDecision: func(ctx context.Context, e *domain.DecisionEvent) {
			for _, s := range sets {
				if s.OnDecision != nil {
					s.OnDecision(ctx, e)
				}
			}
		},
		OnNarrationError: func(ctx context.Context, e *domain.NarrationEvent) {
			for _, s := range sets {
				if s.OnNarrationError != nil {
					s.OnNarrationError(ctx, e)
				}
			}
		},
	}
}

// LoggingHooks writes one structured log line per event.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnQuestion: func(ctx context.Context, e *domain.QuestionEvent) {
			logger.Debug("question", "session_id", e.SessionID, "key", e.Key, "progress", e.Progress)
		},
		OnAnswer: func(ctx context.Context, e *domain.AnswerEvent) {
			logger.Debug("answer",
				"session_id", e.SessionID,
				"key", e.Key,
				"control", e.Control,
				"rejected", e.Rejected,
			)
		},
		OnDecision: func(ctx context.Context, e *domain.DecisionEvent) {
			logger.Info("decision",
				"session_id", e.SessionID,
				"verdict", e.Decision.Verdict,
				"category", e.Decision.Category,
				"program", e.Decision.Program,
				"issues", len(e.Decision.Issues),
				"missing_data", len(e.Decision.MissingData),
			)
		},
		OnNarrationError: func(ctx context.Context, e *domain.NarrationEvent) {
			logger.Warn("narration fallback", "session_id", e.SessionID, "error", e.Err, "latency", e.Latency)
		},
	}
}
