package runtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/admitcheck/internal/logging"
	"github.com/aretw0/admitcheck/pkg/catalog"
	"github.com/aretw0/admitcheck/pkg/domain"
)

// Engine is the interview state machine. It holds no per-session data: the
// next step is always re-derived from the state and the catalog.
type Engine struct {
	catalog  *catalog.Catalog
	resolver OptionResolver
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
	now      func() time.Time
}

// Option configures the Engine.
type Option func(*Engine)

// WithResolver sets the resolver for computed questions.
func WithResolver(r OptionResolver) Option {
	return func(e *Engine) {
		e.resolver = r
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// NewEngine creates an engine over a catalog.
func NewEngine(c *catalog.Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog:  c,
		resolver: noOptions{},
		logger:   logging.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog returns the catalog the engine walks.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

func (e *Engine) cloneState(src *domain.State) *domain.State {
	dst := src.Clone()
	dst.UpdatedAt = e.now().UTC()
	return dst
}

func (e *Engine) emitQuestion(ctx context.Context, state *domain.State, key string, progress int) {
	if e.hooks.OnQuestion == nil {
		return
	}
	e.hooks.OnQuestion(ctx, &domain.QuestionEvent{
		EventBase: domain.EventBase{Timestamp: e.now(), Type: domain.EventQuestion, SessionID: state.SessionID},
		Key:       key,
		Progress:  progress,
	})
}

func (e *Engine) emitAnswer(ctx context.Context, state *domain.State, out Outcome) {
	if e.hooks.OnAnswer == nil {
		return
	}
	e.hooks.OnAnswer(ctx, &domain.AnswerEvent{
		EventBase: domain.EventBase{Timestamp: e.now(), Type: domain.EventAnswer, SessionID: state.SessionID},
		Key:       out.Key,
		Control:   out.Kind == OutcomeControl,
		Rejected:  out.Kind == OutcomeRejected,
		Changes:   out.Changes.Flatten(),
	})
}
