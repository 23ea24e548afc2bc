package admitcheck

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/admitcheck/internal/logging"
	"github.com/aretw0/admitcheck/internal/runtime"
	"github.com/aretw0/admitcheck/pkg/adapters/memory"
	"github.com/aretw0/admitcheck/pkg/catalog"
	"github.com/aretw0/admitcheck/pkg/domain"
	"github.com/aretw0/admitcheck/pkg/eligibility"
	"github.com/aretw0/admitcheck/pkg/journal"
	"github.com/aretw0/admitcheck/pkg/narrator"
	"github.com/aretw0/admitcheck/pkg/ports"
	"github.com/aretw0/admitcheck/pkg/rules"
	"github.com/aretw0/admitcheck/pkg/session"
)

// ErrMissingSessionID is returned when a turn arrives without a session identifier.
var ErrMissingSessionID = errors.New("session id is required")

// Assistant is the high-level entry point of admitcheck.
// It wires the interview engine, the evaluator and the narrator around a
// session store and provides one call per applicant turn.
type Assistant struct {
	catalog   *catalog.Catalog
	rules     *rules.Table
	engine    *runtime.Engine
	evaluator *eligibility.Evaluator
	narrator  narrator.Narrator
	store     ports.SessionStore
	locker    ports.DistributedLocker
	manager   *session.Manager
	journal   journal.Log
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	now       func() time.Time
}

// Option defines a functional option for configuring the Assistant.
type Option func(*Assistant)

// WithCatalog replaces the embedded default question catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(a *Assistant) {
		a.catalog = c
	}
}

// WithRules sets the rule table. Without it the assistant runs on empty rules.
func WithRules(t *rules.Table) Option {
	return func(a *Assistant) {
		a.rules = t
	}
}

// WithStore sets the session store (default: in-memory with a 30m idle TTL).
func WithStore(s ports.SessionStore) Option {
	return func(a *Assistant) {
		a.store = s
	}
}

// WithLocker enables distributed locking for multi-instance deployments.
func WithLocker(l ports.DistributedLocker) Option {
	return func(a *Assistant) {
		a.locker = l
	}
}

// WithNarrator sets the primary narrator. Failures fall back to the template.
func WithNarrator(n narrator.Narrator) Option {
	return func(a *Assistant) {
		a.narrator = n
	}
}

// WithJournal sets the interaction journal.
func WithJournal(j journal.Log) Option {
	return func(a *Assistant) {
		a.journal = j
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Assistant) {
		a.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(a *Assistant) {
		a.hooks = hooks
	}
}

// WithClock overrides the time source used for journal records.
func WithClock(now func() time.Time) Option {
	return func(a *Assistant) {
		a.now = now
	}
}

// New initializes an Assistant. Every collaborator has a default, so New()
// alone serves the bachelor path on empty rules.
func New(opts ...Option) (*Assistant, error) {
	a := &Assistant{}
	for _, opt := range opts {
		opt(a)
	}

	if a.logger == nil {
		a.logger = logging.NewNop()
	}
	if a.catalog == nil {
		a.catalog = catalog.Default()
	}
	if a.rules == nil {
		a.rules = rules.Empty()
	}
	if a.store == nil {
		a.store = memory.New()
	}
	if a.journal == nil {
		a.journal = journal.Discard{}
	}
	if a.now == nil {
		a.now = time.Now
	}

	a.engine = runtime.NewEngine(a.catalog,
		runtime.WithResolver(runtime.RuleResolver{Table: a.rules}),
		runtime.WithLogger(a.logger),
		runtime.WithLifecycleHooks(a.hooks),
	)
	a.evaluator = eligibility.New(a.rules)

	managerOpts := []session.Option{session.WithLogger(a.logger)}
	if a.locker != nil {
		managerOpts = append(managerOpts, session.WithLocker(a.locker))
	}
	a.manager = session.NewManager(a.store, managerOpts...)

	return a, nil
}

// Catalog returns the active question catalog.
func (a *Assistant) Catalog() *catalog.Catalog {
	return a.catalog
}

// Rules returns the rule table the assistant evaluates against.
func (a *Assistant) Rules() *rules.Table {
	return a.rules
}

// Sessions returns the session manager.
func (a *Assistant) Sessions() *session.Manager {
	return a.manager
}

// Chat handles one applicant turn. The first message for an unknown session
// creates it. A reply either carries the next question or, once the
// interview is complete, the rendered decision; the session is then removed.
func (a *Assistant) Chat(ctx context.Context, sessionID, message string) (*domain.Reply, error) {
	return a.advance(ctx, sessionID, func(ctx context.Context, state *domain.State) (*domain.State, runtime.Outcome) {
		return a.engine.ApplyAnswer(ctx, state, message)
	})
}

// Start creates (or resumes) a session seeded with known answers, such as
// those from a student profile, and returns the first open question.
// Seeded answers never overwrite existing ones.
func (a *Assistant) Start(ctx context.Context, sessionID string, prefill map[string]string) (*domain.Reply, error) {
	return a.advance(ctx, sessionID, func(_ context.Context, state *domain.State) (*domain.State, runtime.Outcome) {
		return a.engine.Prefill(state, prefill), runtime.Outcome{Kind: runtime.OutcomeIgnored}
	})
}

// Report builds the usage report over the last days.
func (a *Assistant) Report(ctx context.Context, days int) (journal.Report, error) {
	if days <= 0 {
		days = 1
	}
	now := a.now()
	records, err := a.journal.Since(ctx, now.Add(-time.Duration(days)*24*time.Hour))
	if err != nil {
		return journal.Report{}, fmt.Errorf("failed to read journal: %w", err)
	}
	return journal.BuildReport(records, days, now), nil
}

// Close releases the journal.
func (a *Assistant) Close() error {
	return a.journal.Close()
}

type step func(ctx context.Context, state *domain.State) (*domain.State, runtime.Outcome)

// advance runs one step inside the session's read-modify-write. Narration
// happens after the session lock is released.
func (a *Assistant) advance(ctx context.Context, sessionID string, apply step) (*domain.Reply, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, ErrMissingSessionID
	}

	var (
		reply   *domain.Reply
		opened  bool
		tracked *domain.State
		done    *domain.State
	)
	err := a.manager.Update(ctx, sessionID, func(ctx context.Context, state *domain.State, created bool) (*domain.State, error) {
		next, out := apply(ctx, state)
		opened = created
		// A fresh session and a newly resolved category both get a record,
		// so sessions dropped after classification report their category.
		if created || (state.Category() == domain.CategoryUnknown && next.Category() != domain.CategoryUnknown) {
			tracked = next
		}

		prompt, presented, ok := a.engine.Present(ctx, next)
		if !ok {
			done = next
			return nil, nil
		}
		reply = promptReply(prompt, out, a.engine.Progress(presented))
		return presented, nil
	})
	if err != nil {
		return nil, err
	}

	if opened {
		a.logger.Info("session started", "session_id", sessionID)
	}
	if tracked != nil {
		a.record(ctx, journal.Started(tracked, a.now()))
	}
	if done != nil {
		return a.decide(ctx, done)
	}
	return reply, nil
}

func promptReply(prompt *runtime.Prompt, out runtime.Outcome, progress int) *domain.Reply {
	text := prompt.Text()
	if out.Kind == runtime.OutcomeRejected {
		text = out.Hint + "\n\n" + text
	}

	var choices []string
	if len(prompt.Choices) > 0 {
		choices = append([]string(nil), prompt.Choices...)
	}
	return &domain.Reply{
		Text:     text,
		Choices:  choices,
		Progress: progress,
	}
}

// decide evaluates a completed state and renders the terminal reply.
func (a *Assistant) decide(ctx context.Context, state *domain.State) (*domain.Reply, error) {
	decision := a.evaluator.Evaluate(state)

	n := narrator.NewFallback(a.narrator,
		narrator.WithLogger(a.logger.With("session_id", state.SessionID)),
		narrator.WithErrorHandler(func(ctx context.Context, err error, latency time.Duration) {
			if a.hooks.OnNarrationError == nil {
				return
			}
			a.hooks.OnNarrationError(ctx, &domain.NarrationEvent{
				EventBase: a.event(domain.EventNarrationError, state.SessionID),
				Err:       err,
				Latency:   latency,
			})
		}),
	)
	text, err := n.Narrate(ctx, decision)
	if err != nil {
		return nil, fmt.Errorf("failed to render decision: %w", err)
	}

	a.logger.Info("decision produced",
		"session_id", state.SessionID,
		"category", decision.Category,
		"program", decision.Program,
		"verdict", decision.Verdict,
		"issues", len(decision.Issues),
	)
	if a.hooks.OnDecision != nil {
		a.hooks.OnDecision(ctx, &domain.DecisionEvent{
			EventBase: a.event(domain.EventDecision, state.SessionID),
			Decision:  decision,
		})
	}
	a.record(ctx, journal.Finished(state.SessionID, decision, a.now()))

	return &domain.Reply{
		Text:     text,
		Progress: 100,
		Terminal: true,
		Decision: decision,
	}, nil
}

// record appends to the journal. Journal failures are logged, never surfaced.
func (a *Assistant) record(ctx context.Context, r journal.Record) {
	if err := a.journal.Append(ctx, r); err != nil {
		a.logger.Warn("journal append failed", "session_id", r.SessionID, "completed", r.Completed, "err", err)
	}
}

func (a *Assistant) event(t domain.EventType, sessionID string) domain.EventBase {
	return domain.EventBase{Timestamp: a.now(), Type: t, SessionID: sessionID}
}
