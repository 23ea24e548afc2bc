package observability

import (
	"context"

	"github.com/aretw0/admitcheck/pkg/domain"
	"github.com/aretw0/admitcheck/pkg/narrator"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the assistant's Prometheus collectors.
type Metrics struct {
	Questions         *prometheus.CounterVec
	Answers           *prometheus.CounterVec
	Decisions         *prometheus.CounterVec
	NarrationFailures prometheus.Counter
	NarrationLatency  prometheus.Histogram
	SessionsExpired   prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Questions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "admitcheck_questions_total",
				Help: "Total number of questions presented",
			},
			[]string{"key"},
		),
		Answers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "admitcheck_answers_total",
				Help: "Total number of applicant inputs by outcome",
			},
			[]string{"outcome"},
		),
		Decisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "admitcheck_decisions_total",
				Help: "Total number of decisions by verdict and applicant category",
			},
			[]string{"verdict", "category"},
		),
		NarrationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "admitcheck_narration_failures_total",
			Help: "Total number of narration calls that fell back to the template",
		}),
		NarrationLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "admitcheck_narration_duration_seconds",
			Help:    "Duration of remote narration calls",
			Buckets: prometheus.DefBuckets,
		}),
		SessionsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "admitcheck_sessions_expired_total",
			Help: "Total number of sessions evicted after the idle timeout",
		}),
	}
	reg.MustRegister(m.Questions, m.Answers, m.Decisions, m.NarrationFailures, m.NarrationLatency, m.SessionsExpired)
	return m
}

// Hooks records lifecycle events.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnQuestion: func(ctx context.Context, e *domain.QuestionEvent) {
			m.Questions.WithLabelValues(e.Key).Inc()
		},
		OnAnswer: func(ctx context.Context, e *domain.AnswerEvent) {
			outcome := "stored"
			switch {
			case e.Control:
				outcome = "control"
			case e.Rejected:
				outcome = "rejected"
			case e.Key == "":
				outcome = "ignored"
			}
			m.Answers.WithLabelValues(outcome).Inc()
		},
		OnDecision: func(ctx context.Context, e *domain.DecisionEvent) {
			m.Decisions.WithLabelValues(string(e.Decision.Verdict), string(e.Decision.Category)).Inc()
		},
		OnNarrationError: func(ctx context.Context, e *domain.NarrationEvent) {
			m.NarrationFailures.Inc()
		},
	}
}

// NarrationObserver records the latency of every remote narration call.
func (m *Metrics) NarrationObserver() narrator.Observer {
	return narrator.ObserverFunc(func(e narrator.CallEvent) {
		m.NarrationLatency.Observe(e.Latency.Seconds())
	})
}
