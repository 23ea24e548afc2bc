package observability_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/aretw0/admitcheck/pkg/domain"
	"github.com/aretw0/admitcheck/pkg/narrator"
	"github.com/aretw0/admitcheck/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnQuestion(ctx, &domain.QuestionEvent{Key: "abschlussziel"})
	hooks.OnQuestion(ctx, &domain.QuestionEvent{Key: "abschlussziel"})
	hooks.OnAnswer(ctx, &domain.AnswerEvent{Key: "abschlussziel"})
	hooks.OnAnswer(ctx, &domain.AnswerEvent{Control: true})
	hooks.OnAnswer(ctx, &domain.AnswerEvent{Key: "abschlussziel", Rejected: true})
	hooks.OnDecision(ctx, &domain.DecisionEvent{Decision: &domain.Decision{
		Verdict: domain.VerdictAdmit, Category: domain.CategoryBachelor,
	}})
	hooks.OnNarrationError(ctx, &domain.NarrationEvent{Err: errors.New("timeout")})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Questions.WithLabelValues("abschlussziel")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Answers.WithLabelValues("stored")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Answers.WithLabelValues("control")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Answers.WithLabelValues("rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Decisions.WithLabelValues("admit", "bachelor")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NarrationFailures))
}

func TestCombine(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var decided int
	hooks := observability.Combine(
		observability.LoggingHooks(logger),
		domain.LifecycleHooks{
			OnDecision: func(context.Context, *domain.DecisionEvent) { decided++ },
		},
	)

	ctx := context.Background()
	hooks.OnDecision(ctx, &domain.DecisionEvent{
		EventBase: domain.EventBase{SessionID: "s1"},
		Decision:  &domain.Decision{Verdict: domain.VerdictReject},
	})
	hooks.OnQuestion(ctx, &domain.QuestionEvent{Key: "studiengang"})

	assert.Equal(t, 1, decided)
	assert.Contains(t, buf.String(), "verdict=reject")
	assert.Contains(t, buf.String(), "key=studiengang")
}

func TestMetrics_NarrationObserver(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)

	obs := m.NarrationObserver()
	obs.OnCallComplete(narrator.CallEvent{Latency: 200 * time.Millisecond, Success: true})
	obs.OnCallComplete(narrator.CallEvent{Latency: time.Second, Err: errors.New("timeout")})

	assert.Equal(t, 1, testutil.CollectAndCount(m.NarrationLatency))
	families, err := reg.Gather()
	assert.NoError(t, err)
	for _, f := range families {
		if f.GetName() == "admitcheck_narration_duration_seconds" {
			assert.Equal(t, uint64(2), f.GetMetric()[0].GetHistogram().GetSampleCount())
		}
	}
}
