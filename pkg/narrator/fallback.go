package narrator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/admitcheck/internal/logging"
	"github.com/aretw0/admitcheck/pkg/domain"
)

// Fallback tries a primary narrator and falls back to the template when it
// fails. It never returns an error for a narration failure.
type Fallback struct {
	primary  Narrator
	template *Template
	logger   *slog.Logger
	onError  func(ctx context.Context, err error, latency time.Duration)
}

// FallbackOption configures a Fallback.
type FallbackOption func(*Fallback)

// WithLogger sets the logger for narration failures.
func WithLogger(l *slog.Logger) FallbackOption {
	return func(f *Fallback) {
		f.logger = l
	}
}

// WithErrorHandler registers a callback invoked on every primary failure.
func WithErrorHandler(fn func(ctx context.Context, err error, latency time.Duration)) FallbackOption {
	return func(f *Fallback) {
		f.onError = fn
	}
}

// NewFallback wraps primary. A nil primary narrates with the template only.
func NewFallback(primary Narrator, opts ...FallbackOption) *Fallback {
	f := &Fallback{
		primary:  primary,
		template: NewTemplate(),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Fallback) Narrate(ctx context.Context, d *domain.Decision) (string, error) {
	if f.primary != nil {
		start := time.Now()
		text, err := f.primary.Narrate(ctx, d)
		if err == nil {
			return text, nil
		}

		err = fmt.Errorf("%w: %w", domain.ErrNarrationFailed, err)
		latency := time.Since(start)
		f.logger.Warn("narration failed, using template", "verdict", d.Verdict, "error", err, "latency", latency)
		if f.onError != nil {
			f.onError(ctx, err, latency)
		}
	}
	return f.template.Narrate(ctx, d)
}
