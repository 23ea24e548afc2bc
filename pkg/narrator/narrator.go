// Package narrator renders a structured Decision as applicant-facing text.
//
// Narration never decides anything: every implementation receives the
// already computed Decision and the verdict header is always rendered from it.
package narrator

import (
	"context"

	"github.com/aretw0/admitcheck/pkg/domain"
)

// Narrator turns a decision into a response text.
type Narrator interface {
	Narrate(ctx context.Context, d *domain.Decision) (string, error)
}

// Func adapts a function to Narrator.
type Func func(ctx context.Context, d *domain.Decision) (string, error)

func (f Func) Narrate(ctx context.Context, d *domain.Decision) (string, error) {
	return f(ctx, d)
}
