package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/admitcheck/pkg/domain"
)

// ValidationError collects every problem found in a catalog.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid catalog: %s", strings.Join(e.Problems, "; "))
}

// validate checks key uniqueness, kinds, computed sources, derive tables and
// that preconditions only reference keys declared earlier or derived fields.
func (c *Catalog) validate() error {
	var problems []string
	derived := map[string]bool{}

	if len(c.questions) == 0 {
		return errors.New("invalid catalog: no questions")
	}

	for i, q := range c.questions {
		label := fmt.Sprintf("question %d (%s)", i, q.Key)

		if q.Key == "" {
			problems = append(problems, fmt.Sprintf("question %d: missing key", i))
			continue
		}
		if _, dup := c.index[q.Key]; dup {
			problems = append(problems, label+": duplicate key")
			continue
		}
		if q.Prompt == "" {
			problems = append(problems, label+": missing prompt")
		}

		switch q.Kind {
		case domain.KindStatic, domain.KindInfo:
		case domain.KindComputed:
			if q.Source == "" {
				problems = append(problems, label+": computed question without source")
			}
			if q.OnEmpty != domain.EmptyFreeText && q.OnEmpty != domain.EmptySkip {
				problems = append(problems, fmt.Sprintf("%s: unknown on_empty policy %q", label, q.OnEmpty))
			}
		default:
			problems = append(problems, fmt.Sprintf("%s: unknown kind %q", label, q.Kind))
		}

		for _, key := range q.When.Keys() {
			if _, declared := c.index[key]; !declared && !derived[key] {
				problems = append(problems, fmt.Sprintf("%s: precondition references %q before it is defined", label, key))
			}
		}

		for answer, fields := range q.Derive {
			if len(q.Choices) > 0 && !containsFold(q.Choices, answer) {
				problems = append(problems, fmt.Sprintf("%s: derive entry %q is not a choice", label, answer))
			}
			for field := range fields {
				derived[field] = true
			}
		}

		c.index[q.Key] = i
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func containsFold(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(strings.TrimSpace(item), strings.TrimSpace(v)) {
			return true
		}
	}
	return false
}
