package runtime

import (
	"github.com/aretw0/admitcheck/pkg/domain"
	"github.com/aretw0/admitcheck/pkg/rules"
)

// Option sources understood by RuleResolver.
const (
	SourcePrograms        = "programs"
	SourcePriorPrograms   = "prior_programs"
	SourceStudyModes      = "study_modes"
	SourceSpecializations = "specializations"
)

// Answer keys the computed sources depend on.
const (
	KeyPriorProgram = "bachelor_studiengang"
	KeyStudyMode    = "studienart"
)

// OptionResolver computes the choice set of a computed question.
type OptionResolver interface {
	Options(source string, state *domain.State) []string
}

// OptionResolverFunc adapts a function to OptionResolver.
type OptionResolverFunc func(source string, state *domain.State) []string

func (f OptionResolverFunc) Options(source string, state *domain.State) []string {
	return f(source, state)
}

type noOptions struct{}

func (noOptions) Options(string, *domain.State) []string { return nil }

// RuleResolver resolves computed options from the rule table. The
// specialization list depends jointly on the prior program and study mode.
type RuleResolver struct {
	Table *rules.Table
}

func (r RuleResolver) Options(source string, state *domain.State) []string {
	switch source {
	case SourcePrograms:
		return r.Table.ProgramNames()
	case SourcePriorPrograms:
		return r.Table.PriorPrograms()
	case SourceStudyModes:
		return r.Table.StudyModes(state.Answer(KeyPriorProgram))
	case SourceSpecializations:
		return r.Table.Specializations(state.Answer(KeyPriorProgram), state.Answer(KeyStudyMode))
	default:
		return nil
	}
}
