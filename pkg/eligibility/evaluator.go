package eligibility

import (
	"fmt"
	"sort"

	"github.com/aretw0/admitcheck/pkg/domain"
	"github.com/aretw0/admitcheck/pkg/rules"
)

// Evaluator computes decisions against a rule table.
// It is stateless and safe for concurrent use.
type Evaluator struct {
	table *rules.Table
}

// New creates an evaluator. A nil table behaves like an empty one.
func New(table *rules.Table) *Evaluator {
	if table == nil {
		table = rules.Empty()
	}
	return &Evaluator{table: table}
}

// Evaluate is a convenience wrapper around New(table).Evaluate(state).
func Evaluate(state *domain.State, table *rules.Table) *domain.Decision {
	return New(table).Evaluate(state)
}

// Evaluate produces the decision for a session state. It never fails: missing
// or malformed data is absorbed into issues or an undetermined verdict.
func (e *Evaluator) Evaluate(state *domain.State) *domain.Decision {
	d := &domain.Decision{
		Category: state.Category(),
		Goal:     state.Goal(),
		Program:  state.Answer(KeyProgram),
	}

	switch d.Category {
	case domain.CategoryBachelor:
		e.evaluateBachelor(state, d)
	case domain.CategoryMasterInternal:
		e.evaluateInternal(state, d)
	case domain.CategoryMasterExternal:
		e.evaluateExternal(state, d)
	default:
		d.Verdict = domain.VerdictUndetermined
		d.Summary = "Ihre Angaben reichen für eine Bewertung nicht aus. Bitte wenden Sie sich an den Studienservice."
	}

	return d
}

// general returns the thresholds, recording a lookup miss when none are loaded.
func (e *Evaluator) general(d *domain.Decision) (rules.GeneralThresholds, bool) {
	general, ok := e.table.GeneralRequirements()
	if !ok {
		d.MissingData = append(d.MissingData, "Allgemeine Zulassungsvoraussetzungen sind nicht hinterlegt.")
	}
	return general, ok
}

func (e *Evaluator) requirements(d *domain.Decision) (rules.CategoryCredits, bool) {
	if d.Program == "" {
		d.MissingData = append(d.MissingData, "Es wurde kein Studiengang angegeben.")
		return nil, false
	}
	req, err := e.table.ProgramRequirements(d.Program)
	if err != nil {
		d.MissingData = append(d.MissingData, fmt.Sprintf("Für den Studiengang %q sind keine Anforderungen hinterlegt.", d.Program))
		return nil, false
	}
	return req, true
}

func (e *Evaluator) evaluateInternal(state *domain.State, d *domain.Decision) {
	if general, ok := e.general(d); ok {
		d.Issues = append(d.Issues, formalIssues(state, general)...)
	}

	required, ok := e.requirements(d)
	if ok {
		prior, mode, spec := state.Answer(KeyPriorProgram), state.Answer(KeyStudyMode), state.Answer(KeySpecialization)
		earned, err := e.table.EarnedCredits(prior, mode, spec)
		if err != nil {
			d.MissingData = append(d.MissingData, fmt.Sprintf(
				"Für die Kombination %s / %s / %s ist keine Modulzusammensetzung hinterlegt.", orDash(prior), orDash(mode), orDash(spec)))
		}

		for _, cat := range sortedCategories(required) {
			check := domain.CreditCheck{Category: cat, Required: required[cat]}
			if earned != nil {
				v := earned[cat]
				check.Earned = &v
				if v < check.Required {
					d.Issues = append(d.Issues, fmt.Sprintf(
						"Zu wenige ECTS in %s (%s von mindestens %s).", cat, formatNumber(v), formatNumber(check.Required)))
				}
			}
			d.Credits = append(d.Credits, check)
		}
	}

	d.Verdict = atLeastUndetermined(bucket(len(d.Issues)), d.MissingData)
	d.Summary = summary(d.Verdict, "Sie erfüllen die Voraussetzungen für den Masterstudiengang.")
}

func (e *Evaluator) evaluateExternal(state *domain.State, d *domain.Decision) {
	if general, ok := e.general(d); ok {
		d.Issues = append(d.Issues, formalIssues(state, general)...)
	}
	if bucket(len(d.Issues)) == domain.VerdictReject {
		d.Verdict = domain.VerdictReject
		d.Summary = "Die formalen Kriterien sind nicht erfüllt."
		return
	}

	required, ok := e.requirements(d)
	if ok {
		for _, cat := range sortedCategories(required) {
			need := required[cat]
			if need <= 0 {
				continue
			}
			d.Credits = append(d.Credits, domain.CreditCheck{Category: cat, Required: need})
			d.Evidence = append(d.Evidence, fmt.Sprintf("Nachweis über mindestens %s ECTS im Bereich %s.", formatNumber(need), cat))
		}
	}

	switch {
	case ok && len(d.Evidence) == 0 && len(d.Issues) == 0 && len(d.MissingData) == 0:
		d.Verdict = domain.VerdictAdmit
		d.Summary = "Sie erfüllen sowohl die formalen als auch die fachlichen Voraussetzungen."
	case len(d.Evidence) > 0 && len(d.Issues) == 0 && len(d.MissingData) == 0:
		d.Verdict = domain.VerdictUndetermined
		d.Summary = "Ihre formalen Voraussetzungen sind erfüllt. Die fachlichen Voraussetzungen müssen anhand Ihrer Nachweise geprüft werden."
	default:
		d.Verdict = domain.VerdictUndetermined
		d.Summary = summary(d.Verdict, "")
	}
}

// atLeastUndetermined downgrades an admit when data was missing. Missing data
// never counts toward rejection.
func atLeastUndetermined(v domain.Verdict, missing []string) domain.Verdict {
	if v == domain.VerdictAdmit && len(missing) > 0 {
		return domain.VerdictUndetermined
	}
	return v
}

func summary(v domain.Verdict, admit string) string {
	switch v {
	case domain.VerdictAdmit:
		return admit
	case domain.VerdictReject:
		return "Sie erfüllen die Voraussetzungen leider nicht."
	default:
		return "Einige Angaben erfüllen die Anforderungen nicht vollständig oder konnten nicht geprüft werden. Eine individuelle Prüfung durch den Studienservice wird empfohlen."
	}
}

func sortedCategories(c rules.CategoryCredits) []string {
	cats := make([]string, 0, len(c))
	for cat := range c {
		cats = append(cats, cat)
	}
	sort.Strings(cats)
	return cats
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
