package eligibility

import (
	"strings"

	"github.com/aretw0/admitcheck/pkg/domain"
)

type qualificationRule struct {
	Verdict domain.Verdict
	Summary string
}

// qualifications maps entry qualifications to their outcome. Qualifications
// that need individual review map to VerdictUndetermined.
var qualifications = map[string]qualificationRule{
	"allgemeine hochschulreife": {
		Verdict: domain.VerdictAdmit,
		Summary: "Sie erfüllen die Voraussetzungen für ein Bachelorstudium an der HSBI.",
	},
	"fachhochschulreife": {
		Verdict: domain.VerdictAdmit,
		Summary: "Sie erfüllen die Voraussetzungen für ein Bachelorstudium an einer Fachhochschule.",
	},
	"fachgebundene hochschulreife": {
		Verdict: domain.VerdictAdmit,
		Summary: "Mit Ihrer fachgebundenen Hochschulreife erfüllen Sie grundsätzlich die Voraussetzungen, " +
			"sofern Ihr Fachbereich dem gewünschten Studiengang entspricht.",
	},
	"berufliche qualifizierung": {
		Verdict: domain.VerdictAdmit,
		Summary: "Sie erfüllen die Voraussetzungen über eine berufliche Qualifizierung. " +
			"Bitte beachten Sie, dass ggf. weitere Nachweise erforderlich sind.",
	},
	"ausländische hochschulzugangsberechtigung": {
		Verdict: domain.VerdictUndetermined,
		Summary: "Ausländische Hochschulzugangsberechtigungen müssen individuell geprüft werden. " +
			"Bitte wenden Sie sich an den Studienservice des Fachbereichs 3.",
	},
}

func (e *Evaluator) evaluateBachelor(state *domain.State, d *domain.Decision) {
	hz := state.Answer(KeyQualification)
	if hz == "" {
		d.Verdict = domain.VerdictUndetermined
		d.Summary = "Ihre Hochschulzugangsberechtigung wurde nicht angegeben."
		d.Issues = append(d.Issues, "Keine Hochschulzugangsberechtigung angegeben.")
		return
	}

	rule, ok := qualifications[strings.ToLower(hz)]
	if !ok {
		d.Verdict = domain.VerdictUndetermined
		d.Summary = "Ihre Hochschulzugangsberechtigung konnte nicht eindeutig bewertet werden."
		return
	}
	d.Verdict = rule.Verdict
	d.Summary = rule.Summary
}
