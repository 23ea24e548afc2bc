package eligibility

import (
	"fmt"

	"github.com/aretw0/admitcheck/pkg/domain"
	"github.com/aretw0/admitcheck/pkg/rules"
)

// formalIssues checks grade, experience and technical English against the
// general thresholds. Missing or unparsable answers count as one issue each.
func formalIssues(state *domain.State, general rules.GeneralThresholds) []string {
	var issues []string

	switch raw := state.Answer(KeyGrade); {
	case raw == "":
		issues = append(issues, "Keine Abschlussnote angegeben.")
	default:
		grade, err := rules.ParseNumber(raw)
		if err != nil {
			issues = append(issues, fmt.Sprintf("Die Abschlussnote %q ist ungültig.", raw))
		} else if grade > general.MaxGrade {
			issues = append(issues, fmt.Sprintf(
				"Ihre Abschlussnote (%s) erfüllt nicht die Mindestanforderung (%s).", formatNumber(grade), formatNumber(general.MaxGrade)))
		}
	}

	switch raw := state.Answer(KeyExperience); {
	case raw == "":
		issues = append(issues, "Berufserfahrung nicht angegeben.")
	default:
		years, err := rules.ParseNumber(raw)
		if err != nil {
			issues = append(issues, fmt.Sprintf("Die Angabe zur Berufserfahrung %q ist ungültig.", raw))
		} else if years < general.MinExperienceYears {
			issues = append(issues, fmt.Sprintf(
				"Zu wenig Berufserfahrung (%s Jahre, mindestens %s).", formatNumber(years), formatNumber(general.MinExperienceYears)))
		}
	}

	switch raw := state.Answer(KeyEnglish); {
	case raw == "":
		issues = append(issues, "Keine Angabe zu Englischkenntnissen.")
	default:
		tier, err := rules.ParseLanguageTier(raw)
		if err != nil {
			issues = append(issues, fmt.Sprintf("Die Angabe zu Englischkenntnissen %q ist ungültig.", raw))
		} else if tier > general.MaxLanguageTier {
			issues = append(issues, fmt.Sprintf(
				"Ihre Englischkenntnisse (%s) erfüllen nicht die Mindestanforderung (%s).", tier, general.MaxLanguageTier))
		}
	}

	return issues
}

// bucket maps an issue count onto the three-tier verdict.
func bucket(issues int) domain.Verdict {
	switch {
	case issues == 0:
		return domain.VerdictAdmit
	case issues <= 2:
		return domain.VerdictUndetermined
	default:
		return domain.VerdictReject
	}
}

func formatNumber(f float64) string {
	return fmt.Sprintf("%g", f)
}
