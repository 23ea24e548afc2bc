package eligibility_test

import (
	"testing"

	"github.com/aretw0/admitcheck/pkg/domain"
	"github.com/aretw0/admitcheck/pkg/eligibility"
	"github.com/aretw0/admitcheck/pkg/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rulesYAML = `
general:
  Mindestnote_Bachelor: "2,5"
  Berufserfahrung_Jahre: 1
  Technisches_Englisch: 3
programs:
  ProgramX:
    Mathematik: 10
    Informatik: 5
  Offener Master: {}
modules:
  Mathematik 1: { Mathematik: 5 }
  Mathematik 2: { Mathematik: 5 }
  Programmierung: { Informatik: 5 }
  Grundlagen Elektrotechnik: { Elektrotechnik: 5 }
compositions:
  - { program: Wirtschaftsingenieurwesen, mode: Vollzeit, specialization: Logistik, modules: [Mathematik 1, Mathematik 2, Programmierung] }
  - { program: Wirtschaftsingenieurwesen, mode: Vollzeit, specialization: Technik, modules: [Mathematik 1, Grundlagen Elektrotechnik] }
`

func loadTable(t *testing.T) *rules.Table {
	t.Helper()
	table, err := rules.ParseYAML("inline", []byte(rulesYAML))
	require.NoError(t, err)
	return table
}

func newState(category domain.Category, answers map[string]string) *domain.State {
	s := domain.NewState("s1")
	s.Derived[domain.FieldCategory] = string(category)
	if category != domain.CategoryBachelor {
		s.Derived[domain.FieldGoal] = string(domain.GoalMaster)
	} else {
		s.Derived[domain.FieldGoal] = string(domain.GoalBachelor)
	}
	for k, v := range answers {
		s.Answers[k] = v
	}
	return s
}

func internal(overrides map[string]string) *domain.State {
	answers := map[string]string{
		eligibility.KeyProgram:        "ProgramX",
		eligibility.KeyGrade:          "2.0",
		eligibility.KeyExperience:     "3",
		eligibility.KeyEnglish:        "Gut",
		eligibility.KeyPriorProgram:   "Wirtschaftsingenieurwesen",
		eligibility.KeyStudyMode:      "Vollzeit",
		eligibility.KeySpecialization: "Logistik",
	}
	for k, v := range overrides {
		answers[k] = v
	}
	return newState(domain.CategoryMasterInternal, answers)
}

func external(overrides map[string]string) *domain.State {
	answers := map[string]string{
		eligibility.KeyProgram:    "ProgramX",
		eligibility.KeyGrade:      "2,0",
		eligibility.KeyExperience: "3",
		eligibility.KeyEnglish:    "Sehr gut",
	}
	for k, v := range overrides {
		answers[k] = v
	}
	return newState(domain.CategoryMasterExternal, answers)
}

func TestEvaluate_Internal(t *testing.T) {
	table := loadTable(t)

	tests := []struct {
		name        string
		overrides   map[string]string
		wantVerdict domain.Verdict
		wantIssues  int
	}{
		{"All Criteria Met", nil, domain.VerdictAdmit, 0},
		{"Grade At Threshold", map[string]string{eligibility.KeyGrade: "2,5"}, domain.VerdictAdmit, 0},
		{"Grade Above Threshold", map[string]string{eligibility.KeyGrade: "4.0"}, domain.VerdictUndetermined, 1},
		{"Experience At Minimum", map[string]string{eligibility.KeyExperience: "1"}, domain.VerdictAdmit, 0},
		{"Language At Maximum Tier", map[string]string{eligibility.KeyEnglish: "Befriedigend"}, domain.VerdictAdmit, 0},
		{"Two Issues", map[string]string{eligibility.KeyGrade: "4.0", eligibility.KeyExperience: "0"}, domain.VerdictUndetermined, 2},
		{
			"Four Issues",
			map[string]string{eligibility.KeyGrade: "4.0", eligibility.KeyExperience: "0", eligibility.KeySpecialization: "Technik"},
			domain.VerdictReject, 4,
		},
		{
			"Three Formal Issues",
			map[string]string{eligibility.KeyGrade: "3,1", eligibility.KeyExperience: "0", eligibility.KeyEnglish: "Mangelhaft"},
			domain.VerdictReject, 3,
		},
		{"Invalid Grade Counts As Issue", map[string]string{eligibility.KeyGrade: "gut"}, domain.VerdictUndetermined, 1},
		{"Not-A-Number Grade Counts As Issue", map[string]string{eligibility.KeyGrade: "NaN"}, domain.VerdictUndetermined, 1},
		{"Infinite Grade Counts As Issue", map[string]string{eligibility.KeyGrade: "-inf"}, domain.VerdictUndetermined, 1},
		{"Infinite Experience Counts As Issue", map[string]string{eligibility.KeyExperience: "inf"}, domain.VerdictUndetermined, 1},
		{"Missing Experience Counts As Issue", map[string]string{eligibility.KeyExperience: ""}, domain.VerdictUndetermined, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := eligibility.Evaluate(internal(tt.overrides), table)
			assert.Equal(t, tt.wantVerdict, d.Verdict)
			assert.Len(t, d.Issues, tt.wantIssues, "issues: %v", d.Issues)
			assert.Empty(t, d.MissingData)
			assert.Equal(t, domain.CategoryMasterInternal, d.Category)
			assert.Equal(t, "ProgramX", d.Program)
		})
	}
}

func TestEvaluate_InternalCredits(t *testing.T) {
	d := eligibility.Evaluate(internal(map[string]string{eligibility.KeySpecialization: "Technik"}), loadTable(t))

	require.Len(t, d.Credits, 2)
	assert.Equal(t, "Informatik", d.Credits[0].Category)
	require.NotNil(t, d.Credits[0].Earned)
	assert.Equal(t, 0.0, *d.Credits[0].Earned)
	assert.False(t, d.Credits[0].Met())
	assert.Equal(t, "Mathematik", d.Credits[1].Category)
	assert.Equal(t, 5.0, *d.Credits[1].Earned)
	assert.Contains(t, d.Issues[0], "Informatik")
}

func TestEvaluate_InternalLookupMiss(t *testing.T) {
	table := loadTable(t)

	t.Run("Unknown Composition", func(t *testing.T) {
		d := eligibility.Evaluate(internal(map[string]string{eligibility.KeySpecialization: "Robotik"}), table)
		assert.Equal(t, domain.VerdictUndetermined, d.Verdict, "a miss is never treated as passing")
		assert.Empty(t, d.Issues)
		require.Len(t, d.MissingData, 1)
		for _, c := range d.Credits {
			assert.Nil(t, c.Earned)
		}
	})

	t.Run("Unknown Program", func(t *testing.T) {
		d := eligibility.Evaluate(internal(map[string]string{eligibility.KeyProgram: "Astrophysik"}), table)
		assert.Equal(t, domain.VerdictUndetermined, d.Verdict)
		assert.Contains(t, d.MissingData[0], "Astrophysik")
	})

	t.Run("Misses Do Not Count Toward Rejection", func(t *testing.T) {
		d := eligibility.Evaluate(internal(map[string]string{
			eligibility.KeyProgram: "Astrophysik",
			eligibility.KeyGrade:   "4,0",
		}), table)
		assert.Equal(t, domain.VerdictUndetermined, d.Verdict)
		assert.Len(t, d.Issues, 1)
	})
}

func TestEvaluate_External(t *testing.T) {
	table := loadTable(t)

	t.Run("Required Categories Need Evidence", func(t *testing.T) {
		d := eligibility.Evaluate(external(nil), table)
		assert.Equal(t, domain.VerdictUndetermined, d.Verdict, "never admit without document review")
		assert.Empty(t, d.Issues)
		assert.Len(t, d.Evidence, 2)
		for _, c := range d.Credits {
			assert.Nil(t, c.Earned)
		}
	})

	t.Run("No Required Categories", func(t *testing.T) {
		d := eligibility.Evaluate(external(map[string]string{eligibility.KeyProgram: "Offener Master"}), table)
		assert.Equal(t, domain.VerdictAdmit, d.Verdict)
		assert.Empty(t, d.Evidence)
	})

	t.Run("No Required Categories With Formal Issue", func(t *testing.T) {
		d := eligibility.Evaluate(external(map[string]string{
			eligibility.KeyProgram: "Offener Master",
			eligibility.KeyGrade:   "3,0",
		}), table)
		assert.Equal(t, domain.VerdictUndetermined, d.Verdict)
	})

	t.Run("Formal Rejection Short-Circuits", func(t *testing.T) {
		d := eligibility.Evaluate(external(map[string]string{
			eligibility.KeyGrade:      "3,7",
			eligibility.KeyExperience: "0",
			eligibility.KeyEnglish:    "Ausreichend",
		}), table)
		assert.Equal(t, domain.VerdictReject, d.Verdict)
		assert.Len(t, d.Issues, 3)
		assert.Empty(t, d.Evidence)
	})
}

func TestEvaluate_Bachelor(t *testing.T) {
	table := loadTable(t)

	tests := []struct {
		qualification string
		want          domain.Verdict
	}{
		{"Allgemeine Hochschulreife", domain.VerdictAdmit},
		{"Fachhochschulreife", domain.VerdictAdmit},
		{"fachgebundene hochschulreife", domain.VerdictAdmit},
		{"Berufliche Qualifizierung", domain.VerdictAdmit},
		{"Ausländische Hochschulzugangsberechtigung", domain.VerdictUndetermined},
		{"Abitur aus Atlantis", domain.VerdictUndetermined},
		{"", domain.VerdictUndetermined},
	}

	for _, tt := range tests {
		t.Run(tt.qualification, func(t *testing.T) {
			d := eligibility.Evaluate(newState(domain.CategoryBachelor, map[string]string{
				eligibility.KeyQualification: tt.qualification,
			}), table)
			assert.Equal(t, tt.want, d.Verdict)
			assert.NotEmpty(t, d.Summary)
		})
	}

	t.Run("Foreign Qualification Ignores Other Fields", func(t *testing.T) {
		d := eligibility.Evaluate(newState(domain.CategoryBachelor, map[string]string{
			eligibility.KeyQualification: "Ausländische Hochschulzugangsberechtigung",
			eligibility.KeyGrade:         "1,0",
			eligibility.KeyEnglish:       "Sehr gut",
		}), table)
		assert.Equal(t, domain.VerdictUndetermined, d.Verdict)
		assert.Contains(t, d.Summary, "individuell")
	})
}

func TestEvaluate_Degraded(t *testing.T) {
	empty := rules.Empty()

	t.Run("Bachelor Path Unaffected", func(t *testing.T) {
		d := eligibility.Evaluate(newState(domain.CategoryBachelor, map[string]string{
			eligibility.KeyQualification: "Allgemeine Hochschulreife",
		}), empty)
		assert.Equal(t, domain.VerdictAdmit, d.Verdict)
	})

	t.Run("Master Path Reports Insufficient Data", func(t *testing.T) {
		d := eligibility.Evaluate(internal(nil), empty)
		assert.Equal(t, domain.VerdictUndetermined, d.Verdict)
		assert.Len(t, d.MissingData, 2)
		assert.Empty(t, d.Issues)
	})

	t.Run("Nil Table", func(t *testing.T) {
		d := eligibility.Evaluate(external(nil), nil)
		assert.Equal(t, domain.VerdictUndetermined, d.Verdict)
	})

	t.Run("Unknown Category", func(t *testing.T) {
		d := eligibility.Evaluate(domain.NewState("s1"), loadTable(t))
		assert.Equal(t, domain.VerdictUndetermined, d.Verdict)
		assert.Equal(t, domain.CategoryUnknown, d.Category)
	})
}
