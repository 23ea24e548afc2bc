package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/admitcheck/pkg/domain"
)

// ModuleCredits is the credit-unit weight of a single flagged module.
const ModuleCredits = 5.0

// CategoryCredits maps a subject category (e.g. "Mathematik") to credit-units.
type CategoryCredits map[string]float64

// GeneralThresholds holds the formal admission criteria.
// Lower grades are better; the language tier is an ordinal 1 (best) to 5 (worst).
type GeneralThresholds struct {
	MaxGrade           float64      `mapstructure:"Mindestnote_Bachelor" json:"max_grade"`
	MinExperienceYears float64      `mapstructure:"Berufserfahrung_Jahre" json:"min_experience_years"`
	MaxLanguageTier    LanguageTier `mapstructure:"Technisches_Englisch" json:"max_language_tier"`
	MinBachelorCredits float64      `mapstructure:"ECTS_Bachelor" json:"min_bachelor_credits,omitempty"`
}

// Composition lists the mandatory modules of one prior program track.
type Composition struct {
	Program        string   `yaml:"program" json:"program"`
	StudyMode      string   `yaml:"mode" json:"mode"`
	Specialization string   `yaml:"specialization" json:"specialization"`
	Modules        []string `yaml:"modules" json:"modules"`
}

// Table is the in-memory rule set. It is read-only after load and safe for
// unsynchronized concurrent reads.
type Table struct {
	General      GeneralThresholds          `json:"general"`
	Programs     map[string]CategoryCredits `json:"programs"`
	Modules      map[string]CategoryCredits `json:"modules"`
	Compositions []Composition              `json:"compositions,omitempty"`

	// Source is the path the table was loaded from ("" for the empty table).
	Source string `json:"source,omitempty"`

	hasGeneral bool
}

// Empty returns an empty-but-valid table for degraded operation.
func Empty() *Table {
	return &Table{
		Programs: make(map[string]CategoryCredits),
		Modules:  make(map[string]CategoryCredits),
	}
}

// Loaded reports whether the table carries any rules.
func (t *Table) Loaded() bool {
	return t != nil && (t.hasGeneral || len(t.Programs) > 0)
}

// GeneralRequirements returns the formal thresholds.
// The boolean is false when no thresholds were loaded.
func (t *Table) GeneralRequirements() (GeneralThresholds, bool) {
	if t == nil {
		return GeneralThresholds{}, false
	}
	return t.General, t.hasGeneral
}

// ProgramRequirements returns the per-category credit requirements of a
// program, matched case-insensitively. It returns domain.ErrLookupMiss when the
// program is unknown.
func (t *Table) ProgramRequirements(program string) (CategoryCredits, error) {
	if t == nil {
		return nil, fmt.Errorf("program %q: %w", program, domain.ErrLookupMiss)
	}
	if req, ok := t.Programs[program]; ok {
		return req, nil
	}
	for name, req := range t.Programs {
		if strings.EqualFold(name, strings.TrimSpace(program)) {
			return req, nil
		}
	}
	return nil, fmt.Errorf("program %q: %w", program, domain.ErrLookupMiss)
}

// EarnedCredits sums the credit-units per category of the mandatory modules of
// a prior program track. It returns domain.ErrLookupMiss when the combination
// is unknown or lists no modules; a miss must be treated as insufficient data,
// never as zero.
func (t *Table) EarnedCredits(program, mode, specialization string) (CategoryCredits, error) {
	comp, ok := t.composition(program, mode, specialization)
	if !ok || len(comp.Modules) == 0 {
		return nil, fmt.Errorf("composition %s/%s/%s: %w", program, mode, specialization, domain.ErrLookupMiss)
	}

	earned := make(CategoryCredits)
	for _, cats := range t.Modules {
		for cat := range cats {
			earned[cat] = 0
		}
	}
	for _, name := range comp.Modules {
		cats, ok := t.module(name)
		if !ok {
			continue
		}
		for cat, credits := range cats {
			earned[cat] += credits
		}
	}
	return earned, nil
}

// ProgramNames returns the sorted names of all programs.
func (t *Table) ProgramNames() []string {
	if t == nil {
		return nil
	}
	names := make([]string, 0, len(t.Programs))
	for name := range t.Programs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PriorPrograms returns the distinct prior programs of the module compositions.
func (t *Table) PriorPrograms() []string {
	return t.distinct(func(c Composition) (string, bool) {
		return c.Program, true
	})
}

// StudyModes returns the distinct study modes offered for a prior program.
func (t *Table) StudyModes(program string) []string {
	return t.distinct(func(c Composition) (string, bool) {
		return c.StudyMode, strings.EqualFold(c.Program, program)
	})
}

// Specializations returns the specializations for a prior program and study mode.
func (t *Table) Specializations(program, mode string) []string {
	return t.distinct(func(c Composition) (string, bool) {
		return c.Specialization, strings.EqualFold(c.Program, program) && strings.EqualFold(c.StudyMode, mode)
	})
}

func (t *Table) composition(program, mode, specialization string) (Composition, bool) {
	if t == nil {
		return Composition{}, false
	}
	for _, c := range t.Compositions {
		if strings.EqualFold(c.Program, strings.TrimSpace(program)) &&
			strings.EqualFold(c.StudyMode, strings.TrimSpace(mode)) &&
			strings.EqualFold(c.Specialization, strings.TrimSpace(specialization)) {
			return c, true
		}
	}
	return Composition{}, false
}

func (t *Table) module(name string) (CategoryCredits, bool) {
	if cats, ok := t.Modules[name]; ok {
		return cats, true
	}
	for n, cats := range t.Modules {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return cats, true
		}
	}
	return nil, false
}

func (t *Table) distinct(pick func(Composition) (string, bool)) []string {
	if t == nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, c := range t.Compositions {
		v, ok := pick(c)
		v = strings.TrimSpace(v)
		if !ok || v == "" || seen[strings.ToLower(v)] {
			continue
		}
		seen[strings.ToLower(v)] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
