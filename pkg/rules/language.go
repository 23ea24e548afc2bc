package rules

import (
	"fmt"
	"strconv"
	"strings"
)

// LanguageTier is an ordinal proficiency scale, 1 (best) through 5 (worst).
type LanguageTier int

const (
	TierUnknown LanguageTier = 0
	TierBest    LanguageTier = 1
	TierWorst   LanguageTier = 5
)

// LanguageLabels lists the tier labels in order, starting at tier 1.
var LanguageLabels = []string{"Sehr gut", "Gut", "Befriedigend", "Ausreichend", "Mangelhaft"}

// ParseLanguageTier accepts a label ("Gut") or a number ("2") and returns the tier.
func ParseLanguageTier(s string) (LanguageTier, error) {
	clean := strings.TrimSpace(s)
	for i, label := range LanguageLabels {
		if strings.EqualFold(clean, label) {
			return LanguageTier(i + 1), nil
		}
	}

	n, err := strconv.ParseFloat(strings.ReplaceAll(clean, ",", "."), 64)
	if err != nil || n != float64(int(n)) || n < float64(TierBest) || n > float64(TierWorst) {
		return TierUnknown, fmt.Errorf("unknown language level %q", s)
	}
	return LanguageTier(int(n)), nil
}

func (t LanguageTier) String() string {
	if t < TierBest || t > TierWorst {
		return "unbekannt"
	}
	return LanguageLabels[t-1]
}
