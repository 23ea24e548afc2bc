package domain

// Verdict is the outcome of an eligibility evaluation.
type Verdict string

const (
	VerdictAdmit        Verdict = "admit"
	VerdictReject       Verdict = "reject"
	VerdictUndetermined Verdict = "undetermined"
)

// Label returns the applicant-facing label of the verdict.
func (v Verdict) Label() string {
	switch v {
	case VerdictAdmit:
		return "Ja"
	case VerdictReject:
		return "Nein"
	default:
		return "Unklar"
	}
}

// CreditCheck compares earned against required credit-units for one subject category.
type CreditCheck struct {
	Category string  `json:"category"`
	Required float64 `json:"required"`

	// Earned is nil when the applicant's module history is not known to the system.
	Earned *float64 `json:"earned,omitempty"`
}

// Met reports whether the earned credits satisfy the requirement.
// An unknown earned value is never met.
func (c CreditCheck) Met() bool {
	return c.Earned != nil && *c.Earned >= c.Required
}

// Decision is the structured result of an evaluation.
// It is produced per session and never re-derived by the narration layer.
type Decision struct {
	Verdict  Verdict  `json:"verdict"`
	Category Category `json:"category"`
	Goal     Goal     `json:"goal,omitempty"`
	Program  string   `json:"program,omitempty"`

	// Summary is a one-sentence explanation of the verdict.
	Summary string `json:"summary"`

	// Issues lists unmet criteria in evaluation order.
	Issues []string `json:"issues,omitempty"`

	// Evidence lists documents the applicant must submit for manual review.
	Evidence []string `json:"evidence,omitempty"`

	// MissingData lists lookups that could not be resolved (insufficient data).
	MissingData []string `json:"missing_data,omitempty"`

	Credits []CreditCheck `json:"credits,omitempty"`
}

// Reply is the response to a single applicant turn.
type Reply struct {
	Text string `json:"response"`

	// Choices is nil for free-text questions and terminal replies.
	Choices  []string  `json:"choices"`
	Progress int       `json:"progress"`
	Terminal bool      `json:"terminal"`
	Decision *Decision `json:"decision,omitempty"`
}
