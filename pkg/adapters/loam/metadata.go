package loam

// QuestionMetadata is the frontmatter of a question document. The document
// body is the prompt shown to the applicant.
type QuestionMetadata struct {
	Key     string            `json:"key" mapstructure:"key"`
	Kind    string            `json:"kind" mapstructure:"kind"`
	Order   any               `json:"order" mapstructure:"order"`
	Choices []string          `json:"choices" mapstructure:"choices"`
	When    map[string]string `json:"when" mapstructure:"when"`
	Source  string            `json:"source" mapstructure:"source"`
	OnEmpty string            `json:"on_empty" mapstructure:"on_empty"`

	// Derive is decoded loosely; nested maps arrive as map[string]any.
	Derive map[string]any `json:"derive" mapstructure:"derive"`
}
