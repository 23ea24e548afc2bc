package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/admitcheck/pkg/domain"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultCatalog []byte

// Catalog is an immutable, ordered list of questions.
type Catalog struct {
	questions []domain.Question
	index     map[string]int
}

// QuestionSpec is the declarative representation of a question as it
// appears in catalog files.
type QuestionSpec struct {
	Key     string                       `yaml:"key"`
	Kind    string                       `yaml:"kind"`
	Prompt  string                       `yaml:"prompt"`
	Choices []string                     `yaml:"choices"`
	When    map[string]string            `yaml:"when"`
	Derive  map[string]map[string]string `yaml:"derive"`
	Source  string                       `yaml:"source"`
	OnEmpty string                       `yaml:"on_empty"`
}

type fileDTO struct {
	Questions []QuestionSpec `yaml:"questions"`
}

// Default returns the embedded default catalog.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// Load reads and validates a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var file fileDTO
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	return FromSpecs(file.Questions)
}

// FromSpecs normalizes declarative question specs and builds a validated catalog.
func FromSpecs(specs []QuestionSpec) (*Catalog, error) {
	questions := make([]domain.Question, 0, len(specs))
	for _, dto := range specs {
		kind := domain.QuestionKind(strings.ToLower(strings.TrimSpace(dto.Kind)))
		if kind == "" {
			kind = domain.KindStatic
		}
		onEmpty := domain.EmptyPolicy(dto.OnEmpty)
		if kind == domain.KindComputed && onEmpty == "" {
			onEmpty = domain.EmptyFreeText
		}
		questions = append(questions, domain.Question{
			Key:     strings.TrimSpace(dto.Key),
			Kind:    kind,
			Prompt:  strings.TrimSpace(dto.Prompt),
			Choices: dto.Choices,
			When:    domain.PreconditionFrom(dto.When),
			Derive:  dto.Derive,
			Source:  dto.Source,
			OnEmpty: onEmpty,
		})
	}

	return New(questions...)
}

// New builds a catalog from questions in declared order and validates it.
func New(questions ...domain.Question) (*Catalog, error) {
	c := &Catalog{
		questions: questions,
		index:     make(map[string]int, len(questions)),
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Questions returns the questions in declared order.
func (c *Catalog) Questions() []domain.Question {
	return c.questions
}

// Get returns the question with the given key.
func (c *Catalog) Get(key string) (domain.Question, bool) {
	i, ok := c.index[key]
	if !ok {
		return domain.Question{}, false
	}
	return c.questions[i], true
}

// Len returns the number of questions.
func (c *Catalog) Len() int {
	return len(c.questions)
}
