package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlDocument mirrors the spreadsheet structure in YAML.
type yamlDocument struct {
	General      map[string]any                `yaml:"general"`
	Programs     map[string]map[string]float64 `yaml:"programs"`
	Modules      map[string]map[string]float64 `yaml:"modules"`
	Compositions []Composition                 `yaml:"compositions"`
}

// LoadYAML reads a rule table from a YAML document.
// Module weights in YAML are credit-units, not flags.
func LoadYAML(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	return ParseYAML(path, data)
}

// ParseYAML parses a YAML rule document.
func ParseYAML(source string, data []byte) (*Table, error) {
	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &LoadError{Source: source, Err: fmt.Errorf("failed to parse yaml: %w", err)}
	}

	table := Empty()
	table.Source = source

	general, ok, err := decodeGeneral(doc.General)
	if err != nil {
		return nil, &LoadError{Source: source, Sheet: "general", Err: err}
	}
	table.General = general
	table.hasGeneral = ok

	for name, cats := range doc.Programs {
		table.Programs[name] = CategoryCredits(cats)
	}
	for name, cats := range doc.Modules {
		table.Modules[name] = CategoryCredits(cats)
	}
	table.Compositions = doc.Compositions

	return table, nil
}
