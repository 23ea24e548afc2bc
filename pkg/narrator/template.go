package narrator

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/aretw0/admitcheck/pkg/domain"
)

const headerTemplate = `**Entscheidung: {{ .Verdict.Label }}**

{{ .Summary }}`

const detailsTemplate = `{{- if .Issues }}

**Nicht erfüllte Kriterien:**
{{ range .Issues }}- {{ . }}
{{ end }}{{ end }}
{{- if .Credits }}
**ECTS-Vergleich:**

| Bereich | Gefordert | Vorhanden | Bewertung |
|---|---|---|---|
{{ range .Credits }}| {{ .Category }} | {{ num .Required }} | {{ earned . }} | {{ mark . }} |
{{ end }}{{ end }}
{{- if .Evidence }}
**Einzureichende Nachweise:**
{{ range .Evidence }}- {{ . }}
{{ end }}{{ end }}
{{- if .MissingData }}
**Nicht prüfbar:**
{{ range .MissingData }}- {{ . }}
{{ end }}{{ end }}`

var funcs = template.FuncMap{
	"num": func(f float64) string { return fmt.Sprintf("%g", f) },
	"earned": func(c domain.CreditCheck) string {
		if c.Earned == nil {
			return "?"
		}
		return fmt.Sprintf("%g", *c.Earned)
	},
	"mark": func(c domain.CreditCheck) string {
		switch {
		case c.Earned == nil:
			return "⚠️ Unklar"
		case c.Met():
			return "✅ Erfüllt"
		default:
			return "❌ Nicht erfüllt"
		}
	},
}

var (
	header  = template.Must(template.New("header").Parse(headerTemplate))
	details = template.Must(template.New("details").Funcs(funcs).Parse(detailsTemplate))
)

// Template renders decisions deterministically as Markdown.
type Template struct{}

// NewTemplate creates the template narrator.
func NewTemplate() *Template {
	return &Template{}
}

// Narrate renders the verdict header followed by the structured details.
func (t *Template) Narrate(_ context.Context, d *domain.Decision) (string, error) {
	h, err := t.Header(d)
	if err != nil {
		return "", err
	}
	body, err := t.Details(d)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(h + "\n" + body), nil
}

// Header renders the verdict and summary.
func (t *Template) Header(d *domain.Decision) (string, error) {
	return render(header, d)
}

// Details renders issues, credit comparison, evidence and missing data.
func (t *Template) Details(d *domain.Decision) (string, error) {
	return render(details, d)
}

func render(tpl *template.Template, d *domain.Decision) (string, error) {
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, d); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", tpl.Name(), err)
	}
	return buf.String(), nil
}
