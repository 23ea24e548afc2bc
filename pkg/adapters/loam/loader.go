package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/aretw0/admitcheck/pkg/catalog"
	"github.com/aretw0/loam"
	"github.com/mitchellh/mapstructure"
)

// Loader reads a question catalog from a Loam repository where every
// question is one Markdown document.
type Loader struct {
	Repo *loam.TypedRepository[QuestionMetadata]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[QuestionMetadata]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// Open initializes a read-only Loam repository at dir.
func Open(dir string) (*Loader, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[QuestionMetadata](repo)), nil
}

// LoadCatalog is a convenience wrapper around Open and Catalog.
func LoadCatalog(ctx context.Context, dir string) (*catalog.Catalog, error) {
	l, err := Open(dir)
	if err != nil {
		return nil, err
	}
	return l.Catalog(ctx)
}

type orderedSpec struct {
	order int
	id    string
	spec  catalog.QuestionSpec
}

// Catalog lists every document and builds a validated catalog. Documents
// are ordered by their "order" field, then by ID.
func (l *Loader) Catalog(ctx context.Context) (*catalog.Catalog, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string, len(docs))
	entries := make([]orderedSpec, 0, len(docs))
	for _, listed := range docs {
		// List carries metadata only; the body needs a Get.
		doc, err := l.Repo.Get(ctx, listed.ID)
		if err != nil {
			return nil, fmt.Errorf("loam get failed for %s: %w", listed.ID, err)
		}
		meta := doc.Data
		key := meta.Key
		if key == "" {
			key = trimExtension(doc.ID)
		}
		if existing, ok := seen[key]; ok {
			return nil, fmt.Errorf("collision detected: key '%s' is defined in both '%s' and '%s'", key, existing, doc.ID)
		}
		seen[key] = doc.ID

		order, err := parseOrder(meta.Order)
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", doc.ID, err)
		}
		derive, err := decodeDerive(meta.Derive)
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", doc.ID, err)
		}

		entries = append(entries, orderedSpec{
			order: order,
			id:    doc.ID,
			spec: catalog.QuestionSpec{
				Key:     key,
				Kind:    meta.Kind,
				Prompt:  strings.TrimSpace(doc.Content),
				Choices: meta.Choices,
				When:    meta.When,
				Derive:  derive,
				Source:  meta.Source,
				OnEmpty: meta.OnEmpty,
			},
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].order != entries[j].order {
			return entries[i].order < entries[j].order
		}
		return entries[i].id < entries[j].id
	})

	specs := make([]catalog.QuestionSpec, len(entries))
	for i, e := range entries {
		specs[i] = e.spec
	}
	return catalog.FromSpecs(specs)
}

func decodeDerive(raw map[string]any) (map[string]map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var out map[string]map[string]string
	if err := mapstructure.Decode(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode derive: %w", err)
	}
	return out, nil
}

// parseOrder accepts the numeric shapes Loam may produce in strict and
// lenient mode.
func parseOrder(v any) (int, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	default:
		s := strings.TrimSpace(fmt.Sprint(n))
		i, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("invalid order %q", s)
		}
		return i, nil
	}
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext == "" {
		return id
	}
	return strings.TrimSuffix(id, ext)
}
