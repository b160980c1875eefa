package loam

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/algorist/pkg/grammar"
	"github.com/aretw0/loam"
	"gopkg.in/yaml.v3"
)

// IndexID is the document holding the grammar header.
const IndexID = "index"

// Loader adapts a Loam repository to ports.GrammarLoader: a directory of
// markdown, YAML or JSON documents, one variant each.
type Loader struct {
	Repo *loam.TypedRepository[VariantMetadata]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[VariantMetadata]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// Open initializes a read-only Loam repository at dir.
func Open(dir string, opts ...loam.Option) (*Loader, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	// Strict mode keeps numbers as json.Number across JSON and YAML documents.
	base := []loam.Option{
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	}
	repo, err := loam.Init(absPath, append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[VariantMetadata](repo)), nil
}

type variantDoc struct {
	id   string
	rule string
	meta VariantMetadata
}

// Load assembles every document into a grammar. Variants of one rule are
// ordered by document ID.
func (l *Loader) Load(ctx context.Context) (*grammar.Document, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	out := &grammar.Document{Rules: make(map[string][]grammar.Variant)}
	var variants []variantDoc
	seen := make(map[string]string)

	for _, doc := range docs {
		id := trimExtension(doc.ID)
		if existing, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: ID '%s' is defined in both '%s' and '%s'", id, existing, doc.ID)
		}
		seen[id] = doc.ID

		if id == IndexID {
			if err := applyHeader(out, doc.Data); err != nil {
				return nil, fmt.Errorf("%s: %w", doc.ID, err)
			}
			continue
		}
		variants = append(variants, variantDoc{id: id, rule: ruleName(id, doc.Data), meta: doc.Data})
	}

	sort.Slice(variants, func(i, j int) bool { return variants[i].id < variants[j].id })
	for _, vd := range variants {
		v, err := decodeVariant(vd.meta)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", vd.id, err)
		}
		out.Rules[vd.rule] = append(out.Rules[vd.rule], v)
	}
	return out, nil
}

// Watch implements ports.Watchable.
func (l *Loader) Watch(ctx context.Context) (<-chan struct{}, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan struct{}, 1)
	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-events:
				if !ok {
					return
				}
				// Loam debounces; one pending reload is enough.
				select {
				case ch <- struct{}{}:
				default:
				}
			}
		}
	}()
	return ch, nil
}

func ruleName(id string, meta VariantMetadata) string {
	if meta.Rule != "" {
		return meta.Rule
	}
	if dir := path.Dir(id); dir != "." {
		return path.Base(dir)
	}
	return id
}

func applyHeader(doc *grammar.Document, meta VariantMetadata) error {
	doc.Name = meta.Name
	doc.Start = meta.Start
	if meta.Background != nil {
		if err := recode(meta.Background, &doc.Background); err != nil {
			return fmt.Errorf("background: %w", err)
		}
	}
	if meta.Limits != nil {
		if err := recode(meta.Limits, &doc.Limits); err != nil {
			return fmt.Errorf("limits: %w", err)
		}
	}
	return nil
}

func decodeVariant(meta VariantMetadata) (grammar.Variant, error) {
	raw := map[string]any{"steps": meta.Steps}
	if meta.Weight != nil {
		raw["weight"] = meta.Weight
	}
	if meta.Limits != nil {
		raw["limits"] = meta.Limits
	}
	var v grammar.Variant
	if err := recode(raw, &v); err != nil {
		return grammar.Variant{}, err
	}
	return v, nil
}

// recode round-trips loose frontmatter through YAML so the grammar types'
// own decoders apply.
func recode(in any, out any) error {
	data, err := yaml.Marshal(normalize(in))
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, out)
}

// normalize turns strict-mode json.Number values into plain numbers.
func normalize(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, sub := range val {
			out[k] = normalize(sub)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, sub := range val {
			out[fmt.Sprint(k)] = normalize(sub)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, sub := range val {
			out[i] = normalize(sub)
		}
		return out
	}
	return v
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
