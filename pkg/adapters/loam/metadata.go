package loam

// VariantMetadata is the frontmatter of one grammar document in a Loam
// directory. Every document is one variant of a rule; the document named
// "index" carries the grammar header instead.
//
// Nested values are kept loose and decoded by the grammar package, so numbers
// may use the {base, rnd, prnd} form.
type VariantMetadata struct {
	// Rule names the rule this variant belongs to. Defaults to the parent
	// directory, or to the file name for top-level documents.
	Rule   string         `json:"rule,omitempty" mapstructure:"rule"`
	Weight any            `json:"weight,omitempty" mapstructure:"weight"`
	Limits map[string]any `json:"limits,omitempty" mapstructure:"limits"`
	Steps  []any          `json:"steps,omitempty" mapstructure:"steps"`

	// Header fields, read from the index document only.
	Name       string         `json:"name,omitempty" mapstructure:"name"`
	Start      string         `json:"start,omitempty" mapstructure:"start"`
	Background map[string]any `json:"background,omitempty" mapstructure:"background"`
}
