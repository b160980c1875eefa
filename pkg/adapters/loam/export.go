package loam

import (
	"context"
	"fmt"

	"github.com/aretw0/algorist/pkg/grammar"
	"github.com/aretw0/loam"
	"gopkg.in/yaml.v3"
)

// Export writes doc into repo as an index document plus one document per
// variant, the layout Load reads back.
func Export(ctx context.Context, repo *loam.TypedRepository[VariantMetadata], doc *grammar.Document) error {
	header := VariantMetadata{
		Name:  doc.Name,
		Start: doc.Start,
	}
	if doc.Background != nil {
		if err := loosen(doc.Background, &header.Background); err != nil {
			return fmt.Errorf("background: %w", err)
		}
	}
	if doc.Limits != (grammar.Limits{}) {
		if err := loosen(doc.Limits, &header.Limits); err != nil {
			return fmt.Errorf("limits: %w", err)
		}
	}
	err := repo.Save(ctx, &loam.DocumentModel[VariantMetadata]{
		ID:      IndexID,
		Content: fmt.Sprintf("Grammar %s, starting at %s.", doc.Name, doc.Start),
		Data:    header,
	})
	if err != nil {
		return fmt.Errorf("save %s: %w", IndexID, err)
	}

	for _, name := range grammar.RuleNames(doc) {
		for i, v := range doc.Rules[name] {
			meta := VariantMetadata{Rule: name}
			if v.Weight != 0 {
				meta.Weight = v.Weight
			}
			if v.Limits != nil {
				if err := loosen(v.Limits, &meta.Limits); err != nil {
					return fmt.Errorf("rule %q variant %d limits: %w", name, i, err)
				}
			}
			if err := loosen(v.Steps, &meta.Steps); err != nil {
				return fmt.Errorf("rule %q variant %d steps: %w", name, i, err)
			}

			id := fmt.Sprintf("%s_%03d", name, i)
			err := repo.Save(ctx, &loam.DocumentModel[VariantMetadata]{
				ID:      id,
				Content: fmt.Sprintf("Variant %d of rule %s.", i, name),
				Data:    meta,
			})
			if err != nil {
				return fmt.Errorf("save %s: %w", id, err)
			}
		}
	}
	return nil
}

// loosen is the inverse of recode: typed grammar values to plain maps.
func loosen(in any, out any) error {
	data, err := yaml.Marshal(in)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, out)
}
