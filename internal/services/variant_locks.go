package services

import (
	"strings"

	"brickstore-service/internal/models"
)

// Response views. Lock flags are derived on every build and never persisted.

type OptionView struct {
	Value    string `json:"value"`
	IsLocked bool   `json:"isLocked"`
}

type VariantView struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	IsLocked bool         `json:"isLocked"`
	Options  []OptionView `json:"options"`
}

type CombinationView struct {
	models.VariantCombination
	IsLocked bool `json:"isLocked"`
}

// VariantsView is what every engine operation returns: the full variant and
// combination state rebuilt from the aggregate after the mutation.
type VariantsView struct {
	Variants     []VariantView     `json:"variants"`
	Combinations []CombinationView `json:"variantCombinations"`
}

// optionLocked reports whether any combination references (variantID, value).
func optionLocked(p *models.Product, variantID, value string) bool {
	for i := range p.VariantCombinations {
		for _, pair := range p.VariantCombinations[i].Variants {
			if pair.VariantID == variantID && strings.EqualFold(pair.Value, value) {
				return true
			}
		}
	}
	return false
}

// variantLocked is coarse on purpose: the axis set is structurally frozen as
// soon as the product has any combination at all.
func variantLocked(p *models.Product) bool {
	return len(p.VariantCombinations) > 0
}

// buildVariantsView rebuilds the annotated view from the aggregate.
// lockedComboIDs is the set of combination ids referenced by stock entries.
func buildVariantsView(p *models.Product, lockedComboIDs map[string]bool) VariantsView {
	view := VariantsView{
		Variants:     make([]VariantView, 0, len(p.Variants)),
		Combinations: make([]CombinationView, 0, len(p.VariantCombinations)),
	}
	if !p.HasVariants {
		return view
	}
	axisLocked := variantLocked(p)
	for _, v := range p.Variants {
		vv := VariantView{
			ID:       v.ID,
			Name:     v.Name,
			IsLocked: axisLocked,
			Options:  make([]OptionView, 0, len(v.Options)),
		}
		for _, opt := range v.Options {
			vv.Options = append(vv.Options, OptionView{
				Value:    opt,
				IsLocked: optionLocked(p, v.ID, opt),
			})
		}
		view.Variants = append(view.Variants, vv)
	}
	for _, c := range p.VariantCombinations {
		view.Combinations = append(view.Combinations, CombinationView{
			VariantCombination: c,
			IsLocked:           lockedComboIDs[c.ID],
		})
	}
	return view
}
