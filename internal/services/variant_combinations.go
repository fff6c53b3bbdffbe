package services

import (
	"strings"

	"github.com/google/uuid"

	"brickstore-service/internal/models"
)

// Pure combination mutations. File effects never happen here: operations
// that shed images return the reference paths for the gateway's effect
// phase instead of touching storage.

func variantKeyTaken(p *models.Product, key, excludeComboID string) bool {
	for _, c := range p.VariantCombinations {
		if c.ID == excludeComboID {
			continue
		}
		if strings.EqualFold(c.VariantKey, key) {
			return true
		}
	}
	return false
}

// validatePairs checks every pair references an existing variant, uses one
// of its current option values verbatim, and no axis appears twice.
func validatePairs(p *models.Product, pairs []models.CombinationPair) *DomainError {
	if len(pairs) == 0 {
		return Validationf("at least one variant pair is required").WithField("variants")
	}
	seenAxis := make(map[string]bool, len(pairs))
	for _, pair := range pairs {
		variant := p.VariantByID(pair.VariantID)
		if variant == nil {
			return Validationf("variant %q does not exist", pair.VariantID).WithField("variants")
		}
		if seenAxis[pair.VariantID] {
			return Validationf("variant %q referenced more than once", variant.Name).WithField("variants")
		}
		seenAxis[pair.VariantID] = true
		found := false
		for _, opt := range variant.Options {
			if opt == pair.Value {
				found = true
				break
			}
		}
		if !found {
			return Validationf("option %q does not exist on variant %q", pair.Value, variant.Name).WithField("variants")
		}
	}
	return nil
}

// samePairSet compares two pair collections as unordered sets.
func samePairSet(a, b []models.CombinationPair) bool {
	if len(a) != len(b) {
		return false
	}
	for _, pa := range a {
		matched := false
		for _, pb := range b {
			if pa.VariantID == pb.VariantID && strings.EqualFold(pa.Value, pb.Value) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// describePairs renders pairs as "Color=Red, Size=Large" for diagnostics.
func describePairs(p *models.Product, pairs []models.CombinationPair) string {
	parts := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		name := pair.VariantID
		if v := p.VariantByID(pair.VariantID); v != nil {
			name = v.Name
		}
		parts = append(parts, name+"="+pair.Value)
	}
	return strings.Join(parts, ", ")
}

// duplicatePairSet returns a Conflict naming the clashing pairs when another
// combination already covers the same pair-set.
func duplicatePairSet(p *models.Product, pairs []models.CombinationPair, excludeComboID string) *DomainError {
	for _, c := range p.VariantCombinations {
		if c.ID == excludeComboID {
			continue
		}
		if samePairSet(c.Variants, pairs) {
			return Conflictf("a combination with %s already exists", describePairs(p, pairs))
		}
	}
	return nil
}

func addCombination(p *models.Product, variantKey string, pairs []models.CombinationPair, images []string) *DomainError {
	variantKey = strings.TrimSpace(variantKey)
	if variantKey == "" {
		return Validationf("variant key is required").WithField("variantKey")
	}
	if variantKeyTaken(p, variantKey, "") {
		return Validationf("variant key %q already exists", variantKey).WithField("variantKey")
	}
	if err := validatePairs(p, pairs); err != nil {
		return err
	}
	if err := duplicatePairSet(p, pairs, ""); err != nil {
		return err
	}
	if images == nil {
		images = []string{}
	}
	p.VariantCombinations = append(p.VariantCombinations, models.VariantCombination{
		ID:         uuid.NewString(),
		VariantKey: variantKey,
		Variants:   pairs,
		Price:      0,
		Stock:      0,
		Images:     images,
	})
	return nil
}

// updateCombination rewrites a combination's key, pairs and image set. The
// returned slice holds image paths detached by the update, for the caller to
// delete from storage after the aggregate is persisted.
func updateCombination(p *models.Product, comboID, variantKey string, pairs []models.CombinationPair, deletedImages, newImages []string) ([]string, *DomainError) {
	combo := p.CombinationByID(comboID)
	if combo == nil {
		return nil, NotFoundf("combination not found")
	}
	variantKey = strings.TrimSpace(variantKey)
	if variantKey == "" {
		return nil, Validationf("variant key is required").WithField("variantKey")
	}
	if variantKeyTaken(p, variantKey, comboID) {
		return nil, Validationf("variant key %q already exists", variantKey).WithField("variantKey")
	}
	if err := validatePairs(p, pairs); err != nil {
		return nil, err
	}
	if err := duplicatePairSet(p, pairs, comboID); err != nil {
		return nil, err
	}

	toDelete := make([]string, 0, len(deletedImages))
	kept := make([]string, 0, len(combo.Images))
	deleted := make(map[string]bool, len(deletedImages))
	for _, path := range deletedImages {
		deleted[path] = true
	}
	for _, img := range combo.Images {
		if deleted[img] {
			toDelete = append(toDelete, img)
		} else {
			kept = append(kept, img)
		}
	}

	combo.VariantKey = variantKey
	combo.Variants = pairs
	combo.Images = append(kept, newImages...)
	return toDelete, nil
}

func updateCombinationPrice(p *models.Product, comboID string, price float64) *DomainError {
	combo := p.CombinationByID(comboID)
	if combo == nil {
		return NotFoundf("combination not found")
	}
	if price < 0 {
		return Validationf("price must be a non-negative number").WithField("price")
	}
	combo.Price = price
	return nil
}

// deleteCombination removes the combination and returns its image paths for
// best-effort storage cleanup.
func deleteCombination(p *models.Product, comboID string) ([]string, *DomainError) {
	for i := range p.VariantCombinations {
		if p.VariantCombinations[i].ID == comboID {
			images := p.VariantCombinations[i].Images
			p.VariantCombinations = append(p.VariantCombinations[:i], p.VariantCombinations[i+1:]...)
			return images, nil
		}
	}
	return nil, NotFoundf("combination not found")
}
