package services

import (
	"strings"

	"github.com/google/uuid"

	"brickstore-service/internal/models"
)

// Pure axis mutations. Each validates against the in-memory aggregate and
// either applies its change or returns a DomainError leaving the product
// untouched. Persistence and lock-aware view building happen in the gateway.

// cleanOptions trims option values and drops the ones left empty.
func cleanOptions(options []string) []string {
	cleaned := make([]string, 0, len(options))
	for _, opt := range options {
		opt = strings.TrimSpace(opt)
		if opt != "" {
			cleaned = append(cleaned, opt)
		}
	}
	return cleaned
}

func variantNameTaken(p *models.Product, name, excludeVariantID string) bool {
	for _, v := range p.Variants {
		if v.ID == excludeVariantID {
			continue
		}
		if strings.EqualFold(v.Name, name) {
			return true
		}
	}
	return false
}

func optionTaken(v *models.Variant, value, excludeValue string) bool {
	for _, opt := range v.Options {
		if excludeValue != "" && strings.EqualFold(opt, excludeValue) {
			continue
		}
		if strings.EqualFold(opt, value) {
			return true
		}
	}
	return false
}

func addVariant(p *models.Product, name string, options []string) *DomainError {
	name = strings.TrimSpace(name)
	if name == "" {
		return Validationf("variant name is required").WithField("name")
	}
	cleaned := cleanOptions(options)
	if len(cleaned) == 0 {
		return Validationf("at least one option is required").WithField("options")
	}
	if variantNameTaken(p, name, "") {
		return Validationf("variant name %q already exists", name).WithField("name")
	}
	seen := make(map[string]bool, len(cleaned))
	for _, opt := range cleaned {
		key := strings.ToLower(opt)
		if seen[key] {
			return Validationf("duplicate option value %q", opt).WithField("options")
		}
		seen[key] = true
	}
	p.Variants = append(p.Variants, models.Variant{
		ID:      uuid.NewString(),
		Name:    name,
		Options: cleaned,
	})
	return nil
}

// renameVariant is blocked by any existing combination: once combinations
// exist the axis set is structurally frozen, rename included.
func renameVariant(p *models.Product, variantID, name string) *DomainError {
	name = strings.TrimSpace(name)
	if name == "" {
		return Validationf("variant name is required").WithField("name")
	}
	variant := p.VariantByID(variantID)
	if variant == nil {
		return NotFoundf("variant not found")
	}
	if variantLocked(p) {
		return Conflictf("variant cannot be renamed while combinations exist")
	}
	if variantNameTaken(p, name, variantID) {
		return Validationf("variant name %q already exists", name).WithField("name")
	}
	variant.Name = name
	return nil
}

// addOption extends an axis. Unlike rename, this is allowed even when
// combinations exist.
func addOption(p *models.Product, variantID, value string) *DomainError {
	value = strings.TrimSpace(value)
	if value == "" {
		return Validationf("option value is required").WithField("value")
	}
	variant := p.VariantByID(variantID)
	if variant == nil {
		return NotFoundf("variant not found")
	}
	if optionTaken(variant, value, "") {
		return Validationf("option %q already exists", value).WithField("value")
	}
	variant.Options = append(variant.Options, value)
	return nil
}

// removeOption deletes one option value, matched case-insensitively against
// the stored options. When the last option goes, the variant itself is
// cascade-deleted as a post-condition.
func removeOption(p *models.Product, variantID, value string) *DomainError {
	value = strings.TrimSpace(value)
	variant := p.VariantByID(variantID)
	if variant == nil {
		return NotFoundf("variant not found")
	}
	if optionLocked(p, variantID, value) {
		return Conflictf("option %q is used by a combination", value)
	}
	idx := -1
	for i, opt := range variant.Options {
		if strings.EqualFold(opt, value) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return NotFoundf("option %q not found", value)
	}
	variant.Options = append(variant.Options[:idx], variant.Options[idx+1:]...)
	pruneEmptyVariant(p, variantID)
	return nil
}

// pruneEmptyVariant removes the variant if its option set is now empty.
func pruneEmptyVariant(p *models.Product, variantID string) {
	variant := p.VariantByID(variantID)
	if variant == nil || len(variant.Options) > 0 {
		return
	}
	for i := range p.Variants {
		if p.Variants[i].ID == variantID {
			p.Variants = append(p.Variants[:i], p.Variants[i+1:]...)
			return
		}
	}
}

func updateOption(p *models.Product, variantID, oldValue, newValue string) *DomainError {
	oldValue = strings.TrimSpace(oldValue)
	variant := p.VariantByID(variantID)
	if variant == nil {
		return NotFoundf("variant not found")
	}
	idx := -1
	for i, opt := range variant.Options {
		if strings.EqualFold(opt, oldValue) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return NotFoundf("option %q not found", oldValue)
	}
	if optionLocked(p, variantID, oldValue) {
		return Conflictf("option %q is used by a combination", oldValue)
	}
	newValue = strings.TrimSpace(newValue)
	if newValue == "" {
		return Validationf("option value is required").WithField("newValue")
	}
	if optionTaken(variant, newValue, oldValue) {
		return Validationf("option %q already exists", newValue).WithField("newValue")
	}
	variant.Options[idx] = newValue
	return nil
}
