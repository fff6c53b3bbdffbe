package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"brickstore-service/internal/models"
)

// buildVariantProduct returns an aggregate with a Color axis (Red, Blue) and
// a Size axis (Small, Large), no combinations.
func buildVariantProduct() *models.Product {
	return &models.Product{
		Name:        "Castle Set",
		HasVariants: true,
		Variants: models.VariantList{
			{ID: "color-axis", Name: "Color", Options: []string{"Red", "Blue"}},
			{ID: "size-axis", Name: "Size", Options: []string{"Small", "Large"}},
		},
		VariantCombinations: models.CombinationList{},
	}
}

func withCombination(p *models.Product, id, key string, pairs ...models.CombinationPair) *models.Product {
	p.VariantCombinations = append(p.VariantCombinations, models.VariantCombination{
		ID:         id,
		VariantKey: key,
		Variants:   pairs,
		Images:     []string{},
	})
	return p
}

// ===========================================
// Add Variant Tests
// ===========================================

func TestAddVariant_Success(t *testing.T) {
	p := buildVariantProduct()

	err := addVariant(p, "Material", []string{"Plastic", "  Wood  ", ""})

	assert.Nil(t, err)
	assert.Len(t, p.Variants, 3)
	added := p.Variants[2]
	assert.NotEmpty(t, added.ID)
	assert.Equal(t, "Material", added.Name)
	assert.Equal(t, []string{"Plastic", "Wood"}, added.Options)
}

func TestAddVariant_BlankName(t *testing.T) {
	p := buildVariantProduct()

	err := addVariant(p, "   ", []string{"Plastic"})

	assert.NotNil(t, err)
	assert.Equal(t, KindValidation, err.Kind)
	assert.Len(t, p.Variants, 2)
}

func TestAddVariant_NoOptions(t *testing.T) {
	p := buildVariantProduct()

	err := addVariant(p, "Material", []string{"  ", ""})

	assert.NotNil(t, err)
	assert.Equal(t, KindValidation, err.Kind)
}

func TestAddVariant_DuplicateNameCaseInsensitive(t *testing.T) {
	p := buildVariantProduct()

	err := addVariant(p, "color", []string{"Green"})

	assert.NotNil(t, err)
	assert.Equal(t, KindValidation, err.Kind)
	assert.Len(t, p.Variants, 2)
}

func TestAddVariant_DuplicateOptionCaseInsensitive(t *testing.T) {
	p := buildVariantProduct()

	err := addVariant(p, "Material", []string{"Plastic", "plastic"})

	assert.NotNil(t, err)
	assert.Equal(t, KindValidation, err.Kind)
}

// ===========================================
// Rename Variant Tests
// ===========================================

func TestRenameVariant_Success(t *testing.T) {
	p := buildVariantProduct()

	err := renameVariant(p, "color-axis", "Colour")

	assert.Nil(t, err)
	assert.Equal(t, "Colour", p.Variants[0].Name)
}

func TestRenameVariant_NotFound(t *testing.T) {
	p := buildVariantProduct()

	err := renameVariant(p, "missing-axis", "Colour")

	assert.NotNil(t, err)
	assert.Equal(t, KindNotFound, err.Kind)
}

func TestRenameVariant_BlockedByCombination(t *testing.T) {
	p := withCombination(buildVariantProduct(), "combo-1", "red-small",
		models.CombinationPair{VariantID: "color-axis", Value: "Red"},
		models.CombinationPair{VariantID: "size-axis", Value: "Small"},
	)

	err := renameVariant(p, "color-axis", "Colour")

	assert.NotNil(t, err)
	assert.Equal(t, KindConflict, err.Kind)
	assert.Equal(t, "Color", p.Variants[0].Name)
}

func TestRenameVariant_DuplicateName(t *testing.T) {
	p := buildVariantProduct()

	err := renameVariant(p, "color-axis", "size")

	assert.NotNil(t, err)
	assert.Equal(t, KindValidation, err.Kind)
}

// ===========================================
// Option Tests
// ===========================================

func TestAddOption_AllowedWithCombinations(t *testing.T) {
	// Adding a value to an existing axis stays legal even after the axis set
	// itself is frozen by combinations.
	p := withCombination(buildVariantProduct(), "combo-1", "red-small",
		models.CombinationPair{VariantID: "color-axis", Value: "Red"},
	)

	err := addOption(p, "color-axis", "Green")

	assert.Nil(t, err)
	assert.Equal(t, []string{"Red", "Blue", "Green"}, p.Variants[0].Options)
}

func TestAddOption_DuplicateCaseInsensitive(t *testing.T) {
	p := buildVariantProduct()

	err := addOption(p, "color-axis", "red")

	assert.NotNil(t, err)
	assert.Equal(t, KindValidation, err.Kind)
}

func TestRemoveOption_Success(t *testing.T) {
	p := buildVariantProduct()

	err := removeOption(p, "color-axis", "Red")

	assert.Nil(t, err)
	assert.Equal(t, []string{"Blue"}, p.Variants[0].Options)
}

func TestRemoveOption_LockedByCombination(t *testing.T) {
	p := withCombination(buildVariantProduct(), "combo-1", "red-small",
		models.CombinationPair{VariantID: "color-axis", Value: "Red"},
	)

	err := removeOption(p, "color-axis", "Red")

	assert.NotNil(t, err)
	assert.Equal(t, KindConflict, err.Kind)
	assert.Equal(t, []string{"Red", "Blue"}, p.Variants[0].Options)
}

func TestRemoveOption_CaseInsensitiveMatch(t *testing.T) {
	p := buildVariantProduct()

	err := removeOption(p, "color-axis", "red")

	assert.Nil(t, err)
	assert.Equal(t, []string{"Blue"}, p.Variants[0].Options)
}

func TestRemoveOption_TrimsValue(t *testing.T) {
	p := buildVariantProduct()

	err := removeOption(p, "color-axis", "  RED ")

	assert.Nil(t, err)
	assert.Equal(t, []string{"Blue"}, p.Variants[0].Options)
}

func TestRemoveOption_UnknownValueNotFound(t *testing.T) {
	p := buildVariantProduct()

	err := removeOption(p, "color-axis", "Magenta")

	assert.NotNil(t, err)
	assert.Equal(t, KindNotFound, err.Kind)
}

func TestRemoveOption_CaseInsensitiveStillHitsLock(t *testing.T) {
	p := withCombination(buildVariantProduct(), "combo-1", "red-small",
		models.CombinationPair{VariantID: "color-axis", Value: "Red"},
	)

	err := removeOption(p, "color-axis", "red")

	assert.NotNil(t, err)
	assert.Equal(t, KindConflict, err.Kind)
	assert.Equal(t, []string{"Red", "Blue"}, p.Variants[0].Options)
}

func TestRemoveOption_LastOptionPrunesVariant(t *testing.T) {
	p := buildVariantProduct()
	p.Variants[0].Options = []string{"Red"}

	err := removeOption(p, "color-axis", "Red")

	assert.Nil(t, err)
	assert.Len(t, p.Variants, 1)
	assert.Equal(t, "Size", p.Variants[0].Name)
}

func TestUpdateOption_Success(t *testing.T) {
	p := buildVariantProduct()

	err := updateOption(p, "color-axis", "Red", "Crimson")

	assert.Nil(t, err)
	assert.Equal(t, []string{"Crimson", "Blue"}, p.Variants[0].Options)
}

func TestUpdateOption_LockedByCombination(t *testing.T) {
	p := withCombination(buildVariantProduct(), "combo-1", "red-small",
		models.CombinationPair{VariantID: "color-axis", Value: "Red"},
	)

	err := updateOption(p, "color-axis", "Red", "Crimson")

	assert.NotNil(t, err)
	assert.Equal(t, KindConflict, err.Kind)
}

func TestUpdateOption_CaseInsensitiveOldValue(t *testing.T) {
	p := buildVariantProduct()

	err := updateOption(p, "color-axis", " red ", "Crimson")

	assert.Nil(t, err)
	assert.Equal(t, []string{"Crimson", "Blue"}, p.Variants[0].Options)
}

func TestUpdateOption_OldValueNotFoundBeforeLockCheck(t *testing.T) {
	p := withCombination(buildVariantProduct(), "combo-1", "red-small",
		models.CombinationPair{VariantID: "color-axis", Value: "Red"},
	)

	err := updateOption(p, "color-axis", "Magenta", "Crimson")

	assert.NotNil(t, err)
	assert.Equal(t, KindNotFound, err.Kind)
}

func TestUpdateOption_DuplicateNewValue(t *testing.T) {
	p := buildVariantProduct()

	err := updateOption(p, "color-axis", "Red", "blue")

	assert.NotNil(t, err)
	assert.Equal(t, KindValidation, err.Kind)
}

// ===========================================
// Lock Resolver Tests
// ===========================================

func TestBuildVariantsView_EmptyWhenVariantsDisabled(t *testing.T) {
	p := buildVariantProduct()
	p.HasVariants = false

	view := buildVariantsView(p, nil)

	assert.Empty(t, view.Variants)
	assert.Empty(t, view.Combinations)
}

func TestBuildVariantsView_LockFlags(t *testing.T) {
	p := withCombination(buildVariantProduct(), "combo-1", "red-small",
		models.CombinationPair{VariantID: "color-axis", Value: "Red"},
		models.CombinationPair{VariantID: "size-axis", Value: "Small"},
	)

	view := buildVariantsView(p, map[string]bool{"combo-1": true})

	// Every axis is frozen once a combination exists.
	assert.True(t, view.Variants[0].IsLocked)
	assert.True(t, view.Variants[1].IsLocked)

	// Only referenced option values are locked.
	assert.Equal(t, "Red", view.Variants[0].Options[0].Value)
	assert.True(t, view.Variants[0].Options[0].IsLocked)
	assert.Equal(t, "Blue", view.Variants[0].Options[1].Value)
	assert.False(t, view.Variants[0].Options[1].IsLocked)

	// Combination lock derives from stock entries.
	assert.True(t, view.Combinations[0].IsLocked)
}

func TestBuildVariantsView_ReadDoesNotMutate(t *testing.T) {
	p := withCombination(buildVariantProduct(), "combo-1", "red-small",
		models.CombinationPair{VariantID: "color-axis", Value: "Red"},
	)

	first := buildVariantsView(p, map[string]bool{})
	second := buildVariantsView(p, map[string]bool{})

	assert.Equal(t, first, second)
	assert.Len(t, p.Variants, 2)
	assert.Len(t, p.VariantCombinations, 1)
}
