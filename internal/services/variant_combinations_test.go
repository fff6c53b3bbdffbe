package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"brickstore-service/internal/models"
)

func redSmallPairs() []models.CombinationPair {
	return []models.CombinationPair{
		{VariantID: "color-axis", Value: "Red"},
		{VariantID: "size-axis", Value: "Small"},
	}
}

// ===========================================
// Add Combination Tests
// ===========================================

func TestAddCombination_Success(t *testing.T) {
	p := buildVariantProduct()

	err := addCombination(p, "red-small", redSmallPairs(), []string{"/uploads/a.png"})

	assert.Nil(t, err)
	assert.Len(t, p.VariantCombinations, 1)
	combo := p.VariantCombinations[0]
	assert.NotEmpty(t, combo.ID)
	assert.Equal(t, "red-small", combo.VariantKey)
	assert.Equal(t, float64(0), combo.Price)
	assert.Equal(t, 0, combo.Stock)
	assert.Equal(t, []string{"/uploads/a.png"}, combo.Images)
}

func TestAddCombination_BlankKey(t *testing.T) {
	p := buildVariantProduct()

	err := addCombination(p, "  ", redSmallPairs(), nil)

	assert.NotNil(t, err)
	assert.Equal(t, KindValidation, err.Kind)
}

func TestAddCombination_DuplicateKeyCaseInsensitive(t *testing.T) {
	p := withCombination(buildVariantProduct(), "combo-1", "red-small", redSmallPairs()...)

	err := addCombination(p, "RED-SMALL", []models.CombinationPair{
		{VariantID: "color-axis", Value: "Blue"},
		{VariantID: "size-axis", Value: "Large"},
	}, nil)

	assert.NotNil(t, err)
	assert.Equal(t, KindValidation, err.Kind)
}

func TestAddCombination_UnknownVariant(t *testing.T) {
	p := buildVariantProduct()

	err := addCombination(p, "combo", []models.CombinationPair{
		{VariantID: "missing-axis", Value: "Red"},
	}, nil)

	assert.NotNil(t, err)
	assert.Equal(t, KindValidation, err.Kind)
}

func TestAddCombination_OptionValueMustMatchExactly(t *testing.T) {
	p := buildVariantProduct()

	err := addCombination(p, "combo", []models.CombinationPair{
		{VariantID: "color-axis", Value: "red"},
	}, nil)

	assert.NotNil(t, err)
	assert.Equal(t, KindValidation, err.Kind)
}

func TestAddCombination_VariantReferencedTwice(t *testing.T) {
	p := buildVariantProduct()

	err := addCombination(p, "combo", []models.CombinationPair{
		{VariantID: "color-axis", Value: "Red"},
		{VariantID: "color-axis", Value: "Blue"},
	}, nil)

	assert.NotNil(t, err)
	assert.Equal(t, KindValidation, err.Kind)
}

func TestAddCombination_DuplicatePairSetDespiteDistinctKey(t *testing.T) {
	// Two combinations may not cover the same pair-set even under different
	// keys; pair order must not matter.
	p := withCombination(buildVariantProduct(), "combo-1", "red-small", redSmallPairs()...)

	err := addCombination(p, "small-red", []models.CombinationPair{
		{VariantID: "size-axis", Value: "Small"},
		{VariantID: "color-axis", Value: "Red"},
	}, nil)

	assert.NotNil(t, err)
	assert.Equal(t, KindConflict, err.Kind)
	assert.Contains(t, err.Message, "Color=Red")
	assert.Len(t, p.VariantCombinations, 1)
}

// ===========================================
// Update Combination Tests
// ===========================================

func TestUpdateCombination_PartitionsImages(t *testing.T) {
	p := withCombination(buildVariantProduct(), "combo-1", "red-small", redSmallPairs()...)
	p.VariantCombinations[0].Images = []string{"/uploads/a.png", "/uploads/b.png"}

	toDelete, err := updateCombination(p, "combo-1", "red-small", redSmallPairs(),
		[]string{"/uploads/a.png"}, []string{"/uploads/c.png"})

	assert.Nil(t, err)
	assert.Equal(t, []string{"/uploads/a.png"}, toDelete)
	assert.Equal(t, []string{"/uploads/b.png", "/uploads/c.png"}, p.VariantCombinations[0].Images)
}

func TestUpdateCombination_NotFound(t *testing.T) {
	p := buildVariantProduct()

	_, err := updateCombination(p, "missing", "key", redSmallPairs(), nil, nil)

	assert.NotNil(t, err)
	assert.Equal(t, KindNotFound, err.Kind)
}

func TestUpdateCombination_KeyClashExcludesSelf(t *testing.T) {
	p := withCombination(buildVariantProduct(), "combo-1", "red-small", redSmallPairs()...)

	// Re-using its own key is fine.
	_, err := updateCombination(p, "combo-1", "red-small", redSmallPairs(), nil, nil)
	assert.Nil(t, err)

	withCombination(p, "combo-2", "blue-large",
		models.CombinationPair{VariantID: "color-axis", Value: "Blue"},
		models.CombinationPair{VariantID: "size-axis", Value: "Large"},
	)

	// Taking another combination's key is not.
	_, err = updateCombination(p, "combo-1", "blue-large", redSmallPairs(), nil, nil)
	assert.NotNil(t, err)
	assert.Equal(t, KindValidation, err.Kind)
}

// ===========================================
// Price and Delete Tests
// ===========================================

func TestUpdateCombinationPrice_Success(t *testing.T) {
	p := withCombination(buildVariantProduct(), "combo-1", "red-small", redSmallPairs()...)

	err := updateCombinationPrice(p, "combo-1", 99000)

	assert.Nil(t, err)
	assert.Equal(t, float64(99000), p.VariantCombinations[0].Price)
}

func TestUpdateCombinationPrice_Negative(t *testing.T) {
	p := withCombination(buildVariantProduct(), "combo-1", "red-small", redSmallPairs()...)

	err := updateCombinationPrice(p, "combo-1", -5)

	assert.NotNil(t, err)
	assert.Equal(t, KindValidation, err.Kind)
	assert.Equal(t, float64(0), p.VariantCombinations[0].Price)
}

func TestUpdateCombinationPrice_NotFound(t *testing.T) {
	p := buildVariantProduct()

	err := updateCombinationPrice(p, "missing", 100)

	assert.NotNil(t, err)
	assert.Equal(t, KindNotFound, err.Kind)
}

func TestDeleteCombination_ReturnsImages(t *testing.T) {
	p := withCombination(buildVariantProduct(), "combo-1", "red-small", redSmallPairs()...)
	p.VariantCombinations[0].Images = []string{"/uploads/a.png"}

	images, err := deleteCombination(p, "combo-1")

	assert.Nil(t, err)
	assert.Equal(t, []string{"/uploads/a.png"}, images)
	assert.Empty(t, p.VariantCombinations)
}

func TestDeleteCombination_UnlocksOption(t *testing.T) {
	// Deleting the only combination referencing an option releases its lock so
	// the option can be removed afterwards.
	p := withCombination(buildVariantProduct(), "combo-1", "red-small", redSmallPairs()...)

	assert.True(t, optionLocked(p, "color-axis", "Red"))

	_, err := deleteCombination(p, "combo-1")
	assert.Nil(t, err)
	assert.False(t, optionLocked(p, "color-axis", "Red"))

	derr := removeOption(p, "color-axis", "Red")
	assert.Nil(t, derr)
}
