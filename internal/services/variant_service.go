package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"brickstore-service/internal/models"
	"brickstore-service/internal/repository"
)

// EventPublisher broadcasts catalog changes. Implementations must not block
// request handling on broker availability.
type EventPublisher interface {
	PublishProductEvent(ctx context.Context, eventType string, product *models.Product)
}

// VariantService is the single gateway through which every variant and
// combination mutation flows. Each operation loads the aggregate, validates
// against the loaded state, persists with a version compare-and-swap, runs
// best-effort file cleanup, and returns the rebuilt lock-annotated view.
type VariantService interface {
	GetVariants(ctx context.Context, productID uuid.UUID) (*VariantsView, error)

	AddVariant(ctx context.Context, productID uuid.UUID, req *models.AddVariantRequest, callerID string) (*VariantsView, error)
	RenameVariant(ctx context.Context, productID uuid.UUID, variantID, name, callerID string) (*VariantsView, error)
	AddVariantOption(ctx context.Context, productID uuid.UUID, variantID, value, callerID string) (*VariantsView, error)
	UpdateVariantOption(ctx context.Context, productID uuid.UUID, variantID, oldValue, newValue, callerID string) (*VariantsView, error)
	DeleteVariantOption(ctx context.Context, productID uuid.UUID, variantID, value, callerID string) (*VariantsView, error)

	AddCombination(ctx context.Context, productID uuid.UUID, variantKey string, pairs []models.CombinationPair, images []string, callerID string) (*VariantsView, error)
	UpdateCombination(ctx context.Context, productID uuid.UUID, comboID, variantKey string, pairs []models.CombinationPair, deletedImages, newImages []string, callerID string) (*VariantsView, error)
	UpdateCombinationPrice(ctx context.Context, productID uuid.UUID, comboID string, price float64, callerID string) (*VariantsView, error)
	DeleteCombination(ctx context.Context, productID uuid.UUID, comboID, callerID string) (*VariantsView, error)

	ToggleHasVariants(ctx context.Context, productID uuid.UUID, callerID string) (*models.Product, error)
	ToggleActive(ctx context.Context, productID uuid.UUID, callerID string) (*models.Product, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, req *models.UpdateProductRequest, newImages []string, callerID string) (*models.Product, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
}

type variantService struct {
	store     ProductStore
	stock     StockLookup
	files     FileStore
	publisher EventPublisher
	logger    *logrus.Logger
}

// NewVariantService creates a new variant service. publisher may be nil when
// the event broker is disabled.
func NewVariantService(store ProductStore, stock StockLookup, files FileStore, publisher EventPublisher, logger *logrus.Logger) VariantService {
	return &variantService{
		store:     store,
		stock:     stock,
		files:     files,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *variantService) load(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFoundf("product not found")
		}
		return nil, Internalf(err, "failed to load product")
	}
	return product, nil
}

func (s *variantService) save(ctx context.Context, product *models.Product, callerID string) error {
	if callerID != "" {
		product.UpdatedBy = &callerID
	}
	if err := s.store.SaveProduct(ctx, product); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return Conflictf("product was modified concurrently, retry the operation")
		}
		return Internalf(err, "failed to save product")
	}
	return nil
}

// view rebuilds the lock-annotated response from the current aggregate.
func (s *variantService) view(ctx context.Context, product *models.Product) (*VariantsView, error) {
	lockedIDs, err := s.stock.LockedCombinationIDs(ctx, product.ID)
	if err != nil {
		return nil, Internalf(err, "failed to query stock entries")
	}
	locked := make(map[string]bool, len(lockedIDs))
	for _, id := range lockedIDs {
		locked[id] = true
	}
	v := buildVariantsView(product, locked)
	return &v, nil
}

// removeFiles deletes stored uploads, logging failures without surfacing them.
func (s *variantService) removeFiles(paths []string) {
	for _, path := range paths {
		if err := s.files.Remove(path); err != nil {
			s.logger.WithError(err).WithField("path", path).Warn("Failed to remove stored file")
		}
	}
}

func (s *variantService) publish(ctx context.Context, eventType string, product *models.Product) {
	if s.publisher != nil {
		s.publisher.PublishProductEvent(ctx, eventType, product)
	}
}

func requireVariantsEnabled(product *models.Product) error {
	if !product.HasVariants {
		return Conflictf("product does not have variants enabled")
	}
	return nil
}

func (s *variantService) GetVariants(ctx context.Context, productID uuid.UUID) (*VariantsView, error) {
	product, err := s.load(ctx, productID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, product)
}

func (s *variantService) AddVariant(ctx context.Context, productID uuid.UUID, req *models.AddVariantRequest, callerID string) (*VariantsView, error) {
	product, err := s.load(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := requireVariantsEnabled(product); err != nil {
		return nil, err
	}
	// The axis set is frozen once any combination exists.
	if variantLocked(product) {
		return nil, Conflictf("variants cannot be added while combinations exist")
	}
	if derr := addVariant(product, req.Name, req.Options); derr != nil {
		return nil, derr
	}
	if err := s.save(ctx, product, callerID); err != nil {
		return nil, err
	}
	return s.view(ctx, product)
}

func (s *variantService) RenameVariant(ctx context.Context, productID uuid.UUID, variantID, name, callerID string) (*VariantsView, error) {
	product, err := s.load(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := requireVariantsEnabled(product); err != nil {
		return nil, err
	}
	if derr := renameVariant(product, variantID, name); derr != nil {
		return nil, derr
	}
	if err := s.save(ctx, product, callerID); err != nil {
		return nil, err
	}
	return s.view(ctx, product)
}

func (s *variantService) AddVariantOption(ctx context.Context, productID uuid.UUID, variantID, value, callerID string) (*VariantsView, error) {
	product, err := s.load(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := requireVariantsEnabled(product); err != nil {
		return nil, err
	}
	if derr := addOption(product, variantID, value); derr != nil {
		return nil, derr
	}
	if err := s.save(ctx, product, callerID); err != nil {
		return nil, err
	}
	return s.view(ctx, product)
}

func (s *variantService) UpdateVariantOption(ctx context.Context, productID uuid.UUID, variantID, oldValue, newValue, callerID string) (*VariantsView, error) {
	product, err := s.load(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := requireVariantsEnabled(product); err != nil {
		return nil, err
	}
	if derr := updateOption(product, variantID, oldValue, newValue); derr != nil {
		return nil, derr
	}
	if err := s.save(ctx, product, callerID); err != nil {
		return nil, err
	}
	return s.view(ctx, product)
}

func (s *variantService) DeleteVariantOption(ctx context.Context, productID uuid.UUID, variantID, value, callerID string) (*VariantsView, error) {
	product, err := s.load(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := requireVariantsEnabled(product); err != nil {
		return nil, err
	}
	if derr := removeOption(product, variantID, value); derr != nil {
		return nil, derr
	}
	if err := s.save(ctx, product, callerID); err != nil {
		return nil, err
	}
	return s.view(ctx, product)
}

func (s *variantService) AddCombination(ctx context.Context, productID uuid.UUID, variantKey string, pairs []models.CombinationPair, images []string, callerID string) (*VariantsView, error) {
	product, err := s.load(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := requireVariantsEnabled(product); err != nil {
		return nil, err
	}
	if derr := addCombination(product, variantKey, pairs, images); derr != nil {
		return nil, derr
	}
	if err := s.save(ctx, product, callerID); err != nil {
		return nil, err
	}
	return s.view(ctx, product)
}

// comboStockLocked reports whether stock entries reference the combination.
func (s *variantService) comboStockLocked(ctx context.Context, productID uuid.UUID, comboID string) (bool, error) {
	lockedIDs, err := s.stock.LockedCombinationIDs(ctx, productID)
	if err != nil {
		return false, Internalf(err, "failed to query stock entries")
	}
	for _, id := range lockedIDs {
		if id == comboID {
			return true, nil
		}
	}
	return false, nil
}

func (s *variantService) UpdateCombination(ctx context.Context, productID uuid.UUID, comboID, variantKey string, pairs []models.CombinationPair, deletedImages, newImages []string, callerID string) (*VariantsView, error) {
	product, err := s.load(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := requireVariantsEnabled(product); err != nil {
		return nil, err
	}
	if product.CombinationByID(comboID) == nil {
		return nil, NotFoundf("combination not found")
	}
	locked, err := s.comboStockLocked(ctx, productID, comboID)
	if err != nil {
		return nil, err
	}
	if locked {
		return nil, Conflictf("combination has stock entries and cannot be restructured")
	}
	toDelete, derr := updateCombination(product, comboID, variantKey, pairs, deletedImages, newImages)
	if derr != nil {
		return nil, derr
	}
	if err := s.save(ctx, product, callerID); err != nil {
		return nil, err
	}
	s.removeFiles(toDelete)
	return s.view(ctx, product)
}

// UpdateCombinationPrice deliberately performs no stock-lock check: price may
// change even for a locked combination.
func (s *variantService) UpdateCombinationPrice(ctx context.Context, productID uuid.UUID, comboID string, price float64, callerID string) (*VariantsView, error) {
	product, err := s.load(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := requireVariantsEnabled(product); err != nil {
		return nil, err
	}
	if derr := updateCombinationPrice(product, comboID, price); derr != nil {
		return nil, derr
	}
	if err := s.save(ctx, product, callerID); err != nil {
		return nil, err
	}
	return s.view(ctx, product)
}

func (s *variantService) DeleteCombination(ctx context.Context, productID uuid.UUID, comboID, callerID string) (*VariantsView, error) {
	product, err := s.load(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := requireVariantsEnabled(product); err != nil {
		return nil, err
	}
	if product.CombinationByID(comboID) == nil {
		return nil, NotFoundf("combination not found")
	}
	locked, err := s.comboStockLocked(ctx, productID, comboID)
	if err != nil {
		return nil, err
	}
	if locked {
		return nil, Conflictf("combination has stock entries and cannot be deleted")
	}
	images, derr := deleteCombination(product, comboID)
	if derr != nil {
		return nil, derr
	}
	if err := s.save(ctx, product, callerID); err != nil {
		return nil, err
	}
	s.removeFiles(images)
	return s.view(ctx, product)
}

// ToggleHasVariants flips the variant machinery on or off. Either direction
// requires the product to carry no variants, no combinations and no stock
// entries at all.
func (s *variantService) ToggleHasVariants(ctx context.Context, productID uuid.UUID, callerID string) (*models.Product, error) {
	product, err := s.load(ctx, productID)
	if err != nil {
		return nil, err
	}
	if len(product.Variants) > 0 || len(product.VariantCombinations) > 0 {
		return nil, Conflictf("cannot change variant mode while variants or combinations exist")
	}
	hasStock, err := s.stock.HasEntriesForProduct(ctx, productID)
	if err != nil {
		return nil, Internalf(err, "failed to query stock entries")
	}
	if hasStock {
		return nil, Conflictf("cannot change variant mode while stock entries exist")
	}
	product.HasVariants = !product.HasVariants
	if err := s.save(ctx, product, callerID); err != nil {
		return nil, err
	}
	s.publish(ctx, "product.updated", product)
	return product, nil
}

// ToggleActive publishes or unpublishes a product. Activating a variant
// product requires at least one variant and one combination; deactivating is
// always allowed.
func (s *variantService) ToggleActive(ctx context.Context, productID uuid.UUID, callerID string) (*models.Product, error) {
	product, err := s.load(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive && product.HasVariants {
		if len(product.Variants) == 0 || len(product.VariantCombinations) == 0 {
			return nil, Conflictf("product needs at least one variant and one combination before activation")
		}
	}
	product.IsActive = !product.IsActive
	if err := s.save(ctx, product, callerID); err != nil {
		return nil, err
	}
	s.publish(ctx, "product.updated", product)
	return product, nil
}

// UpdateProduct applies a full edit, including a hasVariants flip. Flipping
// to false requires a positive price plus at least one image; flipping to
// true purges product-level images since images then live on combinations.
func (s *variantService) UpdateProduct(ctx context.Context, productID uuid.UUID, req *models.UpdateProductRequest, newImages []string, callerID string) (*models.Product, error) {
	product, err := s.load(ctx, productID)
	if err != nil {
		return nil, err
	}
	if req.Price < 0 {
		return nil, Validationf("price must be a non-negative number").WithField("price")
	}

	flipping := req.HasVariants != product.HasVariants
	if flipping {
		if len(product.Variants) > 0 || len(product.VariantCombinations) > 0 {
			return nil, Conflictf("cannot change variant mode while variants or combinations exist")
		}
		hasStock, serr := s.stock.HasEntriesForProduct(ctx, productID)
		if serr != nil {
			return nil, Internalf(serr, "failed to query stock entries")
		}
		if hasStock {
			return nil, Conflictf("cannot change variant mode while stock entries exist")
		}
		if !req.HasVariants {
			if req.Price <= 0 {
				return nil, Validationf("a positive price is required when disabling variants").WithField("price")
			}
			if len(newImages) == 0 && len(product.Images) == 0 {
				return nil, Validationf("at least one image is required when disabling variants").WithField("images")
			}
		}
	}

	var toDelete []string
	if req.HasVariants {
		// Images live on combinations while variants are enabled.
		toDelete = append(toDelete, product.Images...)
		toDelete = append(toDelete, newImages...)
		product.Images = models.StringArray{}
		product.Price = 0
	} else {
		if len(newImages) > 0 {
			toDelete = append(toDelete, product.Images...)
			product.Images = models.StringArray(newImages)
		}
		product.Price = req.Price
	}

	product.Name = req.Name
	product.CategoryID = req.CategoryID
	product.BrandID = req.BrandID
	product.ProductInfo = req.ProductInfo
	product.Usage = req.Usage
	product.HasVariants = req.HasVariants

	if err := s.save(ctx, product, callerID); err != nil {
		return nil, err
	}
	s.removeFiles(toDelete)
	s.publish(ctx, "product.updated", product)
	return product, nil
}

// DeleteProduct removes the aggregate, then cleans up every stored image it
// referenced, product-level and per-combination alike.
func (s *variantService) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	product, err := s.load(ctx, productID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteProduct(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NotFoundf("product not found")
		}
		return Internalf(err, "failed to delete product")
	}
	var toDelete []string
	toDelete = append(toDelete, product.Images...)
	for _, combo := range product.VariantCombinations {
		toDelete = append(toDelete, combo.Images...)
	}
	s.removeFiles(toDelete)
	s.publish(ctx, "product.deleted", product)
	return nil
}
