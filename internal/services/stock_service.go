package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"brickstore-service/internal/models"
	"brickstore-service/internal/repository"
)

// StockService manages stock entry batches. Imports and cancellations also
// maintain the denormalized stock counter on the referenced combination.
type StockService interface {
	ImportStock(ctx context.Context, req *models.CreateStockEntryRequest, callerID string) (*models.StockEntry, error)
	CancelStockEntry(ctx context.Context, entryID uuid.UUID, callerID string) error
	GetStockEntries(ctx context.Context, productID uuid.UUID, page, limit int) ([]models.StockEntry, int64, error)
	GetAvailability(ctx context.Context, productID uuid.UUID, comboID *string) (*models.StockAvailability, error)
}

type stockService struct {
	products ProductStore
	stock    *repository.StockRepository
	logger   *logrus.Logger
}

func NewStockService(products ProductStore, stock *repository.StockRepository, logger *logrus.Logger) StockService {
	return &stockService{
		products: products,
		stock:    stock,
		logger:   logger,
	}
}

func (s *stockService) ImportStock(ctx context.Context, req *models.CreateStockEntryRequest, callerID string) (*models.StockEntry, error) {
	if req.Quantity <= 0 {
		return nil, Validationf("quantity must be positive").WithField("quantity")
	}
	if req.UnitCost < 0 {
		return nil, Validationf("unit cost must be a non-negative number").WithField("unitCost")
	}

	product, err := s.products.GetProduct(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFoundf("product not found")
		}
		return nil, Internalf(err, "failed to load product")
	}

	if product.HasVariants {
		if req.VariantCombinationID == nil || *req.VariantCombinationID == "" {
			return nil, Validationf("a variant combination is required for this product").WithField("variantCombinationId")
		}
		if product.CombinationByID(*req.VariantCombinationID) == nil {
			return nil, NotFoundf("combination not found")
		}
	} else if req.VariantCombinationID != nil && *req.VariantCombinationID != "" {
		return nil, Validationf("product does not have variants").WithField("variantCombinationId")
	}

	entry := &models.StockEntry{
		ProductID:            req.ProductID,
		VariantCombinationID: req.VariantCombinationID,
		Quantity:             req.Quantity,
		UnitCost:             req.UnitCost,
		Note:                 req.Note,
	}
	if callerID != "" {
		entry.CreatedBy = &callerID
	}
	if err := s.stock.CreateEntry(ctx, entry); err != nil {
		return nil, Internalf(err, "failed to create stock entry")
	}

	if req.VariantCombinationID != nil {
		s.adjustCombinationStock(ctx, req.ProductID, *req.VariantCombinationID, req.Quantity, callerID)
	}

	s.logger.WithFields(logrus.Fields{
		"product_id": req.ProductID,
		"quantity":   req.Quantity,
	}).Info("Stock imported")
	return entry, nil
}

// CancelStockEntry voids an untouched imported batch and rolls the
// combination counter back.
func (s *stockService) CancelStockEntry(ctx context.Context, entryID uuid.UUID, callerID string) error {
	entry, err := s.stock.GetEntry(ctx, entryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NotFoundf("stock entry not found")
		}
		return Internalf(err, "failed to load stock entry")
	}
	if err := s.stock.CancelEntry(ctx, entryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NotFoundf("stock entry not found")
		}
		return Conflictf("stock entry cannot be cancelled: %v", err)
	}

	if entry.VariantCombinationID != nil {
		s.adjustCombinationStock(ctx, entry.ProductID, *entry.VariantCombinationID, -entry.Quantity, callerID)
	}

	s.logger.WithField("entry_id", entryID).Info("Stock entry cancelled")
	return nil
}

func (s *stockService) GetStockEntries(ctx context.Context, productID uuid.UUID, page, limit int) ([]models.StockEntry, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	entries, total, err := s.stock.GetEntries(ctx, productID, page, limit)
	if err != nil {
		return nil, 0, Internalf(err, "failed to list stock entries")
	}
	return entries, total, nil
}

func (s *stockService) GetAvailability(ctx context.Context, productID uuid.UUID, comboID *string) (*models.StockAvailability, error) {
	available, err := s.stock.Availability(ctx, productID, comboID)
	if err != nil {
		return nil, Internalf(err, "failed to compute availability")
	}
	return &models.StockAvailability{
		ProductID:            productID,
		VariantCombinationID: comboID,
		Available:            available,
	}, nil
}

// adjustCombinationStock updates the denormalized stock counter on a
// combination. The counter is display-only; availability always derives from
// the entries, so a lost CAS race here is logged and tolerated.
func (s *stockService) adjustCombinationStock(ctx context.Context, productID uuid.UUID, comboID string, delta int, callerID string) {
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to reload product for stock counter update")
		return
	}
	combo := product.CombinationByID(comboID)
	if combo == nil {
		return
	}
	combo.Stock += delta
	if combo.Stock < 0 {
		combo.Stock = 0
	}
	if callerID != "" {
		product.UpdatedBy = &callerID
	}
	if err := s.products.SaveProduct(ctx, product); err != nil {
		s.logger.WithError(err).WithField("product_id", productID).Warn("Failed to update combination stock counter")
	}
}
