package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"brickstore-service/internal/models"
)

// ErrInsufficientStock is returned when a deduction asks for more units than
// the remaining imported entries hold.
var ErrInsufficientStock = fmt.Errorf("insufficient stock")

type StockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) *StockRepository {
	return &StockRepository{db: db}
}

// CreateEntry imports a batch of stock
func (r *StockRepository) CreateEntry(ctx context.Context, entry *models.StockEntry) error {
	entry.CreatedAt = time.Now()
	entry.UpdatedAt = time.Now()
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.Status == "" {
		entry.Status = models.StockEntryStatusImported
	}
	entry.RemainingQuantity = entry.Quantity
	return r.db.WithContext(ctx).Create(entry).Error
}

// GetEntry loads a single stock entry
func (r *StockRepository) GetEntry(ctx context.Context, entryID uuid.UUID) (*models.StockEntry, error) {
	var entry models.StockEntry
	if err := r.db.WithContext(ctx).Where("id = ?", entryID).First(&entry).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// GetEntries lists a product's stock entries, newest first
func (r *StockRepository) GetEntries(ctx context.Context, productID uuid.UUID, page, limit int) ([]models.StockEntry, int64, error) {
	var entries []models.StockEntry
	var total int64

	query := r.db.WithContext(ctx).Model(&models.StockEntry{}).Where("product_id = ?", productID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// CancelEntry marks an untouched entry as cancelled. Entries that have
// already been partially consumed cannot be cancelled.
func (r *StockRepository) CancelEntry(ctx context.Context, entryID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entry models.StockEntry
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", entryID).First(&entry).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNotFound
			}
			return err
		}
		if entry.Status != models.StockEntryStatusImported {
			return ErrNotFound
		}
		if entry.RemainingQuantity != entry.Quantity {
			return fmt.Errorf("stock entry %s is partially consumed", entryID)
		}
		return tx.Model(&entry).Updates(map[string]interface{}{
			"status":             models.StockEntryStatusCancelled,
			"remaining_quantity": 0,
			"updated_at":         time.Now(),
		}).Error
	})
}

// HasEntriesForProduct reports whether any stock entry exists for the
// product. Cancelled entries count too: an entry ever having existed is what
// freezes the variant mode, not its current status.
func (r *StockRepository) HasEntriesForProduct(ctx context.Context, productID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.StockEntry{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	return count > 0, err
}

// LockedCombinationIDs returns the distinct combination ids referenced by
// the product's stock entries, regardless of entry status.
func (r *StockRepository) LockedCombinationIDs(ctx context.Context, productID uuid.UUID) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&models.StockEntry{}).
		Where("product_id = ? AND variant_combination_id IS NOT NULL", productID).
		Distinct().
		Pluck("variant_combination_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Availability sums remaining units for a product, optionally narrowed to
// one combination.
func (r *StockRepository) Availability(ctx context.Context, productID uuid.UUID, comboID *string) (int, error) {
	var available int64
	query := r.db.WithContext(ctx).Model(&models.StockEntry{}).
		Where("product_id = ? AND status = ?", productID, models.StockEntryStatusImported)
	if comboID != nil {
		query = query.Where("variant_combination_id = ?", *comboID)
	}
	err := query.Select("COALESCE(SUM(remaining_quantity), 0)").Scan(&available).Error
	return int(available), err
}

// Deduct consumes quantity units oldest-entries-first inside tx. The caller
// owns the transaction so an order and its deductions commit atomically.
func (r *StockRepository) Deduct(tx *gorm.DB, productID uuid.UUID, comboID *string, quantity int) error {
	var entries []models.StockEntry
	query := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ? AND status = ? AND remaining_quantity > 0", productID, models.StockEntryStatusImported)
	if comboID != nil {
		query = query.Where("variant_combination_id = ?", *comboID)
	} else {
		query = query.Where("variant_combination_id IS NULL")
	}
	if err := query.Order("created_at ASC").Find(&entries).Error; err != nil {
		return err
	}

	remaining := quantity
	now := time.Now()
	for i := range entries {
		if remaining == 0 {
			break
		}
		take := entries[i].RemainingQuantity
		if take > remaining {
			take = remaining
		}
		if err := tx.Model(&entries[i]).Updates(map[string]interface{}{
			"remaining_quantity": entries[i].RemainingQuantity - take,
			"updated_at":         now,
		}).Error; err != nil {
			return err
		}
		remaining -= take
	}
	if remaining > 0 {
		return ErrInsufficientStock
	}
	return nil
}

// Restore puts quantity units back after a cancellation, refilling the most
// recently consumed entries first (the inverse of Deduct's order).
func (r *StockRepository) Restore(tx *gorm.DB, productID uuid.UUID, comboID *string, quantity int) error {
	var entries []models.StockEntry
	query := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ? AND status = ? AND remaining_quantity < quantity", productID, models.StockEntryStatusImported)
	if comboID != nil {
		query = query.Where("variant_combination_id = ?", *comboID)
	} else {
		query = query.Where("variant_combination_id IS NULL")
	}
	if err := query.Order("created_at DESC").Find(&entries).Error; err != nil {
		return err
	}

	remaining := quantity
	now := time.Now()
	for i := range entries {
		if remaining == 0 {
			break
		}
		space := entries[i].Quantity - entries[i].RemainingQuantity
		if space > remaining {
			space = remaining
		}
		if err := tx.Model(&entries[i]).Updates(map[string]interface{}{
			"remaining_quantity": entries[i].RemainingQuantity + space,
			"updated_at":         now,
		}).Error; err != nil {
			return err
		}
		remaining -= space
	}
	// Anything left over means the matching entries were cancelled since the
	// order was placed; the units are dropped rather than resurrected.
	return nil
}

// DB exposes the underlying handle for callers that need to open a
// transaction spanning stock and order writes.
func (r *StockRepository) DB() *gorm.DB {
	return r.db
}
