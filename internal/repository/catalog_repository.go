package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Tesseract-Nexus/go-shared/cache"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"brickstore-service/internal/models"
)

type CatalogRepository struct {
	db    *gorm.DB
	cache *cache.CacheLayer
}

func NewCatalogRepository(db *gorm.DB, redisClient *redis.Client) *CatalogRepository {
	repo := &CatalogRepository{db: db}
	if redisClient != nil {
		repo.cache = cache.NewCacheLayerFromClient(redisClient, cache.CacheConfig{
			L1Enabled:  true,
			L1MaxItems: 1000,
			L1TTL:      30 * time.Second,
			DefaultTTL: CatalogCacheTTL,
			KeyPrefix:  "brickstore:catalog:",
		})
	}
	return repo
}

func (r *CatalogRepository) invalidateCatalogCaches(ctx context.Context) {
	if r.cache == nil {
		return
	}
	_ = r.cache.DeletePattern(ctx, "categories:*")
	_ = r.cache.DeletePattern(ctx, "brands:*")
}

// Category operations

func (r *CatalogRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	category.CreatedAt = time.Now()
	category.UpdatedAt = time.Now()
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	err := r.db.WithContext(ctx).Create(category).Error
	if err == nil {
		r.invalidateCatalogCaches(ctx)
	}
	return err
}

func (r *CatalogRepository) GetCategories(ctx context.Context) ([]models.Category, error) {
	fetch := func() ([]models.Category, error) {
		var categories []models.Category
		err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
		return categories, err
	}

	if r.cache != nil {
		var categories []models.Category
		err := r.cache.GetOrSetJSON(ctx, "categories:all", &categories, CatalogCacheTTL, func() (any, error) {
			return fetch()
		})
		if err != nil {
			return nil, err
		}
		return categories, nil
	}
	return fetch()
}

func (r *CatalogRepository) GetCategoryByID(ctx context.Context, categoryID uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Where("id = ?", categoryID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *CatalogRepository) CategoryNameTaken(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Category{}).
		Where("LOWER(name) = LOWER(?)", name)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *CatalogRepository) UpdateCategory(ctx context.Context, categoryID uuid.UUID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	result := r.db.WithContext(ctx).Model(&models.Category{}).
		Where("id = ?", categoryID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	r.invalidateCatalogCaches(ctx)
	return nil
}

func (r *CatalogRepository) DeleteCategory(ctx context.Context, categoryID uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", categoryID).Delete(&models.Category{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	r.invalidateCatalogCaches(ctx)
	return nil
}

// Brand operations

func (r *CatalogRepository) CreateBrand(ctx context.Context, brand *models.Brand) error {
	brand.CreatedAt = time.Now()
	brand.UpdatedAt = time.Now()
	if brand.ID == uuid.Nil {
		brand.ID = uuid.New()
	}
	err := r.db.WithContext(ctx).Create(brand).Error
	if err == nil {
		r.invalidateCatalogCaches(ctx)
	}
	return err
}

// GetBrands lists brands, excluding soft-flagged ones unless includeDeleted
func (r *CatalogRepository) GetBrands(ctx context.Context, includeDeleted bool) ([]models.Brand, error) {
	fetch := func() ([]models.Brand, error) {
		var brands []models.Brand
		query := r.db.WithContext(ctx).Model(&models.Brand{})
		if !includeDeleted {
			query = query.Where("is_delete = ?", false)
		}
		err := query.Order("name ASC").Find(&brands).Error
		return brands, err
	}

	if r.cache != nil {
		cacheKey := fmt.Sprintf("brands:all:%v", includeDeleted)
		var brands []models.Brand
		err := r.cache.GetOrSetJSON(ctx, cacheKey, &brands, CatalogCacheTTL, func() (any, error) {
			return fetch()
		})
		if err != nil {
			return nil, err
		}
		return brands, nil
	}
	return fetch()
}

func (r *CatalogRepository) GetBrandByID(ctx context.Context, brandID uuid.UUID) (*models.Brand, error) {
	var brand models.Brand
	if err := r.db.WithContext(ctx).Where("id = ?", brandID).First(&brand).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &brand, nil
}

func (r *CatalogRepository) BrandNameTaken(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Brand{}).
		Where("LOWER(name) = LOWER(?)", name)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *CatalogRepository) UpdateBrand(ctx context.Context, brandID uuid.UUID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	result := r.db.WithContext(ctx).Model(&models.Brand{}).
		Where("id = ?", brandID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	r.invalidateCatalogCaches(ctx)
	return nil
}

// FlagBrandDeleted soft-flags a brand as deleted
func (r *CatalogRepository) FlagBrandDeleted(ctx context.Context, brandID uuid.UUID) error {
	return r.UpdateBrand(ctx, brandID, map[string]interface{}{"is_delete": true})
}
