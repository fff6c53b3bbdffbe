package repository

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Tesseract-Nexus/go-shared/cache"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"brickstore-service/internal/models"
)

// Cache TTL constants
const (
	ProductCacheTTL     = 5 * time.Minute  // Single product cache (storefront reads)
	ProductListCacheTTL = 2 * time.Minute  // Product list cache (shorter due to frequent changes)
	CatalogCacheTTL     = 30 * time.Minute // Categories and brands rarely change
)

type ProductsRepository struct {
	db    *gorm.DB
	redis *redis.Client
	cache *cache.CacheLayer
}

func NewProductsRepository(db *gorm.DB, redisClient *redis.Client) *ProductsRepository {
	repo := &ProductsRepository{
		db:    db,
		redis: redisClient,
	}

	if redisClient != nil {
		cacheConfig := cache.CacheConfig{
			L1Enabled:  true,
			L1MaxItems: 5000,
			L1TTL:      30 * time.Second,
			DefaultTTL: ProductCacheTTL,
			KeyPrefix:  "brickstore:products:",
		}
		repo.cache = cache.NewCacheLayerFromClient(redisClient, cacheConfig)
	}

	return repo
}

// generateListCacheKey creates a deterministic cache key for list queries
func generateListCacheKey(prefix string, params interface{}) string {
	data, _ := json.Marshal(params)
	hash := md5.Sum(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// invalidateProductCaches invalidates all caches related to a product
func (r *ProductsRepository) invalidateProductCaches(ctx context.Context, productID uuid.UUID) {
	if r.cache == nil {
		return
	}
	_ = r.cache.Delete(ctx, fmt.Sprintf("product:%s", productID.String()))
	_ = r.cache.DeletePattern(ctx, "products:list:*")
}

// CreateProduct creates a new product
func (r *ProductsRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()
	if product.Version == 0 {
		product.Version = 1
	}
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if product.Images == nil {
		product.Images = models.StringArray{}
	}
	if product.Variants == nil {
		product.Variants = models.VariantList{}
	}
	if product.VariantCombinations == nil {
		product.VariantCombinations = models.CombinationList{}
	}

	// Generate slug from name if not provided, suffixed with the first 8
	// chars of the id for uniqueness
	if product.Slug == nil || *product.Slug == "" {
		uniqueSlug := fmt.Sprintf("%s-%s", generateSlug(product.Name), product.ID.String()[:8])
		product.Slug = &uniqueSlug
	}

	err := r.db.WithContext(ctx).Create(product).Error
	if err == nil && r.cache != nil {
		_ = r.cache.DeletePattern(ctx, "products:list:*")
	}
	return err
}

// GetProduct loads the aggregate straight from the database. Mutations go
// through the compare-and-swap in SaveProduct, so this read must never be
// served from cache.
func (r *ProductsRepository) GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Where("id = ?", productID).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// SaveProduct persists the whole aggregate with an optimistic version check.
// The update only lands when the stored row still carries the version the
// aggregate was loaded with; otherwise ErrVersionConflict is returned.
func (r *ProductsRepository) SaveProduct(ctx context.Context, product *models.Product) error {
	loadedVersion := product.Version
	now := time.Now()

	result := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND version = ?", product.ID, loadedVersion).
		Updates(map[string]interface{}{
			"name":                 product.Name,
			"slug":                 product.Slug,
			"category_id":          product.CategoryID,
			"brand_id":             product.BrandID,
			"product_info":         product.ProductInfo,
			"usage":                product.Usage,
			"price":                product.Price,
			"is_active":            product.IsActive,
			"has_variants":         product.HasVariants,
			"images":               product.Images,
			"variants":             product.Variants,
			"variant_combinations": product.VariantCombinations,
			"updated_by":           product.UpdatedBy,
			"version":              loadedVersion + 1,
			"updated_at":           now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Product{}).
			Where("id = ?", product.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrVersionConflict
	}

	product.Version = loadedVersion + 1
	product.UpdatedAt = now
	r.invalidateProductCaches(ctx, product.ID)
	return nil
}

// DeleteProduct soft deletes a product
func (r *ProductsRepository) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", productID).Delete(&models.Product{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	r.invalidateProductCaches(ctx, productID)
	return nil
}

// GetProducts retrieves products with filters and pagination (admin listing)
func (r *ProductsRepository) GetProducts(ctx context.Context, req *models.SearchProductsRequest) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Product{})
	query = applyProductFilters(query, req)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (req.Page - 1) * req.Limit
	if err := query.Order("created_at DESC").Offset(offset).Limit(req.Limit).Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// GetActiveProducts retrieves published products for the storefront, with
// list-level caching keyed on the filter set.
func (r *ProductsRepository) GetActiveProducts(ctx context.Context, req *models.SearchProductsRequest) ([]models.Product, int64, error) {
	active := true
	req.IsActive = &active

	if r.cache != nil {
		type listResult struct {
			Products []models.Product `json:"products"`
			Total    int64            `json:"total"`
		}
		cacheKey := generateListCacheKey("products:list", req)
		var result listResult
		err := r.cache.GetOrSetJSON(ctx, cacheKey, &result, ProductListCacheTTL, func() (any, error) {
			products, total, err := r.GetProducts(ctx, req)
			if err != nil {
				return nil, err
			}
			return &listResult{Products: products, Total: total}, nil
		})
		if err != nil {
			return nil, 0, err
		}
		return result.Products, result.Total, nil
	}

	return r.GetProducts(ctx, req)
}

// GetActiveProductByID retrieves a published product with caching
// (storefront detail page).
func (r *ProductsRepository) GetActiveProductByID(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	fetch := func() (*models.Product, error) {
		var product models.Product
		if err := r.db.WithContext(ctx).
			Where("id = ? AND is_active = ?", productID, true).
			First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		return &product, nil
	}

	if r.cache != nil {
		cacheKey := fmt.Sprintf("product:%s", productID.String())
		var product models.Product
		err := r.cache.GetOrSetJSON(ctx, cacheKey, &product, ProductCacheTTL, func() (any, error) {
			return fetch()
		})
		if err != nil {
			return nil, err
		}
		return &product, nil
	}

	return fetch()
}

// GetProductBySlug retrieves a published product by its slug
func (r *ProductsRepository) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Where("slug = ? AND is_active = ?", slug, true).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// CountProductsByBrand returns the number of products referencing a brand,
// used by the brand delete guard.
func (r *ProductsRepository) CountProductsByBrand(ctx context.Context, brandID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("brand_id = ?", brandID).
		Count(&count).Error
	return count, err
}

// CountProductsByCategory returns the number of products referencing a category
func (r *ProductsRepository) CountProductsByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, err
}

// applyProductFilters applies the admin/storefront list filters
func applyProductFilters(query *gorm.DB, req *models.SearchProductsRequest) *gorm.DB {
	if req.Query != nil && *req.Query != "" {
		term := "%" + strings.ToLower(strings.TrimSpace(*req.Query)) + "%"
		query = query.Where("LOWER(name) LIKE ?", term)
	}
	if req.CategoryID != nil {
		query = query.Where("category_id = ?", *req.CategoryID)
	}
	if req.BrandID != nil {
		query = query.Where("brand_id = ?", *req.BrandID)
	}
	if req.IsActive != nil {
		query = query.Where("is_active = ?", *req.IsActive)
	}
	return query
}

// generateSlug creates a URL-friendly slug from a name
func generateSlug(name string) string {
	slug := strings.ToLower(name)
	slug = strings.ReplaceAll(slug, " ", "-")
	var result strings.Builder
	for _, r := range slug {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			result.WriteRune(r)
		}
	}
	return result.String()
}
