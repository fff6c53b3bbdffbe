package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"brickstore-service/internal/models"
	"brickstore-service/internal/repository"
)

// CatalogService manages categories and brands. Brands are never hard
// deleted: they get flagged, and only when no product references them.
type CatalogService interface {
	CreateCategory(ctx context.Context, req *models.CategoryRequest, image *string) (*models.Category, error)
	GetCategories(ctx context.Context) ([]models.Category, error)
	UpdateCategory(ctx context.Context, categoryID uuid.UUID, req *models.CategoryRequest, image *string) (*models.Category, error)
	DeleteCategory(ctx context.Context, categoryID uuid.UUID) error

	CreateBrand(ctx context.Context, req *models.BrandRequest, logo *string) (*models.Brand, error)
	GetBrands(ctx context.Context, includeDeleted bool) ([]models.Brand, error)
	UpdateBrand(ctx context.Context, brandID uuid.UUID, req *models.BrandRequest, logo *string) (*models.Brand, error)
	DeleteBrand(ctx context.Context, brandID uuid.UUID) error
}

type catalogService struct {
	catalog  *repository.CatalogRepository
	products *repository.ProductsRepository
	files    FileStore
	logger   *logrus.Logger
}

func NewCatalogService(catalog *repository.CatalogRepository, products *repository.ProductsRepository, files FileStore, logger *logrus.Logger) CatalogService {
	return &catalogService{
		catalog:  catalog,
		products: products,
		files:    files,
		logger:   logger,
	}
}

func (s *catalogService) CreateCategory(ctx context.Context, req *models.CategoryRequest, image *string) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, Validationf("category name is required").WithField("name")
	}
	taken, err := s.catalog.CategoryNameTaken(ctx, name, nil)
	if err != nil {
		return nil, Internalf(err, "failed to check category name")
	}
	if taken {
		return nil, Conflictf("category %q already exists", name)
	}

	category := &models.Category{
		Name:        name,
		Description: req.Description,
		Image:       image,
	}
	if err := s.catalog.CreateCategory(ctx, category); err != nil {
		return nil, Internalf(err, "failed to create category")
	}
	return category, nil
}

func (s *catalogService) GetCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.catalog.GetCategories(ctx)
	if err != nil {
		return nil, Internalf(err, "failed to list categories")
	}
	return categories, nil
}

func (s *catalogService) UpdateCategory(ctx context.Context, categoryID uuid.UUID, req *models.CategoryRequest, image *string) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, Validationf("category name is required").WithField("name")
	}
	existing, err := s.catalog.GetCategoryByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFoundf("category not found")
		}
		return nil, Internalf(err, "failed to load category")
	}
	taken, err := s.catalog.CategoryNameTaken(ctx, name, &categoryID)
	if err != nil {
		return nil, Internalf(err, "failed to check category name")
	}
	if taken {
		return nil, Conflictf("category %q already exists", name)
	}

	updates := map[string]interface{}{
		"name":        name,
		"description": req.Description,
	}
	if image != nil {
		updates["image"] = *image
	}
	if err := s.catalog.UpdateCategory(ctx, categoryID, updates); err != nil {
		return nil, Internalf(err, "failed to update category")
	}
	if image != nil && existing.Image != nil {
		if err := s.files.Remove(*existing.Image); err != nil {
			s.logger.WithError(err).Warn("Failed to remove stale category image")
		}
	}
	updated, err := s.catalog.GetCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, Internalf(err, "failed to reload category")
	}
	return updated, nil
}

// DeleteCategory removes a category with no remaining products.
func (s *catalogService) DeleteCategory(ctx context.Context, categoryID uuid.UUID) error {
	count, err := s.products.CountProductsByCategory(ctx, categoryID)
	if err != nil {
		return Internalf(err, "failed to count category products")
	}
	if count > 0 {
		return Conflictf("category is referenced by %d product(s)", count)
	}
	category, err := s.catalog.GetCategoryByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NotFoundf("category not found")
		}
		return Internalf(err, "failed to load category")
	}
	if err := s.catalog.DeleteCategory(ctx, categoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NotFoundf("category not found")
		}
		return Internalf(err, "failed to delete category")
	}
	if category.Image != nil {
		if err := s.files.Remove(*category.Image); err != nil {
			s.logger.WithError(err).Warn("Failed to remove category image")
		}
	}
	return nil
}

func (s *catalogService) CreateBrand(ctx context.Context, req *models.BrandRequest, logo *string) (*models.Brand, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, Validationf("brand name is required").WithField("name")
	}
	taken, err := s.catalog.BrandNameTaken(ctx, name, nil)
	if err != nil {
		return nil, Internalf(err, "failed to check brand name")
	}
	if taken {
		return nil, Conflictf("brand %q already exists", name)
	}

	brand := &models.Brand{
		Name: name,
		Logo: logo,
	}
	if err := s.catalog.CreateBrand(ctx, brand); err != nil {
		return nil, Internalf(err, "failed to create brand")
	}
	return brand, nil
}

func (s *catalogService) GetBrands(ctx context.Context, includeDeleted bool) ([]models.Brand, error) {
	brands, err := s.catalog.GetBrands(ctx, includeDeleted)
	if err != nil {
		return nil, Internalf(err, "failed to list brands")
	}
	return brands, nil
}

func (s *catalogService) UpdateBrand(ctx context.Context, brandID uuid.UUID, req *models.BrandRequest, logo *string) (*models.Brand, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, Validationf("brand name is required").WithField("name")
	}
	existing, err := s.catalog.GetBrandByID(ctx, brandID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFoundf("brand not found")
		}
		return nil, Internalf(err, "failed to load brand")
	}
	taken, err := s.catalog.BrandNameTaken(ctx, name, &brandID)
	if err != nil {
		return nil, Internalf(err, "failed to check brand name")
	}
	if taken {
		return nil, Conflictf("brand %q already exists", name)
	}

	updates := map[string]interface{}{"name": name}
	if logo != nil {
		updates["logo"] = *logo
	}
	if err := s.catalog.UpdateBrand(ctx, brandID, updates); err != nil {
		return nil, Internalf(err, "failed to update brand")
	}
	if logo != nil && existing.Logo != nil {
		if err := s.files.Remove(*existing.Logo); err != nil {
			s.logger.WithError(err).Warn("Failed to remove stale brand logo")
		}
	}
	updated, err := s.catalog.GetBrandByID(ctx, brandID)
	if err != nil {
		return nil, Internalf(err, "failed to reload brand")
	}
	return updated, nil
}

// DeleteBrand soft-flags a brand; it stays queryable for order history but
// disappears from listings. Refused while products still reference it.
func (s *catalogService) DeleteBrand(ctx context.Context, brandID uuid.UUID) error {
	count, err := s.products.CountProductsByBrand(ctx, brandID)
	if err != nil {
		return Internalf(err, "failed to count brand products")
	}
	if count > 0 {
		return Conflictf("brand is referenced by %d product(s)", count)
	}
	if err := s.catalog.FlagBrandDeleted(ctx, brandID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NotFoundf("brand not found")
		}
		return Internalf(err, "failed to delete brand")
	}
	return nil
}
