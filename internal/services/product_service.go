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

// StorefrontProduct is the public listing view. Variant products display
// their cheapest combination's price and borrow a combination image when no
// product-level image exists.
type StorefrontProduct struct {
	models.Product
	DisplayPrice float64 `json:"displayPrice"`
	DisplayImage *string `json:"displayImage,omitempty"`
}

// ProductService covers product creation and read paths. Edits, deletions
// and everything variant-related go through VariantService.
type ProductService interface {
	CreateProduct(ctx context.Context, req *models.CreateProductRequest, images []string, callerID string) (*models.Product, error)
	GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	GetProducts(ctx context.Context, req *models.SearchProductsRequest) ([]models.Product, int64, error)
	BrowseProducts(ctx context.Context, req *models.SearchProductsRequest) ([]StorefrontProduct, int64, error)
	GetStorefrontProduct(ctx context.Context, productID uuid.UUID) (*StorefrontProduct, error)
	GetStorefrontProductBySlug(ctx context.Context, slug string) (*StorefrontProduct, error)
}

type productService struct {
	products  *repository.ProductsRepository
	catalog   *repository.CatalogRepository
	publisher EventPublisher
	logger    *logrus.Logger
}

func NewProductService(products *repository.ProductsRepository, catalog *repository.CatalogRepository, publisher EventPublisher, logger *logrus.Logger) ProductService {
	return &productService{
		products:  products,
		catalog:   catalog,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *productService) CreateProduct(ctx context.Context, req *models.CreateProductRequest, images []string, callerID string) (*models.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, Validationf("product name is required").WithField("name")
	}
	if req.Price < 0 {
		return nil, Validationf("price must be a non-negative number").WithField("price")
	}
	if _, err := s.catalog.GetCategoryByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, Validationf("category does not exist").WithField("categoryId")
		}
		return nil, Internalf(err, "failed to check category")
	}
	brand, err := s.catalog.GetBrandByID(ctx, req.BrandID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, Validationf("brand does not exist").WithField("brandId")
		}
		return nil, Internalf(err, "failed to check brand")
	}
	if brand.IsDelete {
		return nil, Validationf("brand does not exist").WithField("brandId")
	}

	product := &models.Product{
		Name:        name,
		CategoryID:  req.CategoryID,
		BrandID:     req.BrandID,
		ProductInfo: req.ProductInfo,
		Usage:       req.Usage,
		HasVariants: req.HasVariants,
		Images:      models.StringArray(images),
	}
	if !req.HasVariants {
		product.Price = req.Price
	}
	if callerID != "" {
		product.CreatedBy = &callerID
		product.UpdatedBy = &callerID
	}
	if err := s.products.CreateProduct(ctx, product); err != nil {
		return nil, Internalf(err, "failed to create product")
	}

	if s.publisher != nil {
		s.publisher.PublishProductEvent(ctx, "product.created", product)
	}
	s.logger.WithFields(logrus.Fields{
		"product_id": product.ID,
		"name":       product.Name,
	}).Info("Product created")
	return product, nil
}

func (s *productService) GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFoundf("product not found")
		}
		return nil, Internalf(err, "failed to load product")
	}
	return product, nil
}

func (s *productService) GetProducts(ctx context.Context, req *models.SearchProductsRequest) ([]models.Product, int64, error) {
	normalizePaging(req)
	products, total, err := s.products.GetProducts(ctx, req)
	if err != nil {
		return nil, 0, Internalf(err, "failed to list products")
	}
	return products, total, nil
}

func (s *productService) BrowseProducts(ctx context.Context, req *models.SearchProductsRequest) ([]StorefrontProduct, int64, error) {
	normalizePaging(req)
	products, total, err := s.products.GetActiveProducts(ctx, req)
	if err != nil {
		return nil, 0, Internalf(err, "failed to list products")
	}
	views := make([]StorefrontProduct, 0, len(products))
	for i := range products {
		views = append(views, buildStorefrontView(&products[i]))
	}
	return views, total, nil
}

func (s *productService) GetStorefrontProduct(ctx context.Context, productID uuid.UUID) (*StorefrontProduct, error) {
	product, err := s.products.GetActiveProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFoundf("product not found")
		}
		return nil, Internalf(err, "failed to load product")
	}
	view := buildStorefrontView(product)
	return &view, nil
}

func (s *productService) GetStorefrontProductBySlug(ctx context.Context, slug string) (*StorefrontProduct, error) {
	product, err := s.products.GetProductBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFoundf("product not found")
		}
		return nil, Internalf(err, "failed to load product")
	}
	view := buildStorefrontView(product)
	return &view, nil
}

func normalizePaging(req *models.SearchProductsRequest) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}
}

// buildStorefrontView derives display price and image. A variant product
// shows its cheapest combination's price; when it carries no product-level
// image, the first combination image stands in.
func buildStorefrontView(product *models.Product) StorefrontProduct {
	view := StorefrontProduct{Product: *product, DisplayPrice: product.Price}
	if len(product.Images) > 0 {
		img := product.Images[0]
		view.DisplayImage = &img
	}
	if !product.HasVariants {
		return view
	}
	for i, combo := range product.VariantCombinations {
		if i == 0 || combo.Price < view.DisplayPrice {
			view.DisplayPrice = combo.Price
		}
		if view.DisplayImage == nil && len(combo.Images) > 0 {
			img := combo.Images[0]
			view.DisplayImage = &img
		}
	}
	return view
}
