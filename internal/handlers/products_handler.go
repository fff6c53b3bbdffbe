package handlers

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"brickstore-service/internal/middleware"
	"brickstore-service/internal/models"
	"brickstore-service/internal/services"
)

// FileSaver stores an uploaded file and returns its reference path.
type FileSaver interface {
	Save(file *multipart.FileHeader) (string, error)
}

type ProductsHandler struct {
	products services.ProductService
	variants services.VariantService
	uploads  FileSaver
	logger   *logrus.Logger
}

func NewProductsHandler(products services.ProductService, variants services.VariantService, uploads FileSaver, logger *logrus.Logger) *ProductsHandler {
	return &ProductsHandler{
		products: products,
		variants: variants,
		uploads:  uploads,
		logger:   logger,
	}
}

// saveUploads stores every file under the "images" field, returning their
// reference paths.
func (h *ProductsHandler) saveUploads(c *gin.Context, field string) ([]string, error) {
	files := formFiles(c, field)
	paths := make([]string, 0, len(files))
	for _, file := range files {
		path, err := h.uploads.Save(file)
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// CreateProduct creates a new product
// @Summary Create product
// @Tags products
// @Accept json,mpfd
// @Produce json
// @Success 201 {object} models.ProductResponse
// @Router /admin/products [post]
func (h *ProductsHandler) CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if err := bindJSONOrForm(c, &req); err != nil {
		respondBindingError(c, err)
		return
	}

	images, err := h.saveUploads(c, "images")
	if err != nil {
		respondError(c, services.Internalf(err, "failed to store upload"))
		return
	}

	product, err := h.products.CreateProduct(c.Request.Context(), &req, images, middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.ProductResponse{Success: true, Data: product})
}

// GetProducts lists products for the admin back-office
func (h *ProductsHandler) GetProducts(c *gin.Context) {
	req := searchRequest(c)
	products, total, err := h.products.GetProducts(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ProductListResponse{
		Success:    true,
		Data:       products,
		Pagination: paginationInfo(req.Page, req.Limit, total),
	})
}

// GetProduct returns a single product with its full variant state
func (h *ProductsHandler) GetProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondInvalidID(c, "id")
		return
	}
	product, err := h.products.GetProduct(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ProductResponse{Success: true, Data: product})
}

// UpdateProduct applies a full edit, including a hasVariants flip
func (h *ProductsHandler) UpdateProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondInvalidID(c, "id")
		return
	}
	var req models.UpdateProductRequest
	if err := bindJSONOrForm(c, &req); err != nil {
		respondBindingError(c, err)
		return
	}

	newImages, err := h.saveUploads(c, "images")
	if err != nil {
		respondError(c, services.Internalf(err, "failed to store upload"))
		return
	}

	product, err := h.variants.UpdateProduct(c.Request.Context(), productID, &req, newImages, middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ProductResponse{Success: true, Data: product})
}

// DeleteProduct removes a product and its stored images
func (h *ProductsHandler) DeleteProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondInvalidID(c, "id")
		return
	}
	if err := h.variants.DeleteProduct(c.Request.Context(), productID); err != nil {
		respondError(c, err)
		return
	}
	message := "Product deleted"
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Message: &message})
}

// ToggleActive publishes or unpublishes a product
func (h *ProductsHandler) ToggleActive(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondInvalidID(c, "id")
		return
	}
	product, err := h.variants.ToggleActive(c.Request.Context(), productID, middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    gin.H{"isActive": product.IsActive},
	})
}

// ToggleHasVariants flips the variant machinery on or off
func (h *ProductsHandler) ToggleHasVariants(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondInvalidID(c, "id")
		return
	}
	product, err := h.variants.ToggleHasVariants(c.Request.Context(), productID, middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    gin.H{"hasVariants": product.HasVariants},
	})
}

// BrowseProducts lists published products for the storefront
func (h *ProductsHandler) BrowseProducts(c *gin.Context) {
	req := searchRequest(c)
	products, total, err := h.products.BrowseProducts(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data: gin.H{
			"products":   products,
			"pagination": paginationInfo(req.Page, req.Limit, total),
		},
	})
}

// GetStorefrontProduct returns a published product detail view
func (h *ProductsHandler) GetStorefrontProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		// Fall back to slug lookup for pretty URLs
		product, serr := h.products.GetStorefrontProductBySlug(c.Request.Context(), c.Param("id"))
		if serr != nil {
			respondError(c, serr)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: product})
		return
	}
	product, err := h.products.GetStorefrontProduct(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: product})
}

func searchRequest(c *gin.Context) *models.SearchProductsRequest {
	req := &models.SearchProductsRequest{}
	req.Page, req.Limit = pageParams(c)

	if q := c.Query("q"); q != "" {
		req.Query = &q
	}
	if v := c.Query("categoryId"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			req.CategoryID = &id
		}
	}
	if v := c.Query("brandId"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			req.BrandID = &id
		}
	}
	if v := c.Query("isActive"); v != "" {
		if active, err := strconv.ParseBool(v); err == nil {
			req.IsActive = &active
		}
	}
	return req
}
