package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"brickstore-service/internal/models"
	"brickstore-service/internal/services"
)

type CatalogHandler struct {
	catalog services.CatalogService
	uploads FileSaver
	logger  *logrus.Logger
}

func NewCatalogHandler(catalog services.CatalogService, uploads FileSaver, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		uploads: uploads,
		logger:  logger,
	}
}

// saveSingleUpload stores the first file under a field, if any
func (h *CatalogHandler) saveSingleUpload(c *gin.Context, field string) (*string, error) {
	files := formFiles(c, field)
	if len(files) == 0 {
		return nil, nil
	}
	path, err := h.uploads.Save(files[0])
	if err != nil {
		return nil, err
	}
	return &path, nil
}

// CreateCategory creates a category
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req models.CategoryRequest
	if err := bindJSONOrForm(c, &req); err != nil {
		respondBindingError(c, err)
		return
	}
	image, err := h.saveSingleUpload(c, "image")
	if err != nil {
		respondError(c, services.Internalf(err, "failed to store upload"))
		return
	}
	category, serr := h.catalog.CreateCategory(c.Request.Context(), &req, image)
	if serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusCreated, models.SuccessResponse{Success: true, Data: category})
}

// GetCategories lists all categories
func (h *CatalogHandler) GetCategories(c *gin.Context) {
	categories, err := h.catalog.GetCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: categories})
}

// UpdateCategory updates a category
func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondInvalidID(c, "id")
		return
	}
	var req models.CategoryRequest
	if err := bindJSONOrForm(c, &req); err != nil {
		respondBindingError(c, err)
		return
	}
	image, err := h.saveSingleUpload(c, "image")
	if err != nil {
		respondError(c, services.Internalf(err, "failed to store upload"))
		return
	}
	category, serr := h.catalog.UpdateCategory(c.Request.Context(), categoryID, &req, image)
	if serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: category})
}

// DeleteCategory removes an unreferenced category
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondInvalidID(c, "id")
		return
	}
	if serr := h.catalog.DeleteCategory(c.Request.Context(), categoryID); serr != nil {
		respondError(c, serr)
		return
	}
	message := "Category deleted"
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Message: &message})
}

// CreateBrand creates a brand
func (h *CatalogHandler) CreateBrand(c *gin.Context) {
	var req models.BrandRequest
	if err := bindJSONOrForm(c, &req); err != nil {
		respondBindingError(c, err)
		return
	}
	logo, err := h.saveSingleUpload(c, "logo")
	if err != nil {
		respondError(c, services.Internalf(err, "failed to store upload"))
		return
	}
	brand, serr := h.catalog.CreateBrand(c.Request.Context(), &req, logo)
	if serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusCreated, models.SuccessResponse{Success: true, Data: brand})
}

// GetBrands lists brands; admins may include soft-flagged ones
func (h *CatalogHandler) GetBrands(c *gin.Context) {
	includeDeleted, _ := strconv.ParseBool(c.DefaultQuery("includeDeleted", "false"))
	brands, err := h.catalog.GetBrands(c.Request.Context(), includeDeleted)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: brands})
}

// UpdateBrand updates a brand
func (h *CatalogHandler) UpdateBrand(c *gin.Context) {
	brandID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondInvalidID(c, "id")
		return
	}
	var req models.BrandRequest
	if err := bindJSONOrForm(c, &req); err != nil {
		respondBindingError(c, err)
		return
	}
	logo, err := h.saveSingleUpload(c, "logo")
	if err != nil {
		respondError(c, services.Internalf(err, "failed to store upload"))
		return
	}
	brand, serr := h.catalog.UpdateBrand(c.Request.Context(), brandID, &req, logo)
	if serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: brand})
}

// DeleteBrand soft-flags an unreferenced brand
func (h *CatalogHandler) DeleteBrand(c *gin.Context) {
	brandID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondInvalidID(c, "id")
		return
	}
	if serr := h.catalog.DeleteBrand(c.Request.Context(), brandID); serr != nil {
		respondError(c, serr)
		return
	}
	message := "Brand deleted"
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Message: &message})
}
