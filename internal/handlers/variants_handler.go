package handlers

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"brickstore-service/internal/middleware"
	"brickstore-service/internal/models"
	"brickstore-service/internal/services"
)

// VariantsHandler exposes the variant engine. Every mutation responds with
// the freshly rebuilt lock-annotated view.
type VariantsHandler struct {
	variants services.VariantService
	uploads  FileSaver
	logger   *logrus.Logger
}

func NewVariantsHandler(variants services.VariantService, uploads FileSaver, logger *logrus.Logger) *VariantsHandler {
	return &VariantsHandler{
		variants: variants,
		uploads:  uploads,
		logger:   logger,
	}
}

func (h *VariantsHandler) productID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondInvalidID(c, "id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *VariantsHandler) respondView(c *gin.Context, view *services.VariantsView) {
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: view})
}

// GetVariants returns the lock-annotated variant state
func (h *VariantsHandler) GetVariants(c *gin.Context) {
	productID, ok := h.productID(c)
	if !ok {
		return
	}
	view, err := h.variants.GetVariants(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondView(c, view)
}

// AddVariant adds a new axis with its initial options
func (h *VariantsHandler) AddVariant(c *gin.Context) {
	productID, ok := h.productID(c)
	if !ok {
		return
	}
	var req models.AddVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	view, err := h.variants.AddVariant(c.Request.Context(), productID, &req, middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondView(c, view)
}

// RenameVariant renames an axis
func (h *VariantsHandler) RenameVariant(c *gin.Context) {
	productID, ok := h.productID(c)
	if !ok {
		return
	}
	var req models.RenameVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	view, err := h.variants.RenameVariant(c.Request.Context(), productID, c.Param("variantId"), req.Name, middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondView(c, view)
}

// AddVariantOption appends an option value to an axis
func (h *VariantsHandler) AddVariantOption(c *gin.Context) {
	productID, ok := h.productID(c)
	if !ok {
		return
	}
	var req models.VariantOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	view, err := h.variants.AddVariantOption(c.Request.Context(), productID, c.Param("variantId"), req.Value, middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondView(c, view)
}

// UpdateVariantOption renames an option value
func (h *VariantsHandler) UpdateVariantOption(c *gin.Context) {
	productID, ok := h.productID(c)
	if !ok {
		return
	}
	var req models.UpdateVariantOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	view, err := h.variants.UpdateVariantOption(c.Request.Context(), productID, c.Param("variantId"), req.OldValue, req.NewValue, middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondView(c, view)
}

// DeleteVariantOption removes an option value. The value arrives as a path
// segment and may be percent-encoded.
func (h *VariantsHandler) DeleteVariantOption(c *gin.Context) {
	productID, ok := h.productID(c)
	if !ok {
		return
	}
	value, err := url.PathUnescape(c.Param("value"))
	if err != nil {
		respondInvalidID(c, "value")
		return
	}
	view, serr := h.variants.DeleteVariantOption(c.Request.Context(), productID, c.Param("variantId"), value, middleware.CallerID(c))
	if serr != nil {
		respondError(c, serr)
		return
	}
	h.respondView(c, view)
}

// AddCombination creates a combination, attaching any uploaded images
func (h *VariantsHandler) AddCombination(c *gin.Context) {
	productID, ok := h.productID(c)
	if !ok {
		return
	}
	var req models.AddCombinationRequest
	if err := bindJSONOrForm(c, &req); err != nil {
		respondBindingError(c, err)
		return
	}

	images := make([]string, 0)
	for _, file := range formFiles(c, "images") {
		path, err := h.uploads.Save(file)
		if err != nil {
			respondError(c, services.Internalf(err, "failed to store upload"))
			return
		}
		images = append(images, path)
	}

	view, err := h.variants.AddCombination(c.Request.Context(), productID, req.VariantKey, req.Variants, images, middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondView(c, view)
}

// UpdateCombination restructures a combination and reshapes its image set
func (h *VariantsHandler) UpdateCombination(c *gin.Context) {
	productID, ok := h.productID(c)
	if !ok {
		return
	}
	var req models.UpdateCombinationRequest
	if err := bindJSONOrForm(c, &req); err != nil {
		respondBindingError(c, err)
		return
	}

	newImages := make([]string, 0)
	for _, file := range formFiles(c, "images") {
		path, err := h.uploads.Save(file)
		if err != nil {
			respondError(c, services.Internalf(err, "failed to store upload"))
			return
		}
		newImages = append(newImages, path)
	}

	view, err := h.variants.UpdateCombination(c.Request.Context(), productID, c.Param("comboId"), req.VariantKey, req.Variants, req.DeletedImages, newImages, middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondView(c, view)
}

// UpdateCombinationPrice updates only a combination's price
func (h *VariantsHandler) UpdateCombinationPrice(c *gin.Context) {
	productID, ok := h.productID(c)
	if !ok {
		return
	}
	var req models.UpdateCombinationPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	view, err := h.variants.UpdateCombinationPrice(c.Request.Context(), productID, c.Param("comboId"), req.Price, middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondView(c, view)
}

// DeleteCombination removes a combination and its stored images
func (h *VariantsHandler) DeleteCombination(c *gin.Context) {
	productID, ok := h.productID(c)
	if !ok {
		return
	}
	view, err := h.variants.DeleteCombination(c.Request.Context(), productID, c.Param("comboId"), middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondView(c, view)
}
