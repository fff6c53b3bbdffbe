package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"brickstore-service/internal/middleware"
	"brickstore-service/internal/models"
	"brickstore-service/internal/services"
)

type StockHandler struct {
	stock  services.StockService
	logger *logrus.Logger
}

func NewStockHandler(stock services.StockService, logger *logrus.Logger) *StockHandler {
	return &StockHandler{stock: stock, logger: logger}
}

// ImportStock imports a batch of stock for a product or combination
func (h *StockHandler) ImportStock(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondInvalidID(c, "id")
		return
	}
	var req models.CreateStockEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	req.ProductID = productID
	entry, err := h.stock.ImportStock(c.Request.Context(), &req, middleware.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.SuccessResponse{Success: true, Data: entry})
}

// GetStockEntries lists a product's stock entries
func (h *StockHandler) GetStockEntries(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondInvalidID(c, "id")
		return
	}
	page, limit := pageParams(c)
	entries, total, serr := h.stock.GetStockEntries(c.Request.Context(), productID, page, limit)
	if serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data: gin.H{
			"entries":    entries,
			"pagination": paginationInfo(page, limit, total),
		},
	})
}

// GetAvailability reports remaining units for a product or one combination
func (h *StockHandler) GetAvailability(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondInvalidID(c, "id")
		return
	}
	var comboID *string
	if v := c.Query("combinationId"); v != "" {
		comboID = &v
	}
	availability, serr := h.stock.GetAvailability(c.Request.Context(), productID, comboID)
	if serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: availability})
}

// CancelStockEntry voids an untouched imported batch
func (h *StockHandler) CancelStockEntry(c *gin.Context) {
	entryID, err := uuid.Parse(c.Param("entryId"))
	if err != nil {
		respondInvalidID(c, "entryId")
		return
	}
	if serr := h.stock.CancelStockEntry(c.Request.Context(), entryID, middleware.CallerID(c)); serr != nil {
		respondError(c, serr)
		return
	}
	message := "Stock entry cancelled"
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Message: &message})
}
