package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"brickstore-service/internal/models"
	"brickstore-service/internal/repository"
)

const exportPageLimit = 1000 // rows fetched per page while streaming an export

type ExportHandler struct {
	products *repository.ProductsRepository
	orders   *repository.OrdersRepository
	logger   *logrus.Logger
}

func NewExportHandler(products *repository.ProductsRepository, orders *repository.OrdersRepository, logger *logrus.Logger) *ExportHandler {
	return &ExportHandler{
		products: products,
		orders:   orders,
		logger:   logger,
	}
}

// ExportProducts downloads the product catalog as CSV or XLSX
// GET /api/v1/admin/export/products?format=xlsx
func (h *ExportHandler) ExportProducts(c *gin.Context) {
	format := c.DefaultQuery("format", "xlsx")

	products, err := h.collectProducts(c)
	if err != nil {
		h.logger.WithError(err).Error("Failed to collect products for export")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "EXPORT_FAILED",
				Message: "Failed to export products",
			},
		})
		return
	}

	switch format {
	case "csv":
		h.writeProductsCSV(c, products)
	case "xlsx":
		h.writeProductsXLSX(c, products)
	default:
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_FORMAT",
				Message: "Only CSV and XLSX formats are supported",
				Field:   "format",
			},
		})
	}
}

// ExportOrders downloads orders as an XLSX workbook
// GET /api/v1/admin/export/orders?status=DELIVERED
func (h *ExportHandler) ExportOrders(c *gin.Context) {
	var status *models.OrderStatus
	if raw := c.Query("status"); raw != "" {
		s := models.OrderStatus(raw)
		status = &s
	}

	orders, err := h.collectOrders(c, status)
	if err != nil {
		h.logger.WithError(err).Error("Failed to collect orders for export")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "EXPORT_FAILED",
				Message: "Failed to export orders",
			},
		})
		return
	}

	h.writeOrdersXLSX(c, orders)
}

// collectProducts pages through the catalog so exports stay bounded per query
func (h *ExportHandler) collectProducts(c *gin.Context) ([]models.Product, error) {
	req := searchRequest(c)
	req.Limit = exportPageLimit

	var all []models.Product
	for page := 1; ; page++ {
		req.Page = page
		products, total, err := h.products.GetProducts(c.Request.Context(), req)
		if err != nil {
			return nil, err
		}
		all = append(all, products...)
		if int64(len(all)) >= total || len(products) == 0 {
			break
		}
	}
	return all, nil
}

func (h *ExportHandler) collectOrders(c *gin.Context, status *models.OrderStatus) ([]models.Order, error) {
	var all []models.Order
	for page := 1; ; page++ {
		orders, total, err := h.orders.GetOrders(c.Request.Context(), status, page, exportPageLimit)
		if err != nil {
			return nil, err
		}
		all = append(all, orders...)
		if int64(len(all)) >= total || len(orders) == 0 {
			break
		}
	}
	return all, nil
}

var productExportColumns = []string{
	"ID", "Name", "Slug", "Category ID", "Brand ID", "Price",
	"Active", "Has Variants", "Variants", "Combinations", "Created At",
}

func productExportRow(p *models.Product) []string {
	slug := ""
	if p.Slug != nil {
		slug = *p.Slug
	}
	return []string{
		p.ID.String(),
		p.Name,
		slug,
		p.CategoryID.String(),
		p.BrandID.String(),
		strconv.FormatFloat(p.Price, 'f', 2, 64),
		strconv.FormatBool(p.IsActive),
		strconv.FormatBool(p.HasVariants),
		strconv.Itoa(len(p.Variants)),
		strconv.Itoa(len(p.VariantCombinations)),
		p.CreatedAt.Format(time.RFC3339),
	}
}

func (h *ExportHandler) writeProductsCSV(c *gin.Context, products []models.Product) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=products_export.csv")

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(productExportColumns)
	for i := range products {
		writer.Write(productExportRow(&products[i]))
	}
}

func (h *ExportHandler) writeProductsXLSX(c *gin.Context, products []models.Product) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Products"
	f.SetSheetName("Sheet1", sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, col := range productExportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)

		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 20)
	}

	for rowIdx := range products {
		for colIdx, value := range productExportRow(&products[rowIdx]) {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	// second sheet flattens every combination for stock reconciliation
	comboSheet := "Combinations"
	f.NewSheet(comboSheet)
	comboColumns := []string{"Product ID", "Product Name", "Combination ID", "Variant Key", "Options", "Price", "Stock"}
	for i, col := range comboColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(comboSheet, cell, col)
		f.SetCellStyle(comboSheet, cell, cell, headerStyle)
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(comboSheet, colName, colName, 24)
	}

	comboRow := 2
	for i := range products {
		p := &products[i]
		for _, combo := range p.VariantCombinations {
			options := ""
			for j, pair := range combo.Variants {
				if v := p.VariantByID(pair.VariantID); v != nil {
					if j > 0 {
						options += ", "
					}
					options += fmt.Sprintf("%s=%s", v.Name, pair.Value)
				}
			}
			values := []interface{}{
				p.ID.String(), p.Name, combo.ID, combo.VariantKey,
				options, combo.Price, combo.Stock,
			}
			for colIdx, value := range values {
				cell, _ := excelize.CoordinatesToCellName(colIdx+1, comboRow)
				f.SetCellValue(comboSheet, cell, value)
			}
			comboRow++
		}
	}

	sheetIdx, _ := f.GetSheetIndex(sheetName)
	f.SetActiveSheet(sheetIdx)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=products_export.xlsx")

	f.Write(c.Writer)
}

func (h *ExportHandler) writeOrdersXLSX(c *gin.Context, orders []models.Order) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Orders"
	f.SetSheetName("Sheet1", sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	columns := []string{"Order Code", "User ID", "Status", "Total", "Items", "Phone", "Created At"}
	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 22)
	}

	for rowIdx := range orders {
		o := &orders[rowIdx]
		values := []interface{}{
			o.OrderCode, o.UserID, string(o.Status), o.TotalAmount,
			len(o.Items), o.PhoneNumber, o.CreatedAt.Format(time.RFC3339),
		}
		for colIdx, value := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	// item-level breakdown on a second sheet
	itemSheet := "Items"
	f.NewSheet(itemSheet)
	itemColumns := []string{"Order Code", "Product Name", "Variant", "Quantity", "Unit Price", "Reviewed"}
	for i, col := range itemColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(itemSheet, cell, col)
		f.SetCellStyle(itemSheet, cell, cell, headerStyle)
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(itemSheet, colName, colName, 22)
	}

	itemRow := 2
	for i := range orders {
		o := &orders[i]
		for _, item := range o.Items {
			variantLabel := ""
			if item.VariantLabel != nil {
				variantLabel = *item.VariantLabel
			}
			values := []interface{}{
				o.OrderCode, item.ProductName, variantLabel,
				item.Quantity, item.UnitPrice, item.Reviewed,
			}
			for colIdx, value := range values {
				cell, _ := excelize.CoordinatesToCellName(colIdx+1, itemRow)
				f.SetCellValue(itemSheet, cell, value)
			}
			itemRow++
		}
	}

	sheetIdx, _ := f.GetSheetIndex(sheetName)
	f.SetActiveSheet(sheetIdx)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=orders_export.xlsx")

	f.Write(c.Writer)
}
