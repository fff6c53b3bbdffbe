package handlers

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"brickstore-service/internal/models"
	"brickstore-service/internal/services"
)

// respondError maps a service error onto the HTTP boundary. DomainError
// kinds translate to status codes; anything else is a 500 with a generic
// message.
func respondError(c *gin.Context, err error) {
	de, ok := err.(*services.DomainError)
	if !ok {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    string(services.KindInternal),
				Message: "Internal server error",
			},
		})
		return
	}

	status := http.StatusInternalServerError
	message := de.Message
	switch de.Kind {
	case services.KindValidation:
		status = http.StatusBadRequest
	case services.KindNotFound:
		status = http.StatusNotFound
	case services.KindConflict:
		status = http.StatusConflict
	default:
		message = "Internal server error"
	}

	c.JSON(status, models.ErrorResponse{
		Success: false,
		Error: models.Error{
			Code:    string(de.Kind),
			Message: message,
			Field:   de.Field,
		},
	})
}

func respondBindingError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Success: false,
		Error: models.Error{
			Code:    string(services.KindValidation),
			Message: err.Error(),
		},
	})
}

func respondInvalidID(c *gin.Context, field string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Success: false,
		Error: models.Error{
			Code:    string(services.KindValidation),
			Message: "Invalid " + field,
			Field:   field,
		},
	})
}

// paginationInfo builds the standard pagination envelope
func paginationInfo(page, limit int, total int64) *models.PaginationInfo {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &models.PaginationInfo{
		Page:        page,
		Limit:       limit,
		Total:       total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

// bindJSONOrForm binds the request payload into dst. Multipart requests
// carry their JSON payload in a "data" form field alongside file parts;
// plain requests are standard JSON bodies.
func bindJSONOrForm(c *gin.Context, dst interface{}) error {
	contentType := c.ContentType()
	if strings.HasPrefix(contentType, "multipart/form-data") {
		payload := c.PostForm("data")
		if payload == "" {
			return nil
		}
		return json.Unmarshal([]byte(payload), dst)
	}
	return c.ShouldBindJSON(dst)
}

// formFiles returns the uploaded files under a multipart field, empty for
// non-multipart requests.
func formFiles(c *gin.Context, field string) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File[field]
}
