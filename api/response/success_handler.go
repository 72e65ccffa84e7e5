package response

import (
	"net/http"

	"ordercore/domain/shared"
	"ordercore/pkg/errors"

	"github.com/gin-gonic/gin"
)

func HandleSuccess(c *gin.Context, data any, message string) {
	c.JSON(http.StatusOK, &Response{
		Success:   true,
		Data:      data,
		Message:   message,
		Code:      http.StatusOK,
		RequestID: GetRequestID(c),
	})
}

func HandleCreated(c *gin.Context, data any, message string) {
	c.JSON(http.StatusCreated, &Response{
		Success:   true,
		Data:      data,
		Message:   message,
		Code:      http.StatusCreated,
		RequestID: GetRequestID(c),
	})
}

// HandleNotFound 404 for an absent entity looked up by id
func HandleNotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, &Response{
		Success:   false,
		Error:     string(errors.CodeNotFound),
		Message:   message,
		Code:      http.StatusNotFound,
		RequestID: GetRequestID(c),
	})
}

// HandlePage 分页响应
func HandlePage[T any](c *gin.Context, page *shared.Page[T], message string) {
	c.JSON(http.StatusOK, &PaginatedResponse{
		Success: true,
		Data:    page.Items,
		Pagination: Pagination{
			Page:          page.Page,
			Size:          page.Size,
			TotalElements: page.TotalElements,
			TotalPages:    page.TotalPages,
		},
		Message:   message,
		Code:      http.StatusOK,
		RequestID: GetRequestID(c),
	})
}
