package user

import (
	stdErrors "errors"
	"io"
	"net/http"

	"ordercore/api/response"
	userapp "ordercore/application/user"
	"ordercore/domain/user"

	"github.com/gin-gonic/gin"
)

// Controller User controller
type Controller struct {
	userService *userapp.ApplicationService
}

// NewController Create user controller
func NewController(userService *userapp.ApplicationService) *Controller {
	return &Controller{
		userService: userService,
	}
}

// RegisterRoutes Register user routes
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	userGroup := router.Group("/users")
	{
		userGroup.GET("", c.ListUsers)
		userGroup.POST("/query", c.QueryUsers)
		userGroup.GET("/:userId", c.GetUser)
		userGroup.PUT("/:userId", c.SaveUser)
	}
}

// ListUsers GET /api/v1/users?page=&size=
func (c *Controller) ListUsers(ctx *gin.Context) {
	page, size := response.PageParams(ctx)
	result, err := c.userService.ListUsers(ctx.Request.Context(), page, size)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandlePage(ctx, result, "users retrieved successfully")
}

// QueryUsers POST /api/v1/users/query?page=&size=
func (c *Controller) QueryUsers(ctx *gin.Context) {
	var filter user.QueryFilter
	if err := ctx.ShouldBindJSON(&filter); err != nil && !stdErrors.Is(err, io.EOF) {
		response.HandleError(ctx, err, "invalid filter", http.StatusBadRequest)
		return
	}

	page, size := response.PageParams(ctx)
	result, err := c.userService.QueryUsers(ctx.Request.Context(), &filter, page, size)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandlePage(ctx, result, "users retrieved successfully")
}

// GetUser GET /api/v1/users/:userId
func (c *Controller) GetUser(ctx *gin.Context) {
	u, found, err := c.userService.GetUser(ctx.Request.Context(), ctx.Param("userId"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	if !found {
		response.HandleNotFound(ctx, "user not found")
		return
	}
	response.HandleSuccess(ctx, u, "user retrieved successfully")
}

// SaveUser PUT /api/v1/users/:userId
func (c *Controller) SaveUser(ctx *gin.Context) {
	var req userapp.SaveUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	saved, err := c.userService.SaveUser(ctx.Request.Context(), ctx.Param("userId"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, saved, "user saved successfully")
}
