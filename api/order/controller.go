/*
Package order - 订单 API 控制器

职责:
1. 接收 HTTP 请求，解析参数
2. 调用应用服务（查询直通仓储，动作经由 action service 发布事件）
3. 使用 response 包统一处理响应和错误

错误处理原则:
1. 参数绑定错误: response.HandleError 直接返回 400
2. 业务错误: response.HandleAppError 按错误码映射状态码
3. 按 id 查询不到: 404，不是错误
*/
package order

import (
	stdErrors "errors"
	"io"
	"net/http"

	"ordercore/api/response"
	orderapp "ordercore/application/order"
	"ordercore/domain/order"

	"github.com/gin-gonic/gin"
)

// Controller 订单控制器
type Controller struct {
	orderService *orderapp.Service
}

// NewController 创建订单控制器
func NewController(orderService *orderapp.Service) *Controller {
	return &Controller{
		orderService: orderService,
	}
}

// RegisterRoutes 注册订单路由
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	orderGroup := router.Group("/orders")
	{
		orderGroup.GET("", c.ListOrders)
		orderGroup.POST("/query", c.QueryOrders)
		orderGroup.POST("/actions/create", c.CreateOrder)
		orderGroup.GET("/:orderId", c.GetOrder)
		orderGroup.PUT("/:orderId", c.SaveOrder)
		orderGroup.POST("/:orderId/actions/approve", c.ApproveOrder)
		orderGroup.POST("/:orderId/actions/ship", c.ShipOrder)
	}
}

// ListOrders GET /api/v1/orders?page=&size=
func (c *Controller) ListOrders(ctx *gin.Context) {
	page, size := response.PageParams(ctx)
	result, err := c.orderService.ListOrders(ctx.Request.Context(), page, size)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandlePage(ctx, result, "orders retrieved successfully")
}

// QueryOrders POST /api/v1/orders/query?page=&size=
func (c *Controller) QueryOrders(ctx *gin.Context) {
	var filter order.QueryFilter
	if err := bindOptionalJSON(ctx, &filter); err != nil {
		response.HandleError(ctx, err, "invalid filter", http.StatusBadRequest)
		return
	}

	page, size := response.PageParams(ctx)
	result, err := c.orderService.QueryOrders(ctx.Request.Context(), &filter, page, size)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandlePage(ctx, result, "orders retrieved successfully")
}

// GetOrder GET /api/v1/orders/:orderId
func (c *Controller) GetOrder(ctx *gin.Context) {
	o, found, err := c.orderService.GetOrder(ctx.Request.Context(), ctx.Param("orderId"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	if !found {
		response.HandleNotFound(ctx, "order not found")
		return
	}
	response.HandleSuccess(ctx, o, "order retrieved successfully")
}

// SaveOrder PUT /api/v1/orders/:orderId
// The path id wins over any orderId in the body.
func (c *Controller) SaveOrder(ctx *gin.Context) {
	var o order.Order
	if err := ctx.ShouldBindJSON(&o); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}
	o.OrderID = ctx.Param("orderId")

	saved, err := c.orderService.SaveOrder(ctx.Request.Context(), &o)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, saved, "order saved successfully")
}

// CreateOrder POST /api/v1/orders/actions/create
func (c *Controller) CreateOrder(ctx *gin.Context) {
	var cmd orderapp.CreateOrderCommand
	if err := ctx.ShouldBindJSON(&cmd); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	result, err := c.orderService.CreateOrder(ctx.Request.Context(), cmd)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleCreated(ctx, result, "order created successfully")
}

// ApproveOrder POST /api/v1/orders/:orderId/actions/approve
func (c *Controller) ApproveOrder(ctx *gin.Context) {
	var cmd orderapp.ApproveOrderCommand
	if err := bindOptionalJSON(ctx, &cmd); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}
	cmd.OrderID = ctx.Param("orderId")

	result, err := c.orderService.ApproveOrder(ctx.Request.Context(), cmd)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, result, "order approved successfully")
}

// ShipOrder POST /api/v1/orders/:orderId/actions/ship
func (c *Controller) ShipOrder(ctx *gin.Context) {
	var cmd orderapp.ShipOrderCommand
	if err := bindOptionalJSON(ctx, &cmd); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}
	cmd.OrderID = ctx.Param("orderId")

	result, err := c.orderService.ShipOrder(ctx.Request.Context(), cmd)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, result, "order shipped successfully")
}

// bindOptionalJSON an empty body leaves v untouched
func bindOptionalJSON(ctx *gin.Context, v any) error {
	if err := ctx.ShouldBindJSON(v); err != nil && !stdErrors.Is(err, io.EOF) {
		return err
	}
	return nil
}
