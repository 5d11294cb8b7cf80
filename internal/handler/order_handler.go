package handler

import (
	"net/http"

	"invoicehub/internal/middleware"
	"invoicehub/internal/model"
	"invoicehub/internal/service"
	"invoicehub/pkg/pagination"
	"invoicehub/pkg/response"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	// Public submission endpoint for the customer order form
	router.POST("/api/customer-submissions", h.SubmitOrder)

	orders := router.Group("/api/customer-orders")
	{
		orders.GET("", middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleStaff), h.ListOrders)
	}
}

// SubmitOrder accepts a customer order from the public form
// @Summary      Submit customer order
// @Description  Records an order placed by an anonymous customer against a business catalog
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        payload  body      service.SubmitOrderRequest  true  "Customer Order Payload"
// @Success      201      {object}  response.Response{data=service.CustomerOrderResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/customer-submissions [post]
func (h *OrderHandler) SubmitOrder(c *gin.Context) {
	var req service.SubmitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	order, err := h.orderService.SubmitOrder(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, order))
}

// ListOrders returns received customer orders for the back office
// @Summary      List customer orders
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        business_id  query     string  false  "Filter by business"
// @Param        page         query     int     false  "Page number (default 1)"
// @Param        limit        query     int     false  "Number of items per page (default 20)"
// @Success      200          {object}  response.Response{data=[]service.CustomerOrderResponse}
// @Failure      500          {object}  response.Response
// @Router       /api/customer-orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	params := pagination.Parse(c)

	orders, total, err := h.orderService.ListOrders(c.Request.Context(), c.Query("business_id"), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, orders, params.Page, params.Limit, total))
}
