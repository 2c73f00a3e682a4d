package handler

import (
	"net/http"

	"github.com/Eugene261/IN-N-OUT-SHOP-sub000/internal/middleware"
	"github.com/Eugene261/IN-N-OUT-SHOP-sub000/internal/model"
	"github.com/Eugene261/IN-N-OUT-SHOP-sub000/internal/service"
	"github.com/Eugene261/IN-N-OUT-SHOP-sub000/pkg/pagination"
	"github.com/Eugene261/IN-N-OUT-SHOP-sub000/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/api/orders")
	{
		orders.POST("", h.Checkout)
		orders.GET("", middleware.RequireRole(model.RoleAdmin), h.List)
		orders.PATCH("/:id/status", middleware.RequireRole(model.RoleAdmin, model.RoleSeller), h.UpdateStatus)
	}
}

// @Summary      Create order
// @Description  Checkout: creates a marketplace order with per-seller line items and quoted shipping fees.
// @Tags         Orders
// @Accept       json
// @Produce      json
// @Param        request body service.CheckoutRequest true "Checkout payload"
// @Success      201 {object} response.Response
// @Failure      400 {object} response.Response "Invalid payload"
// @Router       /api/orders [post]
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req service.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	order, err := h.orderService.Checkout(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, order))
}

// @Summary      List orders
// @Description  Paginated order listing for the admin dashboard.
// @Tags         Orders
// @Produce      json
// @Param        page  query int false "Page"
// @Param        limit query int false "Page size"
// @Success      200 {object} response.Response
// @Security     BearerAuth
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	params := pagination.Parse(c)

	orders, total, err := h.orderService.List(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"orders": orders,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	}))
}

// @Summary      Update fulfillment status
// @Description  Bulk-updates the authenticated seller's items on an order. Other sellers' items on the same order are never touched.
// @Tags         Orders
// @Accept       json
// @Produce      json
// @Param        id      path string true "Order ID"
// @Param        request body service.UpdateStatusRequest true "New status"
// @Success      200 {object} response.Response
// @Failure      400 {object} response.Response "Unknown status"
// @Failure      404 {object} response.Response "No items for seller on this order"
// @Security     BearerAuth
// @Router       /api/orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid order id"))
		return
	}

	var req service.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	// Admins may act on behalf of a seller; sellers only on themselves.
	sellerIDStr := middleware.CurrentSellerID(c)
	if middleware.IsAdmin(c) {
		if q := c.Query("seller_id"); q != "" {
			sellerIDStr = q
		}
	}
	sellerID, err := uuid.Parse(sellerIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid seller id"))
		return
	}

	entry, err := h.orderService.UpdateSellerStatus(c.Request.Context(), orderID, sellerID, req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, entry))
}
