package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"analytics-dashboard/internal/domain"
	"analytics-dashboard/internal/services"
	"analytics-dashboard/pkg/logger"
)

type OrdersHandler struct {
	orderService *services.OrderService
	log          logger.Logger
}

type CreateOrderRequest struct {
	OrderNumber   string    `json:"order_number"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	TotalAmount   float64   `json:"total_amount"`
	PaymentMethod string    `json:"payment_method"`
	PaymentStatus string    `json:"payment_status"`
	OrderDate     time.Time `json:"order_date"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

func NewOrdersHandler(orderService *services.OrderService, log logger.Logger) *OrdersHandler {
	return &OrdersHandler{
		orderService: orderService,
		log:          log,
	}
}

func (h *OrdersHandler) CreateOrder(c echo.Context) error {
	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	if req.OrderNumber == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Order number is required"})
	}
	if req.TotalAmount < 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Total amount cannot be negative"})
	}

	order, err := h.orderService.CreateOrder(c.Request().Context(), &domain.Order{
		OrderNumber:   req.OrderNumber,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		TotalAmount:   req.TotalAmount,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: domain.PaymentStatus(req.PaymentStatus),
		OrderDate:     req.OrderDate,
	})
	if err != nil {
		h.log.Error("Failed to create order", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create order"})
	}

	return c.JSON(http.StatusCreated, order)
}

func (h *OrdersHandler) GetOrder(c echo.Context) error {
	order, err := h.orderService.GetOrder(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Order not found"})
		}
		h.log.Error("Failed to get order", "order_id", c.Param("id"), "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to get order"})
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrdersHandler) ListOrders(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	orders, err := h.orderService.ListOrders(c.Request().Context(), limit, offset)
	if err != nil {
		h.log.Error("Failed to list orders", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to list orders"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"orders": orders})
}

func (h *OrdersHandler) UpdateOrderStatus(c echo.Context) error {
	var req UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	status := domain.OrderStatus(req.Status)
	switch status {
	case domain.OrderPending, domain.OrderConfirmed, domain.OrderProcessing,
		domain.OrderShipped, domain.OrderDelivered, domain.OrderCancelled:
	default:
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid order status"})
	}

	if err := h.orderService.UpdateOrderStatus(c.Request().Context(), c.Param("id"), status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Order not found"})
		}
		h.log.Error("Failed to update order status", "order_id", c.Param("id"), "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update order status"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Order status updated"})
}
