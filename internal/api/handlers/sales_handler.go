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

type SalesHandler struct {
	salesService *services.SalesService
	log          logger.Logger
}

type CreateSaleRequest struct {
	OrderID         string    `json:"order_id"`
	ProductName     string    `json:"product_name"`
	ProductCategory string    `json:"product_category"`
	Quantity        int       `json:"quantity"`
	UnitPrice       float64   `json:"unit_price"`
	CustomerName    string    `json:"customer_name"`
	CustomerEmail   string    `json:"customer_email"`
	SalesPerson     string    `json:"sales_person"`
	PaymentMethod   string    `json:"payment_method"`
	PaymentStatus   string    `json:"payment_status"`
	Region          string    `json:"region"`
	Country         string    `json:"country"`
	SaleDate        time.Time `json:"sale_date"`
}

func NewSalesHandler(salesService *services.SalesService, log logger.Logger) *SalesHandler {
	return &SalesHandler{
		salesService: salesService,
		log:          log,
	}
}

func (h *SalesHandler) CreateSale(c echo.Context) error {
	var req CreateSaleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	if req.ProductName == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Product name is required"})
	}
	if req.Quantity < 1 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Quantity must be at least 1"})
	}
	if req.UnitPrice < 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unit price cannot be negative"})
	}

	sale, err := h.salesService.CreateSale(c.Request().Context(), &domain.Sale{
		OrderID:         req.OrderID,
		ProductName:     req.ProductName,
		ProductCategory: req.ProductCategory,
		Quantity:        req.Quantity,
		UnitPrice:       req.UnitPrice,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		SalesPerson:     req.SalesPerson,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   domain.PaymentStatus(req.PaymentStatus),
		Region:          req.Region,
		Country:         req.Country,
		SaleDate:        req.SaleDate,
	})
	if err != nil {
		h.log.Error("Failed to create sale", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create sale"})
	}

	return c.JSON(http.StatusCreated, sale)
}

func (h *SalesHandler) GetSale(c echo.Context) error {
	sale, err := h.salesService.GetSale(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Sale not found"})
		}
		h.log.Error("Failed to get sale", "sale_id", c.Param("id"), "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to get sale"})
	}
	return c.JSON(http.StatusOK, sale)
}

func (h *SalesHandler) ListSales(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	sales, err := h.salesService.ListSales(c.Request().Context(), limit, offset)
	if err != nil {
		h.log.Error("Failed to list sales", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to list sales"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"sales": sales})
}

func (h *SalesHandler) DeleteSale(c echo.Context) error {
	if err := h.salesService.DeleteSale(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Sale not found"})
		}
		h.log.Error("Failed to delete sale", "sale_id", c.Param("id"), "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete sale"})
	}
	return c.NoContent(http.StatusNoContent)
}
