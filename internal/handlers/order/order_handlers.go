package order

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/example/clothes-shop/internal/handlers"
	orderservice "github.com/example/clothes-shop/internal/service/order"
	"github.com/example/clothes-shop/internal/util"
)

type OrderHandler struct {
	Service *orderservice.Service
}

// Checkout places an order for everything in the caller's cart.
func (h *OrderHandler) Checkout(c echo.Context) error {
	userID, err := handlers.GetUserID(c)
	if err != nil {
		return err
	}

	result, err := h.Service.PlaceOrder(c.Request().Context(), userID)
	if err != nil {
		var stockErr *orderservice.InsufficientStockError
		switch {
		case errors.Is(err, orderservice.ErrEmptyCart):
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error":   "empty_cart",
				"message": "no items in cart",
			})
		case errors.As(err, &stockErr):
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error":      "insufficient_stock",
				"message":    stockErr.Error(),
				"product_id": stockErr.ProductID,
				"available":  stockErr.Available,
				"requested":  stockErr.Requested,
			})
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusCreated, result)
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	userID, err := handlers.GetUserID(c)
	if err != nil {
		return err
	}

	page := 1
	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil {
		page = v
	}
	size := util.DefaultPageSize
	if v, err := strconv.Atoi(c.QueryParam("size")); err == nil {
		size = v
	}
	offset, limit := util.Calculate(page, size)

	orders, total, err := h.Service.ListOrders(c.Request().Context(), userID, offset, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data": orders,
		"meta": echo.Map{"page": page, "size": limit, "total": total},
	})
}

// UpdateStatus is the admin-only status transition endpoint.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.Service.UpdateOrderStatus(c.Request().Context(), uint(id), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, orderservice.ErrInvalidStatus):
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error":   "invalid_status",
				"message": err.Error(),
			})
		case errors.Is(err, orderservice.ErrOrderNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, updated)
}
