package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/example/clothes-shop/internal/models"
)

// InventoryHandler is the administrative restock surface. Checkout never goes
// through here; it decrements stock atomically inside its own transaction.
type InventoryHandler struct {
	DB *gorm.DB
}

func (h *InventoryHandler) GetInventory(c echo.Context) error {
	productID, err := strconv.Atoi(c.Param("productID"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var inv models.Inventory
	if err := h.DB.Where("product_id = ?", productID).First(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, Response{Status: "error", Message: "inventory not found"})
		}
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusOK, inv)
}

// SetInventory upserts the one inventory record a product is allowed to have
// and sets its absolute quantity.
func (h *InventoryHandler) SetInventory(c echo.Context) error {
	productID, err := strconv.Atoi(c.Param("productID"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var req struct {
		Quantity uint `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var product models.Product
	if err := h.DB.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, Response{Status: "error", Message: "product not found"})
		}
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	var inv models.Inventory
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("product_id = ?", productID).First(&inv).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			inv = models.Inventory{ProductID: uint(productID), Quantity: req.Quantity}
			return tx.Create(&inv).Error
		}
		if err != nil {
			return err
		}
		inv.Quantity = req.Quantity
		return tx.Model(&inv).UpdateColumn("quantity", req.Quantity).Error
	})
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusOK, inv)
}
