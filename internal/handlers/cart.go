package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/spiceroute/storefront/internal/cart"
	"github.com/spiceroute/storefront/internal/catalog"
	"github.com/spiceroute/storefront/internal/events"
	"github.com/spiceroute/storefront/internal/models"
	"github.com/spiceroute/storefront/internal/telemetry"
)

type CartHandler struct {
	DB       *gorm.DB
	Catalog  *catalog.Catalog
	Producer *events.Producer
}

// CartView is the authoritative cart shape the server returns after every
// mutation. Totals are recomputed from the rows on each response.
type CartView struct {
	Items         []models.CartItem `json:"items"`
	TotalItems    int               `json:"total_items"`
	SubtotalCents int64             `json:"subtotal_cents"`
}

type cartItemRequest struct {
	ItemID              int      `json:"item_id"`
	Quantity            int      `json:"quantity"`
	SpiceLevel          string   `json:"spice_level"`
	Extras              []string `json:"extras"`
	SpecialInstructions string   `json:"special_instructions"`
}

func (h *CartHandler) publish(c echo.Context, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, events.TopicCart, key, event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

// rowFromRequest validates the request against the catalog and produces the
// cart row, including its match key.
func (h *CartHandler) rowFromRequest(userID uint, req cartItemRequest) (models.CartItem, error) {
	item, err := h.Catalog.Item(req.ItemID)
	if err != nil {
		return models.CartItem{}, err
	}
	spice, err := cart.ParseSpiceLevel(req.SpiceLevel)
	if err != nil {
		return models.CartItem{}, err
	}
	extras := catalog.NormalizeExtras(req.Extras)
	extrasPrice, err := h.Catalog.ValidateToppings(req.ItemID, extras)
	if err != nil {
		return models.CartItem{}, err
	}

	line := cart.LineItem{
		ItemID:              item.ID,
		SpiceLevel:          spice,
		Extras:              extras,
		SpecialInstructions: req.SpecialInstructions,
	}
	return models.CartItem{
		UserID:              userID,
		ItemID:              item.ID,
		Name:                item.Name,
		Quantity:            req.Quantity,
		SpiceLevel:          string(spice),
		Extras:              strings.Join(extras, ","),
		SpecialInstructions: req.SpecialInstructions,
		UnitPriceCents:      item.PriceCents,
		ExtrasPriceCents:    extrasPrice,
		MatchKey:            line.MatchKey(),
	}, nil
}

func (h *CartHandler) view(userID uint) (CartView, error) {
	var items []models.CartItem
	if err := h.DB.Where("user_id = ?", userID).Order("id ASC").Find(&items).Error; err != nil {
		return CartView{}, err
	}
	view := CartView{Items: items}
	for _, it := range items {
		view.TotalItems += it.Quantity
		view.SubtotalCents += (it.UnitPriceCents + it.ExtrasPriceCents) * int64(it.Quantity)
	}
	return view, nil
}

func (h *CartHandler) GetCart(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	view, err := h.view(uid)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, view)
}

// AddToCart merges additively: a row with the same match key grows by the
// requested quantity, otherwise a new row is created.
func (h *CartHandler) AddToCart(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req cartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	row, err := h.rowFromRequest(uid, req)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.CartItem
		err := tx.Where("user_id = ? AND match_key = ?", uid, row.MatchKey).First(&existing).Error
		if err == nil {
			return tx.Model(&existing).Update("quantity", gorm.Expr("quantity + ?", row.Quantity)).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(&row).Error
	})
	if txErr != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, txErr.Error())
	}

	telemetry.CartOps.WithLabelValues("add").Inc()
	h.publish(c, fmt.Sprint(uid), map[string]any{
		"type":     "cart_item_added",
		"userID":   uid,
		"itemID":   row.ItemID,
		"quantity": row.Quantity,
	})

	view, err := h.view(uid)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, view)
}

// SetQuantity writes the absolute quantity for a configuration, used by the
// detail-page stepper. Zero removes the matching row.
func (h *CartHandler) SetQuantity(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req cartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Quantity < 0 {
		req.Quantity = 0
	}

	row, err := h.rowFromRequest(uid, req)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		if row.Quantity == 0 {
			return tx.Where("user_id = ? AND match_key = ?", uid, row.MatchKey).
				Delete(&models.CartItem{}).Error
		}
		var existing models.CartItem
		err := tx.Where("user_id = ? AND match_key = ?", uid, row.MatchKey).First(&existing).Error
		if err == nil {
			return tx.Model(&existing).Update("quantity", row.Quantity).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(&row).Error
	})
	if txErr != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, txErr.Error())
	}

	telemetry.CartOps.WithLabelValues("set_quantity").Inc()
	h.publish(c, fmt.Sprint(uid), map[string]any{
		"type":     "cart_quantity_set",
		"userID":   uid,
		"itemID":   row.ItemID,
		"quantity": row.Quantity,
	})

	view, err := h.view(uid)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, view)
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	res := h.DB.Where("id = ? AND user_id = ?", id, uid).Delete(&models.CartItem{})
	if res.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "item not found")
	}

	telemetry.CartOps.WithLabelValues("remove").Inc()
	h.publish(c, fmt.Sprint(uid), map[string]any{
		"type":   "cart_item_removed",
		"userID": uid,
		"id":     id,
	})

	view, err := h.view(uid)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, view)
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	if err := h.DB.Where("user_id = ?", uid).Delete(&models.CartItem{}).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	telemetry.CartOps.WithLabelValues("clear").Inc()
	h.publish(c, fmt.Sprint(uid), map[string]any{
		"type":   "cart_cleared",
		"userID": uid,
	})

	return c.JSON(http.StatusOK, CartView{Items: []models.CartItem{}})
}
