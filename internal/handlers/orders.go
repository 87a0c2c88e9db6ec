package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/spiceroute/storefront/internal/cart"
	"github.com/spiceroute/storefront/internal/catalog"
	"github.com/spiceroute/storefront/internal/events"
	"github.com/spiceroute/storefront/internal/models"
	"github.com/spiceroute/storefront/internal/pricing"
	"github.com/spiceroute/storefront/internal/telemetry"
)

var orderStatuses = map[string]bool{
	"received":         true,
	"preparing":        true,
	"ready":            true,
	"out_for_delivery": true,
	"completed":        true,
	"cancelled":        true,
}

type OrderHandler struct {
	DB       *gorm.DB
	Catalog  *catalog.Catalog
	Producer *events.Producer
	Pricing  pricing.Calculator
}

type customerInfoRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	Zip     string `json:"zip"`
}

type orderRequest struct {
	Customer      customerInfoRequest `json:"customer"`
	OrderType     string              `json:"order_type"`
	PaymentMethod string              `json:"payment_method"`
	Items         []cartItemRequest   `json:"items,omitempty"`
}

type OrderResponse struct {
	ID                uint               `json:"id"`
	Number            string             `json:"number"`
	Status            string             `json:"status"`
	OrderType         string             `json:"order_type"`
	SubtotalCents     int64              `json:"subtotal_cents"`
	DeliveryFeeCents  int64              `json:"delivery_fee_cents"`
	TaxCents          int64              `json:"tax_cents"`
	TotalCents        int64              `json:"total_cents"`
	EstimatedDelivery string             `json:"estimated_delivery"`
	Items             []models.OrderItem `json:"items"`
}

func (h *OrderHandler) publish(c echo.Context, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, events.TopicOrders, key, event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func validateOrderRequest(req orderRequest) (pricing.OrderType, error) {
	orderType, err := pricing.ParseOrderType(req.OrderType)
	if err != nil {
		return "", err
	}
	if req.Customer.Name == "" || req.Customer.Email == "" || req.Customer.Phone == "" {
		return "", errors.New("name, email and phone are required")
	}
	if orderType == pricing.OrderTypeDelivery && (req.Customer.Address == "" || req.Customer.City == "" || req.Customer.Zip == "") {
		return "", errors.New("delivery orders require address, city and zip")
	}
	if req.PaymentMethod != "card" && req.PaymentMethod != "cash" {
		return "", fmt.Errorf("unknown payment method %q", req.PaymentMethod)
	}
	return orderType, nil
}

func estimatedDelivery(orderType pricing.OrderType) string {
	if orderType == pricing.OrderTypeDelivery {
		return "45 minutes"
	}
	return "20 minutes"
}

func orderResponse(order models.Order, items []models.OrderItem) OrderResponse {
	return OrderResponse{
		ID:                order.ID,
		Number:            order.Number,
		Status:            order.Status,
		OrderType:         order.OrderType,
		SubtotalCents:     order.SubtotalCents,
		DeliveryFeeCents:  order.DeliveryFeeCents,
		TaxCents:          order.TaxCents,
		TotalCents:        order.TotalCents,
		EstimatedDelivery: estimatedDelivery(pricing.OrderType(order.OrderType)),
		Items:             items,
	}
}

// CreateOrder places an order from the authenticated user's server cart.
// The cart is cleared in the same transaction that creates the order.
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req orderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	orderType, err := validateOrderRequest(req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var (
		order      models.Order
		orderItems []models.OrderItem
	)
	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		var items []models.CartItem
		if err := tx.Where("user_id = ?", uid).Order("id ASC").Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "cart is empty")
		}

		lines := make([]cart.LineItem, 0, len(items))
		orderItems = make([]models.OrderItem, 0, len(items))
		for _, it := range items {
			lines = append(lines, cart.LineItem{
				Quantity:         it.Quantity,
				UnitPriceCents:   it.UnitPriceCents,
				ExtrasPriceCents: it.ExtrasPriceCents,
			})
			orderItems = append(orderItems, models.OrderItem{
				ItemID:              it.ItemID,
				Name:                it.Name,
				Quantity:            it.Quantity,
				SpiceLevel:          it.SpiceLevel,
				Extras:              it.Extras,
				SpecialInstructions: it.SpecialInstructions,
				UnitPriceCents:      it.UnitPriceCents,
				ExtrasPriceCents:    it.ExtrasPriceCents,
			})
		}
		totals := h.Pricing.ComputeTotals(lines, orderType)

		order = models.Order{
			Number:           uuid.NewString(),
			UserID:           uid,
			CustomerName:     req.Customer.Name,
			Email:            req.Customer.Email,
			Phone:            req.Customer.Phone,
			Address:          req.Customer.Address,
			City:             req.Customer.City,
			Zip:              req.Customer.Zip,
			OrderType:        string(orderType),
			PaymentMethod:    req.PaymentMethod,
			SubtotalCents:    totals.SubtotalCents,
			DeliveryFeeCents: totals.DeliveryFeeCents,
			TaxCents:         totals.TaxCents,
			TotalCents:       totals.GrandTotalCents,
			Status:           "received",
			CreatedAt:        time.Now().Unix(),
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		for i := range orderItems {
			orderItems[i].OrderID = order.ID
		}
		if err := tx.Create(&orderItems).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", uid).Delete(&models.CartItem{}).Error
	})
	if txErr != nil {
		var he *echo.HTTPError
		if errors.As(txErr, &he) {
			return he
		}
		return echo.NewHTTPError(http.StatusInternalServerError, txErr.Error())
	}

	telemetry.OrdersCreated.WithLabelValues(order.OrderType).Inc()
	h.publish(c, fmt.Sprint(uid), map[string]any{
		"type":    "order_created",
		"userID":  uid,
		"orderID": order.ID,
		"number":  order.Number,
		"total":   order.TotalCents,
	})

	return c.JSON(http.StatusCreated, orderResponse(order, orderItems))
}

// CreateGuestOrder places an order from the line items carried in the
// request. Prices are recomputed server-side from the catalog; client-sent
// prices are never trusted.
func (h *OrderHandler) CreateGuestOrder(c echo.Context) error {
	var req orderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	orderType, err := validateOrderRequest(req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if len(req.Items) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "cart is empty")
	}

	lines := make([]cart.LineItem, 0, len(req.Items))
	orderItems := make([]models.OrderItem, 0, len(req.Items))
	for _, ir := range req.Items {
		if ir.Quantity < 1 {
			ir.Quantity = 1
		}
		item, err := h.Catalog.Item(ir.ItemID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		spice, err := cart.ParseSpiceLevel(ir.SpiceLevel)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		extras := catalog.NormalizeExtras(ir.Extras)
		extrasPrice, err := h.Catalog.ValidateToppings(ir.ItemID, extras)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		lines = append(lines, cart.LineItem{
			Quantity:         ir.Quantity,
			UnitPriceCents:   item.PriceCents,
			ExtrasPriceCents: extrasPrice,
		})
		orderItems = append(orderItems, models.OrderItem{
			ItemID:              item.ID,
			Name:                item.Name,
			Quantity:            ir.Quantity,
			SpiceLevel:          string(spice),
			Extras:              strings.Join(extras, ","),
			SpecialInstructions: ir.SpecialInstructions,
			UnitPriceCents:      item.PriceCents,
			ExtrasPriceCents:    extrasPrice,
		})
	}
	totals := h.Pricing.ComputeTotals(lines, orderType)

	order := models.Order{
		Number:           uuid.NewString(),
		CustomerName:     req.Customer.Name,
		Email:            req.Customer.Email,
		Phone:            req.Customer.Phone,
		Address:          req.Customer.Address,
		City:             req.Customer.City,
		Zip:              req.Customer.Zip,
		OrderType:        string(orderType),
		PaymentMethod:    req.PaymentMethod,
		SubtotalCents:    totals.SubtotalCents,
		DeliveryFeeCents: totals.DeliveryFeeCents,
		TaxCents:         totals.TaxCents,
		TotalCents:       totals.GrandTotalCents,
		Status:           "received",
		CreatedAt:        time.Now().Unix(),
	}
	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		for i := range orderItems {
			orderItems[i].OrderID = order.ID
		}
		return tx.Create(&orderItems).Error
	})
	if txErr != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, txErr.Error())
	}

	telemetry.OrdersCreated.WithLabelValues(order.OrderType).Inc()
	h.publish(c, order.Number, map[string]any{
		"type":    "order_created",
		"orderID": order.ID,
		"number":  order.Number,
		"total":   order.TotalCents,
	})

	return c.JSON(http.StatusCreated, orderResponse(order, orderItems))
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	var orders []models.Order
	if err := h.DB.Where("user_id = ?", uid).Order("id DESC").Find(&orders).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"results": orders})
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var order models.Order
	if err := h.DB.Where("id = ? AND user_id = ?", id, uid).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	var items []models.OrderItem
	if err := h.DB.Where("order_id = ?", order.ID).Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, orderResponse(order, items))
}

func (h *OrderHandler) AdminListOrders(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), 20)
	offset, limit := paginate(page, size)

	var total int64
	if err := h.DB.Model(&models.Order{}).Count(&total).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	var orders []models.Order
	if err := h.DB.Order("id DESC").Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"results": orders, "total": total, "page": page})
}

func (h *OrderHandler) AdminUpdateStatus(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if !orderStatuses[req.Status] {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("unknown status %q", req.Status))
	}

	res := h.DB.Model(&models.Order{}).Where("id = ?", id).Update("status", req.Status)
	if res.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}

	h.publish(c, strconv.Itoa(id), map[string]any{
		"type":    "order_status_changed",
		"orderID": id,
		"status":  req.Status,
	})

	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": req.Status})
}
