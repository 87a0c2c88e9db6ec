package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/spiceroute/storefront/internal/events"
	"github.com/spiceroute/storefront/internal/models"
	"github.com/spiceroute/storefront/internal/telemetry"
)

type ReservationHandler struct {
	DB       *gorm.DB
	Producer *events.Producer
}

func (h *ReservationHandler) publish(c echo.Context, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, events.TopicReservations, key, event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *ReservationHandler) Create(c echo.Context) error {
	var req struct {
		Name      string `json:"name"`
		Email     string `json:"email"`
		Phone     string `json:"phone"`
		PartySize int    `json:"party_size"`
		Date      string `json:"date"`
		Time      string `json:"time"`
		Notes     string `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" || req.Email == "" || req.Phone == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name, email and phone are required")
	}
	if req.PartySize < 1 {
		return echo.NewHTTPError(http.StatusBadRequest, "party size must be at least 1")
	}
	if req.Date == "" || req.Time == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "date and time are required")
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}

	res := models.Reservation{
		Code:      uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		PartySize: req.PartySize,
		Date:      req.Date,
		Time:      req.Time,
		Notes:     req.Notes,
		Status:    "pending",
		CreatedAt: time.Now(),
	}
	if uid, err := userID(c); err == nil {
		res.UserID = uid
	}

	if err := h.DB.Create(&res).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	telemetry.ReservationsCreated.Inc()
	h.publish(c, res.Code, map[string]any{
		"type":       "reservation_created",
		"code":       res.Code,
		"party_size": res.PartySize,
		"date":       res.Date,
	})

	return c.JSON(http.StatusCreated, res)
}

func (h *ReservationHandler) AdminList(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), 20)
	offset, limit := paginate(page, size)

	var total int64
	if err := h.DB.Model(&models.Reservation{}).Count(&total).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	var reservations []models.Reservation
	if err := h.DB.Order("id DESC").Offset(offset).Limit(limit).Find(&reservations).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"results": reservations, "total": total, "page": page})
}

func (h *ReservationHandler) AdminUpdateStatus(c echo.Context) error {
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
	switch req.Status {
	case "pending", "confirmed", "seated", "cancelled":
	default:
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("unknown status %q", req.Status))
	}

	res := h.DB.Model(&models.Reservation{}).Where("id = ?", id).Update("status", req.Status)
	if res.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "reservation not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": req.Status})
}
