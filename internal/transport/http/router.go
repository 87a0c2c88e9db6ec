package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/spiceroute/storefront/internal/handlers"
	"github.com/spiceroute/storefront/internal/service/token"
	"github.com/spiceroute/storefront/internal/telemetry"
)

type Deps struct {
	DB                 *gorm.DB
	AuthHandler        *handlers.AuthHandler
	MenuHandler        *handlers.MenuHandler
	CartHandler        *handlers.CartHandler
	OrderHandler       *handlers.OrderHandler
	ReservationHandler *handlers.ReservationHandler
	ContactHandler     *handlers.ContactHandler
	TokenService       *token.TokenService
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/metrics", telemetry.Handler())

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.AuthHandler.Register)
	v1.POST("/login", d.AuthHandler.Login)
	v1.POST("/logout", d.AuthHandler.LogOut)

	menu := v1.Group("/menu")
	menu.GET("/categories", d.MenuHandler.Categories)
	menu.GET("/items", d.MenuHandler.ListItems)
	menu.GET("/items/:id", d.MenuHandler.GetItem)
	menu.GET("/search", d.MenuHandler.Search)

	v1.POST("/reservations", d.ReservationHandler.Create)
	v1.POST("/contact", d.ContactHandler.Create)
	v1.POST("/orders/guest", d.OrderHandler.CreateGuestOrder)

	cart := v1.Group("/cart", d.TokenService.AutoRefreshMiddleware)
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("/items", d.CartHandler.AddToCart)
	cart.PUT("/items", d.CartHandler.SetQuantity)
	cart.DELETE("/items/:id", d.CartHandler.RemoveItem)
	cart.DELETE("", d.CartHandler.ClearCart)

	orders := v1.Group("/orders", d.TokenService.AutoRefreshMiddleware)
	orders.POST("", d.OrderHandler.CreateOrder)
	orders.GET("", d.OrderHandler.ListOrders)
	orders.GET("/:id", d.OrderHandler.GetOrder)

	admin := v1.Group("/admin", d.TokenService.AutoRefreshMiddlewareAdmin)
	admin.GET("/orders", d.OrderHandler.AdminListOrders)
	admin.PATCH("/orders/:id/status", d.OrderHandler.AdminUpdateStatus)
	admin.GET("/reservations", d.ReservationHandler.AdminList)
	admin.PATCH("/reservations/:id/status", d.ReservationHandler.AdminUpdateStatus)
	admin.GET("/messages", d.ContactHandler.AdminList)
}
