package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/example/clothes-shop/internal/handlers"
	"github.com/example/clothes-shop/internal/handlers/cart"
	"github.com/example/clothes-shop/internal/handlers/order"
	"github.com/example/clothes-shop/internal/service/token"
)

type Deps struct {
	DB               *gorm.DB
	AuthHandler      *handlers.AuthHandler
	ProductHandler   *handlers.ProductHandler
	InventoryHandler *handlers.InventoryHandler
	CartHandler      *cart.CartHandler
	OrderHandler     *order.OrderHandler
	SearchHandler    *handlers.SearchHandler
	TokenService     *token.TokenService
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.AuthHandler.Register)
	v1.POST("/login", d.AuthHandler.Login)
	v1.POST("/logout", d.AuthHandler.LogOut)
	v1.GET("/search", d.SearchHandler.Search)

	products := v1.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/:id", d.ProductHandler.GetProduct)

	admin := v1.Group("/admin", d.TokenService.AutoRefreshMiddlewareAdmin)
	admin.POST("/products", d.ProductHandler.CreateProduct)
	admin.PATCH("/products/:id", d.ProductHandler.PatchProduct)
	admin.DELETE("/products/:id", d.ProductHandler.DeleteProduct)
	admin.GET("/inventory/:productID", d.InventoryHandler.GetInventory)
	admin.PUT("/inventory/:productID", d.InventoryHandler.SetInventory)
	admin.PATCH("/orders/:id/status", d.OrderHandler.UpdateStatus)

	cartGroup := v1.Group("/cart", d.TokenService.AutoRefreshMiddleware)
	cartGroup.GET("", d.CartHandler.GetCart)
	cartGroup.POST("", d.CartHandler.AddToCart)
	cartGroup.POST("/order", d.OrderHandler.Checkout)
	cartGroup.DELETE("", d.CartHandler.ClearCart)
	cartGroup.DELETE("/:id", d.CartHandler.DeleteOneFromCart)

	orders := v1.Group("/orders", d.TokenService.AutoRefreshMiddleware)
	orders.GET("", d.OrderHandler.ListOrders)
}
