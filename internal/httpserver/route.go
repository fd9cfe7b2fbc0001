package httpserver

import (
	"github.com/labstack/echo/v4"

	middleware "github.com/Skotchmaster/store_manager/pkg/middleware/auth"
)

type Deps struct {
	OrderHandler  *OrderHTTP
	ReportHandler *ReportHTTP
	HealthHandler *HealthHTTP
	JWTSecret     []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.Renderer = NewRenderer()

	e.GET("/health/live", d.HealthHandler.Live)
	e.GET("/health/ready", d.HealthHandler.Ready)

	adminMW := middleware.NewAdminMiddleware(d.JWTSecret)

	orders := e.Group("/orders")
	orders.POST("", d.OrderHandler.CreateOrder)
	orders.GET("", d.OrderHandler.ListOrders)
	orders.GET("/:id", d.OrderHandler.GetOrder)

	admin := orders.Group("", adminMW.RequireAdmin)
	admin.DELETE("/:id", d.OrderHandler.DeleteOrder)
	admin.POST("/sync", d.OrderHandler.SyncOrders)

	reports := e.Group("/reports")
	reports.GET("/highest-spenders", d.ReportHandler.HighestSpendersPage)
	reports.GET("/best-sellers", d.ReportHandler.BestSellersPage)

	api := e.Group("/api/reports")
	api.GET("/highest-spenders", d.ReportHandler.HighestSpenders)
	api.GET("/best-sellers", d.ReportHandler.BestSellers)
}
