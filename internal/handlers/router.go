package handlers

import (
	"context"
	"net/http"
	"time"

	"canteen_manager/internal/metrics"
	"canteen_manager/internal/middleware"
	"canteen_manager/internal/models"
	"canteen_manager/internal/services"

	"github.com/gin-gonic/gin"
)

type Deps struct {
	Users     services.UserService
	Canteens  services.CanteenService
	Menu      services.MenuService
	Orders    services.OrderService
	Inventory services.InventoryService
	Expenses  services.ExpenseService
	Sales     services.SalesService
	Metrics   *metrics.Metrics
	// Health reports whether the backing stores are reachable; nil means always healthy.
	Health func(ctx context.Context) error
}

func NewRouter(d Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())
	if d.Metrics != nil {
		router.Use(middleware.Metrics(d.Metrics))
		router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}
	router.GET("/health", healthHandler(d.Health))

	authH := NewAuthHandler(d.Users)
	userH := NewUserHandler(d.Users)
	canteenH := NewCanteenHandler(d.Canteens, d.Orders)
	menuH := NewMenuHandler(d.Menu)
	orderH := NewOrderHandler(d.Orders)
	inventoryH := NewInventoryHandler(d.Inventory)
	financialH := NewFinancialHandler(d.Expenses, d.Sales)

	api := router.Group("/api")
	api.POST("/auth/register", authH.Register)
	api.POST("/auth/login", authH.Login)

	authed := api.Group("")
	authed.Use(middleware.RequireAuth(d.Users))
	{
		authed.POST("/auth/logout", authH.Logout)
		authed.GET("/auth/me", authH.Me)

		authed.GET("/canteens", canteenH.List)
		authed.GET("/canteens/:id", canteenH.Get)
		authed.GET("/canteens/:id/rating", canteenH.Rating)

		authed.GET("/menu", menuH.List)
		authed.GET("/menu/:id", menuH.Get)

		authed.POST("/orders", orderH.Place)
		authed.GET("/orders", orderH.List)
		authed.GET("/orders/:id", orderH.Get)
		authed.PATCH("/orders/:id/status", orderH.UpdateStatus)
		authed.POST("/orders/:id/rating", orderH.Rate)
		authed.GET("/orders/:id/rating", orderH.GetRating)
		authed.GET("/ratings", orderH.ListRatings)
	}

	customer := authed.Group("/orders/:id", middleware.RequireRole(models.RoleCustomer))
	{
		customer.POST("/cancel", orderH.Cancel)
		customer.POST("/complete", orderH.Complete)
		customer.POST("/reorder", orderH.Reorder)
	}

	staff := authed.Group("", middleware.RequireRole(models.RoleStaff))
	{
		staff.POST("/menu", menuH.Create)
		staff.PUT("/menu/:id", menuH.Update)
		staff.PATCH("/menu/:id/availability", menuH.SetAvailability)
		staff.DELETE("/menu/:id", menuH.Delete)

		staff.GET("/inventory", inventoryH.List)
		staff.POST("/inventory", inventoryH.Create)
		staff.GET("/inventory/low-stock", inventoryH.LowStock)
		staff.GET("/inventory/:id", inventoryH.Get)
		staff.PUT("/inventory/:id", inventoryH.Update)
		staff.DELETE("/inventory/:id", inventoryH.Delete)
		staff.POST("/inventory/:id/adjust", inventoryH.Adjust)

		staff.GET("/expenses", financialH.ListExpenses)
		staff.POST("/expenses", financialH.CreateExpense)
		staff.GET("/expenses/:id", financialH.GetExpense)
		staff.PUT("/expenses/:id", financialH.UpdateExpense)
		staff.DELETE("/expenses/:id", financialH.DeleteExpense)

		staff.GET("/sales-reports", financialH.ListReports)
		staff.POST("/sales-reports", financialH.UpsertReport)
		staff.POST("/sales-reports/generate", financialH.GenerateReport)
		staff.GET("/sales-reports/:id", financialH.GetReport)
		staff.DELETE("/sales-reports/:id", financialH.DeleteReport)
	}

	admin := authed.Group("", middleware.RequireRole(models.RoleAdmin))
	{
		admin.POST("/canteens", canteenH.Create)
		admin.PUT("/canteens/:id", canteenH.Update)
		admin.DELETE("/canteens/:id", canteenH.Delete)

		admin.GET("/users", userH.List)
		admin.POST("/users", userH.Create)
		admin.GET("/users/:id", userH.Get)
		admin.PUT("/users/:id", userH.Update)
		admin.DELETE("/users/:id", userH.Delete)
	}

	return router
}

func healthHandler(check func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
