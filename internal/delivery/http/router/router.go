// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"cafe/internal/delivery/http/middleware"
	"cafe/internal/delivery/http/router/handler"
	"cafe/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	UserHandler     *handler.UserHandler
	CatalogHandler  *handler.CatalogHandler
	OrderHandler    *handler.OrderHandler
	FavoriteHandler *handler.FavoriteHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	userHandler     *handler.UserHandler
	catalogHandler  *handler.CatalogHandler
	orderHandler    *handler.OrderHandler
	favoriteHandler *handler.FavoriteHandler
	authMiddleware  *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		userHandler:     params.UserHandler,
		catalogHandler:  params.CatalogHandler,
		orderHandler:    params.OrderHandler,
		favoriteHandler: params.FavoriteHandler,
		authMiddleware:  params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.userHandler.Register)
		authGroup.POST("/login", r.userHandler.Login)
	}

	// Public catalog routes, no authentication required
	e.GET("/categories", r.catalogHandler.ListCategories)
	e.GET("/categories/:id", r.catalogHandler.GetCategory)
	e.GET("/products", r.catalogHandler.ListProducts)
	e.GET("/products/:id", r.catalogHandler.GetProduct)

	// Routes for the authenticated user's own account
	meGroup := e.Group("/me")
	meGroup.Use(r.authMiddleware.Authenticate)
	{
		meGroup.GET("", r.userHandler.GetMe)
		meGroup.PATCH("", r.userHandler.UpdateMe)
		meGroup.GET("/favorites", r.favoriteHandler.ListFavorites)
		meGroup.POST("/favorites/:productId", r.favoriteHandler.AddFavorite)
		meGroup.DELETE("/favorites/:productId", r.favoriteHandler.RemoveFavorite)
		meGroup.GET("/orders", r.orderHandler.ListMyOrders)
	}

	// Order routes for authenticated users. Ownership checks live in the
	// usecase so admins reach other users' orders through the same routes.
	orderGroup := e.Group("/orders")
	orderGroup.Use(r.authMiddleware.Authenticate)
	{
		orderGroup.POST("", r.orderHandler.CreateOrder)
		orderGroup.GET("/:id", r.orderHandler.GetOrder)
		orderGroup.GET("/:id/qrcode", r.orderHandler.GetPickupQR)
	}

	// Account deletion: owners delete themselves, admins delete anyone.
	// The usecase enforces who may act on whom.
	userGroup := e.Group("/users")
	userGroup.Use(r.authMiddleware.Authenticate)
	{
		userGroup.DELETE("/:id", r.userHandler.DeleteUser)
	}

	// Admin routes that require authentication and the "admin" role
	adminGroup := e.Group("/admin")
	adminGroup.Use(r.authMiddleware.Authenticate)
	adminGroup.Use(r.authMiddleware.RequireRole(entity.RoleAdmin.String()))
	{
		adminGroup.POST("/categories", r.catalogHandler.CreateCategory)
		adminGroup.PUT("/categories/:id", r.catalogHandler.UpdateCategory)
		adminGroup.DELETE("/categories/:id", r.catalogHandler.DeleteCategory)

		adminGroup.GET("/products", r.catalogHandler.ListAllProducts)
		adminGroup.POST("/products", r.catalogHandler.CreateProduct)
		adminGroup.PUT("/products/:id", r.catalogHandler.UpdateProduct)
		adminGroup.DELETE("/products/:id", r.catalogHandler.DeleteProduct)
		adminGroup.POST("/products/:id/images", r.catalogHandler.UploadImage)
		adminGroup.DELETE("/images/:id", r.catalogHandler.DeleteImage)

		adminGroup.GET("/orders", r.orderHandler.ListOrders)
		adminGroup.PATCH("/orders/:id/status", r.orderHandler.UpdateOrderStatus)
		adminGroup.DELETE("/orders/:id", r.orderHandler.DeleteOrder)

		adminGroup.GET("/users", r.userHandler.ListUsers)
		adminGroup.GET("/users/:id", r.userHandler.GetUser)
		adminGroup.PATCH("/users/:id", r.userHandler.UpdateUser)
	}
}
