package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fatihhtaskesenn/arora-backend/internal/adapters/repository"
	"github.com/fatihhtaskesenn/arora-backend/internal/config"
	"github.com/fatihhtaskesenn/arora-backend/internal/middleware"
)

func SetupRoutes(router *gin.Engine, db *mongo.Database, cfg *config.Config) {
	logrus.Info("Setting up routes...")

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "arora-backend",
		})
	})

	if db == nil {
		logrus.Warn("Database not connected - running with limited functionality")
		router.Any("/api/*path", func(c *gin.Context) {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":   "Database connection not available",
				"message": "The server is running but could not connect to the database. Please check server logs.",
			})
		})
		return
	}

	taxonomyRepo := repository.NewTaxonomyRepository(db)
	productRepo := repository.NewProductRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	authHandler := NewAuthHandler(db, cfg)
	taxonomyHandler := NewTaxonomyHandler(taxonomyRepo)
	productHandler := NewProductHandler(productRepo, taxonomyRepo)
	classificationHandler := NewClassificationHandler(productRepo, taxonomyRepo)
	uploadHandler := NewUploadHandler()
	contactHandler := NewContactHandler(messageRepo)
	dashboardHandler := NewDashboardHandler(db, productRepo)

	// Public Routes
	authGroup := router.Group("/api/v1/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh-token", authHandler.RefreshToken)
	}

	public := router.Group("/api/v1/public")
	{
		public.GET("/categories", taxonomyHandler.GetCategories)
		public.GET("/categories/:id/subcategories", taxonomyHandler.GetSubcategories)
		public.GET("/products", productHandler.FetchProductsPublic)
		public.GET("/products/:id", productHandler.FetchProductPublicById)
		public.POST("/contact", contactHandler.CreateMessage)
	}

	// Protected Routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.AuthMiddleware())
	{
		admin := protected.Group("")
		admin.Use(middleware.RoleMiddleware("admin"))
		{
			// Taxonomy mutation
			admin.POST("/categories", taxonomyHandler.UpsertCategory)
			admin.POST("/subcategories", taxonomyHandler.UpsertSubcategory)

			// Product CRUD
			admin.POST("/products", productHandler.CreateProduct)
			admin.PUT("/products/:id", productHandler.UpdateProduct)
			admin.DELETE("/products/:id", productHandler.DeleteProduct)

			// Classification migration
			admin.POST("/classification/run", classificationHandler.RunClassification)

			// Media
			admin.POST("/upload", uploadHandler.UploadImage)

			// Dashboard
			admin.GET("/dashboard/stats", dashboardHandler.GetStats)

			// Contact messages
			admin.GET("/messages", contactHandler.ListMessages)
			admin.PUT("/messages/:id/read", contactHandler.MarkRead)
		}
	}
}
