package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fatihhtaskesenn/arora-backend/internal/adapters/repository"
	"github.com/fatihhtaskesenn/arora-backend/utils"
)

type DashboardHandler struct {
	DB       *mongo.Database
	Products repository.ProductRepository
}

func NewDashboardHandler(db *mongo.Database, products repository.ProductRepository) *DashboardHandler {
	return &DashboardHandler{DB: db, Products: products}
}

// GetStats serves the admin dashboard counters.
func (h *DashboardHandler) GetStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	totalProducts, err := h.Products.Count(ctx, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to fetch stats"))
		return
	}
	outOfStock, err := h.Products.Count(ctx, bson.M{"inStock": false})
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to fetch stats"))
		return
	}
	unclassified, err := h.Products.Count(ctx, bson.M{"categoryId": bson.M{"$exists": false}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to fetch stats"))
		return
	}
	totalCategories, err := h.DB.Collection("categories").CountDocuments(ctx, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to fetch stats"))
		return
	}
	unreadMessages, err := h.DB.Collection("messages").CountDocuments(ctx, bson.M{"read": false})
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to fetch stats"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Stats fetched successfully", gin.H{
		"stats": gin.H{
			"totalProducts":   totalProducts,
			"outOfStock":      outOfStock,
			"unclassified":    unclassified,
			"totalCategories": totalCategories,
			"unreadMessages":  unreadMessages,
		},
	}))
}
