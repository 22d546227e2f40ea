package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fatihhtaskesenn/arora-backend/internal/adapters/repository"
	"github.com/fatihhtaskesenn/arora-backend/internal/models"
	"github.com/fatihhtaskesenn/arora-backend/internal/services/filternav"
	"github.com/fatihhtaskesenn/arora-backend/internal/services/normalizer"
	"github.com/fatihhtaskesenn/arora-backend/utils"
)

type ProductHandler struct {
	Repo     repository.ProductRepository
	Taxonomy repository.TaxonomyRepository
}

func NewProductHandler(repo repository.ProductRepository, taxonomy repository.TaxonomyRepository) *ProductHandler {
	return &ProductHandler{Repo: repo, Taxonomy: taxonomy}
}

// checkSubcategoryOwnership rejects a subcategory reference outside the
// product's own category.
func (h *ProductHandler) checkSubcategoryOwnership(c *gin.Context, categoryID primitive.ObjectID, subID *primitive.ObjectID) bool {
	if subID == nil || categoryID.IsZero() {
		return true
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	ok, err := h.Taxonomy.SubcategoryBelongsTo(ctx, *subID, categoryID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("failed to verify subcategory"))
		return false
	}
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, utils.ErrorResponse("subcategory does not belong to the given category"))
		return false
	}
	return true
}

// FetchProductsPublic serves the storefront listing. The category and
// subcategory query params carry the committed navigation filter.
func (h *ProductHandler) FetchProductsPublic(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "12"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if limit <= 0 {
		limit = 12
	}
	if page <= 0 {
		page = 1
	}
	skip := (page - 1) * limit

	navFilter := filternav.Filter{
		Category:    c.Query("category"),
		Subcategory: c.Query("subcategory"),
	}
	filter := buildProductFilter(navFilter, c.Query("query"))

	products, total, err := h.Repo.FetchProductsPublic(ctx, filter, limit, skip)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("failed to fetch products"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("products fetched successfully", gin.H{
		"products": toProductViews(products),
		"total":    total,
	}))
}

func (h *ProductHandler) FetchProductPublicById(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("invalid product id"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	product, err := h.Repo.GetProduct(ctx, bson.M{"_id": id})
	if err != nil {
		c.JSON(http.StatusNotFound, utils.ErrorResponse("product not found"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("product fetched successfully", gin.H{
		"product": toProductView(product),
	}))
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var input models.CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid json body"))
		return
	}
	if err := validate.Struct(input); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse(err.Error()))
		return
	}

	if !h.checkSubcategoryOwnership(c, input.CategoryID, input.SubcategoryID) {
		return
	}

	// Inbound images are normalized before storage so new records always
	// carry the canonical shape regardless of what the client sent.
	normalized := normalizer.Normalize(input.Images, "")

	product := models.Product{
		Name:          input.Name,
		Description:   input.Description,
		CategoryID:    input.CategoryID,
		SubcategoryID: input.SubcategoryID,
		ImagesRaw:     normalized.Images,
		Stock:         input.Stock,
		InStock:       input.InStock,
		Badge:         input.Badge,
		Features:      input.Features,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	created, err := h.Repo.CreateProduct(ctx, product)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to create product"))
		return
	}

	c.JSON(http.StatusCreated, utils.SuccessResponse("Product created successfully", gin.H{
		"product": toProductView(created),
	}))
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("invalid product id"))
		return
	}

	var input models.UpdateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid json body"))
		return
	}
	if !h.checkSubcategoryOwnership(c, input.CategoryID, input.SubcategoryID) {
		return
	}
	input.Images = normalizer.Normalize(input.Images, "").Images

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	matched, err := h.Repo.UpdateProduct(ctx, id, input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to update product"))
		return
	}
	if !matched {
		c.JSON(http.StatusNotFound, utils.ErrorResponse("product not found"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Product updated successfully", nil))
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("invalid product id"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.Repo.DeleteProduct(ctx, id); err != nil {
		c.JSON(http.StatusNotFound, utils.ErrorResponse("product not found"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Product deleted successfully", nil))
}
