package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fatihhtaskesenn/arora-backend/internal/adapters/repository"
	"github.com/fatihhtaskesenn/arora-backend/internal/models"
	"github.com/fatihhtaskesenn/arora-backend/utils"
)

type TaxonomyHandler struct {
	Repo repository.TaxonomyRepository
}

func NewTaxonomyHandler(repo repository.TaxonomyRepository) *TaxonomyHandler {
	return &TaxonomyHandler{Repo: repo}
}

func (h *TaxonomyHandler) GetCategories(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	categories, err := h.Repo.GetCategories(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("failed to fetch categories"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("categories fetched successfully", gin.H{
		"categories": categories,
	}))
}

func (h *TaxonomyHandler) GetSubcategories(c *gin.Context) {
	categoryID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("invalid category id"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	subcategories, err := h.Repo.GetSubcategories(ctx, categoryID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("failed to fetch subcategories"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("subcategories fetched successfully", gin.H{
		"subcategories": subcategories,
	}))
}

// UpsertCategory creates or updates a category keyed by slug. Re-running a
// seed against this endpoint is safe.
func (h *TaxonomyHandler) UpsertCategory(c *gin.Context) {
	var category models.Category
	if err := c.ShouldBindJSON(&category); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid json payload"))
		return
	}
	if err := validate.Struct(category); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse(err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	saved, err := h.Repo.UpsertCategory(ctx, category)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("failed to upsert category"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("category saved successfully", gin.H{
		"category": saved,
	}))
}

func (h *TaxonomyHandler) UpsertSubcategory(c *gin.Context) {
	var sub models.Subcategory
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid json payload"))
		return
	}
	if err := validate.Struct(sub); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse(err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	saved, err := h.Repo.UpsertSubcategory(ctx, sub)
	if err != nil {
		switch err {
		case repository.ErrDepthViolation, repository.ErrParentCategoryMismatch, repository.ErrHasChildren:
			c.JSON(http.StatusUnprocessableEntity, utils.ErrorResponse(err.Error()))
		case repository.ErrParentNotFound:
			c.JSON(http.StatusBadRequest, utils.ErrorResponse(err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, utils.ErrorResponse("failed to upsert subcategory"))
		}
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("subcategory saved successfully", gin.H{
		"subcategory": saved,
	}))
}
