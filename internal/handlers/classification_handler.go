package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/fatihhtaskesenn/arora-backend/internal/adapters/repository"
	"github.com/fatihhtaskesenn/arora-backend/internal/services/classification"
	"github.com/fatihhtaskesenn/arora-backend/utils"
)

type ClassificationHandler struct {
	Products repository.ProductRepository
	Taxonomy repository.TaxonomyRepository
}

func NewClassificationHandler(products repository.ProductRepository, taxonomy repository.TaxonomyRepository) *ClassificationHandler {
	return &ClassificationHandler{Products: products, Taxonomy: taxonomy}
}

type runClassificationInput struct {
	Force bool `json:"force"`
}

// RunClassification executes a bulk classification run over the whole product
// set using the built-in rules. The run is idempotent and repeatable; the
// response carries the full operator report. Nothing protects against a
// concurrent second run — operators serialize invocations.
func (h *ClassificationHandler) RunClassification(c *gin.Context) {
	var input runClassificationInput
	// An empty body means a default (no-force) run.
	_ = c.ShouldBindJSON(&input)

	// Batch work over the full product set gets a generous timeout.
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Minute)
	defer cancel()

	index, err := h.Taxonomy.ResolveIndex(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("failed to resolve taxonomy"))
		return
	}

	products, err := h.Products.ListAll(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("failed to load products"))
		return
	}

	log.WithFields(log.Fields{"products": len(products), "force": input.Force}).Info("starting classification run")

	engine := classification.NewEngine(index, h.Products)
	report := engine.Run(ctx, products, classification.DefaultRules(), classification.RunOptions{Force: input.Force})
	report.Log()

	c.JSON(http.StatusOK, utils.SuccessResponse("classification run finished", gin.H{
		"report": report,
	}))
}
