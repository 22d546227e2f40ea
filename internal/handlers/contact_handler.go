package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fatihhtaskesenn/arora-backend/internal/adapters/repository"
	"github.com/fatihhtaskesenn/arora-backend/internal/models"
	"github.com/fatihhtaskesenn/arora-backend/utils"
)

type ContactHandler struct {
	Repo repository.MessageRepository
}

func NewContactHandler(repo repository.MessageRepository) *ContactHandler {
	return &ContactHandler{Repo: repo}
}

func (h *ContactHandler) CreateMessage(c *gin.Context) {
	var message models.Message
	if err := c.ShouldBindJSON(&message); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid json payload"))
		return
	}
	if err := validate.Struct(message); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse(err.Error()))
		return
	}
	message.Read = false

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	created, err := h.Repo.CreateMessage(ctx, message)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("failed to save message"))
		return
	}

	c.JSON(http.StatusCreated, utils.SuccessResponse("message received", gin.H{
		"id": created.ID,
	}))
}

func (h *ContactHandler) ListMessages(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if limit <= 0 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	messages, total, err := h.Repo.ListMessages(ctx, limit, (page-1)*limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("failed to fetch messages"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("messages fetched successfully", gin.H{
		"messages": messages,
		"total":    total,
	}))
}

func (h *ContactHandler) MarkRead(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("invalid message id"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.Repo.MarkRead(ctx, id); err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("failed to mark message as read"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("message marked as read", nil))
}
