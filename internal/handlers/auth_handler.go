package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fatihhtaskesenn/arora-backend/internal/config"
	"github.com/fatihhtaskesenn/arora-backend/internal/models"
	"github.com/fatihhtaskesenn/arora-backend/utils"
)

// AuthHandler authenticates operators of the admin panel. Storefront visitors
// never authenticate; identity exists only to gate taxonomy mutation and
// classification runs.
type AuthHandler struct {
	DB  *mongo.Database
	Cfg *config.Config
}

func NewAuthHandler(db *mongo.Database, cfg *config.Config) *AuthHandler {
	return &AuthHandler{DB: db, Cfg: cfg}
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input loginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid json payload"))
		return
	}
	if err := validate.Struct(input); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid json payload"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	var user models.User
	err := h.DB.Collection("users").FindOne(ctx, bson.M{"email": input.Email}).Decode(&user)
	if err != nil || !utils.CheckPassword(user.PasswordHash, input.Password) {
		c.JSON(http.StatusUnauthorized, utils.ErrorResponse("invalid email or password"))
		return
	}

	accessTTL := time.Duration(h.Cfg.Auth.AccessTTLMinutes) * time.Minute
	refreshTTL := time.Duration(h.Cfg.Auth.RefreshTTLMinutes) * time.Minute

	accessToken, err := utils.GenerateToken(user.ID.Hex(), user.Role, accessTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("failed to issue token"))
		return
	}
	refreshToken, err := utils.GenerateToken(user.ID.Hex(), user.Role, refreshTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("failed to issue token"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("login successful", gin.H{
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"role":  user.Role,
		},
	}))
}

type refreshInput struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var input refreshInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid json payload"))
		return
	}

	claims, err := utils.VerifyToken(input.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utils.ErrorResponse(err.Error()))
		return
	}

	accessTTL := time.Duration(h.Cfg.Auth.AccessTTLMinutes) * time.Minute
	accessToken, err := utils.GenerateToken(claims.UserID, claims.Role, accessTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("failed to issue token"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("token refreshed", gin.H{
		"accessToken": accessToken,
	}))
}
