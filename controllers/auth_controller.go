package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"pinpost-api/services"
	"pinpost-api/utils"
)

const tokenLifetime = 24 * time.Hour

// AuthController handles registration, login, and the current-user lookup.
type AuthController struct {
	db    *gorm.DB
	users *services.UserService
}

// NewAuthController creates a new AuthController instance.
func NewAuthController(db *gorm.DB, users *services.UserService) *AuthController {
	return &AuthController{db: db, users: users}
}

// Register creates a new account and returns it with a signed token.
func (a *AuthController) Register(ctx *gin.Context) {
	var req services.RegisterInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindingError(ctx, err)
		return
	}
	req.DisplayName = utils.Sanitize(req.DisplayName)

	tx := a.db.Begin()
	if tx.Error != nil {
		utils.Fail(ctx, http.StatusInternalServerError, "internal server error")
		return
	}

	user, err := a.users.Register(req, tx)
	if err != nil {
		tx.Rollback()
		respondServiceError(ctx, err)
		return
	}
	if err := tx.Commit().Error; err != nil {
		respondServiceError(ctx, err)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Email, tokenLifetime)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.Created(ctx, "user registered", gin.H{"user": user, "token": token})
}

// Login verifies credentials and returns a signed token.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindingError(ctx, err)
		return
	}

	user, err := a.users.Authenticate(req.Email, req.Password)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Email, tokenLifetime)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.Success(ctx, "login successful", gin.H{"user": user, "token": token})
}

// Me returns the authenticated account.
func (a *AuthController) Me(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := a.users.GetByID(userID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, "current user", gin.H{"user": user})
}
