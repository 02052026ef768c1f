package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"pinpost-api/services"
	"pinpost-api/utils"
)

// PositionController manages named geographic locations.
type PositionController struct {
	db        *gorm.DB
	positions *services.PositionService
}

// NewPositionController creates a new PositionController instance.
func NewPositionController(db *gorm.DB, positions *services.PositionService) *PositionController {
	return &PositionController{db: db, positions: positions}
}

// CreatePosition registers a new location.
func (p *PositionController) CreatePosition(ctx *gin.Context) {
	if _, ok := getUserID(ctx); !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req services.CreatePositionInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindingError(ctx, err)
		return
	}
	req.Name = utils.Sanitize(strings.TrimSpace(req.Name))
	if req.Name == "" {
		utils.Fail(ctx, http.StatusBadRequest, "name cannot be empty")
		return
	}
	req.Address = utils.Sanitize(req.Address)
	req.Description = utils.Sanitize(req.Description)

	tx := p.db.Begin()
	if tx.Error != nil {
		utils.Fail(ctx, http.StatusInternalServerError, "internal server error")
		return
	}

	position, err := p.positions.Create(req, tx)
	if err != nil {
		tx.Rollback()
		respondServiceError(ctx, err)
		return
	}
	if err := tx.Commit().Error; err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:positions:")

	utils.Created(ctx, "position created", gin.H{"position": position})
}

// ListPositions returns one page of all locations, newest first.
func (p *PositionController) ListPositions(ctx *gin.Context) {
	page, limit := parsePagination(ctx.Query("page"), ctx.Query("limit"))

	cacheKey := fmt.Sprintf("cache:positions:list:page=%d:limit=%d", page, limit)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	result, err := p.positions.GetAll(page, limit)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	resp := utils.JSONResponse{Success: true, Message: "positions", Data: result}
	utils.CacheSetJSON(cacheKey, resp, 0)
	ctx.JSON(http.StatusOK, resp)
}

// GetPosition returns one location with its attached media.
func (p *PositionController) GetPosition(ctx *gin.Context) {
	id := ctx.Param("id")

	cacheKey := "cache:position:" + id
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	position, err := p.positions.GetByID(id)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	resp := utils.JSONResponse{Success: true, Message: "position", Data: gin.H{"position": position}}
	utils.CacheSetJSON(cacheKey, resp, 0)
	ctx.JSON(http.StatusOK, resp)
}

// DeletePosition removes a location.
func (p *PositionController) DeletePosition(ctx *gin.Context) {
	if _, ok := getUserID(ctx); !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	tx := p.db.Begin()
	if tx.Error != nil {
		utils.Fail(ctx, http.StatusInternalServerError, "internal server error")
		return
	}

	position, err := p.positions.Delete(ctx.Param("id"), tx)
	if err != nil {
		tx.Rollback()
		respondServiceError(ctx, err)
		return
	}
	if err := tx.Commit().Error; err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:position:" + position.ID)
	utils.InvalidateByPrefix("cache:positions:")
	utils.InvalidateByPrefix("cache:posts:")

	utils.Success(ctx, "position deleted", gin.H{"position": position})
}
