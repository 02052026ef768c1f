package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"pinpost-api/services"
	"pinpost-api/utils"
)

// CommentController manages comment CRUD and the nested-tree read.
type CommentController struct {
	db       *gorm.DB
	comments *services.CommentService
}

// NewCommentController creates a new CommentController instance.
func NewCommentController(db *gorm.DB, comments *services.CommentService) *CommentController {
	return &CommentController{db: db, comments: comments}
}

// CreateComment adds a comment or a reply to a post.
func (c *CommentController) CreateComment(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req services.CreateCommentInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindingError(ctx, err)
		return
	}
	req.Content = utils.Sanitize(strings.TrimSpace(req.Content))
	if req.Content == "" {
		utils.Fail(ctx, http.StatusBadRequest, "content cannot be empty")
		return
	}

	tx := c.db.Begin()
	if tx.Error != nil {
		utils.Fail(ctx, http.StatusInternalServerError, "internal server error")
		return
	}

	comment, err := c.comments.Create(req, userID, tx)
	if err != nil {
		tx.Rollback()
		respondServiceError(ctx, err)
		return
	}
	if err := tx.Commit().Error; err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:comments:post:" + comment.PostID)

	utils.Created(ctx, "comment created", gin.H{"comment": comment})
}

// GetCommentsByPost returns the nested comment tree of a post.
func (c *CommentController) GetCommentsByPost(ctx *gin.Context) {
	postID := ctx.Param("postId")
	if postID == "" {
		utils.Fail(ctx, http.StatusBadRequest, "postId is required")
		return
	}

	cacheKey := "cache:comments:post:" + postID
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	tree, err := c.comments.GetByPostID(postID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	resp := utils.JSONResponse{Success: true, Message: "comments", Data: gin.H{"comments": tree}}
	utils.CacheSetJSON(cacheKey, resp, 0)
	ctx.JSON(http.StatusOK, resp)
}

// GetComment returns one comment with its direct replies.
func (c *CommentController) GetComment(ctx *gin.Context) {
	node, err := c.comments.GetByID(ctx.Param("id"))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	utils.Success(ctx, "comment", gin.H{"comment": node})
}

// UpdateComment edits a comment. Only the author may edit.
func (c *CommentController) UpdateComment(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req services.UpdateCommentInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindingError(ctx, err)
		return
	}
	req.Content = utils.Sanitize(strings.TrimSpace(req.Content))
	if req.Content == "" {
		utils.Fail(ctx, http.StatusBadRequest, "content cannot be empty")
		return
	}

	comment, err := c.comments.Update(ctx.Param("id"), req, userID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:comments:post:" + comment.PostID)

	utils.Success(ctx, "comment updated", gin.H{"comment": comment})
}

// DeleteComment removes a comment. Only the author may delete.
func (c *CommentController) DeleteComment(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	comment, err := c.comments.Delete(ctx.Param("id"), userID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:comments:post:" + comment.PostID)

	utils.Success(ctx, "comment deleted", gin.H{"comment": comment})
}
