package controllers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"pinpost-api/config"
	"pinpost-api/services"
	"pinpost-api/utils"
)

// allowedMediaTypes is the upload whitelist. Anything else is rejected before
// the post is created.
var allowedMediaTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"video/mp4":       true,
	"video/quicktime": true,
	"video/webm":      true,
}

// PostController manages post creation and listing.
type PostController struct {
	db    *gorm.DB
	posts *services.PostService
}

// NewPostController creates a new PostController instance.
func NewPostController(db *gorm.DB, posts *services.PostService) *PostController {
	return &PostController{db: db, posts: posts}
}

// CreatePost accepts a multipart form: a "data" field holding the post JSON
// and zero or more "media" file parts. The post row is committed before the
// handler returns; media uploads continue in the background.
func (p *PostController) CreatePost(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	cfg := config.Get()
	maxBytes := int64(cfg.MaxUploadSizeMB) << 20

	form, err := ctx.MultipartForm()
	if err != nil {
		utils.Fail(ctx, http.StatusBadRequest, "invalid multipart form")
		return
	}

	data := ctx.PostForm("data")
	if data == "" {
		utils.Fail(ctx, http.StatusBadRequest, "missing data field")
		return
	}

	var req services.CreatePostInput
	if err := json.Unmarshal([]byte(data), &req); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, "invalid post payload")
		return
	}
	req.AuthorID = userID
	req.Content = utils.Sanitize(strings.TrimSpace(req.Content))
	if req.Content == "" {
		utils.Fail(ctx, http.StatusBadRequest, "content cannot be empty")
		return
	}
	if req.LocationID == "" {
		utils.Fail(ctx, http.StatusBadRequest, "location_id is required")
		return
	}
	if req.Visibility == "" {
		utils.Fail(ctx, http.StatusBadRequest, "visibility is required")
		return
	}

	var files []services.MediaFile
	for _, header := range form.File["media"] {
		if header.Size > maxBytes {
			utils.Fail(ctx, http.StatusBadRequest,
				fmt.Sprintf("file %s exceeds the %dMB limit", header.Filename, cfg.MaxUploadSizeMB))
			return
		}
		contentType := header.Header.Get("Content-Type")
		if !allowedMediaTypes[contentType] {
			utils.Fail(ctx, http.StatusBadRequest,
				fmt.Sprintf("unsupported file type %s for %s", contentType, header.Filename))
			return
		}

		f, err := header.Open()
		if err != nil {
			utils.Fail(ctx, http.StatusBadRequest, "unable to read uploaded file")
			return
		}
		buf, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
		f.Close()
		if err != nil {
			utils.Fail(ctx, http.StatusBadRequest, "unable to read uploaded file")
			return
		}
		if int64(len(buf)) > maxBytes {
			utils.Fail(ctx, http.StatusBadRequest,
				fmt.Sprintf("file %s exceeds the %dMB limit", header.Filename, cfg.MaxUploadSizeMB))
			return
		}
		files = append(files, services.MediaFile{
			Name:        header.Filename,
			ContentType: contentType,
			Data:        buf,
		})
	}

	tx := p.db.Begin()
	if tx.Error != nil {
		utils.Fail(ctx, http.StatusInternalServerError, "internal server error")
		return
	}

	post, err := p.posts.Create(req, files, tx)
	if err != nil {
		tx.Rollback()
		respondServiceError(ctx, err)
		return
	}
	if err := tx.Commit().Error; err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:posts:")
	utils.InvalidateByPrefix("cache:position:" + post.LocationID)

	utils.Created(ctx, "post created", gin.H{"post": post})
}

// GetPost returns one post with its media and location.
func (p *PostController) GetPost(ctx *gin.Context) {
	id := ctx.Param("id")

	cacheKey := "cache:post:" + id
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	post, err := p.posts.GetByID(id)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	resp := utils.JSONResponse{Success: true, Message: "post", Data: gin.H{"post": post}}
	utils.CacheSetJSON(cacheKey, resp, 0)
	ctx.JSON(http.StatusOK, resp)
}

// ListPosts returns one page of all posts, newest first.
func (p *PostController) ListPosts(ctx *gin.Context) {
	page, limit := parsePagination(ctx.Query("page"), ctx.Query("limit"))

	cacheKey := fmt.Sprintf("cache:posts:list:page=%d:limit=%d", page, limit)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	result, err := p.posts.GetAll(page, limit)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	resp := utils.JSONResponse{Success: true, Message: "posts", Data: result}
	utils.CacheSetJSON(cacheKey, resp, 0)
	ctx.JSON(http.StatusOK, resp)
}

// ListPostsByPosition returns one page of the posts attached to a position.
func (p *PostController) ListPostsByPosition(ctx *gin.Context) {
	positionID := ctx.Query("positionId")
	if positionID == "" {
		utils.Fail(ctx, http.StatusBadRequest, "positionId is required")
		return
	}
	page, limit := parsePagination(ctx.Query("page"), ctx.Query("limit"))

	cacheKey := fmt.Sprintf("cache:posts:position=%s:page=%d:limit=%d", positionID, page, limit)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	result, err := p.posts.GetByPositionID(positionID, page, limit)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	resp := utils.JSONResponse{Success: true, Message: "posts", Data: result}
	utils.CacheSetJSON(cacheKey, resp, 0)
	ctx.JSON(http.StatusOK, resp)
}
