package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"gorm.io/gorm"

	"pinpost-api/models"
	"pinpost-api/storage"
	"pinpost-api/utils"
)

// PostService orchestrates post creation: a transactional insert for the post
// row itself, plus a best-effort asynchronous media pipeline whose failures
// are contained and never surface to the author.
type PostService struct {
	db        *gorm.DB
	store     storage.Storage
	users     *UserService
	positions *PositionService

	uploads sync.WaitGroup
}

// NewPostService creates a PostService.
func NewPostService(db *gorm.DB, store storage.Storage, users *UserService, positions *PositionService) *PostService {
	return &PostService{db: db, store: store, users: users, positions: positions}
}

// CreatePostInput carries a new post. AuthorID comes from the authenticated
// request, not the client payload.
type CreatePostInput struct {
	Content    string                `json:"content" binding:"required"`
	LocationID string                `json:"location_id" binding:"required,uuid"`
	Visibility models.PostVisibility `json:"visibility" binding:"required"`
	Rating     *float64              `json:"rating"`
	AuthorID   string                `json:"-"`
}

// MediaFile is one uploaded file, already buffered off the request.
type MediaFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// Pagination describes one page of an offset-paginated listing.
type Pagination struct {
	Page      int   `json:"page"`
	Limit     int   `json:"limit"`
	Total     int64 `json:"total"`
	TotalPage int   `json:"totalPage"`
}

// PagedPosts is a page of posts with its pagination envelope.
type PagedPosts struct {
	Data       []models.Post `json:"data"`
	Pagination Pagination    `json:"pagination"`
}

// Create inserts a post inside the caller-supplied transaction and kicks off
// the media pipeline. The pipeline runs detached with its own transaction; the
// caller never waits on it and never observes its failures. The returned post
// therefore carries no media yet unless the uploads already finished.
func (s *PostService) Create(input CreatePostInput, files []MediaFile, tx *gorm.DB) (*models.Post, error) {
	exists, err := s.users.Exists(input.AuthorID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("author not found: %w", ErrNotFound)
	}

	exists, err = s.positions.Exists(input.LocationID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("location not found: %w", ErrNotFound)
	}

	if !input.Visibility.Valid() {
		return nil, fmt.Errorf("invalid visibility %q: %w", input.Visibility, ErrValidation)
	}

	post := models.Post{
		Content:    input.Content,
		AuthorID:   input.AuthorID,
		Visibility: input.Visibility,
		LocationID: input.LocationID,
		Rating:     input.Rating,
	}
	if err := tx.Create(&post).Error; err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	if len(files) > 0 {
		s.uploads.Add(1)
		go func(postID, locationID string, files []MediaFile) {
			defer s.uploads.Done()
			defer func() {
				if r := recover(); r != nil {
					utils.Sugar.Errorw("media pipeline panicked", "post_id", postID, "panic", r)
				}
			}()
			s.processMediaUploads(postID, locationID, files)
		}(post.ID, post.LocationID, files)
	}

	var created models.Post
	if err := tx.Preload("Medias").First(&created, "id = ?", post.ID).Error; err != nil {
		return nil, fmt.Errorf("reload post: %w", err)
	}
	return &created, nil
}

// processMediaUploads classifies, uploads, and records the media batch of one
// post. It opens its own transaction on the root DB handle; every failure is
// logged with the post id and contained here.
func (s *PostService) processMediaUploads(postID, locationID string, files []MediaFile) {
	ctx := context.Background()

	type pending struct {
		order int
		kind  models.MediaType
		file  MediaFile
	}
	valid := make([]pending, 0, len(files))
	for i, f := range files {
		kind, ok := classifyMedia(f.ContentType)
		if !ok {
			utils.Sugar.Errorw("unsupported media type, skipping file",
				"post_id", postID, "file", f.Name, "content_type", f.ContentType)
			continue
		}
		valid = append(valid, pending{order: i, kind: kind, file: f})
	}
	if len(valid) == 0 {
		return
	}

	folder, err := s.store.CreateFolder(ctx, postID)
	if err != nil {
		utils.Sugar.Errorw("create media folder failed", "post_id", postID, "error", err)
		return
	}

	uploads := make([]storage.Upload, 0, len(valid))
	for _, p := range valid {
		uploads = append(uploads, storage.Upload{
			Name:        p.file.Name,
			ContentType: p.file.ContentType,
			Content:     bytes.NewReader(p.file.Data),
		})
	}

	uploaded, err := s.store.UploadMany(ctx, uploads, folder.ID)
	if err != nil {
		utils.Sugar.Errorw("media upload failed", "post_id", postID, "error", err)
		// Record whatever did make it before the failure.
		if len(uploaded) == 0 {
			return
		}
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		utils.Sugar.Errorw("open media transaction failed", "post_id", postID, "error", tx.Error)
		return
	}
	for i, f := range uploaded {
		media := models.Media{
			PostID:     &postID,
			LocationID: locationID,
			OwnerType:  models.MediaOwnerPost,
			Type:       valid[i].kind,
			URL:        storage.ViewURL(f),
			Order:      valid[i].order,
			FolderPath: folder.ID,
		}
		if err := tx.Create(&media).Error; err != nil {
			tx.Rollback()
			utils.Sugar.Errorw("record media failed", "post_id", postID, "file", f.Name, "error", err)
			return
		}
	}
	if err := tx.Commit().Error; err != nil {
		utils.Sugar.Errorw("commit media transaction failed", "post_id", postID, "error", err)
		return
	}

	// Responses cached while the upload was in flight carry no media.
	utils.InvalidateByPrefix("cache:post:" + postID)
	utils.InvalidateByPrefix("cache:posts:")
	utils.InvalidateByPrefix("cache:position:" + locationID)
}

// classifyMedia maps a MIME type onto the media kind by prefix.
func classifyMedia(contentType string) (models.MediaType, bool) {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return models.MediaTypeImage, true
	case strings.HasPrefix(contentType, "video/"):
		return models.MediaTypeVideo, true
	}
	return "", false
}

// DrainUploads blocks until all in-flight media pipelines finish or the
// context is done. Used on graceful shutdown and by tests.
func (s *PostService) DrainUploads(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		s.uploads.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		utils.Sugar.Warnw("shutdown before media uploads finished", "error", ctx.Err())
	}
}

// GetByID returns one post with its media and location preloaded.
func (s *PostService) GetByID(id string) (*models.Post, error) {
	var post models.Post
	if err := s.db.
		Preload("Medias", func(db *gorm.DB) *gorm.DB { return db.Order("display_order ASC") }).
		Preload("Location").
		Preload("Author").
		First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("post not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("load post: %w", err)
	}
	return &post, nil
}

// GetAll returns one page of all posts, newest first.
func (s *PostService) GetAll(page, limit int) (*PagedPosts, error) {
	return s.pagedPosts(s.db.Model(&models.Post{}), page, limit)
}

// GetByPositionID returns one page of the posts attached to a position,
// newest first.
func (s *PostService) GetByPositionID(positionID string, page, limit int) (*PagedPosts, error) {
	query := s.db.Model(&models.Post{}).Where("location_id = ?", positionID)
	return s.pagedPosts(query, page, limit)
}

func (s *PostService) pagedPosts(query *gorm.DB, page, limit int) (*PagedPosts, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}

	var posts []models.Post
	if err := query.Session(&gorm.Session{}).
		Preload("Medias", func(db *gorm.DB) *gorm.DB { return db.Order("display_order ASC") }).
		Preload("Location").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	return &PagedPosts{
		Data: posts,
		Pagination: Pagination{
			Page:      page,
			Limit:     limit,
			Total:     total,
			TotalPage: int(math.Ceil(float64(total) / float64(limit))),
		},
	}, nil
}
