package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"pinpost-api/models"
)

// CommentService implements comment CRUD with ownership checks and the
// nested-tree read model.
type CommentService struct {
	db *gorm.DB
}

// NewCommentService creates a CommentService.
func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

// CreateCommentInput carries a new comment. ParentID is nil for top-level
// comments.
type CreateCommentInput struct {
	Content  string  `json:"content" binding:"required"`
	PostID   string  `json:"post_id" binding:"required,uuid"`
	ParentID *string `json:"parent_id" binding:"omitempty,uuid"`
}

// UpdateCommentInput carries a content edit.
type UpdateCommentInput struct {
	Content string `json:"content" binding:"required"`
}

// Create inserts a comment inside the caller-supplied transaction and returns
// it with the author preloaded.
func (s *CommentService) Create(input CreateCommentInput, authorID string, tx *gorm.DB) (*models.Comment, error) {
	var post models.Post
	if err := tx.Select("id").First(&post, "id = ?", input.PostID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("post not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("load post: %w", err)
	}

	comment := models.Comment{
		Content:  input.Content,
		PostID:   input.PostID,
		AuthorID: authorID,
		ParentID: input.ParentID,
	}
	if err := tx.Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	var created models.Comment
	if err := tx.Preload("Author").First(&created, "id = ?", comment.ID).Error; err != nil {
		return nil, fmt.Errorf("reload comment: %w", err)
	}
	return &created, nil
}

// GetByPostID returns the comment forest of a post: all comments fetched flat,
// ordered by creation time ascending, then nested via BuildCommentTree.
func (s *CommentService) GetByPostID(postID string) ([]*models.CommentNode, error) {
	var comments []models.Comment
	if err := s.db.Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("load comments: %w", err)
	}
	return BuildCommentTree(comments), nil
}

// GetByID returns one comment with its direct replies attached.
func (s *CommentService) GetByID(id string) (*models.CommentNode, error) {
	var comment models.Comment
	if err := s.db.Preload("Author").First(&comment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("comment not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("load comment: %w", err)
	}

	var children []models.Comment
	if err := s.db.Preload("Author").
		Where("parent_id = ?", id).
		Order("created_at ASC").
		Find(&children).Error; err != nil {
		return nil, fmt.Errorf("load replies: %w", err)
	}

	node := &models.CommentNode{Comment: comment, ChildComments: make([]*models.CommentNode, 0, len(children))}
	for _, child := range children {
		node.ChildComments = append(node.ChildComments, &models.CommentNode{
			Comment:       child,
			ChildComments: []*models.CommentNode{},
		})
	}
	return node, nil
}

// Update edits a comment's content. Only the original author may edit; anyone
// else gets ErrForbidden and the record stays unchanged.
func (s *CommentService) Update(id string, input UpdateCommentInput, requesterID string) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.First(&comment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("comment not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("load comment: %w", err)
	}

	if comment.AuthorID != requesterID {
		return nil, fmt.Errorf("you are not authorized to update this comment: %w", ErrForbidden)
	}

	comment.Content = input.Content
	if err := s.db.Save(&comment).Error; err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return &comment, nil
}

// Delete removes a comment. Replies are not cascaded; they become orphans and
// are promoted to roots on the next tree read.
func (s *CommentService) Delete(id, requesterID string) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.First(&comment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("comment not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("load comment: %w", err)
	}

	if comment.AuthorID != requesterID {
		return nil, fmt.Errorf("you are not authorized to delete this comment: %w", ErrForbidden)
	}

	if err := s.db.Delete(&comment).Error; err != nil {
		return nil, fmt.Errorf("delete comment: %w", err)
	}
	return &comment, nil
}

// BuildCommentTree converts a flat, parent-referencing comment list into a
// forest of nested nodes. A comment whose parent_id is nil is a root; a
// comment whose parent is absent from the input set is promoted to a root as
// well, so no comment is ever dropped on broken referential integrity. Sibling
// order follows input order.
func BuildCommentTree(comments []models.Comment) []*models.CommentNode {
	nodes := make(map[string]*models.CommentNode, len(comments))
	for i := range comments {
		nodes[comments[i].ID] = &models.CommentNode{
			Comment:       comments[i],
			ChildComments: []*models.CommentNode{},
		}
	}

	roots := make([]*models.CommentNode, 0)
	for i := range comments {
		node := nodes[comments[i].ID]
		if comments[i].ParentID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[*comments[i].ParentID]
		if !ok {
			// Orphan: the parent was deleted. Surface the comment at the
			// root level instead of losing it.
			roots = append(roots, node)
			continue
		}
		parent.ChildComments = append(parent.ChildComments, node)
	}
	return roots
}
