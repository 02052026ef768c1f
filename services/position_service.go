package services

import (
	"errors"
	"fmt"
	"math"

	"gorm.io/gorm"

	"pinpost-api/models"
)

// PositionService manages named geographic locations.
type PositionService struct {
	db *gorm.DB
}

// NewPositionService creates a PositionService.
func NewPositionService(db *gorm.DB) *PositionService {
	return &PositionService{db: db}
}

// CreatePositionInput carries a new position.
type CreatePositionInput struct {
	Name        string              `json:"name" binding:"required"`
	Address     string              `json:"address"`
	Description string              `json:"description"`
	Latitude    float64             `json:"latitude" binding:"min=-90,max=90"`
	Longitude   float64             `json:"longitude" binding:"min=-180,max=180"`
	Type        models.PositionType `json:"type" binding:"required"`
}

// Create inserts a position inside the caller-supplied transaction.
func (s *PositionService) Create(input CreatePositionInput, tx *gorm.DB) (*models.Position, error) {
	position := models.Position{
		Name:        input.Name,
		Address:     input.Address,
		Description: input.Description,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		Type:        input.Type,
	}
	if err := tx.Create(&position).Error; err != nil {
		return nil, fmt.Errorf("create position: %w", err)
	}
	return &position, nil
}

// GetByID returns one position with its directly attached media.
func (s *PositionService) GetByID(id string) (*models.Position, error) {
	var position models.Position
	if err := s.db.Preload("Medias", "owner_type = ?", models.MediaOwnerLocation).
		First(&position, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("position not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("load position: %w", err)
	}
	return &position, nil
}

// PagedPositions is a page of positions with its pagination envelope.
type PagedPositions struct {
	Data       []models.Position `json:"data"`
	Pagination Pagination        `json:"pagination"`
}

// GetAll returns one page of all positions, newest first.
func (s *PositionService) GetAll(page, limit int) (*PagedPositions, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	var total int64
	if err := s.db.Model(&models.Position{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count positions: %w", err)
	}

	var positions []models.Position
	if err := s.db.
		Preload("Medias", "owner_type = ?", models.MediaOwnerLocation).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&positions).Error; err != nil {
		return nil, fmt.Errorf("list positions: %w", err)
	}

	return &PagedPositions{
		Data: positions,
		Pagination: Pagination{
			Page:      page,
			Limit:     limit,
			Total:     total,
			TotalPage: int(math.Ceil(float64(total) / float64(limit))),
		},
	}, nil
}

// Exists reports whether the position id resolves to a row.
func (s *PositionService) Exists(id string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.Position{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check position: %w", err)
	}
	return count > 0, nil
}

// Delete removes a position inside the caller-supplied transaction.
func (s *PositionService) Delete(id string, tx *gorm.DB) (*models.Position, error) {
	var position models.Position
	if err := tx.First(&position, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("position not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("load position: %w", err)
	}
	if err := tx.Delete(&position).Error; err != nil {
		return nil, fmt.Errorf("delete position: %w", err)
	}
	return &position, nil
}
