package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"pinpost-api/models"
	"pinpost-api/utils"
)

// UserService handles account registration, credential checks, and the
// existence lookups other services consume as preconditions.
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a UserService.
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// RegisterInput carries a new account.
type RegisterInput struct {
	Email       string  `json:"email" binding:"required,email"`
	PhoneNumber *string `json:"phone_number"`
	Password    string  `json:"password" binding:"required"`
	DisplayName string  `json:"display_name"`
}

// Register creates an account inside the caller-supplied transaction.
func (s *UserService) Register(input RegisterInput, tx *gorm.DB) (*models.User, error) {
	var existing models.User
	if err := tx.Where("email = ?", input.Email).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("email already exists: %w", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	phone := input.PhoneNumber
	if phone != nil && *phone == "" {
		phone = nil
	}
	if phone != nil {
		if err := tx.Where("phone_number = ?", *phone).First(&existing).Error; err == nil {
			return nil, fmt.Errorf("phone number already exists: %w", ErrConflict)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("check phone number: %w", err)
		}
	}

	if len(input.Password) < 8 {
		return nil, fmt.Errorf("password is too weak: %w", ErrValidation)
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Email:        input.Email,
		PhoneNumber:  phone,
		PasswordHash: hash,
		DisplayName:  input.DisplayName,
	}
	if err := tx.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// Authenticate verifies email/password credentials and returns the account.
func (s *UserService) Authenticate(email, password string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("invalid email or password: %w", ErrForbidden)
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !utils.CheckPassword(user.PasswordHash, password) {
		return nil, fmt.Errorf("invalid email or password: %w", ErrForbidden)
	}
	return &user, nil
}

// GetByID returns one account.
func (s *UserService) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &user, nil
}

// Exists reports whether the user id resolves to an account.
func (s *UserService) Exists(id string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check user: %w", err)
	}
	return count > 0, nil
}
