package services

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pinpost-api/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Position{},
		&models.Post{},
		&models.Media{},
		&models.Comment{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := models.User{
		Email:        email,
		PasswordHash: "x",
		DisplayName:  "tester",
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func seedPosition(t *testing.T, db *gorm.DB, name string) *models.Position {
	t.Helper()
	position := models.Position{
		Name:      name,
		Latitude:  10.762622,
		Longitude: 106.660172,
		Type:      models.PositionTypeLandmark,
	}
	require.NoError(t, db.Create(&position).Error)
	return &position
}

func seedPost(t *testing.T, db *gorm.DB, authorID, locationID string) *models.Post {
	t.Helper()
	post := models.Post{
		Content:    "seeded post",
		AuthorID:   authorID,
		Visibility: models.VisibilityPublic,
		LocationID: locationID,
	}
	require.NoError(t, db.Create(&post).Error)
	return &post
}
