package main

import (
	"context"

	"pinpost-api/config"
	"pinpost-api/models"
	"pinpost-api/routes"
	"pinpost-api/services"
	"pinpost-api/storage"
	"pinpost-api/utils"
)

func main() {
	cfg := config.Load()

	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.Position{},
		&models.Post{},
		&models.Media{},
		&models.Comment{},
	)

	store, err := storage.NewDriveClient(context.Background(), cfg)
	if err != nil {
		utils.Sugar.Fatalf("drive client init failed: %v", err)
	}

	users := services.NewUserService(db)
	positions := services.NewPositionService(db)
	comments := services.NewCommentService(db)
	posts := services.NewPostService(db, store, users, positions)

	r := routes.SetupRouter(db, posts, comments, positions, users)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r, posts.DrainUploads); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
