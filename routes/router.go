package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"pinpost-api/config"
	"pinpost-api/controllers"
	"pinpost-api/middleware"
	"pinpost-api/services"
	"pinpost-api/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB, posts *services.PostService, comments *services.CommentService,
	positions *services.PositionService, users *services.UserService) *gin.Engine {

	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(utils.GinAccessLog(utils.Logger))
	r.Use(utils.GinRecovery(utils.Logger))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, "ok", gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(db, users)
	postController := controllers.NewPostController(db, posts)
	commentController := controllers.NewCommentController(db, comments)
	positionController := controllers.NewPositionController(db, positions)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)

	postGroup := api.Group("/post")
	postGroup.GET("", postController.ListPosts)
	postGroup.GET("/getByPositionId", postController.ListPostsByPosition)
	postGroup.GET("/:id", postController.GetPost)
	postGroup.POST("", middleware.AuthRequired(), middleware.RateLimitMiddleware(), postController.CreatePost)

	commentGroup := api.Group("/comment")
	commentGroup.GET("/post/:postId", commentController.GetCommentsByPost)
	commentGroup.GET("/:id", commentController.GetComment)
	commentGroup.POST("", middleware.AuthRequired(), commentController.CreateComment)
	commentGroup.PUT("/:id", middleware.AuthRequired(), commentController.UpdateComment)
	commentGroup.DELETE("/:id", middleware.AuthRequired(), commentController.DeleteComment)

	positionGroup := api.Group("/position")
	positionGroup.GET("", positionController.ListPositions)
	positionGroup.GET("/:id", positionController.GetPosition)
	positionGroup.POST("", middleware.AuthRequired(), positionController.CreatePosition)
	positionGroup.DELETE("/:id", middleware.AuthRequired(), positionController.DeletePosition)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Fail(ctx, http.StatusNotFound, "route not found")
	})

	return r
}
