package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pkruk/blogpulse/config"
	"github.com/pkruk/blogpulse/controllers"
	"github.com/pkruk/blogpulse/middleware"
	"github.com/pkruk/blogpulse/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
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
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		// fallback to default recovery if logger failed to init
		r.Use(gin.Recovery())
	}

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

	// Every request resolves (or is issued) a visitor identity
	r.Use(middleware.VisitorIdentity())

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})
	r.GET("/metrics", utils.MetricsHandler())

	eventController := controllers.NewEventController(db)
	postController := controllers.NewPostController(db)
	statsController := controllers.NewStatsController(db)
	adminController := controllers.NewAdminController(db)

	// Event ingestion: unauthenticated, rate limited, always success-shaped
	events := r.Group("/post/:slug")
	events.Use(middleware.RateLimitMiddleware())
	events.POST("/view", eventController.RecordView)
	events.POST("/react", eventController.RecordReaction)
	events.POST("/comments", postController.CreateComment)

	api := r.Group("/api/v1")

	api.GET("/posts", postController.ListPosts)
	api.GET("/posts/:slug", postController.GetPost)
	api.GET("/posts/:slug/stats", statsController.GetPostStats)
	api.GET("/stats", statsController.GetSiteStats)

	authGroup := api.Group("/admin")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/login", adminController.Login)

	admin := api.Group("/admin")
	admin.Use(middleware.AdminRequired())
	admin.POST("/logout", adminController.Logout)
	admin.GET("/comments", adminController.ListComments)
	admin.POST("/comments/:id/approve", adminController.ApproveComment)
	admin.DELETE("/comments/:id", adminController.DeleteComment)
	admin.POST("/posts", adminController.CreatePost)
	admin.PUT("/posts/:id", adminController.UpdatePost)
	admin.DELETE("/posts/:id", adminController.DeletePost)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
