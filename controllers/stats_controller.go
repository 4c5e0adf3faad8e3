package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pkruk/blogpulse/models"
	"github.com/pkruk/blogpulse/utils"
)

// statsCacheTTL is short because counters move on every accepted event.
const statsCacheTTL = 10 * time.Second

// StatsController exposes the aggregate counters for rendering.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// GetSiteStats returns site-wide totals.
func (s *StatsController) GetSiteStats(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes("cache:stats:site"); ok {
		ctx.Data(200, "application/json", b)
		return
	}

	var postCount int64
	var commentCount int64
	var viewsTotal int64
	var reactionsTotal int64

	// Fall back to 0 instead of failing the whole endpoint
	if err := s.db.Model(&models.Post{}).Where("published = ?", true).Count(&postCount).Error; err != nil {
		postCount = 0
	}
	if err := s.db.Model(&models.Comment{}).Where("approved = ?", true).Count(&commentCount).Error; err != nil {
		commentCount = 0
	}
	if err := s.db.Model(&models.Post{}).Select("COALESCE(SUM(view_count),0)").Scan(&viewsTotal).Error; err != nil {
		viewsTotal = 0
	}
	if err := s.db.Model(&models.PostReactionCount{}).Select("COALESCE(SUM(count),0)").Scan(&reactionsTotal).Error; err != nil {
		reactionsTotal = 0
	}

	payload := gin.H{
		"post_count":      postCount,
		"comment_count":   commentCount,
		"views_total":     viewsTotal,
		"reactions_total": reactionsTotal,
	}
	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
	utils.CacheSetJSON("cache:stats:site", wrapper, statsCacheTTL)
	utils.Success(ctx, payload)
}

// GetPostStats returns the counters for one published post.
func (s *StatsController) GetPostStats(ctx *gin.Context) {
	slug := strings.TrimSpace(ctx.Param("slug"))

	cacheKey := "cache:stats:post:" + slug
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(200, "application/json", b)
		return
	}

	var post models.Post
	if err := s.db.Where("slug = ? AND published = ?", slug, true).First(&post).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to load post")
		return
	}

	payload := gin.H{
		"views":     post.ViewCount,
		"comments":  post.CommentCount,
		"reactions": reactionCountsFor(s.db, post.ID),
	}
	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
	utils.CacheSetJSON(cacheKey, wrapper, statsCacheTTL)
	utils.Success(ctx, payload)
}
