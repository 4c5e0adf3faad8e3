package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pkruk/blogpulse/config"
	"github.com/pkruk/blogpulse/middleware"
	"github.com/pkruk/blogpulse/models"
	"github.com/pkruk/blogpulse/utils"
)

// PostController serves the public read API and accepts comment submissions.
type PostController struct {
	db *gorm.DB
}

// NewPostController creates a new PostController instance.
func NewPostController(db *gorm.DB) *PostController {
	return &PostController{db: db}
}

// ListPosts returns paginated published posts.
func (p *PostController) ListPosts(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	category := strings.TrimSpace(ctx.Query("category"))

	// List payloads embed counters but are only invalidated by post CRUD;
	// counters shown here can lag accepted events by up to the TTL.
	cacheKey := fmt.Sprintf("cache:posts:list:cat=%s:page=%d:size=%d", category, page, pageSize)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(200, "application/json", b)
		return
	}

	query := p.db.Model(&models.Post{}).Where("published = ?", true).Order("created_at DESC")
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to count posts")
		return
	}

	var posts []models.Post
	offset := (page - 1) * pageSize
	if err := query.Offset(offset).Limit(pageSize).Find(&posts).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to list posts")
		return
	}

	payload := gin.H{
		"items": posts,
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": int((total + int64(pageSize) - 1) / int64(pageSize)),
		},
	}
	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
	utils.CacheSetJSON(cacheKey, wrapper, time.Minute)
	utils.Success(ctx, payload)
}

// GetPost returns one published post by slug with its counters, per-kind
// reaction counts and a page of approved comments.
func (p *PostController) GetPost(ctx *gin.Context) {
	slug := strings.TrimSpace(ctx.Param("slug"))
	cpage, csize := parsePagination(ctx.Query("cpage"), ctx.Query("cpage_size"))

	cacheKey := fmt.Sprintf("cache:post:detail:%s:cpage=%d:size=%d", slug, cpage, csize)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(200, "application/json", b)
		return
	}

	var post models.Post
	if err := p.db.Where("slug = ? AND published = ?", slug, true).First(&post).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to load post")
		return
	}

	var comments []models.Comment
	var commentsTotal int64
	cq := p.db.Model(&models.Comment{}).Where("post_id = ? AND approved = ?", post.ID, true)
	if err := cq.Count(&commentsTotal).Error; err == nil {
		_ = cq.Order("created_at DESC").Offset((cpage - 1) * csize).Limit(csize).Find(&comments).Error
	}

	payload := gin.H{
		"post":      post,
		"reactions": reactionCountsFor(p.db, post.ID),
		"comments": gin.H{
			"items":     comments,
			"page":      cpage,
			"page_size": csize,
			"total":     commentsTotal,
		},
	}
	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
	utils.CacheSetJSON(cacheKey, wrapper, time.Minute)
	utils.Success(ctx, payload)
}

// CreateComment handles POST /post/:slug/comments. The comment is stored
// pending unless CommentAutoApprove is set; comment_count moves only when a
// comment reaches the approved state, and then through a single atomic
// UPDATE — creation alone never touches the counter.
func (p *PostController) CreateComment(ctx *gin.Context) {
	var req struct {
		Author  string `json:"author" binding:"required,min=1,max=64"`
		Email   string `json:"email" binding:"omitempty,max=255"`
		Content string `json:"content" binding:"required,min=1"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	author := utils.SanitizeStrict(strings.TrimSpace(req.Author))
	content := utils.Sanitize(strings.TrimSpace(req.Content))
	if author == "" || content == "" {
		utils.Error(ctx, http.StatusBadRequest, 40021, "author and content cannot be empty")
		return
	}

	// Missing identity or unknown/unpublished slug: silent no-op, nothing
	// stored, same response shape as the happy path.
	vid := middleware.VisitorID(ctx)
	if vid == "" {
		utils.CountEvent("comment", utils.OutcomeSkipped)
		utils.Success(ctx, nil)
		return
	}

	var post models.Post
	if err := p.db.Select("id", "slug").Where("slug = ? AND published = ?", ctx.Param("slug"), true).First(&post).Error; err != nil {
		utils.CountEvent("comment", utils.OutcomeSkipped)
		utils.Success(ctx, nil)
		return
	}

	// Advisory cooldown against double-posting bursts. Unlike view/react
	// suppression this answers 429, not success: comments are interactive
	// and the author should be told to wait rather than lose the text.
	if !utils.AllowSubmission("comment", vid, post.ID, 5*time.Minute) {
		utils.Error(ctx, http.StatusTooManyRequests, 42902, "please wait before commenting again")
		return
	}

	autoApprove := config.Get().CommentAutoApprove
	comment := models.Comment{
		PostID:    post.ID,
		VisitorID: vid,
		Author:    author,
		Email:     strings.TrimSpace(req.Email),
		Content:   content,
		Approved:  autoApprove,
	}

	if err := p.db.Create(&comment).Error; err != nil {
		utils.Sugar.Errorf("comment insert failed post=%d: %v", post.ID, err)
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to create comment")
		return
	}

	status := "pending"
	if autoApprove {
		// Creation in the approved state is the approval transition
		if err := adjustPostCounter(p.db, post.ID, "comment_count", 1); err != nil {
			utils.Sugar.Errorf("comment counter increment failed post=%d: %v", post.ID, err)
			utils.Error(ctx, http.StatusInternalServerError, 50025, "failed to update comment counter")
			return
		}
		status = "published"
		utils.InvalidateByPrefix("cache:post:detail:" + post.Slug)
		utils.CacheDelete("cache:stats:post:" + post.Slug)
	}

	utils.CountEvent("comment", utils.OutcomeAccepted)
	utils.Success(ctx, gin.H{"status": status})
}
