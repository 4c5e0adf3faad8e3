package controllers

import (
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

const adminTokenTTL = 24 * time.Hour

// AdminController covers moderator login and the authoring/moderation
// surface: post CRUD and the comment approval queue.
type AdminController struct {
	db *gorm.DB
}

// NewAdminController creates a new controller instance.
func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{db: db}
}

// Login authenticates the configured moderator account and issues a JWT.
func (a *AdminController) Login(ctx *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid request payload")
		return
	}

	cfg := config.Get()
	if cfg.AdminUsername == "" || cfg.AdminPasswordHash == "" ||
		req.Username != cfg.AdminUsername ||
		!utils.CheckPassword(cfg.AdminPasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40111, "invalid credentials")
		return
	}

	token, err := utils.GenerateToken(req.Username, adminTokenTTL)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to issue token")
		return
	}

	utils.Success(ctx, gin.H{"token": token, "expires_in": int(adminTokenTTL.Seconds())})
}

// Logout revokes the presented token until its natural expiration.
func (a *AdminController) Logout(ctx *gin.Context) {
	if token := ctx.GetString(middleware.ContextTokenKey); token != "" {
		utils.BlacklistToken(token, time.Now().Add(adminTokenTTL))
	}
	utils.Success(ctx, nil)
}

// ListComments returns the moderation queue, filtered by status.
func (a *AdminController) ListComments(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	status := strings.TrimSpace(ctx.DefaultQuery("status", "pending"))

	query := a.db.Model(&models.Comment{})
	switch status {
	case "pending":
		query = query.Where("approved = ?", false)
	case "approved":
		query = query.Where("approved = ?", true)
	case "all":
	default:
		utils.Error(ctx, http.StatusBadRequest, 40041, "invalid status filter")
		return
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to count comments")
		return
	}

	var comments []models.Comment
	if err := query.Order("created_at ASC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&comments).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to list comments")
		return
	}

	utils.Success(ctx, gin.H{
		"items": comments,
		"pagination": gin.H{
			"page":      page,
			"page_size": pageSize,
			"total":     total,
		},
	})
}

// ApproveComment flips a comment to approved and bumps comment_count.
//
// The transition gate is the WHERE approved = false predicate: the UPDATE
// reports one affected row for exactly one approval no matter how many times
// (or how concurrently) it is attempted, and only that one result drives the
// counter increment. Re-approving is a harmless no-op.
func (a *AdminController) ApproveComment(ctx *gin.Context) {
	var comment models.Comment
	if err := a.db.First(&comment, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40442, "comment not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50043, "failed to load comment")
		return
	}

	res := a.db.Model(&models.Comment{}).
		Where("id = ? AND approved = ?", comment.ID, false).
		Updates(map[string]interface{}{"approved": true, "updated_at": time.Now()})
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50044, "failed to approve comment")
		return
	}

	transitioned := res.RowsAffected == 1
	if transitioned {
		if err := adjustPostCounter(a.db, comment.PostID, "comment_count", 1); err != nil {
			utils.Sugar.Errorf("comment counter increment failed post=%d: %v", comment.PostID, err)
			utils.Error(ctx, http.StatusInternalServerError, 50045, "failed to update comment counter")
			return
		}
		a.invalidatePostByID(comment.PostID)
	}

	utils.Success(ctx, gin.H{"approved": true, "transitioned": transitioned})
}

// DeleteComment removes a comment. Deleting an approved comment applies the
// symmetric atomic decrement so comment_count keeps matching approved
// cardinality.
func (a *AdminController) DeleteComment(ctx *gin.Context) {
	var comment models.Comment
	if err := a.db.First(&comment, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40442, "comment not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50043, "failed to load comment")
		return
	}

	// Delete gated on the loaded approval state so a concurrent approval
	// cannot double-adjust the counter
	res := a.db.Where("id = ? AND approved = ?", comment.ID, comment.Approved).Delete(&models.Comment{})
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50046, "failed to delete comment")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusConflict, 40901, "comment state changed, retry")
		return
	}

	if comment.Approved {
		if err := adjustPostCounter(a.db, comment.PostID, "comment_count", -1); err != nil {
			utils.Sugar.Errorf("comment counter decrement failed post=%d: %v", comment.PostID, err)
			utils.Error(ctx, http.StatusInternalServerError, 50045, "failed to update comment counter")
			return
		}
		a.invalidatePostByID(comment.PostID)
	}

	utils.Success(ctx, nil)
}

// CreatePost creates a post with zeroed counters.
func (a *AdminController) CreatePost(ctx *gin.Context) {
	var req struct {
		Slug      string `json:"slug" binding:"required,min=1,max=255"`
		Title     string `json:"title" binding:"required,min=1,max=255"`
		Content   string `json:"content" binding:"required"`
		Category  string `json:"category" binding:"omitempty,max=32"`
		Author    string `json:"author" binding:"omitempty,max=64"`
		Published bool   `json:"published"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40042, "invalid request payload")
		return
	}

	post := models.Post{
		Slug:      strings.TrimSpace(req.Slug),
		Title:     utils.SanitizeStrict(strings.TrimSpace(req.Title)),
		Content:   utils.Sanitize(req.Content),
		Category:  strings.TrimSpace(req.Category),
		Author:    utils.SanitizeStrict(strings.TrimSpace(req.Author)),
		Published: req.Published,
	}

	if err := a.db.Create(&post).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50047, "failed to create post")
		return
	}

	utils.InvalidateByPrefix("cache:posts:list:")
	utils.Success(ctx, gin.H{"post": post})
}

// UpdatePost edits post content/metadata, including the published flag.
// Counters are never writable here.
func (a *AdminController) UpdatePost(ctx *gin.Context) {
	var post models.Post
	if err := a.db.First(&post, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40443, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50048, "failed to load post")
		return
	}

	var req struct {
		Title     *string `json:"title"`
		Content   *string `json:"content"`
		Category  *string `json:"category"`
		Author    *string `json:"author"`
		Published *bool   `json:"published"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40042, "invalid request payload")
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = utils.SanitizeStrict(strings.TrimSpace(*req.Title))
	}
	if req.Content != nil {
		updates["content"] = utils.Sanitize(*req.Content)
	}
	if req.Category != nil {
		updates["category"] = strings.TrimSpace(*req.Category)
	}
	if req.Author != nil {
		updates["author"] = utils.SanitizeStrict(strings.TrimSpace(*req.Author))
	}
	if req.Published != nil {
		updates["published"] = *req.Published
	}
	if len(updates) == 0 {
		utils.Success(ctx, gin.H{"post": post})
		return
	}

	if err := a.db.Model(&post).Updates(updates).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50049, "failed to update post")
		return
	}

	utils.InvalidateByPrefix("cache:posts:list:")
	utils.InvalidateByPrefix("cache:post:detail:" + post.Slug)
	utils.Success(ctx, gin.H{"post": post})
}

// DeletePost removes a post and purges its events, reaction counters and
// comments so no orphaned event rows survive the content item.
func (a *AdminController) DeletePost(ctx *gin.Context) {
	var post models.Post
	if err := a.db.First(&post, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40443, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50048, "failed to load post")
		return
	}

	err := a.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.ViewEvent{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.ReactionEvent{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostReactionCount{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to delete post")
		return
	}

	utils.InvalidateByPrefix("cache:posts:list:")
	utils.InvalidateByPrefix("cache:post:detail:" + post.Slug)
	utils.CacheDelete("cache:stats:post:" + post.Slug)
	utils.Success(ctx, nil)
}

func (a *AdminController) invalidatePostByID(postID uint) {
	var post models.Post
	if err := a.db.Select("slug").First(&post, postID).Error; err != nil {
		return
	}
	utils.InvalidateByPrefix("cache:post:detail:" + post.Slug)
	utils.CacheDelete("cache:stats:post:" + post.Slug)
}
