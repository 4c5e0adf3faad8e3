package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pkruk/blogpulse/middleware"
	"github.com/pkruk/blogpulse/models"
	"github.com/pkruk/blogpulse/utils"
)

// EventController ingests view and reaction events. The endpoints are
// unauthenticated and always answer success-shaped on precondition failures
// and duplicates, so an anonymous caller cannot probe which slugs exist or
// whether a submission counted.
type EventController struct {
	db *gorm.DB
}

// NewEventController creates a new controller instance.
func NewEventController(db *gorm.DB) *EventController {
	return &EventController{db: db}
}

// RecordView handles POST /post/:slug/view.
//
// Dedup is enforced by the unique index on view_events.dedup_key, never by a
// check-then-insert: concurrent identical submissions resolve to exactly one
// inserted row, and only that one insert triggers the counter increment. The
// increment is a single atomic UPDATE and completes before the response.
func (e *EventController) RecordView(ctx *gin.Context) {
	vid := middleware.VisitorID(ctx)
	if vid == "" {
		utils.CountEvent("view", utils.OutcomeSkipped)
		utils.Success(ctx, nil)
		return
	}

	post, ok := e.publishedPost(ctx.Param("slug"))
	if !ok {
		utils.CountEvent("view", utils.OutcomeSkipped)
		utils.Success(ctx, nil)
		return
	}

	// Advisory guard: repeats within the window skip MySQL entirely.
	// Guard failure means proceed; the unique index stays authoritative.
	if !utils.AllowSubmission("view", vid, post.ID, utils.SubmitGuardTTL) {
		utils.CountEvent("view", utils.OutcomeSkipped)
		utils.Success(ctx, nil)
		return
	}

	day := models.Today()
	event := models.ViewEvent{
		PostID:    post.ID,
		VisitorID: vid,
		Day:       day,
		DedupKey:  models.ViewDedupKey(post.ID, vid, day),
	}

	if err := e.db.Create(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Expected path for repeat visits within the window
			utils.CountEvent("view", utils.OutcomeDuplicate)
			utils.Success(ctx, nil)
			return
		}
		utils.Sugar.Errorf("view event insert failed post=%d: %v", post.ID, err)
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to record view")
		return
	}

	if err := adjustPostCounter(e.db, post.ID, "view_count", 1); err != nil {
		utils.Sugar.Errorf("view counter increment failed post=%d: %v", post.ID, err)
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to update view counter")
		return
	}

	e.invalidatePost(post.Slug)
	utils.CountEvent("view", utils.OutcomeAccepted)
	utils.Success(ctx, nil)
}

// RecordReaction handles POST /post/:slug/react with body {"kind": "..."}.
// One reaction of each kind per visitor per post; the per-kind counter lives
// in post_reaction_counts and is bumped with an atomic upsert.
func (e *EventController) RecordReaction(ctx *gin.Context) {
	var req struct {
		Kind string `json:"kind"`
	}
	kind := ""
	if err := ctx.ShouldBindJSON(&req); err == nil {
		kind = strings.TrimSpace(req.Kind)
	}

	vid := middleware.VisitorID(ctx)
	if vid == "" || !models.ValidReactionKind(kind) {
		utils.CountEvent("reaction", utils.OutcomeSkipped)
		utils.Success(ctx, nil)
		return
	}

	post, ok := e.publishedPost(ctx.Param("slug"))
	if !ok {
		utils.CountEvent("reaction", utils.OutcomeSkipped)
		utils.Success(ctx, nil)
		return
	}

	if !utils.AllowSubmission("react:"+kind, vid, post.ID, utils.SubmitGuardTTL) {
		utils.CountEvent("reaction", utils.OutcomeSkipped)
		utils.Success(ctx, nil)
		return
	}

	event := models.ReactionEvent{
		PostID:    post.ID,
		VisitorID: vid,
		Kind:      kind,
		DedupKey:  models.ReactionDedupKey(post.ID, kind, vid),
	}

	if err := e.db.Create(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.CountEvent("reaction", utils.OutcomeDuplicate)
			utils.Success(ctx, nil)
			return
		}
		utils.Sugar.Errorf("reaction event insert failed post=%d kind=%s: %v", post.ID, kind, err)
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to record reaction")
		return
	}

	if err := e.incrementReactionCounter(post.ID, kind); err != nil {
		utils.Sugar.Errorf("reaction counter upsert failed post=%d kind=%s: %v", post.ID, kind, err)
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to update reaction counter")
		return
	}

	e.invalidatePost(post.Slug)
	utils.CountEvent("reaction", utils.OutcomeAccepted)
	utils.Success(ctx, nil)
}

// publishedPost resolves a slug to a published post, loading only the columns
// the ingest path needs.
func (e *EventController) publishedPost(slug string) (models.Post, bool) {
	var post models.Post
	err := e.db.Select("id", "slug").
		Where("slug = ? AND published = ?", strings.TrimSpace(slug), true).
		First(&post).Error
	return post, err == nil
}

// incrementReactionCounter bumps the per-kind counter row, creating it on
// first use. The upsert is atomic with respect to concurrent reactions.
func (e *EventController) incrementReactionCounter(postID uint, kind string) error {
	return e.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "post_id"}, {Name: "kind"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"count":      gorm.Expr("count + 1"),
			"updated_at": time.Now(),
		}),
	}).Create(&models.PostReactionCount{PostID: postID, Kind: kind, Count: 1}).Error
}

func (e *EventController) invalidatePost(slug string) {
	// Detail keys carry a pagination suffix, so prefix invalidation is required
	utils.InvalidateByPrefix("cache:post:detail:" + slug)
	utils.CacheDelete("cache:stats:post:" + slug)
	utils.InvalidateByPrefix("cache:stats:site")
}
