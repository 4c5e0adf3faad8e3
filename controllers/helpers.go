package controllers

import (
	"strconv"

	"gorm.io/gorm"

	"github.com/pkruk/blogpulse/models"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

// adjustPostCounter applies counter := counter + delta on one post as a
// single UPDATE statement. Every counter mutation in the service goes
// through here (or the reaction upsert); nothing reads-then-writes.
func adjustPostCounter(db *gorm.DB, postID uint, column string, delta int) error {
	return db.Model(&models.Post{}).
		Where("id = ?", postID).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta)).Error
}

func parsePagination(pageStr, sizeStr string) (int, int) {
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(sizeStr)
	if err != nil || size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}

// reactionCountsFor returns kind -> count for a post, zero-filled for kinds
// without events yet.
func reactionCountsFor(db *gorm.DB, postID uint) map[string]int64 {
	counts := map[string]int64{}
	for _, k := range models.ReactionKinds {
		counts[k] = 0
	}
	var rows []models.PostReactionCount
	if err := db.Where("post_id = ?", postID).Find(&rows).Error; err == nil {
		for _, r := range rows {
			counts[r.Kind] = r.Count
		}
	}
	return counts
}
