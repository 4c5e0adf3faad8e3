package models

import (
	"fmt"
	"strings"
	"time"
)

// DayLayout is the format of the per-day deduplication window.
const DayLayout = "2006-01-02"

// ViewEvent is one deduplicated page view. The unique index on DedupKey is
// the sole authority for deduplication: a second insert with the same key
// fails with a duplicate-key error and must not increment any counter.
type ViewEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"index;not null" json:"post_id"`
	VisitorID string    `gorm:"size:64;not null" json:"visitor_id"`
	Day       string    `gorm:"size:10;not null" json:"day"`
	DedupKey  string    `gorm:"size:128;uniqueIndex:idx_view_events_key;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// ViewDedupKey derives the deterministic uniqueness key for a page view:
// one view counts per (post, visitor, calendar day).
func ViewDedupKey(postID uint, visitorID, day string) string {
	return fmt.Sprintf("%d:%s:%s", postID, compact(day), compact(visitorID))
}

// Today returns the current dedup window in the server's local zone.
func Today() string {
	return time.Now().In(time.Local).Format(DayLayout)
}

func compact(s string) string {
	return strings.ReplaceAll(s, "-", "")
}
