package models

import (
	"fmt"
	"time"
)

// Reaction kinds accepted by the react endpoint.
const (
	ReactionLike  = "like"
	ReactionLove  = "love"
	ReactionLaugh = "laugh"
)

// ReactionKinds lists every accepted reaction kind.
var ReactionKinds = []string{ReactionLike, ReactionLove, ReactionLaugh}

// ValidReactionKind reports whether kind is one of the accepted reactions.
func ValidReactionKind(kind string) bool {
	for _, k := range ReactionKinds {
		if kind == k {
			return true
		}
	}
	return false
}

// ReactionEvent is one deduplicated emoji reaction. A visitor gets one
// reaction of each kind per post, with no day window.
type ReactionEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"index;not null" json:"post_id"`
	VisitorID string    `gorm:"size:64;not null" json:"visitor_id"`
	Kind      string    `gorm:"size:16;not null" json:"kind"`
	DedupKey  string    `gorm:"size:128;uniqueIndex:idx_reaction_events_key;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// ReactionDedupKey derives the uniqueness key for a reaction.
func ReactionDedupKey(postID uint, kind, visitorID string) string {
	return fmt.Sprintf("%d:%s:%s", postID, kind, compact(visitorID))
}
