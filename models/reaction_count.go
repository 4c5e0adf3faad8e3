package models

import "time"

// PostReactionCount stores the per-kind reaction counter for a post.
// Rows are maintained exclusively through an atomic upsert
// (INSERT .. ON DUPLICATE KEY UPDATE count = count +/- 1).
type PostReactionCount struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"index:idx_post_reaction,unique;not null" json:"post_id"`
	Kind      string    `gorm:"index:idx_post_reaction,unique;size:16;not null" json:"kind"`
	Count     int64     `gorm:"not null;default:0" json:"count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
