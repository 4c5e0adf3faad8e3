package models

import "time"

// Comment represents a reader reply to a post. Only approved comments are
// visible and only approved comments contribute to posts.comment_count; the
// counter is maintained on the approval transition, not on creation.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"index;not null" json:"post_id"`
	VisitorID string    `gorm:"size:64;not null" json:"-"`
	Author    string    `gorm:"size:64;not null" json:"author"`
	Email     string    `gorm:"size:255" json:"-"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Approved  bool      `gorm:"index;not null;default:false" json:"approved"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
