package models

import "time"

// Post represents one published blog entry together with its denormalized
// engagement counters. ViewCount and CommentCount are written only through
// atomic UPDATE statements; nothing in the application reads-then-writes them.
type Post struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Slug         string    `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	Category     string    `gorm:"size:32;index" json:"category"`
	Author       string    `gorm:"size:64" json:"author"`
	Published    bool      `gorm:"index;not null;default:false" json:"published"`
	ViewCount    int64     `gorm:"not null;default:0" json:"view_count"`
	CommentCount int64     `gorm:"not null;default:0" json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
